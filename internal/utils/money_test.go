package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-90.625", "-90.63"},
		{"6250", "6250.00"},
		{"12.344", "12.34"},
		{"0.005", "0.01"},
	}
	for _, tt := range tests {
		got := FormatAmount(RoundCents(decimal.RequireFromString(tt.in)))
		if got != tt.want {
			t.Errorf("RoundCents(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1234.5", "1234.5", false},
		{"$1,234.50", "1234.5", false},
		{"(80.00)", "-80", false},
		{" -12 ", "-12", false},
		{"", "0", false},
		{"abc", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSumAmounts(t *testing.T) {
	if !SumAmounts().IsZero() {
		t.Error("empty sum should be zero")
	}
	got := SumAmounts(
		decimal.RequireFromString("10.50"),
		decimal.RequireFromString("-3.25"),
		decimal.RequireFromString("0.75"),
	)
	if !got.Equal(decimal.RequireFromString("8")) {
		t.Errorf("SumAmounts = %s, want 8", got)
	}
}

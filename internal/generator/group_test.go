package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/willfong/sample-data-generator/internal/models"
)

func newDef(payee, category, group string) models.Definition {
	return models.Definition{Payee: payee, Scheme: models.SchemeMonthly, Category: category, Group: group}
}

func TestPartition(t *testing.T) {
	defs := []models.Definition{
		newDef("", "Taxes:Medicare", "Paycheck"),
		newDef("Comcast", "Utilities:Internet", ""),
		newDef("Home Lending Co", "Housing:Mortgage Principal", "Mortgage"),
		newDef("Big Megacorp", "Salary:Regular", "Paycheck"),
		newDef("Pacific Power", "Utilities:Electricity", " "),
		newDef("", "Housing:PMI", "Mortgage"),
	}

	p, err := Partition(defs)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}

	if len(p.Solos) != 2 || p.Solos[0].Payee != "Comcast" || p.Solos[1].Payee != "Pacific Power" {
		t.Errorf("Solos = %+v", p.Solos)
	}
	if len(p.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(p.Groups))
	}

	paycheck := p.Groups[0]
	if paycheck.Key != "Paycheck" || paycheck.Main.Payee != "Big Megacorp" {
		t.Errorf("first group = %s with main %q", paycheck.Key, paycheck.Main.Payee)
	}
	// Members keep definition order, main included
	if len(paycheck.Members) != 2 || paycheck.Members[0].Category != "Taxes:Medicare" {
		t.Errorf("Paycheck members = %+v", paycheck.Members)
	}
	if p.Groups[1].Key != "Mortgage" || p.Groups[1].Main.Payee != "Home Lending Co" {
		t.Errorf("second group = %+v", p.Groups[1])
	}
	if p.UnitCount() != 4 {
		t.Errorf("UnitCount() = %d, want 4", p.UnitCount())
	}
}

func TestPartitionIntegrity(t *testing.T) {
	tests := []struct {
		name      string
		defs      []models.Definition
		want      error
		wantCount int
	}{
		{
			name: "no payee",
			defs: []models.Definition{
				newDef("", "Housing:PMI", "Mortgage"),
				newDef("", "Housing:Mortgage Interest", "Mortgage"),
			},
			want:      ErrGroupNoPayee,
			wantCount: 0,
		},
		{
			name: "whitespace payee does not count",
			defs: []models.Definition{
				newDef(" , ", "Housing:PMI", "Mortgage"),
			},
			want:      ErrGroupNoPayee,
			wantCount: 0,
		},
		{
			name: "multiple payees",
			defs: []models.Definition{
				newDef("Home Lending Co", "Housing:Mortgage Principal", "Mortgage"),
				newDef("Other Bank", "Housing:Mortgage Interest", "Mortgage"),
				newDef("", "Housing:PMI", "Mortgage"),
			},
			want:      ErrGroupMultiplePayees,
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(tt.defs)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var gErr *GroupIntegrityError
			if !errors.As(err, &gErr) {
				t.Fatalf("error %T is not a GroupIntegrityError", err)
			}
			if gErr.Group != "Mortgage" || gErr.PayeeCount != tt.wantCount {
				t.Errorf("GroupIntegrityError = %+v", gErr)
			}
			if !strings.Contains(err.Error(), `"Mortgage"`) {
				t.Errorf("message %q does not name the group", err.Error())
			}
		})
	}
}

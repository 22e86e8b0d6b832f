package ofx

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/willfong/sample-data-generator/internal/models"
)

func TestExport(t *testing.T) {
	txs := []models.Transaction{
		{
			Payee:     "Comcast",
			Timestamp: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
			Amount:    decimal.RequireFromString("-80"),
			Category:  "Utilities:Internet",
		},
		{
			Payee:         "Big Megacorp",
			Timestamp:     time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			Amount:        decimal.RequireFromString("5034.37"),
			BankReference: "4417",
		},
	}

	var buf bytes.Buffer
	if err := Export(&buf, txs); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, header) {
		t.Error("output does not start with the header template")
	}
	if !strings.HasSuffix(out, footer) {
		t.Error("output does not end with the footer template")
	}

	body := strings.TrimSuffix(strings.TrimPrefix(out, header), footer)
	want := "<DTSTART>20240115\n" +
		"<DTEND>20240304\n" +
		"<STMTTRN>\n" +
		"<TRNTYPE>DEBIT\n" +
		"<DTPOSTED>20240304000000.000\n" +
		"<FITID>2024030400000001\n" +
		"<TRNAMT>-80.00\n" +
		"<MEMO>Comcast\n" +
		"</STMTTRN>\n" +
		"<STMTTRN>\n" +
		"<TRNTYPE>CREDIT\n" +
		"<DTPOSTED>20240115000000.000\n" +
		"<FITID>2024011500000002\n" +
		"<TRNAMT>5034.37\n" +
		"<MEMO>Big Megacorp\n" +
		"<REFNUM>4417\n" +
		"</STMTTRN>\n"
	if body != want {
		t.Errorf("body mismatch\ngot:\n%s\nwant:\n%s", body, want)
	}
}

func TestExportEscapesMemo(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, []models.Transaction{{
		Payee:     "Barnes & Noble",
		Timestamp: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("-12.5"),
	}})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<MEMO>Barnes &amp; Noble\n") {
		t.Error("ampersand in payee not escaped")
	}
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, nil); !errors.Is(err, ErrNoTransactions) {
		t.Errorf("error = %v, want ErrNoTransactions", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written for an empty export")
	}
}

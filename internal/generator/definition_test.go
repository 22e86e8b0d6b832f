package generator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/willfong/sample-data-generator/internal/models"
	"github.com/willfong/sample-data-generator/internal/utils"
)

const testYear = 2024

func TestGenerateYearlyNoJitter(t *testing.T) {
	def := models.Definition{
		Payee:        "County Assessor",
		Scheme:       models.SchemeYearly,
		DateJitter:   models.JitterNone,
		AmountJitter: models.JitterNone,
		Category:     "Taxes:Property",
		YearlyAmount: decimal.RequireFromString("-4800.00"),
	}

	txs, err := NewDefinitionGenerator(utils.NewRandom(42), testYear).Generate(def, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}

	tx := txs[0]
	if !tx.Amount.Equal(def.YearlyAmount) {
		t.Errorf("Amount = %s, want %s", tx.Amount, def.YearlyAmount)
	}
	if tx.Category != def.Category || tx.Payee != def.Payee {
		t.Errorf("transaction = %+v", tx)
	}
	if tx.Timestamp.Year() != testYear {
		t.Errorf("Timestamp %s outside %d", tx.Timestamp, testYear)
	}
}

func TestGenerateYearlyAmountJitter(t *testing.T) {
	yearly := decimal.NewFromInt(1000)

	for _, jitter := range []models.Jitter{models.JitterLow, models.JitterModerate, models.JitterHigh} {
		t.Run(jitter.String(), func(t *testing.T) {
			def := models.Definition{
				Payee:        "Ski Resort",
				Scheme:       models.SchemeYearly,
				AmountJitter: jitter,
				Category:     "Travel:Vacation",
				YearlyAmount: yearly,
			}
			factor := decimal.NewFromFloat(jitter.AmountFactor())
			tolerance := yearly.Mul(factor).Div(decimal.NewFromInt(5))
			lowest := yearly.Mul(decimal.NewFromInt(1).Sub(factor))
			highest := yearly.Mul(decimal.NewFromInt(1).Add(factor))

			rng := utils.NewRandom(7)
			distinct := make(map[string]bool)
			var lo, hi decimal.Decimal
			for i := 0; i < 100; i++ {
				txs, err := NewDefinitionGenerator(rng, testYear).Generate(def, nil)
				if err != nil {
					t.Fatalf("Generate() error = %v", err)
				}
				amt := txs[0].Amount
				if i == 0 {
					lo, hi = amt, amt
				}
				lo = decimal.Min(lo, amt)
				hi = decimal.Max(hi, amt)
				distinct[amt.String()] = true
			}

			if len(distinct) < 2 {
				t.Error("amounts did not vary")
			}
			if lo.Sub(lowest).Abs().GreaterThan(tolerance) {
				t.Errorf("min %s not within %s of %s", lo, tolerance, lowest)
			}
			if hi.Sub(highest).Abs().GreaterThan(tolerance) {
				t.Errorf("max %s not within %s of %s", hi, tolerance, highest)
			}
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		def  models.Definition
		want error
	}{
		{
			name: "invalid scheme",
			def:  models.Definition{Payee: "Nobody", Scheme: models.SchemeInvalid},
			want: ErrInvalidScheme,
		},
		{
			name: "unknown scheme",
			def:  models.Definition{Payee: "Nobody", Scheme: models.Scheme(99)},
			want: models.ErrSchemeNotImplemented,
		},
		{
			name: "semimonthly with date jitter",
			def:  models.Definition{Payee: "Big Megacorp", Scheme: models.SchemeSemiMonthly, DateJitter: models.JitterLow},
			want: ErrUnimplementedCombination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDefinitionGenerator(utils.NewRandom(1), testYear).Generate(tt.def, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error %T is not a ConfigurationError", err)
			}
			if cfgErr.Scheme != tt.def.Scheme {
				t.Errorf("ConfigurationError.Scheme = %s", cfgErr.Scheme)
			}
		})
	}
}

func TestGenerateSemiMonthly(t *testing.T) {
	def := models.Definition{
		Payee:        "Big Megacorp",
		Scheme:       models.SchemeSemiMonthly,
		DateJitter:   models.JitterNone,
		Category:     "Salary:Regular",
		YearlyAmount: decimal.NewFromInt(150000),
	}

	txs, err := NewDefinitionGenerator(utils.NewRandom(3), testYear).Generate(def, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(txs) != 24 {
		t.Fatalf("got %d transactions, want 24", len(txs))
	}
	for i, tx := range txs {
		wantDay := 1
		if i%2 == 1 {
			wantDay = 15
		}
		if tx.Timestamp.Day() != wantDay || int(tx.Timestamp.Month()) != i/2+1 {
			t.Errorf("transaction %d on %s", i, tx.Timestamp.Format("2006-01-02"))
		}
		if !tx.Amount.Equal(decimal.NewFromInt(6250)) {
			t.Errorf("transaction %d amount = %s, want 6250", i, tx.Amount)
		}
	}
}

func TestGenerateManyPerWeek(t *testing.T) {
	def := models.Definition{
		Payee:        "Safeway, Trader Joe's ,Whole Foods Market,",
		Scheme:       models.SchemeManyPerWeek,
		DateJitter:   models.JitterNone, // always treated as High
		AmountJitter: models.JitterModerate,
		Category:     "Food:Groceries",
		YearlyAmount: decimal.NewFromInt(-12000),
	}

	txs, err := NewDefinitionGenerator(utils.NewRandom(11), testYear).Generate(def, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(txs) != 156 {
		t.Fatalf("got %d transactions, want 156", len(txs))
	}

	payees := map[string]int{}
	for i, tx := range txs {
		if i > 0 && tx.Timestamp.Before(txs[i-1].Timestamp) {
			t.Fatalf("transactions not sorted at %d", i)
		}
		if tx.Timestamp.Year() != testYear {
			t.Errorf("transaction %d outside %d: %s", i, testYear, tx.Timestamp)
		}
		payees[tx.Payee]++
	}

	for _, name := range []string{"Safeway", "Trader Joe's", "Whole Foods Market"} {
		if payees[name] == 0 {
			t.Errorf("payee %q never chosen", name)
		}
	}
	if len(payees) != 3 {
		t.Errorf("unexpected payees: %v", payees)
	}

	// High date jitter spreads a week's three occurrences over different days
	days := map[int]bool{}
	for _, tx := range txs {
		days[tx.Timestamp.YearDay()] = true
	}
	if len(days) <= 52 {
		t.Errorf("only %d distinct days; date jitter was not forced", len(days))
	}
}

func TestGenerateWithSiblings(t *testing.T) {
	main := models.Definition{
		Payee:        "Home Lending Co",
		Scheme:       models.SchemeMonthly,
		DateJitter:   models.JitterNone,
		Category:     "Housing:Mortgage Principal",
		YearlyAmount: decimal.NewFromInt(-10800),
		Group:        "Mortgage",
	}
	interest := models.Definition{
		Scheme:       models.SchemeYearly, // ignored; main drives the schedule
		AmountJitter: models.JitterLow,
		Category:     "Housing:Mortgage Interest",
		YearlyAmount: decimal.NewFromInt(-13200),
		Group:        "Mortgage",
	}
	pmi := models.Definition{
		Category:     "Housing:PMI",
		YearlyAmount: decimal.NewFromInt(-600),
		Group:        "Mortgage",
	}

	txs, err := NewDefinitionGenerator(utils.NewRandom(5), testYear).
		Generate(main, []models.Definition{main, interest, pmi})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(txs) != 12 {
		t.Fatalf("got %d transactions, want 12", len(txs))
	}

	for i, tx := range txs {
		if len(tx.Splits) != 3 {
			t.Fatalf("transaction %d has %d splits", i, len(tx.Splits))
		}
		if tx.Category != "" || tx.Payee != "Home Lending Co" {
			t.Errorf("transaction %d = %+v", i, tx)
		}
		sum := decimal.Zero
		for _, s := range tx.Splits {
			sum = sum.Add(s.Amount)
		}
		if !sum.Equal(tx.Amount) {
			t.Errorf("transaction %d amount %s != split sum %s", i, tx.Amount, sum)
		}
		if tx.Splits[0].Category != "Housing:Mortgage Principal" || !tx.Splits[0].Amount.Equal(decimal.NewFromInt(-900)) {
			t.Errorf("principal split = %+v", tx.Splits[0])
		}
		if !tx.Splits[2].Amount.Equal(decimal.NewFromInt(-50)) {
			t.Errorf("PMI split = %+v", tx.Splits[2])
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	def := models.Definition{
		Payee:        "Starbucks,Peet's Coffee",
		Scheme:       models.SchemeWeekly,
		DateJitter:   models.JitterModerate,
		AmountJitter: models.JitterHigh,
		Category:     "Food:Coffee",
		YearlyAmount: decimal.NewFromInt(-2400),
	}

	a, _ := NewDefinitionGenerator(utils.NewRandom(99), testYear).Generate(def, nil)
	b, _ := NewDefinitionGenerator(utils.NewRandom(99), testYear).Generate(def, nil)

	for i := range a {
		if !a[i].Timestamp.Equal(b[i].Timestamp) || !a[i].Amount.Equal(b[i].Amount) || a[i].Payee != b[i].Payee {
			t.Fatalf("seeded runs differ at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

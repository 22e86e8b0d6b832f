package generator

import (
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/willfong/sample-data-generator/internal/models"
	"github.com/willfong/sample-data-generator/internal/utils"
)

func TestGetWorkerCount(t *testing.T) {
	if got := GetWorkerCount(4); got != 4 {
		t.Errorf("GetWorkerCount(4) = %d", got)
	}
	if got := GetWorkerCount(0); got != runtime.NumCPU() {
		t.Errorf("GetWorkerCount(0) = %d, want %d", got, runtime.NumCPU())
	}
}

func TestBuildWorkUnits(t *testing.T) {
	p, err := Partition([]models.Definition{
		newDef("", "Housing:PMI", "Mortgage"),
		newDef("Comcast", "Utilities:Internet", ""),
		newDef("Home Lending Co", "Housing:Mortgage Principal", "Mortgage"),
	})
	if err != nil {
		t.Fatal(err)
	}

	units := BuildWorkUnits(p, utils.NewRandom(42))
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	if units[0].IsGroup() || units[0].Main.Payee != "Comcast" {
		t.Errorf("first unit should be the solo, got %+v", units[0])
	}
	if !units[1].IsGroup() || units[1].Main.Payee != "Home Lending Co" || len(units[1].Siblings) != 2 {
		t.Errorf("second unit should be the group, got %+v", units[1])
	}
	if units[0].RNG.Seed() == units[1].RNG.Seed() {
		t.Error("units share an RNG seed")
	}

	again := BuildWorkUnits(p, utils.NewRandom(42))
	for i := range units {
		if units[i].RNG.Seed() != again[i].RNG.Seed() {
			t.Errorf("unit %d RNG not reproducible", i)
		}
	}
}

func TestRunWorkUnits(t *testing.T) {
	p, _ := Partition([]models.Definition{
		newDef("Comcast", "Utilities:Internet", ""),
		newDef("Pacific Power", "Utilities:Electricity", ""),
		newDef("Neighborhood HOA", "Housing:HOA", ""),
	})

	var calls, lastDone int
	results, err := RunWorkUnits(BuildWorkUnits(p, utils.NewRandom(1)), testYear, 2, func(done, total int) {
		calls++
		lastDone = done
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
	})
	if err != nil {
		t.Fatalf("RunWorkUnits() error = %v", err)
	}
	if calls != 3 || lastDone != 3 {
		t.Errorf("progress called %d times, last done %d", calls, lastDone)
	}
	for i, r := range results {
		if r.Unit != i || len(r.Transactions) != 12 {
			t.Errorf("result %d = unit %d with %d transactions", i, r.Unit, len(r.Transactions))
		}
	}
}

func TestRunWorkUnitsError(t *testing.T) {
	bad := newDef("Nobody", "Misc", "")
	bad.Scheme = models.SchemeInvalid

	p, _ := Partition([]models.Definition{newDef("Comcast", "Utilities:Internet", ""), bad})
	_, err := RunWorkUnits(BuildWorkUnits(p, utils.NewRandom(1)), testYear, 4, nil)
	if !errors.Is(err, ErrInvalidScheme) {
		t.Errorf("error = %v, want ErrInvalidScheme", err)
	}
}

func TestRunWorkUnitsErrorNames(t *testing.T) {
	solo := newDef("a", "Misc", "")
	solo.Scheme = models.SchemeSemiMonthly
	solo.DateJitter = models.JitterLow

	grouped := newDef("Home Lending Co", "Housing:Mortgage Principal", "Mortgage")
	grouped.Scheme = models.SchemeSemiMonthly
	grouped.DateJitter = models.JitterLow

	tests := []struct {
		name string
		defs []models.Definition
		want string
	}{
		{"solo", []models.Definition{solo}, `definition "a" (scheme SemiMonthly, date jitter Low): `},
		{"group", []models.Definition{grouped, newDef("", "Housing:PMI", "Mortgage")}, `group "Mortgage": definition "Home Lending Co" (scheme SemiMonthly, date jitter Low): `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Partition(tt.defs)
			if err != nil {
				t.Fatal(err)
			}
			_, err = RunWorkUnits(BuildWorkUnits(p, utils.NewRandom(1)), testYear, 2, nil)
			if !errors.Is(err, ErrUnimplementedCombination) {
				t.Fatalf("error = %v, want ErrUnimplementedCombination", err)
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("error = %q, want prefix %q", err.Error(), tt.want)
			}
			if n := strings.Count(err.Error(), "definition "); n != 1 {
				t.Errorf("error names the definition %d times: %q", n, err.Error())
			}
		})
	}
}

func TestRunWorkUnitsEmpty(t *testing.T) {
	results, err := RunWorkUnits(nil, testYear, 4, nil)
	if err != nil || len(results) != 0 {
		t.Errorf("RunWorkUnits(nil) = %v, %v", results, err)
	}
}

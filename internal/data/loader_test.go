package data

import (
	"testing"

	"github.com/willfong/sample-data-generator/internal/models"
)

func TestLoadSampleDefinitions(t *testing.T) {
	defs, err := Load()
	if err != nil {
		t.Fatalf("Failed to load sample definitions: %v", err)
	}

	if len(defs) != 26 {
		t.Fatalf("Expected 26 definitions, got %d", len(defs))
	}

	t.Run("every scheme is covered", func(t *testing.T) {
		seen := make(map[models.Scheme]bool)
		for _, d := range defs {
			if d.Scheme == models.SchemeInvalid {
				t.Errorf("definition %q/%q has no scheme", d.Payee, d.Category)
			}
			seen[d.Scheme] = true
		}
		for s := models.SchemeManyPerWeek; s <= models.SchemeYearly; s++ {
			if !seen[s] {
				t.Errorf("no definition uses %s", s)
			}
		}
	})

	t.Run("groups", func(t *testing.T) {
		members := make(map[string]int)
		mains := make(map[string]int)
		for _, d := range defs {
			if d.IsSolo() {
				continue
			}
			members[d.Group]++
			if d.HasPayee() {
				mains[d.Group]++
			}
		}
		if members["Paycheck"] != 10 || members["Mortgage"] != 6 {
			t.Errorf("group sizes = %v", members)
		}
		for g, n := range mains {
			if n != 1 {
				t.Errorf("group %s has %d payee-bearing members", g, n)
			}
		}
	})

	t.Run("multiple payees", func(t *testing.T) {
		payees := defs[0].Payees()
		if len(payees) != 3 || payees[1] != "Trader Joe's" {
			t.Errorf("Payees() = %q", payees)
		}
	})
}

func TestLoadReturnsCopy(t *testing.T) {
	first, _ := Load()
	first[0].Payee = "changed"

	second, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if second[0].Payee == "changed" {
		t.Error("Load should return an independent copy")
	}
}

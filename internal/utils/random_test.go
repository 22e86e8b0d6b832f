package utils

import (
	"testing"
)

func TestRandomReproducibility(t *testing.T) {
	seed := int64(42)

	rng1 := NewRandom(seed)
	rng2 := NewRandom(seed)

	t.Run("IntN", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v1 := rng1.IntN(365)
			v2 := rng2.IntN(365)
			if v1 != v2 {
				t.Errorf("Mismatch at iteration %d: %d != %d", i, v1, v2)
				return
			}
		}
	})

	rng1 = NewRandom(seed)
	rng2 = NewRandom(seed)

	t.Run("Float64", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v1 := rng1.Float64()
			v2 := rng2.Float64()
			if v1 != v2 {
				t.Errorf("Mismatch at iteration %d: %f != %f", i, v1, v2)
				return
			}
		}
	})
}

func TestRandomSeedStorage(t *testing.T) {
	rng := NewRandom(12345)
	if rng.Seed() != 12345 {
		t.Errorf("Expected seed 12345, got %d", rng.Seed())
	}

	rng = NewRandom(0)
	if rng.Seed() == 0 {
		t.Error("Expected non-zero auto-generated seed")
	}
}

func TestRandomForkN(t *testing.T) {
	rng1 := NewRandom(42)
	rng2 := NewRandom(42)

	forks1 := rng1.ForkN(5)
	forks2 := rng2.ForkN(5)

	// Each corresponding fork should produce the same sequence
	for i := range forks1 {
		for j := 0; j < 100; j++ {
			if forks1[i].IntN(1000) != forks2[i].IntN(1000) {
				t.Errorf("Fork %d sequences don't match at iteration %d", i, j)
				return
			}
		}
	}

	// Sibling forks should not share a seed
	if forks1[0].Seed() == forks1[1].Seed() {
		t.Error("sibling forks share a seed")
	}
}

func TestRandomIntNBounds(t *testing.T) {
	rng := NewRandom(42)

	if v := rng.IntN(0); v != 0 {
		t.Errorf("IntN(0) = %d, want 0", v)
	}
	if v := rng.IntN(-3); v != 0 {
		t.Errorf("IntN(-3) = %d, want 0", v)
	}
	for i := 0; i < 1000; i++ {
		v := rng.IntN(7)
		if v < 0 || v >= 7 {
			t.Fatalf("IntN(7) returned %d", v)
		}
	}
}

func TestRandomPick(t *testing.T) {
	rng := NewRandom(42)

	t.Run("PickString", func(t *testing.T) {
		slice := []string{"Safeway", "Trader Joe's", "Whole Foods Market"}
		counts := make(map[string]int)
		for i := 0; i < 1000; i++ {
			counts[rng.PickString(slice)]++
		}
		for _, s := range slice {
			if counts[s] == 0 {
				t.Errorf("Element '%s' was never picked", s)
			}
		}
	})

	t.Run("PickString empty", func(t *testing.T) {
		if v := rng.PickString(nil); v != "" {
			t.Errorf("PickString on empty slice returned '%s', expected ''", v)
		}
	})
}

func TestRandomNumericString(t *testing.T) {
	rng := NewRandom(42)

	str := rng.NumericString(10)
	if len(str) != 10 {
		t.Errorf("NumericString(10) returned length %d", len(str))
	}

	for _, c := range str {
		if c < '0' || c > '9' {
			t.Errorf("NumericString contained non-digit: %c", c)
		}
	}
}

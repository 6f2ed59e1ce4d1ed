// Package testutil provides deterministic sampling grids, reproducible noise
// and tolerance assertions shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
	"testing"
)

// Linspace returns n evenly spaced samples covering [lo, hi] inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}

	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}

	return out
}

// DeterministicNoise returns fixed-seed white noise in [-amplitude, amplitude].
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// RequireNear fails t unless got is within eps of want.
func RequireNear(t *testing.T, label string, got, want, eps float64) {
	t.Helper()

	if math.IsNaN(got) || math.Abs(got-want) > eps {
		t.Fatalf("%s: got %v, want %v (eps %v)", label, got, want, eps)
	}
}

// RequireSliceNear fails t if got and want differ in length or any element
// pair differs by more than eps.
func RequireSliceNear(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if math.IsNaN(got[i]) || math.Abs(got[i]-want[i]) > eps {
			t.Fatalf("index %d: got %v, want %v (eps %v)", i, got[i], want[i], eps)
		}
	}
}

// RequireFraction fails t unless v lies in [0, 1].
func RequireFraction(t *testing.T, label string, v float64) {
	t.Helper()

	if math.IsNaN(v) || v < 0 || v > 1 {
		t.Fatalf("%s: %v is not a fraction in [0, 1]", label, v)
	}
}

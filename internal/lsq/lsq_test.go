package lsq

import (
	"math"
	"testing"
)

func TestSolveLine(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 2.5*x - 1.25
	}

	residual := func(dst, p []float64) {
		for i, x := range xs {
			dst[i] = p[0]*x + p[1] - ys[i]
		}
	}

	sol, err := Solve(residual, len(xs), []float64{1, 0}, true)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(sol.Params[0]-2.5) > 1e-6 || math.Abs(sol.Params[1]+1.25) > 1e-6 {
		t.Fatalf("params = %v, want [2.5 -1.25]", sol.Params)
	}

	if len(sol.StdErr) != 2 {
		t.Fatalf("stderr = %v, want 2 entries", sol.StdErr)
	}

	// A noiseless linear problem has essentially zero parameter error.
	for i, e := range sol.StdErr {
		if math.IsNaN(e) || e > 1e-5 {
			t.Fatalf("stderr[%d] = %v, want ~0", i, e)
		}
	}

	if sol.Raw == nil {
		t.Fatal("raw solver results missing")
	}
}

func TestSolveExponential(t *testing.T) {
	xs := []float64{0, 0.2, 0.4, 0.6, 0.8, 1.0, 1.5, 2.0}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3 * math.Exp(-1.5*x)
	}

	residual := func(dst, p []float64) {
		for i, x := range xs {
			dst[i] = p[0]*math.Exp(-p[1]*x) - ys[i]
		}
	}

	sol, err := Solve(residual, len(xs), []float64{1, 1}, false)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(sol.Params[0]-3) > 1e-4 || math.Abs(sol.Params[1]-1.5) > 1e-4 {
		t.Fatalf("params = %v, want [3 1.5]", sol.Params)
	}

	if sol.StdErr != nil {
		t.Fatalf("stderr = %v, want nil when not requested", sol.StdErr)
	}

	if r2 := RSquared(sol.Residuals, ys); r2 < 0.999999 {
		t.Fatalf("R2 = %v, want ~1", r2)
	}
}

func TestRSquaredPerfect(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	residuals := []float64{0, 0, 0, 0}

	if r2 := RSquared(residuals, values); r2 != 1 {
		t.Fatalf("R2 = %v, want 1", r2)
	}
}

func TestRSquaredDegraded(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	residuals := []float64{0.5, -0.5, 0.5, -0.5}

	r2 := RSquared(residuals, values)
	if r2 >= 1 || r2 <= 0 {
		t.Fatalf("R2 = %v, want in (0, 1)", r2)
	}
}

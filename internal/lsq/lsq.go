// Package lsq wraps the Levenberg-Marquardt solver behind the small surface
// the fitting packages need: residual-function solving, goodness of fit and
// optional parameter standard errors.
package lsq

import (
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	defaultIterations = 200
	defaultTau        = 1e-6
	defaultEps        = 1e-8
	objectiveTol      = 1e-16
)

// Residual evaluates a model's residual vector at params, writing
// model - data into dst. len(dst) is fixed per problem.
type Residual func(dst, params []float64)

// Solution is the outcome of one solver run.
type Solution struct {
	Params    []float64
	Residuals []float64 // model - data at the solution
	StdErr    []float64 // nil unless requested
	Raw       *lm.Result
}

// Solve runs Levenberg-Marquardt on residual, a size-long residual vector over
// len(init) parameters, starting from init. The numerical Jacobian is used.
// Solver failures are wrapped with %w and otherwise passed through unmodified.
//
// When withErrors is set, parameter standard errors are estimated from the
// residual variance and the (J^T J)^-1 covariance at the solution.
func Solve(residual Residual, size int, init []float64, withErrors bool) (*Solution, error) {
	eval := func(dst, params []float64) { residual(dst, params) }
	numJac := lm.NumJac{Func: eval}

	problem := lm.LMProblem{
		Dim:        len(init),
		Size:       size,
		Func:       eval,
		Jac:        numJac.Jac,
		InitParams: append([]float64(nil), init...),
		Tau:        defaultTau,
		Eps1:       defaultEps,
		Eps2:       defaultEps,
	}

	results, err := lm.LM(problem, &lm.Settings{Iterations: defaultIterations, ObjectiveTol: objectiveTol})
	if err != nil {
		return nil, fmt.Errorf("lsq: solver failed: %w", err)
	}

	sol := &Solution{
		Params:    append([]float64(nil), results.X...),
		Residuals: make([]float64, size),
		Raw:       results,
	}
	residual(sol.Residuals, sol.Params)

	if withErrors {
		sol.StdErr = standardErrors(residual, sol.Params, sol.Residuals)
	}

	return sol, nil
}

// RSquared returns the coefficient of determination for a solved residual
// vector against the observed values: 1 - SS_res / SS_tot.
func RSquared(residuals, values []float64) float64 {
	estimates := make([]float64, len(values))
	floats.AddTo(estimates, values, residuals)

	return stat.RSquaredFrom(estimates, values, nil)
}

// standardErrors estimates per-parameter standard errors at the solution via
// the unbiased residual variance and the diagonal of sigma^2 (J^T J)^-1.
// Returns nil when the problem has no spare degrees of freedom or the normal
// matrix is singular.
func standardErrors(residual Residual, params, residuals []float64) []float64 {
	m := len(residuals)
	n := len(params)

	if m <= n {
		return nil
	}

	jac := numJacobian(residual, params, m)

	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)

	var inv mat.Dense
	if err := inv.Inverse(&jtj); err != nil {
		return nil
	}

	sigma2 := floats.Dot(residuals, residuals) / float64(m-n)

	errs := make([]float64, n)
	for i := range errs {
		errs[i] = math.Sqrt(sigma2 * inv.At(i, i))
	}

	return errs
}

// numJacobian computes a forward-difference Jacobian (m rows, one column per
// parameter) of residual at params.
func numJacobian(residual Residual, params []float64, m int) *mat.Dense {
	n := len(params)
	jac := mat.NewDense(m, n, nil)

	base := make([]float64, m)
	residual(base, params)

	shifted := make([]float64, m)
	probe := append([]float64(nil), params...)

	for c := 0; c < n; c++ {
		h := 1e-7 * math.Max(math.Abs(params[c]), 1)

		probe[c] = params[c] + h
		residual(shifted, probe)
		probe[c] = params[c]

		for r := 0; r < m; r++ {
			jac.Set(r, c, (shifted[r]-base[r])/h)
		}
	}

	return jac
}

package polariton

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrMismatchedModes reports coupling and mode-energy lists of different
// lengths passed to Eigenvalues.
var ErrMismatchedModes = errors.New("polariton: coupling and mode-energy counts differ")

// Branches returns the two-level lower and upper polariton energies for a
// cavity mode at eCav coupled to a molecular mode at eVib with Rabi
// splitting omega:
//
//	LP, UP = (eCav+eVib)/2 -/+ sqrt(omega^2 + (eCav-eVib)^2)/2
//
// At zero detuning UP-LP equals omega exactly; at large detuning the branches
// asymptote to the two bare energies.
func Branches(eCav, eVib, omega float64) (lp, up float64) {
	mean := (eCav + eVib) / 2
	half := math.Sqrt(omega*omega+(eCav-eVib)*(eCav-eVib)) / 2

	return mean - half, mean + half
}

// BranchesCurve evaluates Branches over a slice of cavity energies, writing
// the lower branch into lp and the upper into up. All slices must have the
// same length.
func BranchesCurve(lp, up, eCav []float64, eVib, omega float64) {
	for i, e := range eCav {
		lp[i], up[i] = Branches(e, eVib, omega)
	}
}

// Detuning returns the bare cavity-molecule energy difference eCav - eVib.
func Detuning(eCav, eVib float64) float64 {
	return eCav - eVib
}

// CavityEnergy returns the cavity photon energy at internal incidence angle
// theta (radians) for normal-incidence energy e0 and effective intracavity
// index nEff:
//
//	E(theta) = e0 / sqrt(1 - (sin(theta)/nEff)^2)
//
// The dispersion is monotonically increasing and singular at the critical
// angle sin(theta) = nEff; beyond it the result is NaN, which callers are
// expected to propagate rather than mask.
func CavityEnergy(e0, nEff, theta float64) float64 {
	s := math.Sin(theta) / nEff

	return e0 / math.Sqrt(1-s*s)
}

// Hopfield holds the photon and matter mixing fractions of the two polariton
// branches. Each branch's fractions sum to one, and PhotonLP == MatterUP for
// all detunings.
type Hopfield struct {
	PhotonLP float64
	MatterLP float64
	PhotonUP float64
	MatterUP float64
}

// Mixing returns the Hopfield coefficients of a two-level polariton with
// cavity energy eCav, molecular energy eVib and Rabi splitting omega. The
// mixing angle is theta = atan2(omega, eCav-eVib)/2; the two-argument form
// keeps the branch assignment correct across the full detuning range.
func Mixing(eCav, eVib, omega float64) Hopfield {
	theta := 0.5 * math.Atan2(omega, eCav-eVib)
	c := math.Cos(theta)
	s := math.Sin(theta)

	return Hopfield{
		PhotonLP: c * c,
		MatterLP: s * s,
		PhotonUP: s * s,
		MatterUP: c * c,
	}
}

// Eigenvalues diagonalizes the coupled-oscillator Hamiltonian of one cavity
// mode at eCav coupled to len(eVib) molecular modes:
//
//	diag = [eCav, eVib_1, ..., eVib_N]
//	H[0][j] = H[j][0] = omega_j / 2
//
// Coupling is star-shaped: each mode couples to the cavity only, never to
// another mode. The eigenvalues are returned in ascending order, so the first
// is the lower polariton and the last the upper. For a single mode the result
// matches Branches within numerical tolerance.
func Eigenvalues(eCav float64, eVib, omega []float64) ([]float64, error) {
	if len(eVib) != len(omega) {
		return nil, fmt.Errorf("%w: %d mode energies, %d couplings", ErrMismatchedModes, len(eVib), len(omega))
	}

	dim := len(eVib) + 1

	h := mat.NewSymDense(dim, nil)
	h.SetSym(0, 0, eCav)

	for j, e := range eVib {
		h.SetSym(j+1, j+1, e)
		h.SetSym(0, j+1, omega[j]/2)
	}

	var eig mat.EigenSym
	if !eig.Factorize(h, false) {
		return nil, errors.New("polariton: eigendecomposition failed")
	}

	return eig.Values(nil), nil
}

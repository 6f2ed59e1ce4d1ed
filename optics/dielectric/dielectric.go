package dielectric

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Oscillator describes a single Lorentz absorption line.
//
// Frequencies are in wavenumbers (cm^-1) throughout; Amplitude carries the
// oscillator strength in cm^-2 so that the dielectric contribution is
// dimensionless.
type Oscillator struct {
	Center    float64 // resonance frequency nu0
	Width     float64 // linewidth gamma (FWHM)
	Amplitude float64 // oscillator strength
}

// Contribution returns the real and imaginary dielectric contribution of a
// single Lorentz oscillator at frequency nu:
//
//	eps(nu) = A / (nu0^2 - nu^2 - i*gamma*nu)
func (o Oscillator) Contribution(nu float64) (eps1, eps2 float64) {
	d := o.Center*o.Center - nu*nu
	den := d*d + o.Width*o.Width*nu*nu
	if den == 0 {
		return 0, 0
	}

	return o.Amplitude * d / den, o.Amplitude * o.Width * nu / den
}

// Epsilon sums the background and all oscillator contributions at nu.
// The background enters as eps1 = nBG^2, eps2 = 0.
func Epsilon(nu, nBG float64, oscillators []Oscillator) (eps1, eps2 float64) {
	eps1 = nBG * nBG

	for _, o := range oscillators {
		re, im := o.Contribution(nu)
		eps1 += re
		eps2 += im
	}

	return eps1, eps2
}

// NK converts a complex dielectric value eps1 + i*eps2 to refractive index n
// and extinction coefficient k:
//
//	n = sqrt((|eps| + eps1) / 2)
//	k = sqrt((|eps| - eps1) / 2)
//
// The identities n^2 - k^2 = eps1 and 2nk = eps2 hold for all real inputs.
func NK(eps1, eps2 float64) (n, k float64) {
	m := math.Hypot(eps1, eps2)

	return math.Sqrt(nonNegative((m + eps1) / 2)), math.Sqrt(nonNegative((m - eps1) / 2))
}

// NKCurve converts parallel eps1/eps2 slices elementwise into n and k.
// All four slices must have the same length.
func NKCurve(n, k, eps1, eps2 []float64) {
	// |eps| via the SIMD magnitude kernel, then the scalar split per element.
	vecmath.Magnitude(n, eps1, eps2)

	for i, m := range n {
		k[i] = math.Sqrt(nonNegative((m - eps1[i]) / 2))
		n[i] = math.Sqrt(nonNegative((m + eps1[i]) / 2))
	}
}

// nonNegative clamps tiny negative rounding residue before a square root.
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}

	return v
}

package cavity

import (
	"math"

	"github.com/cwbudde/algo-polariton/optics/dielectric"
)

// Transmittance evaluates the Airy transmittance of an absorbing Fabry-Perot
// cavity at frequency nu (cm^-1).
//
// The intracavity medium is a background of refractive index nBG plus the
// given Lorentz oscillators. The dielectric sum is converted to (n, k), the
// absorption coefficient is alpha = 4*pi*k*nu, and the transmitted fraction
// follows the Airy formula
//
//	T = (1-R)^2 e^{-aL} / (1 + R^2 e^{-2aL} - 2 R e^{-aL} cos(4 pi n L nu + 2 phi))
//
// with mirror reflectivity R, cavity length L (cm) and mirror phase shift phi.
// With no oscillators this reduces exactly to the bare-cavity Airy function.
func Transmittance(nu float64, oscillators []dielectric.Oscillator, r, length, nBG, phase float64) float64 {
	eps1, eps2 := dielectric.Epsilon(nu, nBG, oscillators)
	n, k := dielectric.NK(eps1, eps2)

	alpha := 4 * math.Pi * k * nu
	att := math.Exp(-alpha * length)

	den := 1 + r*r*att*att - 2*r*att*math.Cos(4*math.Pi*n*length*nu+2*phase)

	return (1 - r) * (1 - r) * att / den
}

// TransmittanceCurve evaluates Transmittance at every frequency in nu and
// writes the results into dst. dst and nu must have the same length.
//
// Each element is computed by the scalar Transmittance, so a single-element
// curve agrees bit-for-bit with the scalar call.
func TransmittanceCurve(dst, nu []float64, oscillators []dielectric.Oscillator, r, length, nBG, phase float64) {
	for i, v := range nu {
		dst[i] = Transmittance(v, oscillators, r, length, nBG, phase)
	}
}

// Curve is the allocating form of TransmittanceCurve.
func Curve(nu []float64, oscillators []dielectric.Oscillator, r, length, nBG, phase float64) []float64 {
	dst := make([]float64, len(nu))
	TransmittanceCurve(dst, nu, oscillators, r, length, nBG, phase)

	return dst
}

// FSR returns the free spectral range 1/(2 n L) of a cavity of length L (cm)
// filled with a medium of refractive index n, in cm^-1.
func FSR(n, length float64) float64 {
	return 1 / (2 * n * length)
}

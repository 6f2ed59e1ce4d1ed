// Package spectrum fits Fabry-Perot cavity transmission spectra.
//
// A fit composes the Lorentz-oscillator dielectric model and the Airy
// transmittance into a parameterized curve, solves it against measured data
// with Levenberg-Marquardt, and extracts the resulting polariton peak
// positions. Mirror reflectivity, mirror phase, an overall scale and offset
// and all oscillator amplitudes are always free; oscillator centers and
// widths float only when requested.
//
// # Usage
//
//	res, err := spectrum.Fit(nu, trans, spectrum.Config{
//	    Oscillators: []dielectric.Oscillator{{Center: 2055, Width: 23}},
//	    Length:      1.74e-4,
//	    BackgroundIndex: 1.4,
//	})
//	if err != nil {
//	    // handle
//	}
//	fmt.Println(res.Reflectivity, res.PolaritonPeaks, res.RSquared)
package spectrum

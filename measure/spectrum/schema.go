package spectrum

import "github.com/cwbudde/algo-polariton/optics/dielectric"

// fixedParams is the count of always-fitted leading parameters:
// reflectivity, phase, scale, offset.
const fixedParams = 4

// schema fixes the layout of the packed parameter vector:
//
//	[R, phase, scale, offset] + N amplitudes
//	+ N centers (only when fitCenters)
//	+ N widths  (only when fitWidths)
//
// Both packing and unpacking derive their offsets from this one type; the
// layout is never recomputed anywhere else.
type schema struct {
	oscillators int
	fitCenters  bool
	fitWidths   bool
}

// dim returns the packed vector length.
func (s schema) dim() int {
	n := fixedParams + s.oscillators

	if s.fitCenters {
		n += s.oscillators
	}

	if s.fitWidths {
		n += s.oscillators
	}

	return n
}

// offsets returns the start index of the amplitude, center and width blocks.
// A block that is not fitted reports -1.
func (s schema) offsets() (amp, center, width int) {
	amp = fixedParams
	center = -1
	width = -1

	next := amp + s.oscillators

	if s.fitCenters {
		center = next
		next += s.oscillators
	}

	if s.fitWidths {
		width = next
	}

	return amp, center, width
}

// pack builds the initial-guess vector from a normalized config.
func (s schema) pack(cfg Config) []float64 {
	params := make([]float64, s.dim())
	params[0] = cfg.Reflectivity
	params[1] = cfg.Phase
	params[2] = cfg.Scale
	params[3] = cfg.Offset

	amp, center, width := s.offsets()

	for i, o := range cfg.Oscillators {
		params[amp+i] = o.Amplitude

		if center >= 0 {
			params[center+i] = o.Center
		}

		if width >= 0 {
			params[width+i] = o.Width
		}
	}

	return params
}

// unpack interprets a packed vector against the caller's oscillator list.
// Centers and widths that were not fitted are taken from base; oscillator
// order is preserved.
func (s schema) unpack(params []float64, base []dielectric.Oscillator) (r, phase, scale, offset float64, osc []dielectric.Oscillator) {
	r = params[0]
	phase = params[1]
	scale = params[2]
	offset = params[3]

	amp, center, width := s.offsets()

	osc = make([]dielectric.Oscillator, len(base))
	for i, o := range base {
		o.Amplitude = params[amp+i]

		if center >= 0 {
			o.Center = params[center+i]
		}

		if width >= 0 {
			o.Width = params[width+i]
		}

		osc[i] = o
	}

	return r, phase, scale, offset, osc
}

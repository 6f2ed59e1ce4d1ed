package spectrum

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-polariton/internal/lsq"
	"github.com/cwbudde/algo-polariton/optics/cavity"
	"github.com/cwbudde/algo-polariton/optics/dielectric"
	"github.com/cwbudde/algo-polariton/optics/peaks"
)

const (
	defaultReflectivity = 0.9
	defaultScale        = 1.0
	defaultIndex        = 1.0
	defaultAmplitude    = 1000.0

	// percentThreshold decides whether a structured spectrum carries
	// percent transmittance that needs rescaling to a fraction.
	percentThreshold = 1.5

	// peakFraction is the minimum peak prominence relative to the fitted
	// curve's maximum.
	peakFraction = 0.005
)

// ErrTooFewPoints reports a fit domain smaller than the free parameter count,
// typically after an aggressive region mask.
var ErrTooFewPoints = errors.New("spectrum: fewer data points than free parameters")

// Config holds the cavity-fit setup. The zero value of a field selects its
// default; Oscillators and Length have no default and Length must be set
// (directly or, for FitSource, via metadata).
type Config struct {
	Oscillators []dielectric.Oscillator // initial oscillators, order preserved in the result

	Length          float64 // cavity length in cm (required)
	BackgroundIndex float64 // intracavity background index (default 1.0)
	Reflectivity    float64 // initial mirror reflectivity (default 0.9)
	Phase           float64 // initial mirror phase shift
	Scale           float64 // initial overall scale (default 1.0)
	Offset          float64 // initial overall offset
	Amplitude       float64 // initial amplitude for oscillators given with zero amplitude (default 1000)

	// RegionLower/RegionUpper restrict the fit to frequencies in
	// [RegionLower, RegionUpper]. The mask is disabled unless
	// RegionUpper > RegionLower.
	RegionLower float64
	RegionUpper float64

	FitCenters bool // let oscillator centers float
	FitWidths  bool // let oscillator widths float
}

// Source is a measured spectrum with attached metadata, as produced by
// instrument file loaders.
type Source interface {
	Frequencies() []float64
	Transmittance() []float64
	Metadata() map[string]float64
}

// MetaLength is the Source metadata key holding the cavity length in cm.
const MetaLength = "cavity_length"

// Fit fits the composed cavity transmittance model to the measured spectrum
// (freq, trans). It returns a fully populated Result or an error; there are
// no partial results. Solver failures propagate wrapped but unmodified.
func Fit(freq, trans []float64, cfg Config) (*Result, error) {
	cfg = normalizeConfig(cfg)

	if len(freq) != len(trans) {
		return nil, fmt.Errorf("spectrum: frequency and transmittance lengths differ (%d vs %d)", len(freq), len(trans))
	}

	if cfg.Length <= 0 {
		return nil, errors.New("spectrum: cavity length not set")
	}

	freq, trans = applyRegion(freq, trans, cfg.RegionLower, cfg.RegionUpper)

	s := schema{
		oscillators: len(cfg.Oscillators),
		fitCenters:  cfg.FitCenters,
		fitWidths:   cfg.FitWidths,
	}

	if len(freq) < s.dim() {
		return nil, fmt.Errorf("%w: %d points for %d parameters", ErrTooFewPoints, len(freq), s.dim())
	}

	residual := func(dst, params []float64) {
		r, phase, scale, offset, osc := s.unpack(params, cfg.Oscillators)
		for i, nu := range freq {
			dst[i] = scale*cavity.Transmittance(nu, osc, r, cfg.Length, cfg.BackgroundIndex, phase) + offset - trans[i]
		}
	}

	sol, err := lsq.Solve(residual, len(freq), s.pack(cfg), false)
	if err != nil {
		return nil, err
	}

	r, phase, scale, offset, osc := s.unpack(sol.Params, cfg.Oscillators)

	res := &Result{
		Reflectivity:    r,
		Length:          cfg.Length,
		BackgroundIndex: cfg.BackgroundIndex,
		Phase:           phase,
		Scale:           scale,
		Offset:          offset,
		Oscillators:     osc,
		RSquared:        lsq.RSquared(sol.Residuals, trans),
		Frequency:       freq,
		Transmittance:   trans,
		Solver:          sol.Raw,
	}

	curve := res.Curve()
	res.PolaritonPeaks = peaks.Positions(freq, curve, peakFraction*floats.Max(curve))

	return res, nil
}

// FitSource fits a structured spectrum. Transmittance above percentThreshold
// at its maximum is taken to be in percent and rescaled to a fraction, and a
// missing Config.Length is looked up in the source metadata.
func FitSource(src Source, cfg Config) (*Result, error) {
	freq := src.Frequencies()
	trans := src.Transmittance()

	if len(trans) > 0 && floats.Max(trans) > percentThreshold {
		scaled := make([]float64, len(trans))
		vecmath.ScaleBlock(scaled, trans, 0.01)
		trans = scaled
	}

	if cfg.Length == 0 {
		length, ok := src.Metadata()[MetaLength]
		if !ok {
			return nil, fmt.Errorf("spectrum: cavity length neither configured nor in metadata key %q", MetaLength)
		}

		cfg.Length = length
	}

	return Fit(freq, trans, cfg)
}

func normalizeConfig(cfg Config) Config {
	if cfg.Reflectivity == 0 {
		cfg.Reflectivity = defaultReflectivity
	}

	if cfg.Scale == 0 {
		cfg.Scale = defaultScale
	}

	if cfg.BackgroundIndex == 0 {
		cfg.BackgroundIndex = defaultIndex
	}

	if cfg.Amplitude == 0 {
		cfg.Amplitude = defaultAmplitude
	}

	// Copy the oscillator list before touching it; the caller keeps theirs.
	osc := append([]dielectric.Oscillator(nil), cfg.Oscillators...)
	for i := range osc {
		if osc[i].Amplitude == 0 {
			osc[i].Amplitude = cfg.Amplitude
		}
	}

	cfg.Oscillators = osc

	return cfg
}

// applyRegion copies the (freq, trans) pairs inside the mask, keeping the two
// slices parallel. Without a mask it still copies, detaching the result from
// caller-owned memory.
func applyRegion(freq, trans []float64, lower, upper float64) ([]float64, []float64) {
	if upper <= lower {
		return append([]float64(nil), freq...), append([]float64(nil), trans...)
	}

	outF := make([]float64, 0, len(freq))
	outT := make([]float64, 0, len(trans))

	for i, nu := range freq {
		if nu >= lower && nu <= upper {
			outF = append(outF, nu)
			outT = append(outT, trans[i])
		}
	}

	return outF, outT
}

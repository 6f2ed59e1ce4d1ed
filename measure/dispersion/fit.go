package dispersion

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-polariton/internal/lsq"
	"github.com/cwbudde/algo-polariton/measure/spectrum"
	"github.com/cwbudde/algo-polariton/optics/polariton"
)

const (
	defaultEffectiveIndex = 1.5

	// minObservations is the smallest angle-observation count that can
	// constrain the three free parameters.
	minObservations = 3
)

var (
	// ErrTooFewAngles reports fewer than minObservations usable angle
	// observations, before or after batch peak classification.
	ErrTooFewAngles = errors.New("dispersion: need at least 3 angle observations")

	// ErrNoModes reports an empty molecular-mode energy list.
	ErrNoModes = errors.New("dispersion: no molecular mode energies given")
)

// Config holds the dispersion-fit setup. Zero-valued initial guesses are
// derived from the data: E0 from the lowest LP position, Rabi from the mean
// branch separation, EffectiveIndex defaults to 1.5.
type Config struct {
	// ModeEnergies lists the molecular mode energies in cm^-1 (required).
	// One entry selects the closed-form two-level model; several select the
	// coupled-oscillator eigensolver with the fitted Rabi splitting applied
	// to every mode.
	ModeEnergies []float64

	Rabi           float64 // initial Rabi splitting
	E0             float64 // initial normal-incidence cavity energy
	EffectiveIndex float64 // initial effective intracavity index
}

// Fit fits the dispersion model to lower- and upper-branch observations. The
// two (angle, position) pairs must each be parallel, but the two branches may
// use different angle sets of different lengths. Angles are in degrees.
//
// Near the critical angle sin(theta) >= nEff the cavity energy is NaN; such
// values propagate into the solver and surface as a solver error rather than
// being clamped.
func Fit(lpAngles, lpPositions, upAngles, upPositions []float64, cfg Config) (*Result, error) {
	if len(lpAngles) != len(lpPositions) {
		return nil, fmt.Errorf("dispersion: LP angle and position lengths differ (%d vs %d)", len(lpAngles), len(lpPositions))
	}

	if len(upAngles) != len(upPositions) {
		return nil, fmt.Errorf("dispersion: UP angle and position lengths differ (%d vs %d)", len(upAngles), len(upPositions))
	}

	if len(cfg.ModeEnergies) == 0 {
		return nil, ErrNoModes
	}

	size := len(lpAngles) + len(upAngles)
	if size < minObservations {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewAngles, size)
	}

	cfg = normalizeConfig(cfg, lpPositions, upPositions)

	modes := append([]float64(nil), cfg.ModeEnergies...)
	omegas := make([]float64, len(modes))

	branchPair := func(p []float64, angleDeg float64) (lp, up float64) {
		eCav := polariton.CavityEnergy(p[0], p[1], angleDeg*math.Pi/180)

		if len(modes) == 1 {
			return polariton.Branches(eCav, modes[0], p[2])
		}

		for i := range omegas {
			omegas[i] = p[2]
		}

		vals, err := polariton.Eigenvalues(eCav, modes, omegas)
		if err != nil {
			return math.NaN(), math.NaN()
		}

		return vals[0], vals[len(vals)-1]
	}

	residual := func(dst, p []float64) {
		for i, a := range lpAngles {
			lp, _ := branchPair(p, a)
			dst[i] = lp - lpPositions[i]
		}

		for i, a := range upAngles {
			_, up := branchPair(p, a)
			dst[len(lpAngles)+i] = up - upPositions[i]
		}
	}

	init := []float64{cfg.E0, cfg.EffectiveIndex, cfg.Rabi}

	sol, err := lsq.Solve(residual, size, init, true)
	if err != nil {
		return nil, err
	}

	observed := make([]float64, 0, size)
	observed = append(observed, lpPositions...)
	observed = append(observed, upPositions...)

	res := &Result{
		Rabi:           sol.Params[2],
		E0:             sol.Params[0],
		EffectiveIndex: sol.Params[1],
		ModeEnergies:   modes,
		LPAngles:       append([]float64(nil), lpAngles...),
		LPPositions:    append([]float64(nil), lpPositions...),
		UPAngles:       append([]float64(nil), upAngles...),
		UPPositions:    append([]float64(nil), upPositions...),
		Mixing:         zeroDetuningMixing(modes, sol.Params[2]),
		RSquared:       lsq.RSquared(sol.Residuals, observed),
	}

	if sol.StdErr != nil {
		res.E0StdErr = sol.StdErr[0]
		res.EffectiveIndexStdErr = sol.StdErr[1]
		res.RabiStdErr = sol.StdErr[2]
	}

	return res, nil
}

// FitShared is the convenience form for branches sharing one angle grid.
func FitShared(angles, lpPositions, upPositions []float64, cfg Config) (*Result, error) {
	return Fit(angles, lpPositions, angles, upPositions, cfg)
}

// FitResults fits the dispersion from already-fitted cavity spectra, one per
// angle. Each result's extracted peaks are classified around the mean mode
// energy: the closest peak below becomes the LP observation, the closest
// above the UP observation. Angles whose spectra lack either candidate are
// silently skipped; fewer than three surviving angles is an error.
func FitResults(results []*spectrum.Result, angles []float64, cfg Config) (*Result, error) {
	if len(results) != len(angles) {
		return nil, fmt.Errorf("dispersion: result and angle lengths differ (%d vs %d)", len(results), len(angles))
	}

	if len(cfg.ModeEnergies) == 0 {
		return nil, ErrNoModes
	}

	center := stat.Mean(cfg.ModeEnergies, nil)

	var usedAngles, lps, ups []float64

	for i, res := range results {
		if res == nil || len(res.PolaritonPeaks) < 2 {
			continue
		}

		lp, up, ok := classifyPeaks(res.PolaritonPeaks, center)
		if !ok {
			continue
		}

		usedAngles = append(usedAngles, angles[i])
		lps = append(lps, lp)
		ups = append(ups, up)
	}

	if len(usedAngles) < minObservations {
		return nil, fmt.Errorf("%w: %d of %d spectra had both branch peaks", ErrTooFewAngles, len(usedAngles), len(results))
	}

	return FitShared(usedAngles, lps, ups, cfg)
}

// classifyPeaks partitions peak positions around center and returns the
// closest peak below and above it.
func classifyPeaks(peaks []float64, center float64) (lp, up float64, ok bool) {
	haveLP := false
	haveUP := false

	for _, p := range peaks {
		switch {
		case p < center && (!haveLP || p > lp):
			lp = p
			haveLP = true
		case p > center && (!haveUP || p < up):
			up = p
			haveUP = true
		}
	}

	return lp, up, haveLP && haveUP
}

// zeroDetuningMixing averages the per-mode Hopfield fractions at zero
// detuning.
func zeroDetuningMixing(modes []float64, omega float64) polariton.Hopfield {
	var sum polariton.Hopfield

	for _, e := range modes {
		h := polariton.Mixing(e, e, omega)
		sum.PhotonLP += h.PhotonLP
		sum.MatterLP += h.MatterLP
		sum.PhotonUP += h.PhotonUP
		sum.MatterUP += h.MatterUP
	}

	n := float64(len(modes))
	sum.PhotonLP /= n
	sum.MatterLP /= n
	sum.PhotonUP /= n
	sum.MatterUP /= n

	return sum
}

func normalizeConfig(cfg Config, lpPositions, upPositions []float64) Config {
	if cfg.EffectiveIndex == 0 {
		cfg.EffectiveIndex = defaultEffectiveIndex
	}

	if cfg.E0 == 0 && len(lpPositions) > 0 {
		cfg.E0 = floats.Min(lpPositions)
	}

	if cfg.Rabi == 0 && len(lpPositions) > 0 && len(upPositions) > 0 {
		cfg.Rabi = stat.Mean(upPositions, nil) - stat.Mean(lpPositions, nil)
	}

	return cfg
}

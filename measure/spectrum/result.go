package spectrum

import (
	"fmt"
	"strings"

	"github.com/maorshutman/lm"

	"github.com/cwbudde/algo-polariton/optics/cavity"
	"github.com/cwbudde/algo-polariton/optics/dielectric"
)

// Result holds a completed cavity fit. Results are created only by Fit and
// FitSource and must be treated as read-only.
type Result struct {
	Reflectivity    float64
	Length          float64
	BackgroundIndex float64
	Phase           float64
	Scale           float64
	Offset          float64

	// Oscillators are the fitted oscillators, in the caller's order.
	Oscillators []dielectric.Oscillator

	// PolaritonPeaks are the peak positions of the fitted curve, ranked by
	// descending prominence, not by position.
	PolaritonPeaks []float64

	RSquared float64

	// Frequency and Transmittance are the (possibly region-masked) data the
	// fit actually used.
	Frequency     []float64
	Transmittance []float64

	// Solver is the raw solver output, kept for diagnostics.
	Solver *lm.Result
}

// Predict evaluates the fitted model at frequency nu:
// scale * T(nu) + offset.
func (r *Result) Predict(nu float64) float64 {
	return r.Scale*cavity.Transmittance(nu, r.Oscillators, r.Reflectivity, r.Length, r.BackgroundIndex, r.Phase) + r.Offset
}

// Curve evaluates the fitted model over the fit domain.
func (r *Result) Curve() []float64 {
	out := make([]float64, len(r.Frequency))
	for i, nu := range r.Frequency {
		out[i] = r.Predict(nu)
	}

	return out
}

// Residuals returns data - Predict over the fit domain.
func (r *Result) Residuals() []float64 {
	out := make([]float64, len(r.Frequency))
	for i, nu := range r.Frequency {
		out[i] = r.Transmittance[i] - r.Predict(nu)
	}

	return out
}

// String returns a compact human-readable summary.
func (r *Result) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "cavity fit: R=%.4f L=%.4g cm nBG=%.3f phase=%.4f scale=%.4f offset=%.4f R2=%.4f\n",
		r.Reflectivity, r.Length, r.BackgroundIndex, r.Phase, r.Scale, r.Offset, r.RSquared)

	for i, o := range r.Oscillators {
		fmt.Fprintf(&b, "  oscillator %d: center=%.2f width=%.2f amplitude=%.4g\n", i+1, o.Center, o.Width, o.Amplitude)
	}

	if len(r.PolaritonPeaks) > 0 {
		fmt.Fprintf(&b, "  polariton peaks (by prominence): %s\n", joinFloats(r.PolaritonPeaks, "%.2f"))
	}

	return b.String()
}

// Markdown renders the fit as a markdown table, one row per parameter.
func (r *Result) Markdown() string {
	var b strings.Builder

	b.WriteString("| parameter | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| reflectivity | %.4f |\n", r.Reflectivity)
	fmt.Fprintf(&b, "| cavity length (cm) | %.4g |\n", r.Length)
	fmt.Fprintf(&b, "| background index | %.3f |\n", r.BackgroundIndex)
	fmt.Fprintf(&b, "| phase | %.4f |\n", r.Phase)
	fmt.Fprintf(&b, "| scale | %.4f |\n", r.Scale)
	fmt.Fprintf(&b, "| offset | %.4f |\n", r.Offset)

	for i, o := range r.Oscillators {
		fmt.Fprintf(&b, "| oscillator %d center (cm^-1) | %.2f |\n", i+1, o.Center)
		fmt.Fprintf(&b, "| oscillator %d width (cm^-1) | %.2f |\n", i+1, o.Width)
		fmt.Fprintf(&b, "| oscillator %d amplitude | %.4g |\n", i+1, o.Amplitude)
	}

	fmt.Fprintf(&b, "| polariton peaks (cm^-1) | %s |\n", joinFloats(r.PolaritonPeaks, "%.2f"))
	fmt.Fprintf(&b, "| R² | %.4f |\n", r.RSquared)

	return b.String()
}

func joinFloats(values []float64, format string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf(format, v)
	}

	return strings.Join(parts, ", ")
}

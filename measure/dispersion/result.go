package dispersion

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-polariton/optics/polariton"
)

// Result holds a completed dispersion fit. Results are created only by Fit,
// FitShared and FitResults and must be treated as read-only.
type Result struct {
	Rabi       float64 // fitted Rabi splitting (cm^-1)
	RabiStdErr float64

	E0       float64 // normal-incidence cavity energy (cm^-1)
	E0StdErr float64

	EffectiveIndex       float64
	EffectiveIndexStdErr float64

	// ModeEnergies are the fixed molecular mode energies the fit used.
	ModeEnergies []float64

	// The observations actually fitted; the LP and UP pairs are each
	// parallel but may differ in length and angle set.
	LPAngles    []float64
	LPPositions []float64
	UPAngles    []float64
	UPPositions []float64

	// Mixing holds the Hopfield fractions at zero detuning, averaged over
	// modes in the multi-mode case.
	Mixing polariton.Hopfield

	RSquared float64
}

// String returns a compact human-readable summary.
func (r *Result) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "dispersion fit: Rabi=%.2f±%.2f E0=%.2f±%.2f nEff=%.4f±%.4f R2=%.4f\n",
		r.Rabi, r.RabiStdErr, r.E0, r.E0StdErr, r.EffectiveIndex, r.EffectiveIndexStdErr, r.RSquared)
	fmt.Fprintf(&b, "  mode energies: %s\n", joinFloats(r.ModeEnergies, "%.2f"))
	fmt.Fprintf(&b, "  zero-detuning mixing: photonLP=%.3f matterLP=%.3f\n", r.Mixing.PhotonLP, r.Mixing.MatterLP)
	fmt.Fprintf(&b, "  observations: %d LP, %d UP\n", len(r.LPAngles), len(r.UPAngles))

	return b.String()
}

// Markdown renders the fit as a markdown table, one row per parameter.
func (r *Result) Markdown() string {
	var b strings.Builder

	b.WriteString("| parameter | value | std. error |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| Rabi splitting (cm^-1) | %.2f | %.2f |\n", r.Rabi, r.RabiStdErr)
	fmt.Fprintf(&b, "| cavity energy E0 (cm^-1) | %.2f | %.2f |\n", r.E0, r.E0StdErr)
	fmt.Fprintf(&b, "| effective index | %.4f | %.4f |\n", r.EffectiveIndex, r.EffectiveIndexStdErr)
	fmt.Fprintf(&b, "| mode energies (cm^-1) | %s | |\n", joinFloats(r.ModeEnergies, "%.2f"))
	fmt.Fprintf(&b, "| photon fraction LP | %.3f | |\n", r.Mixing.PhotonLP)
	fmt.Fprintf(&b, "| matter fraction LP | %.3f | |\n", r.Mixing.MatterLP)
	fmt.Fprintf(&b, "| R² | %.4f | |\n", r.RSquared)

	return b.String()
}

func joinFloats(values []float64, format string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf(format, v)
	}

	return strings.Join(parts, ", ")
}

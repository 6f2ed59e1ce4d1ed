package spectrum

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-polariton/internal/testutil"
	"github.com/cwbudde/algo-polariton/optics/cavity"
	"github.com/cwbudde/algo-polariton/optics/dielectric"
)

// Known synthesis parameters shared by the round-trip tests. The cavity mode
// sits on the oscillator at 2055 cm^-1, splitting the transmission into two
// polariton peaks near 2032 and 2080 cm^-1.
const (
	truthR      = 0.92
	truthLength = 1.572e-4
	truthIndex  = 1.4
	truthPhase  = 0.3
)

var truthOscillator = dielectric.Oscillator{Center: 2055, Width: 23, Amplitude: 3000}

func synthesize() ([]float64, []float64) {
	nu := testutil.Linspace(1900, 2200, 101)
	trans := cavity.Curve(nu, []dielectric.Oscillator{truthOscillator}, truthR, truthLength, truthIndex, truthPhase)

	return nu, trans
}

func truthConfig() Config {
	return Config{
		Oscillators:     []dielectric.Oscillator{truthOscillator},
		Length:          truthLength,
		BackgroundIndex: truthIndex,
		Phase:           truthPhase,
		FitCenters:      true,
		FitWidths:       true,
	}
}

func TestFitRoundTripNoiseless(t *testing.T) {
	nu, trans := synthesize()

	res, err := Fit(nu, trans, truthConfig())
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNear(t, "reflectivity", res.Reflectivity, truthR, 0.005)
	testutil.RequireNear(t, "center", res.Oscillators[0].Center, 2055, 0.1)
	testutil.RequireNear(t, "width", res.Oscillators[0].Width, 23, 0.1)

	if res.RSquared < 0.999 {
		t.Fatalf("R2 = %v, want > 0.999", res.RSquared)
	}

	if len(res.PolaritonPeaks) < 2 {
		t.Fatalf("polariton peaks = %v, want two branches", res.PolaritonPeaks)
	}

	// The lower branch near 2032 is the more prominent peak and leads the
	// prominence-ranked list; the upper branch sits near 2080.
	testutil.RequireNear(t, "first peak", res.PolaritonPeaks[0], 2032, 5)
	testutil.RequireNear(t, "second peak", res.PolaritonPeaks[1], 2080, 5)
}

func TestFitRoundTripNoisy(t *testing.T) {
	nu, trans := synthesize()

	noise := testutil.DeterministicNoise(7, 0.005, len(trans))
	for i := range trans {
		trans[i] += noise[i]
	}

	res, err := Fit(nu, trans, truthConfig())
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNear(t, "reflectivity", res.Reflectivity, truthR, 0.05)
	testutil.RequireNear(t, "center", res.Oscillators[0].Center, 2055, 1)
	testutil.RequireNear(t, "width", res.Oscillators[0].Width, 23, 1)

	if res.RSquared < 0.95 {
		t.Fatalf("R2 = %v, want > 0.95", res.RSquared)
	}
}

func TestFitRegionMask(t *testing.T) {
	nu, trans := synthesize()

	cfg := truthConfig()
	cfg.RegionLower = 1950
	cfg.RegionUpper = 2150

	res, err := Fit(nu, trans, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Frequency) != len(res.Transmittance) {
		t.Fatalf("masked arrays not parallel: %d vs %d", len(res.Frequency), len(res.Transmittance))
	}

	if len(res.Frequency) == len(nu) {
		t.Fatal("region mask did not filter anything")
	}

	for i, v := range res.Frequency {
		if v < 1950 || v > 2150 {
			t.Fatalf("index %d: frequency %v outside region", i, v)
		}
	}

	if res.RSquared < 0.999 {
		t.Fatalf("R2 = %v, want > 0.999", res.RSquared)
	}
}

func TestFitTooFewPoints(t *testing.T) {
	// One oscillator with floating centers and widths needs 7 parameters;
	// four points cannot constrain them.
	nu := []float64{2000, 2020, 2040, 2060}
	trans := []float64{0.1, 0.2, 0.2, 0.1}

	_, err := Fit(nu, trans, truthConfig())

	if !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("err = %v, want ErrTooFewPoints", err)
	}
}

func TestFitInputValidation(t *testing.T) {
	if _, err := Fit([]float64{1, 2}, []float64{1}, truthConfig()); err == nil {
		t.Fatal("mismatched lengths accepted")
	}

	nu, trans := synthesize()

	cfg := truthConfig()
	cfg.Length = 0

	if _, err := Fit(nu, trans, cfg); err == nil {
		t.Fatal("missing cavity length accepted")
	}
}

func TestPredictAndResiduals(t *testing.T) {
	nu, trans := synthesize()

	res, err := Fit(nu, trans, truthConfig())
	if err != nil {
		t.Fatal(err)
	}

	curve := res.Curve()
	for i, v := range res.Frequency {
		if curve[i] != res.Predict(v) {
			t.Fatalf("index %d: curve %v != predict %v", i, curve[i], res.Predict(v))
		}
	}

	for i, r := range res.Residuals() {
		want := res.Transmittance[i] - res.Predict(res.Frequency[i])
		if r != want {
			t.Fatalf("index %d: residual %v != data-predict %v", i, r, want)
		}

		if math.Abs(r) > 1e-5 {
			t.Fatalf("index %d: noiseless residual %v too large", i, r)
		}
	}
}

func TestFitPreservesOscillatorOrder(t *testing.T) {
	oscs := []dielectric.Oscillator{
		{Center: 2020, Width: 18, Amplitude: 1500},
		{Center: 2090, Width: 25, Amplitude: 2200},
	}

	nu := testutil.Linspace(1900, 2200, 101)
	trans := cavity.Curve(nu, oscs, truthR, truthLength, truthIndex, truthPhase)

	cfg := Config{
		Oscillators:     oscs,
		Length:          truthLength,
		BackgroundIndex: truthIndex,
		Reflectivity:    truthR,
		Phase:           truthPhase,
	}

	res, err := Fit(nu, trans, cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Centers and widths were fixed; they must come back untouched and in
	// the caller's order.
	for i, o := range res.Oscillators {
		if o.Center != oscs[i].Center || o.Width != oscs[i].Width {
			t.Fatalf("oscillator %d reordered or modified: %+v", i, o)
		}
	}

	testutil.RequireNear(t, "amplitude 0", res.Oscillators[0].Amplitude, 1500, 1)
	testutil.RequireNear(t, "amplitude 1", res.Oscillators[1].Amplitude, 2200, 1)
}

// fakeSource is a structured spectrum carrying percent transmittance and the
// cavity length in metadata.
type fakeSource struct {
	nu, trans []float64
	meta      map[string]float64
}

func (s fakeSource) Frequencies() []float64       { return s.nu }
func (s fakeSource) Transmittance() []float64     { return s.trans }
func (s fakeSource) Metadata() map[string]float64 { return s.meta }

func TestFitSourcePercentAndMetadata(t *testing.T) {
	nu, trans := synthesize()

	percent := make([]float64, len(trans))
	for i, v := range trans {
		percent[i] = v * 100
	}

	src := fakeSource{
		nu:    nu,
		trans: percent,
		meta:  map[string]float64{MetaLength: truthLength},
	}

	cfg := truthConfig()
	cfg.Length = 0 // comes from metadata

	res, err := FitSource(src, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if res.Length != truthLength {
		t.Fatalf("length = %v, want %v from metadata", res.Length, truthLength)
	}

	testutil.RequireNear(t, "reflectivity", res.Reflectivity, truthR, 0.005)

	for i, v := range res.Transmittance {
		if v > 1.01 {
			t.Fatalf("index %d: transmittance %v not rescaled from percent", i, v)
		}
	}
}

func TestFitSourceMissingLength(t *testing.T) {
	nu, trans := synthesize()
	src := fakeSource{nu: nu, trans: trans, meta: map[string]float64{}}

	cfg := truthConfig()
	cfg.Length = 0

	if _, err := FitSource(src, cfg); err == nil {
		t.Fatal("missing metadata length accepted")
	}
}

func TestResultFormatting(t *testing.T) {
	nu, trans := synthesize()

	res, err := Fit(nu, trans, truthConfig())
	if err != nil {
		t.Fatal(err)
	}

	s := res.String()
	if !strings.Contains(s, "cavity fit") || !strings.Contains(s, "oscillator 1") {
		t.Fatalf("summary missing fields:\n%s", s)
	}

	md := res.Markdown()
	if !strings.Contains(md, "| reflectivity |") || !strings.Contains(md, "| oscillator 1 center (cm^-1) |") {
		t.Fatalf("markdown missing rows:\n%s", md)
	}
}

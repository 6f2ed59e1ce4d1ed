package peaks

import "sort"

// Peak is a strict local maximum of a sampled curve.
type Peak struct {
	X          float64
	Y          float64
	Prominence float64
}

// Find scans the interior of y (1 <= i <= len(y)-2) for strict local maxima,
// y[i] > y[i-1] && y[i] > y[i+1], and ranks them by neighbor prominence
//
//	y[i] - min(y[i-1], y[i+1])
//
// a cheap proxy for topographic prominence. Peaks below minProminence are
// dropped; the survivors are returned sorted by descending prominence, not by
// position. Boundary samples and flat plateaus are never detected; callers
// needing those must resample or pad.
func Find(x, y []float64, minProminence float64) []Peak {
	if len(x) != len(y) || len(y) < 3 {
		return nil
	}

	var found []Peak

	for i := 1; i < len(y)-1; i++ {
		if y[i] <= y[i-1] || y[i] <= y[i+1] {
			continue
		}

		lower := y[i-1]
		if y[i+1] < lower {
			lower = y[i+1]
		}

		p := y[i] - lower
		if p < minProminence {
			continue
		}

		found = append(found, Peak{X: x[i], Y: y[i], Prominence: p})
	}

	sort.SliceStable(found, func(a, b int) bool {
		return found[a].Prominence > found[b].Prominence
	})

	return found
}

// Positions returns only the x-positions of Find, in the same
// descending-prominence order.
func Positions(x, y []float64, minProminence float64) []float64 {
	ps := Find(x, y, minProminence)
	if len(ps) == 0 {
		return nil
	}

	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.X
	}

	return out
}

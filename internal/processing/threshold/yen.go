package threshold

import (
	"math"

	"binarization/internal/processing/histogram"
)

// Yen maximizes the correlation between the thresholded and original
// distributions.
type Yen struct{}

func (Yen) Name() string { return "yen" }

func (y Yen) SelectBin(h *histogram.Histogram) (int, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	if bin, ok := singleLevel(h); ok {
		return bin, nil
	}

	p := h.Probabilities()
	n := len(p)

	// sq[i] = Σ_{j<=i} p_j², tail[i] = Σ_{j>i} p_j².
	sq := make([]float64, n)
	acc := 0.0
	for i, v := range p {
		acc += v * v
		sq[i] = acc
	}
	tail := make([]float64, n)
	acc = 0
	for i := n - 1; i > 0; i-- {
		acc += p[i] * p[i]
		tail[i-1] = acc
	}

	best := -1
	maxPsi := math.Inf(-1)
	count := 0
	ps := 0.0
	for s := 0; s < n-1; s++ {
		count += h.Counts[s]
		ps += p[s]
		if count == 0 || count == h.Total {
			continue
		}

		// Σ(p_i/Ps)² = Σp_i² / Ps².
		psi := -math.Log(sq[s]/(ps*ps)) - math.Log(tail[s]/((1-ps)*(1-ps)))
		if math.IsNaN(psi) || math.IsInf(psi, 0) {
			continue
		}
		if psi > maxPsi {
			maxPsi = psi
			best = s
		}
	}

	if best < 0 {
		return 0, degenerate(y.Name())
	}
	return best, nil
}

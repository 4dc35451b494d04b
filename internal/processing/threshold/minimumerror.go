package threshold

import (
	"math"

	"binarization/internal/processing/histogram"
)

// MinimumError is the Kittler-Illingworth criterion: it models both classes
// as Gaussians and minimizes the classification error.
type MinimumError struct{}

func (MinimumError) Name() string { return "minimum_error" }

func (m MinimumError) SelectBin(h *histogram.Histogram) (int, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}

	c := accumulate(h)
	last := len(h.Counts) - 1
	total := h.Total

	best := -1
	minJ := math.Inf(1)
	for t := 0; t < last; t++ {
		n0 := c.count[t]
		n1 := total - n0
		if n0 == 0 || n1 == 0 {
			continue
		}

		p0, _, v0 := classStats(n0, c.occupied[t], c.sum[t], c.sqSum[t], total)
		p1, _, v1 := classStats(n1, c.occupied[last]-c.occupied[t], c.sum[last]-c.sum[t], c.sqSum[last]-c.sqSum[t], total)
		if v0 <= 0 || v1 <= 0 {
			continue
		}

		// ln σ = ½ ln σ².
		j := 1 + (p0*math.Log(v0) + p1*math.Log(v1)) - 2*(p0*math.Log(p0)+p1*math.Log(p1))
		if math.IsNaN(j) || math.IsInf(j, 0) {
			continue
		}
		if j < minJ {
			minJ = j
			best = t
		}
	}

	if best < 0 {
		return 0, degenerate(m.Name())
	}
	return best, nil
}

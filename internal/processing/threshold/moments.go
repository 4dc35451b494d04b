package threshold

import (
	"math"

	"binarization/internal/processing/histogram"
)

// momentTolerance absorbs round-off when comparing the cumulative
// distribution against the target fraction.
const momentTolerance = 1e-9

// Moments is Tsai's moment-preserving threshold: the binarized image keeps
// the first three moments of the original.
type Moments struct{}

func (Moments) Name() string { return "moments" }

func (m Moments) SelectBin(h *histogram.Histogram) (int, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	if bin, ok := singleLevel(h); ok {
		return bin, nil
	}

	p := h.Probabilities()
	var m1, m2, m3 float64
	for i, v := range p {
		x := float64(i)
		m1 += x * v
		m2 += x * x * v
		m3 += x * x * x * v
	}

	cd := m2 - m1*m1
	if cd <= 0 {
		return 0, degenerate(m.Name())
	}
	c0 := (m1*m3 - m2*m2) / cd
	c1 := (m1*m2 - m3) / cd

	disc := c1*c1 - 4*c0
	if disc < 0 {
		disc = 0
	}
	z0 := 0.5 * (-c1 - math.Sqrt(disc))
	z1 := 0.5 * (-c1 + math.Sqrt(disc))
	if z1-z0 <= 0 {
		return 0, degenerate(m.Name())
	}

	// Fraction of samples that must fall in the lower class.
	p0 := (z1 - m1) / (z1 - z0)

	sum := 0.0
	for t, v := range p {
		sum += v
		if sum >= p0-momentTolerance {
			return t, nil
		}
	}
	return len(p) - 1, nil
}

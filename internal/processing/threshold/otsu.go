package threshold

import "binarization/internal/processing/histogram"

// Otsu maximizes the between-class variance.
type Otsu struct{}

func (Otsu) Name() string { return "otsu" }

func (o Otsu) SelectBin(h *histogram.Histogram) (int, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	if bin, ok := singleLevel(h); ok {
		return bin, nil
	}

	c := accumulate(h)
	last := len(h.Counts) - 1
	total := h.Total
	sum := c.sum[last]
	mean := float64(sum) / float64(total)

	best := -1
	maxVariance := 0.0
	for t := 0; t < last; t++ {
		wB := c.count[t]
		wF := total - wB
		if wB == 0 || wF == 0 {
			continue
		}

		sumB := c.sum[t]
		pB := float64(wB) / float64(total)
		pF := float64(wF) / float64(total)
		mB := float64(sumB) / float64(wB)
		mF := float64(sum-sumB) / float64(wF)

		varBetween := pB*(mB-mean)*(mB-mean) + pF*(mF-mean)*(mF-mean)
		if best < 0 || varBetween > maxVariance {
			maxVariance = varBetween
			best = t
		}
	}

	if best < 0 {
		return 0, degenerate(o.Name())
	}
	return best, nil
}

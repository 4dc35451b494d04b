package threshold

import (
	"math"

	"binarization/internal/processing/histogram"
)

// Entropy is Kapur's maximum entropy criterion.
type Entropy struct{}

func (Entropy) Name() string { return "entropy" }

func (e Entropy) SelectBin(h *histogram.Histogram) (int, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	if bin, ok := singleLevel(h); ok {
		return bin, nil
	}

	p := h.Probabilities()

	// Hn, the entropy of the whole distribution, with 0·ln0 taken as 0.
	hn := 0.0
	for _, v := range p {
		if v > 0 {
			hn -= v * math.Log(v)
		}
	}

	best := -1
	maxPsi := math.Inf(-1)
	count := 0
	ps, hs := 0.0, 0.0
	for s := 0; s < len(p)-1; s++ {
		count += h.Counts[s]
		if p[s] > 0 {
			ps += p[s]
			hs -= p[s] * math.Log(p[s])
		}
		if count == 0 || count == h.Total {
			continue
		}

		psi := math.Log(ps*(1-ps)) + hs/ps + (hn-hs)/(1-ps)
		if math.IsNaN(psi) || math.IsInf(psi, 0) {
			continue
		}
		if psi > maxPsi {
			maxPsi = psi
			best = s
		}
	}

	if best < 0 {
		return 0, degenerate(e.Name())
	}
	return best, nil
}

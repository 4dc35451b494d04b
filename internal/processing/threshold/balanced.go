package threshold

import "binarization/internal/processing/histogram"

// Balanced treats bins as weights on a beam and removes the end of the
// lighter arm until a single bin, the fulcrum, remains.
type Balanced struct{}

func (Balanced) Name() string { return "balanced" }

func (b Balanced) SelectBin(h *histogram.Histogram) (int, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}

	lo, hi := 0, len(h.Counts)-1
	for lo < hi {
		mid := (lo + hi) / 2
		left, right := 0, 0
		for i := lo; i <= mid; i++ {
			left += h.Counts[i]
		}
		for i := mid + 1; i <= hi; i++ {
			right += h.Counts[i]
		}

		if left > right {
			lo++
		} else {
			hi--
		}
	}

	// A fulcrum pushed onto an edge means one dominant peak.
	if lo == 0 || lo == len(h.Counts)-1 {
		return UnimodalRosin{}.SelectBin(h)
	}
	return lo, nil
}

package threshold

import (
	"math"

	"binarization/internal/processing/histogram"
)

// UnimodalRosin draws a line from the histogram peak to the first empty bin
// after it and picks the bin furthest from that line.
type UnimodalRosin struct{}

func (UnimodalRosin) Name() string { return "unimodal_rosin" }

func (UnimodalRosin) SelectBin(h *histogram.Histogram) (int, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}

	// Find histogram peak
	peak := 0
	for i, c := range h.Counts {
		if c > h.Counts[peak] {
			peak = i
		}
	}

	end := len(h.Counts) - 1
	for i := peak + 1; i < len(h.Counts); i++ {
		if h.Counts[i] == 0 {
			end = i
			break
		}
	}
	if end == peak {
		return peak, nil
	}

	x1, y1 := float64(peak), float64(h.Counts[peak])
	x2, y2 := float64(end), float64(h.Counts[end])
	norm := math.Sqrt((y2-y1)*(y2-y1) + (x2-x1)*(x2-x1))

	best := peak
	maxDistance := -1.0
	for i := peak; i <= end; i++ {
		// Distance from point to line
		distance := math.Abs((y2-y1)*float64(i)-(x2-x1)*float64(h.Counts[i])+x2*y1-y2*x1) / norm
		if distance > maxDistance {
			maxDistance = distance
			best = i
		}
	}
	return best, nil
}

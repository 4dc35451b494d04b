package threshold

import (
	"fmt"

	"binarization/internal/models"
	"binarization/internal/processing/histogram"
)

// maxSmoothingPasses bounds the search for a bimodal histogram.
const maxSmoothingPasses = 10000

// Intermodes smooths the histogram until it is bimodal and returns the
// midpoint of the two modes, rounded down.
type Intermodes struct{}

func (Intermodes) Name() string { return "intermodes" }

func (i Intermodes) SelectBin(h *histogram.Histogram) (int, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	if bin, ok := singleLevel(h); ok {
		return bin, nil
	}

	_, m1, m2, err := bimodal(h, i.Name())
	if err != nil {
		return 0, err
	}
	return (m1 + m2) / 2, nil
}

// MinimumIntermodes smooths the histogram until it is bimodal and returns the
// valley between the two modes.
type MinimumIntermodes struct{}

func (MinimumIntermodes) Name() string { return "minimum_intermodes" }

func (m MinimumIntermodes) SelectBin(h *histogram.Histogram) (int, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	if bin, ok := singleLevel(h); ok {
		return bin, nil
	}

	smoothed, m1, m2, err := bimodal(h, m.Name())
	if err != nil {
		return 0, err
	}

	best := m1
	for t := m1 + 1; t < m2; t++ {
		if t == m1+1 || smoothed[t] < smoothed[best] {
			best = t
		}
	}
	return best, nil
}

// bimodal repeatedly applies a 3-point mean filter until exactly two modes
// remain, returning the smoothed counts and both mode positions.
func bimodal(h *histogram.Histogram, name string) ([]float64, int, int, error) {
	smoothed := make([]float64, len(h.Counts))
	for i, c := range h.Counts {
		smoothed[i] = float64(c)
	}

	for pass := 0; pass <= maxSmoothingPasses; pass++ {
		modes := localMaxima(smoothed)
		switch {
		case len(modes) == 2:
			return smoothed, modes[0], modes[1], nil
		case len(modes) < 2:
			return nil, 0, 0, fmt.Errorf("%s: histogram has %d modes after %d smoothing passes: %w",
				name, len(modes), pass, models.ErrDegenerateHistogram)
		}
		smoothed = smooth(smoothed)
	}

	return nil, 0, 0, fmt.Errorf("%s: histogram not bimodal after %d smoothing passes: %w",
		name, maxSmoothingPasses, models.ErrDegenerateHistogram)
}

// smooth returns the 3-point moving average with zeros outside the range.
func smooth(v []float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		sum := v[i]
		if i > 0 {
			sum += v[i-1]
		}
		if i < len(v)-1 {
			sum += v[i+1]
		}
		out[i] = sum / 3
	}
	return out
}

// localMaxima lists the modes of v. A mode is a run of equal values strictly
// greater than the values on both sides of the run, reported at the run's
// first bin. Values outside the range count as zero.
func localMaxima(v []float64) []int {
	var modes []int
	for i := 0; i < len(v); {
		j := i
		for j+1 < len(v) && v[j+1] == v[i] {
			j++
		}

		left, right := 0.0, 0.0
		if i > 0 {
			left = v[i-1]
		}
		if j < len(v)-1 {
			right = v[j+1]
		}
		if v[i] > left && v[i] > right {
			modes = append(modes, i)
		}
		i = j + 1
	}
	return modes
}

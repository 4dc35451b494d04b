// Package threshold implements global threshold selectors. Each selector
// inspects a histogram and returns the bin index T such that bins 0..T form
// the background class.
package threshold

import (
	"fmt"

	"binarization/internal/models"
	"binarization/internal/processing/histogram"
)

// Selector picks a single global threshold bin from a histogram.
type Selector interface {
	Name() string
	SelectBin(h *histogram.Histogram) (int, error)
}

func degenerate(name string) error {
	return fmt.Errorf("%s: no valid threshold candidate: %w", name, models.ErrDegenerateHistogram)
}

// cumulative holds running class statistics over bin index, accumulated in
// integer arithmetic so that candidates sharing the same split compare equal.
type cumulative struct {
	count    []int   // samples in bins 0..i
	occupied []int   // non-empty bins among 0..i
	sum      []int64 // Σ j*count[j] for j <= i
	sqSum    []int64 // Σ j²*count[j] for j <= i
}

func accumulate(h *histogram.Histogram) cumulative {
	n := len(h.Counts)
	c := cumulative{
		count:    make([]int, n),
		occupied: make([]int, n),
		sum:      make([]int64, n),
		sqSum:    make([]int64, n),
	}

	var count, occupied int
	var sum, sqSum int64
	for i, v := range h.Counts {
		count += v
		if v > 0 {
			occupied++
		}
		sum += int64(i) * int64(v)
		sqSum += int64(i) * int64(i) * int64(v)
		c.count[i] = count
		c.occupied[i] = occupied
		c.sum[i] = sum
		c.sqSum[i] = sqSum
	}
	return c
}

// classStats returns the weight, mean and variance (over bin index) of a class
// described by its count, occupied bins, Σi·n and Σi²·n. The variance is
// exactly zero when all samples share one bin.
func classStats(count, occupied int, sum, sqSum int64, total int) (weight, mean, variance float64) {
	n := float64(count)
	weight = n / float64(total)
	mean = float64(sum) / n
	if occupied <= 1 {
		return weight, mean, 0
	}

	variance = float64(sqSum)/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return weight, mean, variance
}

// singleLevel reports the only occupied bin of a histogram whose samples all
// share one intensity. Such a page has no split; every pixel is background.
func singleLevel(h *histogram.Histogram) (int, bool) {
	bin := -1
	for i, v := range h.Counts {
		if v == 0 {
			continue
		}
		if bin >= 0 {
			return 0, false
		}
		bin = i
	}
	return bin, bin >= 0
}

// Package histogram builds intensity histograms and maps selected bins back to
// the intensity domain.
package histogram

import (
	"fmt"
	"math"

	"binarization/internal/models"
	"binarization/internal/processing/parallel"
)

// DefaultLevels is the bin count used for 8-bit equivalent quantization.
const DefaultLevels = 256

// Histogram counts samples per quantized intensity level.
type Histogram struct {
	Counts []int
	Total  int
}

// New wraps precomputed counts. Negative counts are rejected.
func New(counts []int) (*Histogram, error) {
	if len(counts) < 2 {
		return nil, fmt.Errorf("histogram needs at least 2 levels, got %d: %w", len(counts), models.ErrInvalidInput)
	}

	total := 0
	for i, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("negative count %d at bin %d: %w", c, i, models.ErrInvalidInput)
		}
		total += c
	}

	h := &Histogram{Counts: make([]int, len(counts)), Total: total}
	copy(h.Counts, counts)
	return h, nil
}

// Build quantizes every sample of img into levels bins. Rows are counted in
// parallel bands and the partial histograms are summed.
func Build(img *models.Image, levels, workers int) (*Histogram, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if levels < 2 {
		return nil, fmt.Errorf("levels must be at least 2, got %d: %w", levels, models.ErrInvalidParameter)
	}

	bands := parallel.Split(img.Height, workers)
	partials := make([][]int, len(bands))

	err := parallel.Rows(img.Height, workers, func(b parallel.Band) error {
		counts := make([]int, levels)
		for _, v := range img.Pix[b.Y0*img.Width : b.Y1*img.Width] {
			counts[Bin(v, levels)]++
		}
		partials[b.Index] = counts
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("histogram build failed: %w", err)
	}

	h := &Histogram{Counts: make([]int, levels)}
	for _, counts := range partials {
		h.merge(counts)
	}
	return h, nil
}

func (h *Histogram) merge(counts []int) {
	for i, c := range counts {
		h.Counts[i] += c
		h.Total += c
	}
}

// Levels returns the number of bins.
func (h *Histogram) Levels() int {
	return len(h.Counts)
}

// Validate checks the histogram carries at least one sample.
func (h *Histogram) Validate() error {
	if h == nil || len(h.Counts) < 2 {
		return fmt.Errorf("histogram has no levels: %w", models.ErrInvalidInput)
	}
	if h.Total <= 0 {
		return fmt.Errorf("histogram is empty: %w", models.ErrInvalidInput)
	}
	return nil
}

// Probabilities returns Counts normalized by Total.
func (h *Histogram) Probabilities() []float64 {
	p := make([]float64, len(h.Counts))
	inv := 1.0 / float64(h.Total)
	for i, c := range h.Counts {
		p[i] = float64(c) * inv
	}
	return p
}

// Bin quantizes an intensity to a bin index in [0, levels-1]. NaN maps to 0.
func Bin(v float64, levels int) int {
	if math.IsNaN(v) {
		return 0
	}
	b := math.Floor(v*float64(levels-1) + 0.5)
	switch {
	case b < 0:
		return 0
	case b > float64(levels-1):
		return levels - 1
	}
	return int(b)
}

// Threshold converts a selected bin into an intensity threshold. Bins 0..bin
// are background, so the threshold is the upper edge of the bin and
// intensity >= threshold holds exactly when Bin(intensity) > bin.
func Threshold(bin, levels int) float64 {
	return (float64(bin) + 0.5) / float64(levels-1)
}

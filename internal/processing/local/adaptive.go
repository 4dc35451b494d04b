package local

import (
	"fmt"

	"binarization/internal/models"
	"binarization/internal/processing/integral"
)

// Default parameters for Bradley's adaptive threshold.
const (
	DefaultAdaptivePercentage = 15
	DefaultAdaptiveWindow     = 32
)

// AdaptiveThreshold is Bradley's method: a pixel is background when it is
// more than Percentage percent darker than the mean of the surrounding
// WindowSize x WindowSize square.
type AdaptiveThreshold struct {
	Percentage int
	WindowSize int
}

// NewAdaptiveThreshold validates the parameters and returns the method.
func NewAdaptiveThreshold(percentage, windowSize int) (AdaptiveThreshold, error) {
	a := AdaptiveThreshold{Percentage: percentage, WindowSize: windowSize}
	return a, a.Validate()
}

func (AdaptiveThreshold) Name() string { return "adaptive_threshold" }

func (a AdaptiveThreshold) Validate() error {
	if a.Percentage < 0 || a.Percentage > 100 {
		return fmt.Errorf("%s: percentage must be in [0,100], got %d: %w", a.Name(), a.Percentage, models.ErrInvalidParameter)
	}
	if a.WindowSize <= 0 {
		return invalidWindow(a.Name(), a.WindowSize)
	}
	return nil
}

func (a AdaptiveThreshold) ThresholdMap(img *models.Image, workers int) (*models.ThresholdMap, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	half := a.WindowSize / 2
	scale := 1 - float64(a.Percentage)/100
	return evaluate(img, workers, func(ii *integral.Image, x, y int) float64 {
		return ii.Mean(ii.Around(x, y, half)) * scale
	})
}

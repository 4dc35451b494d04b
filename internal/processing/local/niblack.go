package local

import (
	"binarization/internal/models"
	"binarization/internal/processing/integral"
)

// Default parameters shared by Niblack and Sauvola.
const (
	DefaultWindow = 7
	DefaultBias   = 0.2
)

// Niblack thresholds each pixel at mean + Bias*std over the square of
// half-width WindowSize centred on it.
type Niblack struct {
	WindowSize int
	Bias       float64
}

func NewNiblack(windowSize int, bias float64) (Niblack, error) {
	n := Niblack{WindowSize: windowSize, Bias: bias}
	return n, n.Validate()
}

func (Niblack) Name() string { return "niblack" }

func (n Niblack) Validate() error {
	if n.WindowSize <= 0 {
		return invalidWindow(n.Name(), n.WindowSize)
	}
	return nil
}

func (n Niblack) ThresholdMap(img *models.Image, workers int) (*models.ThresholdMap, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	return evaluate(img, workers, func(ii *integral.Image, x, y int) float64 {
		mean, std := ii.MeanStd(ii.Around(x, y, n.WindowSize))
		return mean + n.Bias*std
	})
}

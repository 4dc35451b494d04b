package local

import (
	"binarization/internal/models"
	"binarization/internal/processing/integral"
)

// DynamicRange is the largest standard deviation a [0,1] signal can reach.
const DynamicRange = 0.5

// Sauvola refines Niblack by scaling the deviation term with the local
// contrast: T = mean * (1 + Bias*(std/R - 1)).
type Sauvola struct {
	WindowSize int
	Bias       float64
}

func NewSauvola(windowSize int, bias float64) (Sauvola, error) {
	s := Sauvola{WindowSize: windowSize, Bias: bias}
	return s, s.Validate()
}

func (Sauvola) Name() string { return "sauvola" }

func (s Sauvola) Validate() error {
	if s.WindowSize <= 0 {
		return invalidWindow(s.Name(), s.WindowSize)
	}
	return nil
}

func (s Sauvola) ThresholdMap(img *models.Image, workers int) (*models.ThresholdMap, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return evaluate(img, workers, func(ii *integral.Image, x, y int) float64 {
		mean, std := ii.MeanStd(ii.Around(x, y, s.WindowSize))
		return mean * (1 + s.Bias*(std/DynamicRange-1))
	})
}

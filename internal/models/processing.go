package models

import (
	"fmt"
	"time"
)

// ThresholdMap holds one intensity-domain threshold per pixel.
type ThresholdMap struct {
	Width  int
	Height int
	Values []float64
}

func NewThresholdMap(width, height int) *ThresholdMap {
	return &ThresholdMap{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

func (t *ThresholdMap) At(x, y int) float64 {
	return t.Values[y*t.Width+x]
}

// Matches reports an error unless the map has the same dimensions as img.
func (t *ThresholdMap) Matches(img *Image) error {
	if t == nil || img == nil || t.Width != img.Width || t.Height != img.Height || len(t.Values) != len(img.Pix) {
		return fmt.Errorf("threshold map does not match image dimensions: %w", ErrInvalidInput)
	}
	return nil
}

// Outcome describes the threshold used by a binarization.
// Global is true only for histogram methods; Bin and Threshold are zero
// otherwise.
type Outcome struct {
	Method    string
	Global    bool
	Bin       int
	Levels    int
	Threshold float64
}

func (o Outcome) String() string {
	if !o.Global {
		return o.Method + " (per-pixel)"
	}
	return fmt.Sprintf("%s bin=%d/%d threshold=%.4f", o.Method, o.Bin, o.Levels, o.Threshold)
}

// ProcessingResult records a single pipeline run over one input.
type ProcessingResult struct {
	Source      string
	Destination string
	Width       int
	Height      int
	Outcome     Outcome
	Foreground  int
	ProcessTime time.Duration
	Quality     *QualityMetrics
}

// ForegroundRatio returns the fraction of pixels classified as foreground.
func (r ProcessingResult) ForegroundRatio() float64 {
	total := r.Width * r.Height
	if total == 0 {
		return 0
	}
	return float64(r.Foreground) / float64(total)
}

// QualityMetrics compares a binary result against a ground-truth image.
// Foreground is the positive class.
type QualityMetrics struct {
	TruePositives  int
	TrueNegatives  int
	FalsePositives int
	FalseNegatives int

	Precision float64
	Recall    float64
	FMeasure  float64
	FBeta     float64 // β = 0.5, weighted towards precision
	IoU       float64
	Dice      float64
	NRM       float64 // negative rate metric
	PSNR      float64 // +Inf for a perfect match
	DRD       float64 // distance reciprocal distortion
}

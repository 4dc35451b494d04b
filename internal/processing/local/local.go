// Package local implements adaptive thresholders that derive a threshold for
// every pixel from the statistics of its neighbourhood.
package local

import (
	"fmt"
	"math"

	"binarization/internal/models"
	"binarization/internal/processing/integral"
	"binarization/internal/processing/parallel"
)

// Thresholder computes a per-pixel threshold map. Pixels with intensity at or
// above their threshold are foreground.
type Thresholder interface {
	Name() string
	Validate() error
	ThresholdMap(img *models.Image, workers int) (*models.ThresholdMap, error)
}

// windowFunc returns the threshold for pixel (x, y) given the summed-area
// table of the image.
type windowFunc func(ii *integral.Image, x, y int) float64

// evaluate builds one integral image and fills the threshold map in parallel
// row bands.
func evaluate(img *models.Image, workers int, fn windowFunc) (*models.ThresholdMap, error) {
	ii, err := integral.Build(img)
	if err != nil {
		return nil, err
	}

	tm := models.NewThresholdMap(img.Width, img.Height)
	err = parallel.Rows(img.Height, workers, func(b parallel.Band) error {
		for y := b.Y0; y < b.Y1; y++ {
			row := tm.Values[y*img.Width : (y+1)*img.Width]
			for x := range row {
				row[x] = fn(ii, x, y)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("threshold map evaluation failed: %w", err)
	}
	return tm, nil
}

func invalidWindow(name string, size int) error {
	return fmt.Errorf("%s: window_size must be positive, got %d: %w", name, size, models.ErrInvalidParameter)
}

// RecommendSize suggests a window side of about one eighth of the mean image
// dimension, rounded to the nearest odd positive integer.
func RecommendSize(img *models.Image) int {
	if img == nil {
		return 1
	}
	size := int(math.Round(float64(img.Width+img.Height) / 16))
	if size < 1 {
		size = 1
	}
	if size%2 == 0 {
		size++
	}
	return size
}

// Package binarize applies scalar, per-pixel or classifier thresholds to an
// intensity array. Foreground (1) is intensity >= threshold; everything else
// is background (0).
package binarize

import (
	"fmt"

	"binarization/internal/models"
	"binarization/internal/processing/parallel"
)

// Scalar binarizes img against a single global threshold.
func Scalar(img *models.Image, threshold float64, workers int) (*models.BinaryImage, error) {
	return Classify(img, workers, func(_ int, v float64) bool {
		return v >= threshold
	})
}

// Map binarizes img against a per-pixel threshold map of the same size.
func Map(img *models.Image, tm *models.ThresholdMap, workers int) (*models.BinaryImage, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := tm.Matches(img); err != nil {
		return nil, err
	}
	return Classify(img, workers, func(i int, v float64) bool {
		return v >= tm.Values[i]
	})
}

// Classify builds a binary image from an arbitrary per-pixel predicate. The
// predicate receives the flat pixel index and the intensity.
func Classify(img *models.Image, workers int, foreground func(i int, v float64) bool) (*models.BinaryImage, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	out := models.NewBinaryImage(img.Width, img.Height)
	err := parallel.Rows(img.Height, workers, func(b parallel.Band) error {
		for i := b.Y0 * img.Width; i < b.Y1*img.Width; i++ {
			if foreground(i, img.Pix[i]) {
				out.Pix[i] = models.Foreground
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("binarization failed: %w", err)
	}
	return out, nil
}

// ScalarInPlace overwrites every sample of img with 0 or 1.
func ScalarInPlace(img *models.Image, threshold float64, workers int) error {
	return ClassifyInPlace(img, workers, func(_ int, v float64) bool {
		return v >= threshold
	})
}

// MapInPlace overwrites every sample of img with 0 or 1 using a per-pixel
// threshold map.
func MapInPlace(img *models.Image, tm *models.ThresholdMap, workers int) error {
	if err := img.Validate(); err != nil {
		return err
	}
	if err := tm.Matches(img); err != nil {
		return err
	}
	return ClassifyInPlace(img, workers, func(i int, v float64) bool {
		return v >= tm.Values[i]
	})
}

// ClassifyInPlace is the mutating form of Classify.
func ClassifyInPlace(img *models.Image, workers int, foreground func(i int, v float64) bool) error {
	if err := img.Validate(); err != nil {
		return err
	}

	err := parallel.Rows(img.Height, workers, func(b parallel.Band) error {
		for i := b.Y0 * img.Width; i < b.Y1*img.Width; i++ {
			if foreground(i, img.Pix[i]) {
				img.Pix[i] = 1
			} else {
				img.Pix[i] = 0
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("in-place binarization failed: %w", err)
	}
	return nil
}

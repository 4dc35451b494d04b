package conversion

import (
	"fmt"

	"gocv.io/x/gocv"

	"binarization/internal/models"
)

// maxDimension bounds decoded rasters.
const maxDimension = 32768

func ValidateMatForOperation(mat gocv.Mat, operation string) error {
	if mat.Empty() {
		return fmt.Errorf("Mat is empty for operation %s: %w", operation, models.ErrInvalidInput)
	}
	if err := ValidateDimensions(mat.Cols(), mat.Rows(), operation); err != nil {
		return err
	}
	return nil
}

func ValidateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d for operation %s: %w", width, height, operation, models.ErrInvalidInput)
	}
	if width > maxDimension || height > maxDimension {
		return fmt.Errorf("dimensions %dx%d exceed maximum size for operation %s: %w", width, height, operation, models.ErrInvalidInput)
	}
	return nil
}

// validateGrayConversion checks the channel count a CvtColor code expects.
func validateGrayConversion(mat gocv.Mat, code gocv.ColorConversionCode) error {
	channels := mat.Channels()
	switch code {
	case gocv.ColorBGRToGray:
		if channels != 3 {
			return fmt.Errorf("BGR to Gray conversion requires 3 channels, got %d", channels)
		}
	case gocv.ColorBGRAToGray:
		if channels != 4 {
			return fmt.Errorf("BGRA to Gray conversion requires 4 channels, got %d", channels)
		}
	}
	return nil
}

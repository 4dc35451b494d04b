// Package conversion moves rasters between OpenCV matrices and intensity
// arrays.
package conversion

import (
	"fmt"
	"strings"

	"gocv.io/x/gocv"

	"binarization/internal/models"
)

// Decode reads an encoded raster with OpenCV and returns its grayscale
// intensities. 8-bit and 16-bit depths are supported.
func Decode(data []byte) (*models.Image, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image with OpenCV: %w", err)
	}
	defer mat.Close()

	return MatToImage(mat)
}

// ConvertToGrayscale converts multi-channel images to single-channel
// grayscale. The caller owns the returned Mat.
func ConvertToGrayscale(src gocv.Mat) (gocv.Mat, error) {
	if err := ValidateMatForOperation(src, "grayscale conversion"); err != nil {
		return gocv.NewMat(), fmt.Errorf("validation failed: %w", err)
	}

	dst := gocv.NewMat()
	var code gocv.ColorConversionCode
	switch src.Channels() {
	case 1:
		src.CopyTo(&dst)
		return dst, nil
	case 3:
		code = gocv.ColorBGRToGray
	case 4:
		code = gocv.ColorBGRAToGray
	default:
		dst.Close()
		return gocv.NewMat(), fmt.Errorf("unsupported channel count: %d", src.Channels())
	}

	if err := validateGrayConversion(src, code); err != nil {
		dst.Close()
		return gocv.NewMat(), err
	}
	gocv.CvtColor(src, &dst, code)
	return dst, nil
}

// MatToImage converts an OpenCV matrix of any supported channel count to
// intensities in [0,1].
func MatToImage(src gocv.Mat) (*models.Image, error) {
	gray, err := ConvertToGrayscale(src)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	scale, err := depthScale(gray.Type())
	if err != nil {
		return nil, err
	}

	float := gocv.NewMat()
	defer float.Close()
	if err := gray.ConvertTo(&float, gocv.MatTypeCV32F); err != nil {
		return nil, fmt.Errorf("depth conversion failed: %w", err)
	}

	rows, cols := float.Rows(), float.Cols()
	img := models.NewImage(cols, rows)
	for y := 0; y < rows; y++ {
		row := img.Row(y)
		for x := range row {
			row[x] = float64(float.GetFloatAt(y, x)) * scale
		}
	}
	return img, nil
}

func depthScale(t gocv.MatType) (float64, error) {
	switch t {
	case gocv.MatTypeCV8UC1:
		return 1.0 / 255, nil
	case gocv.MatTypeCV16UC1:
		return 1.0 / 65535, nil
	case gocv.MatTypeCV32FC1:
		return 1, nil
	}
	return 0, fmt.Errorf("unsupported Mat type %v: %w", t, models.ErrInvalidInput)
}

// ImageToMat quantizes intensities to an 8-bit single-channel matrix. The
// caller owns the returned Mat.
func ImageToMat(img *models.Image) (gocv.Mat, error) {
	if err := img.Validate(); err != nil {
		return gocv.NewMat(), err
	}
	if err := ValidateDimensions(img.Width, img.Height, "intensity encoding"); err != nil {
		return gocv.NewMat(), err
	}
	return gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC1, img.Gray().Pix)
}

// BinaryToMat renders a binary image as an 8-bit single-channel matrix with
// foreground at 255. The caller owns the returned Mat.
func BinaryToMat(b *models.BinaryImage) (gocv.Mat, error) {
	if err := ValidateDimensions(b.Width, b.Height, "binary image encoding"); err != nil {
		return gocv.NewMat(), err
	}
	return gocv.NewMatFromBytes(b.Height, b.Width, gocv.MatTypeCV8UC1, b.Gray().Pix)
}

// Encode compresses a binary image with OpenCV. ext selects the codec, for
// example ".png" or ".tif".
func Encode(b *models.BinaryImage, ext string) ([]byte, error) {
	mat, err := BinaryToMat(b)
	if err != nil {
		return nil, fmt.Errorf("Mat creation failed: %w", err)
	}
	defer mat.Close()

	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	buf, err := gocv.IMEncode(gocv.FileExt(strings.ToLower(ext)), mat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s with OpenCV: %w", ext, err)
	}
	defer buf.Close()

	encoded := buf.GetBytes()
	out := make([]byte, len(encoded))
	copy(out, encoded)
	return out, nil
}

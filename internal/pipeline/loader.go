package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/opencv/conversion"
)

// Decoder backends.
const (
	DecoderOpenCV = "opencv"
	DecoderGo     = "go"
)

// Loader reads rasters from disk and converts them to intensities.
type Loader struct {
	decoder string
	logger  logger.Logger
}

func NewLoader(decoder string, log logger.Logger) (*Loader, error) {
	switch decoder {
	case "":
		decoder = DecoderGo
	case DecoderGo, DecoderOpenCV:
	default:
		return nil, fmt.Errorf("unknown decoder %q: %w", decoder, models.ErrInvalidParameter)
	}
	return &Loader{decoder: decoder, logger: log}, nil
}

// Load reads path and returns its intensities together with the detected
// format.
func (l *Loader) Load(path string) (*models.Image, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}

	l.logger.Debug("ImageLoader", "image data read", map[string]interface{}{
		"path":       path,
		"size_bytes": len(data),
		"decoder":    l.decoder,
	})

	return l.LoadFromBytes(data, filepath.Ext(path))
}

func (l *Loader) LoadFromBytes(data []byte, extension string) (*models.Image, string, error) {
	var (
		img    *models.Image
		format string
		err    error
	)

	if l.decoder == DecoderOpenCV {
		img, err = conversion.Decode(data)
	} else {
		var decoded image.Image
		decoded, format, err = image.Decode(bytes.NewReader(data))
		if err == nil {
			img = models.FromImage(decoded)
		}
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image with %s decoder: %w", l.decoder, err)
	}

	actualFormat := determineActualFormat(strings.ToLower(extension), format)
	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"width":  img.Width,
		"height": img.Height,
		"format": actualFormat,
	})
	return img, actualFormat, nil
}

// LoadBinary reads a ground-truth image. Pixels at or above mid-gray are
// foreground.
func (l *Loader) LoadBinary(path string) (*models.BinaryImage, error) {
	img, _, err := l.Load(path)
	if err != nil {
		return nil, err
	}

	b := models.NewBinaryImage(img.Width, img.Height)
	for i, v := range img.Pix {
		if v >= 0.5 {
			b.Pix[i] = models.Foreground
		}
	}
	return b, nil
}

func determineActualFormat(extension, decodedFormat string) string {
	switch extension {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		if decodedFormat != "" {
			return decodedFormat
		}
		return "unknown"
	}
}

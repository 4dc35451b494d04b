package pipeline

import (
	"bytes"
	"fmt"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/opencv/conversion"
)

// Saver encodes binary images, picking the format from the file extension.
type Saver struct {
	encoder string
	logger  logger.Logger
}

func NewSaver(encoder string, log logger.Logger) *Saver {
	if encoder == "" {
		encoder = DecoderGo
	}
	return &Saver{encoder: encoder, logger: log}
}

// FormatFromPath maps a file extension to an output format, defaulting to
// PNG.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	default:
		return "png"
	}
}

func (s *Saver) Save(path string, b *models.BinaryImage) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := s.SaveToWriter(&buf, b, FormatFromPath(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"path": path,
	})
	return nil
}

func (s *Saver) SaveToWriter(writer io.Writer, b *models.BinaryImage, format string) error {
	if b == nil {
		return fmt.Errorf("no image data to save: %w", models.ErrInvalidInput)
	}
	if format == "" {
		format = "png"
	}

	s.logger.Debug("ImageSaver", "saving image", map[string]interface{}{
		"format":  format,
		"encoder": s.encoder,
		"width":   b.Width,
		"height":  b.Height,
	})

	var err error
	if s.encoder == DecoderOpenCV && format != "gif" {
		err = s.encodeOpenCV(writer, b, format)
	} else {
		err = s.encodeGo(writer, b, format)
	}
	if err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"format": format,
		})
		return err
	}
	return nil
}

func (s *Saver) encodeOpenCV(writer io.Writer, b *models.BinaryImage, format string) error {
	ext := map[string]string{"jpeg": ".jpg", "tiff": ".tif", "bmp": ".bmp", "png": ".png"}[format]
	if ext == "" {
		ext = ".png"
	}
	data, err := conversion.Encode(b, ext)
	if err != nil {
		return err
	}
	_, err = writer.Write(data)
	return err
}

func (s *Saver) encodeGo(writer io.Writer, b *models.BinaryImage, format string) error {
	img := b.Gray()
	switch format {
	case "jpeg":
		return jpeg.Encode(writer, img, &jpeg.Options{Quality: 95})
	case "tiff":
		return tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
	case "bmp":
		return bmp.Encode(writer, img)
	case "gif":
		return gif.Encode(writer, img, nil)
	default:
		return png.Encode(writer, img)
	}
}

package models

import (
	"fmt"
	"image"
	"image/color"
)

// Image is a grayscale intensity array with samples normalized to [0,1],
// stored row-major.
type Image struct {
	Width  int
	Height int
	Pix    []float64
}

// NewImage creates a zero-valued intensity array.
func NewImage(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// NewImageFromRows builds an intensity array from row slices. All rows must
// have the same length.
func NewImageFromRows(rows [][]float64) (*Image, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("no rows supplied: %w", ErrInvalidInput)
	}

	width := len(rows[0])
	img := NewImage(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d samples, want %d: %w", y, len(row), width, ErrInvalidInput)
		}
		copy(img.Pix[y*width:(y+1)*width], row)
	}
	return img, nil
}

// FromGray converts an 8-bit grayscale image into an intensity array.
func FromGray(gray *image.Gray) *Image {
	b := gray.Bounds()
	img := NewImage(b.Dx(), b.Dy())
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			img.Pix[y*img.Width+x] = float64(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255
		}
	}
	return img
}

// FromImage converts any image to intensities using the standard luma
// conversion of color.GrayModel.
func FromImage(src image.Image) *Image {
	if gray, ok := src.(*image.Gray); ok {
		return FromGray(gray)
	}

	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy())
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			g := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			img.Pix[y*img.Width+x] = float64(g.Y) / 255
		}
	}
	return img
}

// Empty reports whether the image holds no samples.
func (im *Image) Empty() bool {
	return im == nil || im.Width <= 0 || im.Height <= 0 || len(im.Pix) == 0
}

// Validate checks that the image is non-empty and its buffer matches its
// dimensions.
func (im *Image) Validate() error {
	if im.Empty() {
		return fmt.Errorf("empty image: %w", ErrInvalidInput)
	}
	if len(im.Pix) != im.Width*im.Height {
		return fmt.Errorf("buffer holds %d samples for %dx%d image: %w",
			len(im.Pix), im.Width, im.Height, ErrInvalidInput)
	}
	return nil
}

func (im *Image) At(x, y int) float64 {
	return im.Pix[y*im.Width+x]
}

func (im *Image) Set(x, y int, v float64) {
	im.Pix[y*im.Width+x] = v
}

// Row returns the samples of row y without copying.
func (im *Image) Row(y int) []float64 {
	return im.Pix[y*im.Width : (y+1)*im.Width]
}

func (im *Image) Clone() *Image {
	c := NewImage(im.Width, im.Height)
	copy(c.Pix, im.Pix)
	return c
}

// Gray renders the intensities as an 8-bit grayscale image.
func (im *Image) Gray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, im.Width, im.Height))
	for i, v := range im.Pix {
		out.Pix[i] = toByte(v)
	}
	return out
}

func toByte(v float64) uint8 {
	switch {
	case v != v || v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// BinaryImage holds a two-level image: 0 is background, 1 is foreground.
type BinaryImage struct {
	Width  int
	Height int
	Pix    []uint8
}

const (
	Background uint8 = 0
	Foreground uint8 = 1
)

func NewBinaryImage(width, height int) *BinaryImage {
	return &BinaryImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

func (b *BinaryImage) At(x, y int) uint8 {
	return b.Pix[y*b.Width+x]
}

// ForegroundCount returns the number of foreground pixels.
func (b *BinaryImage) ForegroundCount() int {
	n := 0
	for _, v := range b.Pix {
		if v == Foreground {
			n++
		}
	}
	return n
}

// Gray renders background as black and foreground as white.
func (b *BinaryImage) Gray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for i, v := range b.Pix {
		if v == Foreground {
			out.Pix[i] = 255
		}
	}
	return out
}

// Intensities returns the binary image as an intensity array of 0s and 1s.
func (b *BinaryImage) Intensities() *Image {
	img := NewImage(b.Width, b.Height)
	for i, v := range b.Pix {
		img.Pix[i] = float64(v)
	}
	return img
}

package filters

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"binarization/internal/models"
	"binarization/internal/opencv/conversion"
)

const (
	DefaultSigma      = 1.0
	DefaultClipLimit  = 3.0
	DefaultTileSize   = 8
	DefaultMedianSize = 3
)

// Gaussian smooths with a kernel of about six sigma, capped at 15 pixels.
type Gaussian struct {
	Sigma float64
}

func NewGaussian(sigma float64) (Gaussian, error) {
	if sigma <= 0 {
		return Gaussian{}, fmt.Errorf("gaussian sigma must be positive, got %g: %w", sigma, models.ErrInvalidParameter)
	}
	return Gaussian{Sigma: sigma}, nil
}

func (Gaussian) Name() string { return "gaussian" }

func (g Gaussian) kernel() int {
	size := int(g.Sigma*6) + 1
	if size%2 == 0 {
		size++
	}
	return max(3, min(size, 15))
}

func (g Gaussian) Apply(src gocv.Mat) (gocv.Mat, error) {
	if err := conversion.ValidateMatForOperation(src, g.Name()); err != nil {
		return gocv.NewMat(), err
	}
	dst := gocv.NewMat()
	k := g.kernel()
	gocv.GaussianBlur(src, &dst, image.Point{X: k, Y: k}, g.Sigma, g.Sigma, gocv.BorderDefault)
	return dst, nil
}

// CLAHE equalizes contrast per tile, which evens out uneven page lighting.
type CLAHE struct {
	ClipLimit float64
	TileSize  int
}

func NewCLAHE(clipLimit float64, tileSize int) (CLAHE, error) {
	if clipLimit <= 0 || tileSize < 1 {
		return CLAHE{}, fmt.Errorf("clahe needs a positive clip limit and tile size: %w", models.ErrInvalidParameter)
	}
	return CLAHE{ClipLimit: clipLimit, TileSize: tileSize}, nil
}

func (CLAHE) Name() string { return "clahe" }

func (c CLAHE) Apply(src gocv.Mat) (gocv.Mat, error) {
	if err := conversion.ValidateMatForOperation(src, c.Name()); err != nil {
		return gocv.NewMat(), err
	}
	clahe := gocv.NewCLAHEWithParams(c.ClipLimit, image.Point{X: c.TileSize, Y: c.TileSize})
	defer clahe.Close()

	dst := gocv.NewMat()
	clahe.Apply(src, &dst)
	return dst, nil
}

// Median removes salt-and-pepper noise. Size must be odd.
type Median struct {
	Size int
}

func NewMedian(size int) (Median, error) {
	if size < 3 || size%2 == 0 {
		return Median{}, fmt.Errorf("median size must be odd and at least 3, got %d: %w", size, models.ErrInvalidParameter)
	}
	return Median{Size: size}, nil
}

func (Median) Name() string { return "median" }

func (m Median) Apply(src gocv.Mat) (gocv.Mat, error) {
	if err := conversion.ValidateMatForOperation(src, m.Name()); err != nil {
		return gocv.NewMat(), err
	}
	dst := gocv.NewMat()
	gocv.MedianBlur(src, &dst, m.Size)
	return dst, nil
}

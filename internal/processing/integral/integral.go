// Package integral provides summed-area tables for constant-time window
// statistics.
package integral

import (
	"math"

	"binarization/internal/models"
)

// Image holds prefix sums of intensities and squared intensities. Both grids
// are (Height+1)x(Width+1) with a zero first row and column, so entry (x, y)
// is the sum over the rectangle [0,x)x[0,y).
type Image struct {
	Width  int
	Height int
	sum    []float64
	sqSum  []float64
}

// Build computes both prefix-sum grids in a single pass.
func Build(img *models.Image) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	stride := img.Width + 1
	ii := &Image{
		Width:  img.Width,
		Height: img.Height,
		sum:    make([]float64, stride*(img.Height+1)),
		sqSum:  make([]float64, stride*(img.Height+1)),
	}

	for y := 0; y < img.Height; y++ {
		var rowSum, rowSq float64
		row := img.Row(y)
		above := y * stride
		cur := (y + 1) * stride
		for x, v := range row {
			rowSum += v
			rowSq += v * v
			ii.sum[cur+x+1] = ii.sum[above+x+1] + rowSum
			ii.sqSum[cur+x+1] = ii.sqSum[above+x+1] + rowSq
		}
	}
	return ii, nil
}

// Window is a clipped rectangle [X0,X1)x[Y0,Y1) in pixel coordinates.
type Window struct {
	X0, Y0, X1, Y1 int
}

// Area returns the number of pixels covered.
func (w Window) Area() int {
	return (w.X1 - w.X0) * (w.Y1 - w.Y0)
}

// Around returns the window of half-width r centred on (x, y), clipped to the
// image bounds.
func (ii *Image) Around(x, y, r int) Window {
	return ii.Clip(x-r, y-r, x+r+1, y+r+1)
}

// Clip clamps the corner coordinates of a half-open rectangle to the image.
func (ii *Image) Clip(x0, y0, x1, y1 int) Window {
	return Window{
		X0: clamp(x0, 0, ii.Width),
		Y0: clamp(y0, 0, ii.Height),
		X1: clamp(x1, 0, ii.Width),
		Y1: clamp(y1, 0, ii.Height),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (ii *Image) rect(grid []float64, w Window) float64 {
	stride := ii.Width + 1
	return grid[w.Y1*stride+w.X1] - grid[w.Y0*stride+w.X1] - grid[w.Y1*stride+w.X0] + grid[w.Y0*stride+w.X0]
}

// Sum returns the sum of intensities inside w.
func (ii *Image) Sum(w Window) float64 {
	return ii.rect(ii.sum, w)
}

// SqSum returns the sum of squared intensities inside w.
func (ii *Image) SqSum(w Window) float64 {
	return ii.rect(ii.sqSum, w)
}

// Mean returns the average intensity of w, or 0 for an empty window.
func (ii *Image) Mean(w Window) float64 {
	area := w.Area()
	if area <= 0 {
		return 0
	}
	return ii.Sum(w) / float64(area)
}

// MeanStd returns the mean and population standard deviation of w. Variance
// lost to round-off below zero is clamped.
func (ii *Image) MeanStd(w Window) (mean, std float64) {
	area := w.Area()
	if area <= 0 {
		return 0, 0
	}
	n := float64(area)
	mean = ii.Sum(w) / n
	variance := ii.SqSum(w)/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

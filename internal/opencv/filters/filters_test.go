package filters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"binarization/internal/models"
)

func noisyPage() *models.Image {
	img := models.NewImage(32, 32)
	for i := range img.Pix {
		img.Pix[i] = 0.8
	}
	for y := 10; y < 14; y++ {
		for x := 4; x < 28; x++ {
			img.Set(x, y, 0.1)
		}
	}
	img.Set(2, 2, 0)
	img.Set(29, 29, 0)
	return img
}

func TestParse(t *testing.T) {
	chain, err := Parse([]string{"gaussian", "clahe:2.5", "median:5"})
	require.NoError(t, err)
	assert.Equal(t, []string{"gaussian", "clahe", "median"}, chain.Names())
	assert.Equal(t, NewChain(Gaussian{Sigma: 1}, CLAHE{ClipLimit: 2.5, TileSize: 8}, Median{Size: 5}), chain)
}

func TestParseRejects(t *testing.T) {
	for _, spec := range []string{"sharpen", "gaussian:x", "gaussian:0", "median:4", "clahe:-1"} {
		_, err := Parse([]string{spec})
		assert.ErrorIs(t, err, models.ErrInvalidParameter, spec)
	}
}

func TestEmptyChainReturnsInput(t *testing.T) {
	img := noisyPage()
	out, err := NewChain().Execute(context.Background(), img)
	require.NoError(t, err)
	assert.Same(t, img, out)
}

func TestMedianRemovesIsolatedPixels(t *testing.T) {
	img := noisyPage()
	out, err := NewChain(Median{Size: 3}).Execute(context.Background(), img)
	require.NoError(t, err)

	assert.Equal(t, img.Width, out.Width)
	assert.InDelta(t, 0.8, out.At(2, 2), 1.0/255)
	assert.InDelta(t, 0.1, out.At(15, 11), 1.0/255)
}

func TestGaussianKeepsRange(t *testing.T) {
	out, err := NewChain(Gaussian{Sigma: 1.5}, CLAHE{ClipLimit: 2, TileSize: 4}).Execute(context.Background(), noisyPage())
	require.NoError(t, err)
	for _, v := range out.Pix {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestExecuteHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewChain(Median{Size: 3}).Execute(ctx, noisyPage())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGaussianKernel(t *testing.T) {
	assert.Equal(t, 7, Gaussian{Sigma: 1}.kernel())
	assert.Equal(t, 3, Gaussian{Sigma: 0.1}.kernel())
	assert.Equal(t, 15, Gaussian{Sigma: 10}.kernel())
}

var errBrokenFilter = errors.New("broken filter")

// brokenFilter fails after allocating its output.
type brokenFilter struct{}

func (brokenFilter) Name() string { return "broken" }

func (brokenFilter) Apply(gocv.Mat) (gocv.Mat, error) {
	return gocv.NewMat(), errBrokenFilter
}

// countingFilter copies its input and counts the calls.
type countingFilter struct {
	calls *int
}

func (countingFilter) Name() string { return "counting" }

func (f countingFilter) Apply(src gocv.Mat) (gocv.Mat, error) {
	*f.calls++
	return src.Clone(), nil
}

func TestExecuteStopsOnFailingStep(t *testing.T) {
	calls := 0
	chain := NewChain(countingFilter{calls: &calls}, brokenFilter{}, countingFilter{calls: &calls})

	out, err := chain.Execute(context.Background(), noisyPage())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBrokenFilter)
	assert.Contains(t, err.Error(), "step broken failed")
	assert.Nil(t, out)
	assert.Equal(t, 1, calls)
}

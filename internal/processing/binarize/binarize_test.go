package binarize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binarization/internal/models"
)

func sample(t *testing.T) *models.Image {
	t.Helper()
	img, err := models.NewImageFromRows([][]float64{
		{0.0, 0.25, 0.5},
		{0.75, 1.0, 0.5},
	})
	require.NoError(t, err)
	return img
}

func TestScalar(t *testing.T) {
	img := sample(t)
	out, err := Scalar(img, 0.5, 2)
	require.NoError(t, err)

	assert.Equal(t, []uint8{0, 0, 1, 1, 1, 1}, out.Pix)
	assert.Equal(t, 4, out.ForegroundCount())
	// Source is untouched.
	assert.Equal(t, 0.25, img.At(1, 0))
}

func TestScalarInPlace(t *testing.T) {
	img := sample(t)
	require.NoError(t, ScalarInPlace(img, 0.6, 1))
	assert.Equal(t, []float64{0, 0, 0, 1, 1, 0}, img.Pix)

	// Re-applying the same threshold to binary data changes nothing.
	require.NoError(t, ScalarInPlace(img, 0.6, 1))
	assert.Equal(t, []float64{0, 0, 0, 1, 1, 0}, img.Pix)
}

func TestMap(t *testing.T) {
	img := sample(t)
	tm := models.NewThresholdMap(3, 2)
	copy(tm.Values, []float64{0.0, 0.3, 0.5, 0.8, 0.9, 0.6})

	out, err := Map(img, tm, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 0, 1, 0, 1, 0}, out.Pix)

	require.NoError(t, MapInPlace(img, tm, 3))
	assert.Equal(t, []float64{1, 0, 1, 0, 1, 0}, img.Pix)
}

func TestMapDimensionMismatch(t *testing.T) {
	img := sample(t)
	tm := models.NewThresholdMap(2, 3)

	_, err := Map(img, tm, 1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.ErrorIs(t, MapInPlace(img, tm, 1), models.ErrInvalidInput)
}

func TestEmptyImage(t *testing.T) {
	_, err := Scalar(models.NewImage(0, 0), 0.5, 1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.ErrorIs(t, ScalarInPlace(&models.Image{}, 0.5, 1), models.ErrInvalidInput)
}

func TestClassify(t *testing.T) {
	img := sample(t)
	out, err := Classify(img, 1, func(i int, _ float64) bool { return i%2 == 0 })
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 0, 1, 0, 1, 0}, out.Pix)
}

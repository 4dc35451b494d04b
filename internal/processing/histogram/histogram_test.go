package histogram

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binarization/internal/models"
)

func randomImage(t *testing.T, w, h int, seed int64) *models.Image {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	img := models.NewImage(w, h)
	for i := range img.Pix {
		img.Pix[i] = r.Float64()
	}
	return img
}

func TestBuildTotalsMatchPixelCount(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {7, 3}, {64, 48}, {333, 129}} {
		img := randomImage(t, size[0], size[1], 42)
		h, err := Build(img, DefaultLevels, 4)
		require.NoError(t, err)

		sum := 0
		for _, c := range h.Counts {
			sum += c
		}
		assert.Equal(t, size[0]*size[1], sum)
		assert.Equal(t, size[0]*size[1], h.Total)
	}
}

func TestBuildIndependentOfWorkers(t *testing.T) {
	img := randomImage(t, 200, 150, 7)

	single, err := Build(img, 64, 1)
	require.NoError(t, err)
	many, err := Build(img, 64, 8)
	require.NoError(t, err)

	assert.Equal(t, single.Counts, many.Counts)
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	_, err := Build(models.NewImage(0, 0), DefaultLevels, 1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = Build(models.NewImage(2, 2), 1, 1)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}

func TestBin(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want int
	}{
		{"zero", 0, 0},
		{"one", 1, 255},
		{"below range", -0.5, 0},
		{"above range", 1.5, 255},
		{"nan", math.NaN(), 0},
		{"byte value", 128.0 / 255, 128},
		{"nearest level", 10.4 / 255, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bin(tt.v, 256))
		})
	}
}

func TestThresholdSplitsAtSelectedBin(t *testing.T) {
	const levels = 256
	for bin := 0; bin < levels-1; bin++ {
		th := Threshold(bin, levels)
		below := float64(bin) / (levels - 1)
		above := float64(bin+1) / (levels - 1)
		assert.Less(t, below, th)
		assert.GreaterOrEqual(t, above, th)
	}
}

func TestNewValidatesCounts(t *testing.T) {
	h, err := New([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 6, h.Total)
	assert.InDeltaSlice(t, []float64{1.0 / 6, 2.0 / 6, 3.0 / 6}, h.Probabilities(), 1e-12)

	_, err = New([]int{1, -1})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	empty, err := New(make([]int, 4))
	require.NoError(t, err)
	assert.ErrorIs(t, empty.Validate(), models.ErrInvalidInput)
}

package report

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binarization/internal/models"
	"binarization/internal/processing/histogram"
)

func TestHistogramRendersPNG(t *testing.T) {
	counts := make([]int, 256)
	for i := range counts {
		counts[i] = (i % 40) * 3
	}
	h, err := histogram.New(counts)
	require.NoError(t, err)

	var buf bytes.Buffer
	outcome := models.Outcome{Method: "otsu", Global: true, Bin: 120, Levels: 256, Threshold: histogram.Threshold(120, 256)}
	require.NoError(t, Histogram(h, outcome, "test", &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1280, img.Bounds().Dx())
}

func TestWriteHistogram(t *testing.T) {
	h, err := histogram.New([]int{5, 0, 3, 9})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hist.png")
	require.NoError(t, WriteHistogram(path, h, models.Outcome{Method: "sauvola"}, "local"))
	assert.FileExists(t, path)
}

func TestHistogramRejectsEmpty(t *testing.T) {
	h, err := histogram.New(make([]int, 8))
	require.NoError(t, err)
	assert.Error(t, Histogram(h, models.Outcome{}, "", &bytes.Buffer{}))
}

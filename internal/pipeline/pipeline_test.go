package pipeline

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/processing/threshold"
)

// writeSplitPNG writes a gray image whose left half is dark and right half
// bright.
func writeSplitPNG(t *testing.T, path string, width, height int, dark, bright uint8) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := dark
			if x >= width/2 {
				v = bright
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	c, err := NewCoordinator(Options{Decoder: DecoderGo, Levels: 256, Workers: 2, Logger: logger.Nop()})
	require.NoError(t, err)
	return c
}

func TestProcessorWritesBinaryAndEvaluates(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.png")
	truth := filepath.Join(dir, "truth.png")
	out := filepath.Join(dir, "out", "page_otsu.png")
	plot := filepath.Join(dir, "page_hist.png")

	writeSplitPNG(t, src, 40, 20, 50, 200)
	writeSplitPNG(t, truth, 40, 20, 0, 255)

	c := newTestCoordinator(t)
	result, binary, err := c.Processor().Process(context.Background(), Job{
		Source:      src,
		Destination: out,
		Truth:       truth,
		Plot:        plot,
	}, threshold.Otsu{})
	require.NoError(t, err)

	assert.FileExists(t, out)
	assert.FileExists(t, plot)
	assert.Equal(t, 40, result.Width)
	assert.Equal(t, 20, result.Height)
	assert.True(t, result.Outcome.Global)
	assert.Equal(t, "otsu", result.Outcome.Method)
	assert.Equal(t, 400, result.Foreground)
	assert.InDelta(t, 0.5, result.ForegroundRatio(), 1e-12)
	assert.Equal(t, 400, binary.ForegroundCount())

	require.NotNil(t, result.Quality)
	assert.Equal(t, 1.0, result.Quality.FMeasure)
	assert.True(t, math.IsInf(result.Quality.PSNR, 1))
	assert.Zero(t, result.Quality.DRD)

	loader, err := NewLoader(DecoderGo, logger.Nop())
	require.NoError(t, err)
	saved, err := loader.LoadBinary(out)
	require.NoError(t, err)
	assert.Equal(t, binary.Pix, saved.Pix)
}

func TestProcessorMissingSource(t *testing.T) {
	c := newTestCoordinator(t)
	_, _, err := c.Processor().Process(context.Background(), Job{
		Source: filepath.Join(t.TempDir(), "missing.png"),
	}, threshold.Otsu{})
	assert.Error(t, err)
}

func TestProcessorBlankPageIsBackground(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "flat.png")
	writeSplitPNG(t, src, 16, 16, 128, 128)

	c := newTestCoordinator(t)
	_, binary, err := c.Processor().Process(context.Background(), Job{Source: src}, threshold.Otsu{})
	require.NoError(t, err)
	for _, v := range binary.Pix {
		require.Equal(t, models.Background, v)
	}
}

func TestProcessorDegenerateInput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "flat.png")
	writeSplitPNG(t, src, 16, 16, 128, 128)

	c := newTestCoordinator(t)
	_, _, err := c.Processor().Process(context.Background(), Job{Source: src}, threshold.MinimumError{})
	assert.ErrorIs(t, err, models.ErrDegenerateHistogram)
}

func TestProcessorHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestCoordinator(t)
	_, _, err := c.Processor().Process(ctx, Job{Source: "unused.png"}, threshold.Otsu{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoordinatorRunKeepsJobOrder(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for i, width := range []int{20, 30, 40, 50} {
		src := filepath.Join(dir, "in", string(rune('a'+i))+".png")
		require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
		writeSplitPNG(t, src, width, 10, 30, 220)
		jobs = append(jobs, Job{Source: src, Destination: OutputPath(src, filepath.Join(dir, "out")+"/", "otsu", true)})
	}

	c := newTestCoordinator(t)
	results, err := c.Run(context.Background(), threshold.Otsu{}, jobs)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	for i, r := range results {
		assert.Equal(t, jobs[i].Source, r.Source)
		assert.Equal(t, []int{20, 30, 40, 50}[i], r.Width)
		assert.FileExists(t, jobs[i].Destination)
	}
}

func TestCoordinatorRunReportsFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writeSplitPNG(t, good, 20, 20, 30, 220)

	c := newTestCoordinator(t)
	_, err := c.Run(context.Background(), threshold.Otsu{}, []Job{
		{Source: good},
		{Source: filepath.Join(dir, "missing.png")},
	})
	assert.Error(t, err)
}

func TestNewLoaderRejectsUnknownDecoder(t *testing.T) {
	_, err := NewLoader("magick", logger.Nop())
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}

func TestSaverFormats(t *testing.T) {
	b := models.NewBinaryImage(8, 8)
	for i := 0; i < 32; i++ {
		b.Pix[i] = models.Foreground
	}

	dir := t.TempDir()
	saver := NewSaver(DecoderGo, logger.Nop())
	loader, err := NewLoader(DecoderGo, logger.Nop())
	require.NoError(t, err)

	// Lossless formats round-trip exactly.
	for _, name := range []string{"b.png", "b.bmp", "b.tif", "b.gif"} {
		path := filepath.Join(dir, name)
		require.NoError(t, saver.Save(path, b), name)

		got, err := loader.LoadBinary(path)
		require.NoError(t, err, name)
		assert.Equal(t, b.Pix, got.Pix, name)
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]string{
		"a.JPG":  "jpeg",
		"a.tiff": "tiff",
		"a.bmp":  "bmp",
		"a.gif":  "gif",
		"a.png":  "png",
		"a":      "png",
	}
	for path, want := range cases {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("scans", "p1_sauvola.png"), OutputPath(filepath.Join("scans", "p1.tif"), "", "sauvola", false))
	assert.Equal(t, filepath.Join("out", "p1_otsu.png"), OutputPath("p1.jpg", "out", "otsu", true))
	assert.Equal(t, "result.bmp", OutputPath("p1.jpg", "result.bmp", "otsu", false))
}

func TestCalculateQuality(t *testing.T) {
	truth := models.NewBinaryImage(4, 1)
	result := models.NewBinaryImage(4, 1)
	truth.Pix = []uint8{1, 1, 0, 0}
	result.Pix = []uint8{1, 0, 1, 0}

	q, err := CalculateQuality(truth, result)
	require.NoError(t, err)

	assert.Equal(t, 1, q.TruePositives)
	assert.Equal(t, 1, q.TrueNegatives)
	assert.Equal(t, 1, q.FalsePositives)
	assert.Equal(t, 1, q.FalseNegatives)
	assert.InDelta(t, 0.5, q.Precision, 1e-12)
	assert.InDelta(t, 0.5, q.Recall, 1e-12)
	assert.InDelta(t, 0.5, q.FMeasure, 1e-12)
	assert.InDelta(t, 0.5, q.FBeta, 1e-12)
	assert.InDelta(t, 1.0/3, q.IoU, 1e-12)
	assert.InDelta(t, 0.5, q.Dice, 1e-12)
	assert.InDelta(t, 0.5, q.NRM, 1e-12)
	assert.InDelta(t, 10*math.Log10(2), q.PSNR, 1e-12)
	assert.Greater(t, q.DRD, 0.0)
}

func TestCalculateQualityPerfect(t *testing.T) {
	truth := models.NewBinaryImage(16, 16)
	for i := range truth.Pix {
		if i%3 == 0 {
			truth.Pix[i] = models.Foreground
		}
	}

	q, err := CalculateQuality(truth, truth)
	require.NoError(t, err)
	assert.Equal(t, 1.0, q.FMeasure)
	assert.Equal(t, 1.0, q.IoU)
	assert.Zero(t, q.NRM)
	assert.Zero(t, q.DRD)
	assert.True(t, math.IsInf(q.PSNR, 1))
}

func TestCalculateQualityDimensionMismatch(t *testing.T) {
	_, err := CalculateQuality(models.NewBinaryImage(2, 2), models.NewBinaryImage(3, 2))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = CalculateQuality(nil, models.NewBinaryImage(1, 1))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCoordinatorPreprocessing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.png")
	writeSplitPNG(t, src, 32, 32, 40, 210)

	c, err := NewCoordinator(Options{Decoder: DecoderGo, Preprocess: []string{"median:3"}, Logger: logger.Nop()})
	require.NoError(t, err)

	results, err := c.Run(context.Background(), threshold.Otsu{}, []Job{{Source: src, Destination: filepath.Join(dir, "out.png")}})
	require.NoError(t, err)
	assert.Equal(t, 32*16, results[0].Foreground)

	_, err = NewCoordinator(Options{Preprocess: []string{"sharpen"}})
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}

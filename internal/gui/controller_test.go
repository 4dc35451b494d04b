package gui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binarization/internal/algorithms"
	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/pipeline"
)

func stripes(width, height int) *models.Image {
	img := models.NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := 0.2
			if (x/4)%2 == 1 {
				v = 0.8
			}
			img.Set(x, y, v)
		}
	}
	return img
}

// newTestController queues UI callbacks so the test can run them on its own
// goroutine.
func newTestController(t *testing.T, method string) (*Controller, *View, chan func()) {
	t.Helper()

	a := test.NewTempApp(t)
	window := a.NewWindow("preview")
	t.Cleanup(window.Close)

	log := logger.Nop()
	engine := algorithms.NewEngine(log, 256, 2)
	view := NewView(window, algorithms.NewManager().GetAvailableAlgorithms(), method)
	c := NewController(stripes(32, 32), engine, pipeline.NewSaver(pipeline.DecoderGo, log), log)

	queue := make(chan func(), 8)
	c.dispatch = func(fn func()) { queue <- fn }

	require.NoError(t, c.SetView(view, method, nil))
	view.SetController(c)
	return c, view, queue
}

func drain(t *testing.T, queue chan func()) {
	t.Helper()
	select {
	case fn := <-queue:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered")
	}
}

func TestControllerProcessShowsResult(t *testing.T) {
	c, view, queue := newTestController(t, "otsu")

	c.Process()
	drain(t, queue)

	require.NotNil(t, c.Result())
	assert.Equal(t, 32*32/2, c.Result().ForegroundCount())
	assert.Contains(t, view.imageDisplay.OutcomeText(), "otsu")
	assert.Equal(t, "50.0% foreground", view.toolbar.Status())
}

func TestControllerChangeMethodLoadsDefaults(t *testing.T) {
	c, view, queue := newTestController(t, "otsu")

	c.ChangeMethod("sauvola")
	drain(t, queue)

	values := view.parameterPanel.Values()
	assert.Equal(t, 7, values["window_size"])
	assert.Equal(t, 0.2, values["bias"])
	assert.Contains(t, view.imageDisplay.OutcomeText(), "per-pixel")
}

func TestControllerDropsStaleResults(t *testing.T) {
	c, view, queue := newTestController(t, "otsu")

	c.Process()
	c.UpdateParameter("unused", 1)

	// The first result is stale, the second fails because otsu takes no
	// parameters.
	drain(t, queue)
	drain(t, queue)
	assert.Nil(t, c.Result())
	assert.Equal(t, "Processing failed", view.toolbar.Status())
}

func TestControllerRejectsUnknownMethod(t *testing.T) {
	a := test.NewTempApp(t)
	window := a.NewWindow("preview")
	defer window.Close()

	log := logger.Nop()
	view := NewView(window, nil, "")
	c := NewController(stripes(8, 8), algorithms.NewEngine(log, 256, 1), pipeline.NewSaver("", log), log)
	assert.ErrorIs(t, c.SetView(view, "triangle", nil), algorithms.ErrUnknownMethod)
}

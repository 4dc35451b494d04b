// Package gui implements the preview window: the source image next to its
// binarization, with live method and parameter controls.
package gui

import (
	"image"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"binarization/internal/algorithms"
	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/pipeline"
)

// Options configures a Preview.
type Options struct {
	Title    string
	Original image.Image
	Image    *models.Image
	Method   string
	Params   map[string]interface{}
	Engine   *algorithms.Engine
	Saver    *pipeline.Saver
	Logger   logger.Logger
}

type Preview struct {
	app        fyne.App
	window     fyne.Window
	view       *View
	controller *Controller
	logger     logger.Logger
	running    atomic.Bool
}

func NewPreview(opts Options) (*Preview, error) {
	if err := opts.Image.Validate(); err != nil {
		return nil, err
	}
	original := opts.Original
	if original == nil {
		original = opts.Image.Gray()
	}

	a := app.NewWithID("binarization.preview")
	window := a.NewWindow("Binarization - " + opts.Title)
	window.Resize(fyne.NewSize(1100, 700))

	manager := algorithms.NewManager()
	view := NewView(window, manager.GetAvailableAlgorithms(), opts.Method)
	controller := NewController(opts.Image, opts.Engine, opts.Saver, opts.Logger)
	if err := controller.SetView(view, opts.Method, opts.Params); err != nil {
		return nil, err
	}
	view.SetController(controller)
	view.SetOriginalImage(original)

	return &Preview{
		app:        a,
		window:     window,
		view:       view,
		controller: controller,
		logger:     opts.Logger,
	}, nil
}

// Run blocks until the window is closed.
func (p *Preview) Run() {
	p.view.Show()
	p.controller.Process()
	p.logger.Info("Preview", "preview window opened", nil)
	p.running.Store(true)
	p.app.Run()
	p.running.Store(false)
}

// Shutdown closes the window from any goroutine. It does nothing once Run
// has returned.
func (p *Preview) Shutdown() {
	if !p.running.Load() {
		return
	}
	fyne.Do(func() {
		p.app.Quit()
	})
}

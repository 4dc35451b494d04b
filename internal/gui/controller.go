package gui

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"

	"binarization/internal/algorithms"
	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/pipeline"
)

// Controller reruns the selected method whenever the method or one of its
// parameters changes, and shows the newest result.
type Controller struct {
	view     *View
	manager  *algorithms.Manager
	engine   *algorithms.Engine
	saver    *pipeline.Saver
	logger   logger.Logger
	source   *models.Image
	dispatch func(func())

	mu         sync.Mutex
	method     string
	params     map[string]interface{}
	generation int
	result     *models.BinaryImage
}

func NewController(source *models.Image, engine *algorithms.Engine, saver *pipeline.Saver, log logger.Logger) *Controller {
	return &Controller{
		manager:  algorithms.NewManager(),
		engine:   engine,
		saver:    saver,
		logger:   log,
		source:   source,
		dispatch: fyne.Do,
		params:   map[string]interface{}{},
	}
}

// SetView attaches the view and selects the initial method.
func (c *Controller) SetView(view *View, method string, params map[string]interface{}) error {
	c.view = view
	if _, err := c.manager.GetKind(method); err != nil {
		return err
	}

	merged, err := c.manager.GetDefaultParameters(method)
	if err != nil {
		return err
	}
	for k, v := range params {
		merged[k] = v
	}

	c.mu.Lock()
	c.method = method
	c.params = merged
	c.mu.Unlock()

	view.UpdateParameterPanel(method, merged)
	return nil
}

// ChangeMethod switches to method with its default parameters.
func (c *Controller) ChangeMethod(method string) {
	params, err := c.manager.GetDefaultParameters(method)
	if err != nil {
		c.handleError(err)
		return
	}

	c.mu.Lock()
	c.method = method
	c.params = params
	c.mu.Unlock()

	c.view.UpdateParameterPanel(method, params)
	c.logger.Debug("PreviewController", "method changed", map[string]interface{}{
		"method": method,
	})
	c.Process()
}

func (c *Controller) UpdateParameter(name string, value interface{}) {
	c.mu.Lock()
	c.params[name] = value
	c.mu.Unlock()

	c.logger.Debug("PreviewController", "parameter updated", map[string]interface{}{
		"parameter": name,
		"value":     value,
	})
	c.Process()
}

// Process binarizes the source in the background. Results that arrive after
// a newer request has started are dropped.
func (c *Controller) Process() {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	name := c.method
	params := make(map[string]interface{}, len(c.params))
	for k, v := range c.params {
		params[k] = v
	}
	c.mu.Unlock()

	c.view.SetStatus("Processing...", false)

	go func() {
		binary, outcome, err := c.run(name, params)

		c.dispatch(func() {
			c.mu.Lock()
			stale := generation != c.generation
			if !stale && err == nil {
				c.result = binary
			}
			c.mu.Unlock()
			if stale {
				return
			}

			if err != nil {
				c.view.SetStatus("Processing failed", false)
				c.handleError(err)
				return
			}
			c.view.SetBinaryImage(binary.Gray(), outcome.String())
			c.view.SetStatus(fmt.Sprintf("%.1f%% foreground", 100*float64(binary.ForegroundCount())/float64(len(binary.Pix))), true)
		})
	}()
}

func (c *Controller) run(name string, params map[string]interface{}) (*models.BinaryImage, models.Outcome, error) {
	method, err := c.manager.Build(name, params)
	if err != nil {
		return nil, models.Outcome{}, err
	}
	return c.engine.Binarize(method, c.source)
}

// Result returns the most recent successful binarization.
func (c *Controller) Result() *models.BinaryImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Controller) SaveImage() {
	result := c.Result()
	if result == nil {
		c.handleError(errors.New("no binary image to save"))
		return
	}

	c.view.ShowSaveDialog(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			c.handleError(err)
			return
		}
		if writer == nil {
			return
		}

		c.view.SetStatus("Saving image...", false)
		go func() {
			defer writer.Close()
			format := pipeline.FormatFromPath(strings.ToLower(writer.URI().Path()))
			saveErr := c.saver.SaveToWriter(writer, result, format)

			c.dispatch(func() {
				if saveErr != nil {
					c.view.SetStatus("Save failed", true)
					c.handleError(saveErr)
					return
				}
				c.view.SetStatus("Image saved", true)
				c.logger.Info("PreviewController", "image saved", map[string]interface{}{
					"path":   writer.URI().Path(),
					"format": format,
				})
			})
		}()
	})
}

func (c *Controller) handleError(err error) {
	c.logger.Error("PreviewController", err, nil)
	c.view.ShowError(err)
}

package algorithms

import (
	"fmt"
	"time"

	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/processing/binarize"
	"binarization/internal/processing/histogram"
	"binarization/internal/processing/local"
	"binarization/internal/processing/parallel"
	"binarization/internal/processing/polysegment"
	"binarization/internal/processing/threshold"
)

const component = "engine"

// Engine runs configured methods over intensity arrays. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	logger  logger.Logger
	levels  int
	workers int
}

// NewEngine creates an engine. Non-positive levels select 256 bins and
// non-positive workers select one worker per CPU.
func NewEngine(log logger.Logger, levels, workers int) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	if levels < 2 {
		levels = histogram.DefaultLevels
	}
	return &Engine{
		logger:  log,
		levels:  levels,
		workers: parallel.Workers(workers),
	}
}

func (e *Engine) Levels() int  { return e.levels }
func (e *Engine) Workers() int { return e.workers }

// Histogram builds the histogram global methods select from.
func (e *Engine) Histogram(img *models.Image) (*histogram.Histogram, error) {
	return histogram.Build(img, e.levels, e.workers)
}

// decision is the resolved threshold of one method over one image; exactly one
// of a scalar outcome, a threshold map or a pair of centres applies.
type decision struct {
	outcome models.Outcome
	tm      *models.ThresholdMap
	centers *polysegment.Centers
}

func (e *Engine) decide(m Method, img *models.Image) (decision, error) {
	if m == nil {
		return decision{}, fmt.Errorf("no method configured: %w", models.ErrInvalidParameter)
	}
	if err := img.Validate(); err != nil {
		return decision{}, err
	}

	start := time.Now()
	d := decision{outcome: models.Outcome{Method: m.Name()}}

	switch method := m.(type) {
	case threshold.Selector:
		h, err := e.Histogram(img)
		if err != nil {
			return decision{}, err
		}
		bin, err := method.SelectBin(h)
		if err != nil {
			return decision{}, fmt.Errorf("threshold selection failed: %w", err)
		}
		d.outcome.Global = true
		d.outcome.Bin = bin
		d.outcome.Levels = h.Levels()
		d.outcome.Threshold = histogram.Threshold(bin, h.Levels())

	case local.Thresholder:
		if err := method.Validate(); err != nil {
			return decision{}, err
		}
		tm, err := method.ThresholdMap(img, e.workers)
		if err != nil {
			return decision{}, fmt.Errorf("local threshold failed: %w", err)
		}
		d.tm = tm

	case polysegment.Classifier:
		centers, err := method.Classify(img)
		if err != nil {
			return decision{}, fmt.Errorf("classification failed: %w", err)
		}
		d.centers = centers

	default:
		return decision{}, fmt.Errorf("%q has no binarization capability: %w", m.Name(), ErrUnknownMethod)
	}

	e.logger.Debug(component, "threshold resolved", map[string]interface{}{
		"method":   d.outcome.Method,
		"global":   d.outcome.Global,
		"bin":      d.outcome.Bin,
		"level":    d.outcome.Threshold,
		"width":    img.Width,
		"height":   img.Height,
		"duration": time.Since(start),
	})
	return d, nil
}

// Binarize returns a new binary image and leaves img untouched.
func (e *Engine) Binarize(m Method, img *models.Image) (*models.BinaryImage, models.Outcome, error) {
	d, err := e.decide(m, img)
	if err != nil {
		return nil, models.Outcome{}, err
	}

	var out *models.BinaryImage
	switch {
	case d.tm != nil:
		out, err = binarize.Map(img, d.tm, e.workers)
	case d.centers != nil:
		out, err = binarize.Classify(img, e.workers, func(_ int, v float64) bool {
			return d.centers.Foreground(v)
		})
	default:
		out, err = binarize.Scalar(img, d.outcome.Threshold, e.workers)
	}
	if err != nil {
		return nil, models.Outcome{}, err
	}
	return out, d.outcome, nil
}

// BinarizeInPlace overwrites img with 0/1 intensities and reports the
// threshold used.
func (e *Engine) BinarizeInPlace(m Method, img *models.Image) (models.Outcome, error) {
	d, err := e.decide(m, img)
	if err != nil {
		return models.Outcome{}, err
	}

	switch {
	case d.tm != nil:
		err = binarize.MapInPlace(img, d.tm, e.workers)
	case d.centers != nil:
		err = binarize.ClassifyInPlace(img, e.workers, func(_ int, v float64) bool {
			return d.centers.Foreground(v)
		})
	default:
		err = binarize.ScalarInPlace(img, d.outcome.Threshold, e.workers)
	}
	if err != nil {
		return models.Outcome{}, err
	}
	return d.outcome, nil
}

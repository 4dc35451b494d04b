package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"binarization/internal/algorithms"
	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/opencv/filters"
	"binarization/internal/report"
)

// Job describes one input. Truth and Plot are optional.
type Job struct {
	Source      string
	Destination string
	Truth       string
	Plot        string
}

// Processor runs a single job: load, optional preprocessing, binarize, save,
// then optional evaluation and histogram plot.
type Processor struct {
	engine     *algorithms.Engine
	loader     *Loader
	saver      *Saver
	preprocess *filters.Chain
	logger     logger.Logger
}

// NewProcessor builds a processor. preprocess may be nil.
func NewProcessor(engine *algorithms.Engine, loader *Loader, saver *Saver, preprocess *filters.Chain, log logger.Logger) *Processor {
	return &Processor{engine: engine, loader: loader, saver: saver, preprocess: preprocess, logger: log}
}

func (p *Processor) Process(ctx context.Context, job Job, method algorithms.Method) (*models.ProcessingResult, *models.BinaryImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	start := time.Now()

	p.logger.Debug("ImageProcessor", "processing started", map[string]interface{}{
		"source": job.Source,
		"method": method.Name(),
	})

	img, _, err := p.loader.Load(job.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", job.Source, err)
	}

	if p.preprocess.Len() > 0 {
		img, err = p.preprocess.Execute(ctx, img)
		if err != nil {
			return nil, nil, fmt.Errorf("preprocess %s: %w", job.Source, err)
		}
		p.logger.Debug("ImageProcessor", "preprocessing applied", map[string]interface{}{
			"filters": p.preprocess.Names(),
		})
	}

	// Chart the histogram the method selected from.
	var plotErr error
	var plot func(models.Outcome)
	if job.Plot != "" {
		h, err := p.engine.Histogram(img)
		if err != nil {
			return nil, nil, fmt.Errorf("histogram %s: %w", job.Source, err)
		}
		plot = func(outcome models.Outcome) {
			plotErr = report.WriteHistogram(job.Plot, h, outcome, filepath.Base(job.Source))
		}
	}

	binary, outcome, err := p.engine.Binarize(method, img)
	if err != nil {
		return nil, nil, fmt.Errorf("binarize %s: %w", job.Source, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if job.Destination != "" {
		if err := p.saver.Save(job.Destination, binary); err != nil {
			return nil, nil, fmt.Errorf("save %s: %w", job.Destination, err)
		}
	}

	if plot != nil {
		plot(outcome)
		if plotErr != nil {
			p.logger.Warning("ImageProcessor", "histogram plot failed", map[string]interface{}{
				"path":  job.Plot,
				"error": plotErr,
			})
		}
	}

	result := &models.ProcessingResult{
		Source:      job.Source,
		Destination: job.Destination,
		Width:       img.Width,
		Height:      img.Height,
		Outcome:     outcome,
		Foreground:  binary.ForegroundCount(),
	}

	if job.Truth != "" {
		truth, err := p.loader.LoadBinary(job.Truth)
		if err != nil {
			return nil, nil, fmt.Errorf("load ground truth %s: %w", job.Truth, err)
		}
		quality, err := CalculateQuality(truth, binary)
		if err != nil {
			return nil, nil, fmt.Errorf("evaluate %s: %w", job.Source, err)
		}
		result.Quality = quality
	}

	result.ProcessTime = time.Since(start)
	p.logger.Info("ImageProcessor", "processing completed", map[string]interface{}{
		"source":     job.Source,
		"outcome":    outcome.String(),
		"foreground": result.ForegroundRatio(),
		"duration":   result.ProcessTime,
	})
	return result, binary, nil
}

// Package pipeline runs batches of load, binarize and save jobs.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"binarization/internal/algorithms"
	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/opencv/filters"
	"binarization/internal/processing/parallel"
)

// Options configures a Coordinator.
type Options struct {
	Decoder    string
	Levels     int
	Workers    int
	Preprocess []string
	Logger     logger.Logger
}

// Coordinator fans jobs out over a bounded number of goroutines.
type Coordinator struct {
	processor *Processor
	workers   int
	logger    logger.Logger
}

func NewCoordinator(opts Options) (*Coordinator, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	loader, err := NewLoader(opts.Decoder, log)
	if err != nil {
		return nil, err
	}
	saver := NewSaver(opts.Decoder, log)
	chain, err := filters.Parse(opts.Preprocess)
	if err != nil {
		return nil, err
	}

	workers := parallel.Workers(opts.Workers)
	engine := algorithms.NewEngine(log, opts.Levels, workers)

	return &Coordinator{
		processor: NewProcessor(engine, loader, saver, chain, log),
		workers:   workers,
		logger:    log,
	}, nil
}

// Processor exposes the single-job stage, used for previews.
func (c *Coordinator) Processor() *Processor {
	return c.processor
}

// Run processes every job and returns results in job order. The first
// failure cancels the remaining jobs.
func (c *Coordinator) Run(ctx context.Context, method algorithms.Method, jobs []Job) ([]*models.ProcessingResult, error) {
	results := make([]*models.ProcessingResult, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, job := range jobs {
		g.Go(func() error {
			result, _, err := c.processor.Process(ctx, job, method)
			if err != nil {
				c.logger.Error("Coordinator", err, map[string]interface{}{
					"source": job.Source,
				})
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch failed: %w", err)
	}

	c.logger.Info("Coordinator", "batch completed", map[string]interface{}{
		"jobs":   len(jobs),
		"method": method.Name(),
	})
	return results, nil
}

// OutputPath derives a destination for source. A dir ending in a path
// separator, or an existing directory flagged by isDir, receives
// <base>_<method>.png; otherwise out is used as given.
func OutputPath(source, out, method string, isDir bool) string {
	if out == "" {
		dir := filepath.Dir(source)
		return filepath.Join(dir, stem(source)+"_"+method+".png")
	}
	if isDir || strings.HasSuffix(out, string(filepath.Separator)) {
		return filepath.Join(out, stem(source)+"_"+method+".png")
	}
	return out
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"binarization/internal/algorithms"
	"binarization/internal/config"
	"binarization/internal/gui"
	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/opencv/filters"
	"binarization/internal/pipeline"
	"binarization/internal/shutdown"
)

const usage = `Usage: binarize [flags] input [input...]

Binarizes document images with a global, local or classifier method.
Inputs are processed concurrently. Flags override values from -config.

Flags:
`

type options struct {
	configPath string
	list       bool
	preview    bool
	cfg        config.Config
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "binarize:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, inputs, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	manager := algorithms.NewManager()

	if opts.list {
		return listMethods(manager, stdout)
	}

	level, err := logger.ParseLevel(opts.cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logger.NewConsoleLogger(level)

	method, err := opts.cfg.BuildMethod(manager)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input images given")
	}

	shut := shutdown.NewManager(context.Background(), log)
	shut.Listen()
	defer shut.Shutdown()

	if opts.preview {
		return runPreview(opts.cfg, inputs, log, shut)
	}

	jobs, err := buildJobs(opts.cfg, method.Name(), inputs)
	if err != nil {
		return err
	}

	coordinator, err := pipeline.NewCoordinator(pipeline.Options{
		Decoder:    opts.cfg.Decoder,
		Levels:     opts.cfg.Levels,
		Workers:    opts.cfg.Workers,
		Preprocess: opts.cfg.Preprocess,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	results, err := coordinator.Run(shut.Context(), method, jobs)
	for _, r := range results {
		if r != nil {
			printResult(stdout, r)
		}
	}
	return err
}

func parseArgs(args []string, stderr io.Writer) (options, []string, error) {
	var opts options
	fs := flag.NewFlagSet("binarize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	defaults := config.Default()
	var params []string
	fs.StringVar(&opts.configPath, "config", "", "TOML or YAML configuration file")
	fs.BoolVar(&opts.list, "list", false, "list methods and their default parameters")
	fs.BoolVar(&opts.preview, "preview", false, "open a preview window for a single input")
	method := fs.String("method", defaults.Method, "binarization method")
	fs.Func("param", "method parameter as key=value (repeatable)", func(s string) error {
		params = append(params, s)
		return nil
	})
	var preprocess []string
	fs.Func("pre", "preprocessing filter: gaussian[:sigma], clahe[:clip] or median[:size] (repeatable)", func(s string) error {
		preprocess = append(preprocess, s)
		return nil
	})
	levels := fs.Int("levels", defaults.Levels, "histogram levels for global methods")
	workers := fs.Int("workers", 0, "goroutines per stage; 0 uses every CPU")
	decoder := fs.String("decoder", defaults.Decoder, "image codec backend: go or opencv")
	output := fs.String("o", "", "output file, or directory when it ends in a separator or exists")
	truth := fs.String("truth", "", "ground-truth image for quality metrics (single input)")
	plot := fs.String("plot", "", "histogram chart path (single input) or directory")
	logLevel := fs.String("log", defaults.LogLevel, "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}

	opts.cfg = defaults
	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return opts, nil, err
		}
		opts.cfg = cfg
	}

	// Only flags given explicitly override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "method":
			if opts.cfg.Method != *method {
				opts.cfg.Params = map[string]interface{}{}
			}
			opts.cfg.Method = *method
		case "levels":
			opts.cfg.Levels = *levels
		case "workers":
			opts.cfg.Workers = *workers
		case "decoder":
			opts.cfg.Decoder = *decoder
		case "o":
			opts.cfg.Output = *output
		case "truth":
			opts.cfg.Truth = *truth
		case "plot":
			opts.cfg.HistogramPlot = *plot
		case "log":
			opts.cfg.LogLevel = *logLevel
		case "preview":
			opts.cfg.Preview = opts.preview
		}
	})
	opts.preview = opts.cfg.Preview

	if len(preprocess) > 0 {
		opts.cfg.Preprocess = preprocess
	}
	for _, p := range params {
		if err := opts.cfg.SetParam(p); err != nil {
			return opts, nil, err
		}
	}
	return opts, fs.Args(), nil
}

func buildJobs(cfg config.Config, method string, inputs []string) ([]pipeline.Job, error) {
	single := len(inputs) == 1
	if cfg.Truth != "" && !single {
		return nil, fmt.Errorf("-truth needs exactly one input: %w", models.ErrInvalidParameter)
	}

	outIsDir := !single
	if info, err := os.Stat(cfg.Output); err == nil && info.IsDir() {
		outIsDir = true
	}
	jobs := make([]pipeline.Job, 0, len(inputs))
	for _, in := range inputs {
		job := pipeline.Job{
			Source:      in,
			Destination: pipeline.OutputPath(in, cfg.Output, method, outIsDir && cfg.Output != ""),
			Truth:       cfg.Truth,
		}
		if cfg.HistogramPlot != "" {
			job.Plot = cfg.HistogramPlot
			if !single {
				base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
				job.Plot = filepath.Join(cfg.HistogramPlot, base+"_histogram.png")
			}
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func runPreview(cfg config.Config, inputs []string, log logger.Logger, shut *shutdown.Manager) error {
	if len(inputs) != 1 {
		return fmt.Errorf("-preview needs exactly one input: %w", models.ErrInvalidParameter)
	}

	original, img, err := loadPreview(shut.Context(), cfg, inputs[0], log)
	if err != nil {
		return err
	}

	preview, err := gui.NewPreview(gui.Options{
		Title:    filepath.Base(inputs[0]),
		Original: original,
		Image:    img,
		Method:   cfg.Method,
		Params:   cfg.Params,
		Engine:   algorithms.NewEngine(log, cfg.Levels, cfg.Workers),
		Saver:    pipeline.NewSaver(cfg.Decoder, log),
		Logger:   log,
	})
	if err != nil {
		return err
	}
	shut.Register(preview)
	preview.Run()
	return nil
}

// loadPreview decodes the preview input and applies the preprocessing chain.
// The original is the decoded page before any filter ran.
func loadPreview(ctx context.Context, cfg config.Config, path string, log logger.Logger) (*image.Gray, *models.Image, error) {
	loader, err := pipeline.NewLoader(cfg.Decoder, log)
	if err != nil {
		return nil, nil, err
	}
	img, _, err := loader.Load(path)
	if err != nil {
		return nil, nil, err
	}
	original := img.Gray()

	chain, err := filters.Parse(cfg.Preprocess)
	if err != nil {
		return nil, nil, err
	}
	if img, err = chain.Execute(ctx, img); err != nil {
		return nil, nil, err
	}
	return original, img, nil
}

func listMethods(manager *algorithms.Manager, w io.Writer) error {
	for _, name := range manager.GetAvailableAlgorithms() {
		kind, err := manager.GetKind(name)
		if err != nil {
			return err
		}
		params, err := manager.GetDefaultParameters(name)
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
		}
		fmt.Fprintf(w, "%-20s %-10s %s\n", name, kind, strings.Join(parts, " "))
	}
	return nil
}

func printResult(w io.Writer, r *models.ProcessingResult) {
	fmt.Fprintf(w, "%s -> %s: %s, %.1f%% foreground, %s\n",
		r.Source, r.Destination, r.Outcome, 100*r.ForegroundRatio(), r.ProcessTime.Round(time.Millisecond))
	if q := r.Quality; q != nil {
		fmt.Fprintf(w, "  F=%.4f Fβ=%.4f precision=%.4f recall=%.4f IoU=%.4f PSNR=%.2f NRM=%.4f DRD=%.4f\n",
			q.FMeasure, q.FBeta, q.Precision, q.Recall, q.IoU, q.PSNR, q.NRM, q.DRD)
	}
}

// Package config loads run settings from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"binarization/internal/algorithms"
	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/pipeline"
	"binarization/internal/processing/histogram"
)

// Config holds everything needed to run a batch. Zero values select the
// defaults from Default.
type Config struct {
	Method        string                 `toml:"method" yaml:"method"`
	Params        map[string]interface{} `toml:"params" yaml:"params"`
	Levels        int                    `toml:"levels" yaml:"levels"`
	Workers       int                    `toml:"workers" yaml:"workers"`
	LogLevel      string                 `toml:"log_level" yaml:"log_level"`
	Decoder       string                 `toml:"decoder" yaml:"decoder"`
	Output        string                 `toml:"output" yaml:"output"`
	Truth         string                 `toml:"truth" yaml:"truth"`
	Preprocess    []string               `toml:"preprocess" yaml:"preprocess"`
	Preview       bool                   `toml:"preview" yaml:"preview"`
	HistogramPlot string                 `toml:"histogram_plot" yaml:"histogram_plot"`
}

func Default() Config {
	return Config{
		Method:   "otsu",
		Params:   map[string]interface{}{},
		Levels:   histogram.DefaultLevels,
		LogLevel: "info",
		Decoder:  pipeline.DecoderGo,
	}
}

// Load reads path, picking the format from its extension, and fills unset
// fields from Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q: %w", ext, models.ErrInvalidParameter)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Method == "" {
		c.Method = d.Method
	}
	if c.Params == nil {
		c.Params = d.Params
	}
	if c.Levels == 0 {
		c.Levels = d.Levels
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Decoder == "" {
		c.Decoder = d.Decoder
	}
}

// Validate checks the settings that do not depend on a method registry.
func (c Config) Validate() error {
	if c.Levels < 2 {
		return fmt.Errorf("levels must be at least 2, got %d: %w", c.Levels, models.ErrInvalidParameter)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative: %w", models.ErrInvalidParameter)
	}
	switch c.Decoder {
	case pipeline.DecoderGo, pipeline.DecoderOpenCV:
	default:
		return fmt.Errorf("unknown decoder %q: %w", c.Decoder, models.ErrInvalidParameter)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", c.LogLevel, models.ErrInvalidParameter)
	}
	return nil
}

// BuildMethod resolves Method and Params through the registry.
func (c Config) BuildMethod(m *algorithms.Manager) (algorithms.Method, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return m.Build(c.Method, c.Params)
}

// SetParam parses a key=value pair as given on the command line. Numeric
// values are kept as strings; the registry converts them.
func (c *Config) SetParam(pair string) error {
	key, value, ok := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("parameter %q is not key=value: %w", pair, models.ErrInvalidParameter)
	}
	if c.Params == nil {
		c.Params = make(map[string]interface{})
	}
	c.Params[key] = strings.TrimSpace(value)
	return nil
}

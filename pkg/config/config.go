// Package config loads the detection configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

const (
	MaxRestarts = 1024
	MaxWorkers  = 256
)

// Config is the top-level configuration file
type Config struct {
	Detection DetectionConfig `yaml:"detection"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Output    OutputConfig    `yaml:"output"`
}

// DetectionConfig controls the optimizer and the restart pool
type DetectionConfig struct {
	Threshold float64 `yaml:"threshold"`
	Seed      int64   `yaml:"seed"`
	Restarts  int     `yaml:"restarts"` // independent seeded runs, best quality kept
	Workers   int     `yaml:"workers"`
}

// LoggingConfig selects the log threshold
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// MetricsConfig controls the Prometheus textfile export. An empty File
// disables it.
type MetricsConfig struct {
	File string `yaml:"file"`
}

// OutputConfig controls the partition document
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=json yaml"`
	Indent bool   `yaml:"indent"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			Threshold: algorithms.DefaultThreshold,
			Seed:      algorithms.DefaultSeed,
			Restarts:  1,
			Workers:   validation.ClampInt(runtime.NumCPU(), 1, MaxWorkers),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Format: "json",
			Indent: true,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults. Unknown keys
// are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration data on top of the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from COMMUNITIES_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("COMMUNITIES_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("COMMUNITIES_METRICS_FILE"); v != "" {
		c.Metrics.File = v
	}
	if v := os.Getenv("COMMUNITIES_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COMMUNITIES_WORKERS: %w", err)
		}
		c.Detection.Workers = n
	}
	if v := os.Getenv("COMMUNITIES_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("COMMUNITIES_SEED: %w", err)
		}
		c.Detection.Seed = n
	}
	return nil
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	return validation.NewConfigValidator("Config").
		RangeFloat("Detection.Threshold", c.Detection.Threshold, math.SmallestNonzeroFloat64, 1).
		RangeInt("Detection.Restarts", c.Detection.Restarts, 1, MaxRestarts).
		RangeInt("Detection.Workers", c.Detection.Workers, 1, MaxWorkers).
		Tags("Logging", &c.Logging).
		Tags("Output", &c.Output).
		When(c.Metrics.File != "", func(v *validation.ConfigValidator) {
			v.Custom("Metrics.File", func() error {
				dir := filepath.Dir(c.Metrics.File)
				info, err := os.Stat(dir)
				if err != nil {
					return err
				}
				if !info.IsDir() {
					return fmt.Errorf("%s is not a directory", dir)
				}
				return nil
			})
		}).
		Validate()
}

// DetectionOptions converts the detection section into engine options
func (c *Config) DetectionOptions() algorithms.DetectionOptions {
	opts := algorithms.DefaultDetectionOptions()
	opts.Threshold = c.Detection.Threshold
	opts.Seed = c.Detection.Seed
	return opts
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/config"
	"github.com/dd0wney/cluso-communities/pkg/graphio"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
	"github.com/dd0wney/cluso-communities/pkg/parallel"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// options holds the parsed command line; flags the user did not set leave
// the configuration untouched
type options struct {
	input      string
	configPath string
	output     string
	noSummary  bool
	overrides  func(cfg *config.Config)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("communities", flag.ContinueOnError)
	fs.SetOutput(stderr)

	input := fs.String("input", "", "Graph document (.json, .yaml, .yml, optionally .sz compressed)")
	configPath := fs.String("config", "", "YAML configuration file")
	output := fs.String("output", "", "Partition document path (default stdout)")
	noSummary := fs.Bool("no-summary", false, "Do not print the summary table")
	seed := fs.Int64("seed", algorithms.DefaultSeed, "Seed of the first run")
	threshold := fs.Float64("threshold", algorithms.DefaultThreshold, "Minimum quality improvement per level")
	restarts := fs.Int("restarts", 1, "Independent seeded runs; the best is kept")
	workers := fs.Int("workers", 0, "Restart workers (default: number of CPUs)")
	metricsFile := fs.String("metrics-file", "", "Write Prometheus metrics to this textfile")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *input == "" {
		fs.Usage()
		return nil, errors.New("-input is required")
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	return &options{
		input:      *input,
		configPath: *configPath,
		output:     *output,
		noSummary:  *noSummary,
		overrides: func(cfg *config.Config) {
			if set["seed"] {
				cfg.Detection.Seed = *seed
			}
			if set["threshold"] {
				cfg.Detection.Threshold = *threshold
			}
			if set["restarts"] {
				cfg.Detection.Restarts = *restarts
			}
			if set["workers"] {
				cfg.Detection.Workers = *workers
			}
			if set["metrics-file"] {
				cfg.Metrics.File = *metricsFile
			}
			if set["log-level"] {
				cfg.Logging.Level = strings.ToLower(*logLevel)
			}
		},
	}, nil
}

// loadConfig layers the configuration: defaults, file, environment, flags
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	opts.overrides(cfg)

	if err := validation.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger := logging.NewJSONLogger(stderr, level).With(logging.Component("cli"))
	registry := metrics.NewRegistry()

	g, err := loadGraph(opts.input, registry, logger)
	if err != nil {
		return err
	}

	detection := cfg.DetectionOptions()
	detection.Logger = logger
	detection.Recorder = registry

	result, runs, err := parallel.BestOfRestarts(ctx, g, parallel.RestartOptions{
		Restarts:  cfg.Detection.Restarts,
		Workers:   cfg.Detection.Workers,
		Detection: detection,
	})
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}
	registry.RecordRestarts(len(runs), result.Seed)

	doc := graphio.NewResultDocument(result)
	format := outputFormat(opts.output, graphio.Format(cfg.Output.Format))
	summaryOut := stdout
	if opts.output == "" {
		if err := graphio.Encode(stdout, doc, format, cfg.Output.Indent); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		summaryOut = stderr
	} else {
		if err := graphio.WriteFile(opts.output, doc, format, cfg.Output.Indent); err != nil {
			return err
		}
		logger.Info("result written", logging.Path(opts.output), logging.String("format", string(format)))
	}

	if !opts.noSummary {
		fmt.Fprintln(summaryOut, renderSummary(g, result, runs))
	}

	if cfg.Metrics.File != "" {
		registry.UpdateSystemMetrics()
		if err := registry.WriteTextfile(cfg.Metrics.File); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.Debug("metrics written", logging.Path(cfg.Metrics.File))
	}
	return nil
}

func loadGraph(path string, registry *metrics.Registry, logger logging.Logger) (*algorithms.Graph[string], error) {
	start := time.Now()

	doc, info, err := graphio.ReadFile(path)
	format := "unknown"
	if info != nil {
		format = string(info.Format)
	}
	if err != nil {
		registry.RecordLoad(format, "error", 0, 0, 0, time.Since(start))
		return nil, err
	}

	g, err := doc.Build()
	if err != nil {
		registry.RecordLoad(format, "invalid", 0, 0, info.Bytes, time.Since(start))
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	elapsed := time.Since(start)
	registry.RecordLoad(format, "success", g.NodeCount(), g.EdgeCount(), info.Bytes, elapsed)
	logger.Info("graph loaded",
		logging.Path(path),
		logging.Nodes(g.NodeCount()),
		logging.Edges(g.EdgeCount()),
		logging.Bool("compressed", info.Compressed),
		logging.Latency(elapsed))
	return g, nil
}

// outputFormat lets the output extension override the configured format
func outputFormat(path string, configured graphio.Format) graphio.Format {
	name := path
	if strings.EqualFold(filepath.Ext(name), graphio.CompressedExt) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return graphio.FormatJSON
	case ".yaml", ".yml":
		return graphio.FormatYAML
	}
	return configured
}

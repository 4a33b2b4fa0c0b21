package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/LdDl/quadtrack/internal/config"
	"github.com/LdDl/quadtrack/internal/export"
	"github.com/LdDl/quadtrack/internal/monitoring"
	"github.com/LdDl/quadtrack/internal/pipeline"
	"github.com/LdDl/quadtrack/internal/vision"
	"github.com/LdDl/quadtrack/qtrack"
	"github.com/pkg/errors"
)

var (
	configPath    = flag.String("config", "", "Path to YAML configuration (optional)")
	inputPath     = flag.String("input", "", "Input video (overrides config)")
	outputVideo   = flag.String("output-video", "", "Annotated output video (overrides config)")
	outputEvents  = flag.String("output-events", "", "Event log file (overrides config)")
	eventsFormat  = flag.String("format", "", "Event log format: csv, json or sqlite (overrides config)")
	stride        = flag.Int("stride", 0, "Analyze every Nth frame (overrides config)")
	selection     = flag.String("selection", "", "Candidate selection: first, largest or nearest (overrides config)")
	maxMisses     = flag.Int("max-misses", -1, "Emit Exit after K consecutive misses, 0 disables (overrides config)")
	timestampMode = flag.String("timestamps", "", "Timestamps: wall or media (overrides config)")
	logLevel      = flag.String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	logger, err := monitoring.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("quadtrack: run failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return cfg, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *inputPath
		case "output-video":
			cfg.OutputVideo = *outputVideo
		case "output-events":
			cfg.OutputEvents = *outputEvents
		case "format":
			cfg.EventsFormat = *eventsFormat
		case "stride":
			cfg.Stride = *stride
		case "selection":
			cfg.Selection = *selection
		case "max-misses":
			cfg.MaxMisses = *maxMisses
		case "timestamps":
			cfg.TimestampMode = *timestampMode
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	return cfg, cfg.Validate()
}

func run(cfg config.Config, logger *slog.Logger) error {
	selectionPolicy, err := cfg.SelectionPolicy()
	if err != nil {
		return err
	}
	timestamps, err := cfg.Timestamps()
	if err != nil {
		return err
	}

	source, err := vision.OpenVideoSource(cfg.Input)
	if err != nil {
		return errors.Wrap(err, "Could not open video")
	}
	defer source.Close()

	sink, err := vision.OpenVideoSink(cfg.OutputVideo, cfg.Codec, source.FPS(), source.Width(), source.Height())
	if err != nil {
		return errors.Wrap(err, "Could not open video writer")
	}
	defer sink.Close()

	detector := vision.NewColorDetector()
	defer detector.Close()

	opts := pipeline.DefaultOptions()
	opts.Palette = cfg.Palette()
	opts.Stride = cfg.Stride
	opts.MinArea = cfg.MinArea
	opts.Selection = selectionPolicy
	opts.MissPolicy = qtrack.MissPolicy{MaxMisses: cfg.MaxMisses}
	opts.TimestampMode = timestamps
	opts.GridRows = cfg.Grid.Rows
	opts.GridCols = cfg.Grid.Cols
	opts.Input = cfg.Input
	opts.Logger = logger
	if cfg.Annotate {
		opts.Annotator = vision.NewAnnotator(cfg.Trail)
	}

	result, err := pipeline.Run(source, sink, detector, opts)
	if err != nil {
		return err
	}
	logger.Info("quadtrack: processing complete", "output_video", cfg.OutputVideo)

	if err := export.WriteFile(cfg.OutputEvents, cfg.EventsFormat, result.Info, result.Events); err != nil {
		return err
	}
	logger.Info("quadtrack: entries and exits saved",
		"path", cfg.OutputEvents,
		"format", cfg.EventsFormat,
		"events", len(result.Events),
	)
	for _, summary := range result.Summaries {
		logger.Info("quadtrack: color summary",
			"color", summary.Color,
			"entries", summary.Entries,
			"exits", summary.Exits,
			"total_dwell_s", summary.TotalDwell,
			"mean_dwell_s", summary.MeanDwell,
			"current_quadrant", int(summary.Current),
		)
	}
	return nil
}

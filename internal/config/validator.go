package config

import (
	"github.com/pkg/errors"
)

var (
	validFormats   = map[string]struct{}{"csv": {}, "json": {}, "sqlite": {}}
	validLogLevels = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "error": {}}
)

// Validate checks the configuration for errors
func (cfg Config) Validate() error {
	if cfg.Input == "" {
		return errors.New("input is required")
	}
	if cfg.OutputVideo == "" {
		return errors.New("output_video is required")
	}
	if cfg.OutputEvents == "" {
		return errors.New("output_events is required")
	}
	if _, ok := validFormats[cfg.EventsFormat]; !ok {
		return errors.Errorf("events_format must be csv, json or sqlite, got '%s'", cfg.EventsFormat)
	}
	if cfg.Stride < 1 {
		return errors.Errorf("stride must be positive, got %d", cfg.Stride)
	}
	if cfg.MinArea < 0 {
		return errors.Errorf("min_area must not be negative, got %f", cfg.MinArea)
	}
	if cfg.MaxMisses < 0 {
		return errors.Errorf("max_misses must not be negative, got %d", cfg.MaxMisses)
	}
	if _, err := cfg.SelectionPolicy(); err != nil {
		return err
	}
	if _, err := cfg.Timestamps(); err != nil {
		return err
	}
	if len(cfg.Codec) != 4 {
		return errors.Errorf("codec must be a fourcc, got '%s'", cfg.Codec)
	}
	if cfg.Grid.Rows < 1 || cfg.Grid.Cols < 1 {
		return errors.Errorf("grid must be at least 1x1, got %dx%d", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if _, ok := validLogLevels[cfg.Log.Level]; !ok {
		return errors.Errorf("log.level must be debug, info, warn or error, got '%s'", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return errors.Errorf("log.format must be text or json, got '%s'", cfg.Log.Format)
	}
	if err := cfg.Palette().Validate(); err != nil {
		return errors.Wrap(err, "colors")
	}
	return nil
}

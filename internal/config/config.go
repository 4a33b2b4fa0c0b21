package config

import (
	"os"

	"github.com/LdDl/quadtrack/qtrack"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents a complete run configuration
type Config struct {
	Input        string `yaml:"input"`
	OutputVideo  string `yaml:"output_video"`
	OutputEvents string `yaml:"output_events"`
	// csv, json or sqlite
	EventsFormat string `yaml:"events_format"`
	Stride       int    `yaml:"stride"`
	// Minimum contour area (exclusive) for a region to count as a ball
	MinArea float64 `yaml:"min_area"`
	// first, largest or nearest
	Selection string `yaml:"selection"`
	// Close a color with an Exit after this many consecutive misses; 0 disables
	MaxMisses int `yaml:"max_misses"`
	// wall or media
	TimestampMode string        `yaml:"timestamp_mode"`
	Codec         string        `yaml:"codec"`
	Annotate      bool          `yaml:"annotate"`
	Trail         bool          `yaml:"trail"`
	Grid          GridConfig    `yaml:"grid"`
	Log           LogConfig     `yaml:"log"`
	Colors        []ColorConfig `yaml:"colors"`
}

// GridConfig sets how the frame is split into regions. 2x2 gives the four quadrants.
type GridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// ColorConfig defines a single color class as HSV bounds [h, s, v]
type ColorConfig struct {
	Name  string   `yaml:"name"`
	Lower [3]uint8 `yaml:"lower"`
	Upper [3]uint8 `yaml:"upper"`
}

// Default returns configuration matching the classic four-ball setup
func Default() Config {
	palette := qtrack.DefaultPalette()
	colors := make([]ColorConfig, len(palette))
	for i, class := range palette {
		colors[i] = ColorConfig{
			Name:  class.Name,
			Lower: [3]uint8{class.Lower.H, class.Lower.S, class.Lower.V},
			Upper: [3]uint8{class.Upper.H, class.Upper.S, class.Upper.V},
		}
	}
	return Config{
		Input:         "video.mp4",
		OutputVideo:   "output.avi",
		OutputEvents:  "entries_exits.csv",
		EventsFormat:  "csv",
		Stride:        qtrack.DefaultStride,
		MinArea:       qtrack.DefaultMinArea,
		Selection:     "first",
		MaxMisses:     0,
		TimestampMode: "wall",
		Codec:         "XVID",
		Annotate:      true,
		Trail:         false,
		Grid:          GridConfig{Rows: 2, Cols: 2},
		Log:           LogConfig{Level: "info", Format: "text"},
		Colors:        colors,
	}
}

// Load reads YAML file on top of defaults. Keys missing in the file keep default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "Can't read config '%s'", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "Can't parse config '%s'", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "Invalid config '%s'", path)
	}
	return cfg, nil
}

// Palette converts color definitions to qtrack's palette
func (cfg Config) Palette() qtrack.Palette {
	palette := make(qtrack.Palette, len(cfg.Colors))
	for i, c := range cfg.Colors {
		palette[i] = qtrack.ColorClass{
			Name:  c.Name,
			Lower: qtrack.HSV{H: c.Lower[0], S: c.Lower[1], V: c.Lower[2]},
			Upper: qtrack.HSV{H: c.Upper[0], S: c.Upper[1], V: c.Upper[2]},
		}
	}
	return palette
}

// SelectionPolicy returns parsed selection policy
func (cfg Config) SelectionPolicy() (qtrack.SelectionPolicy, error) {
	return qtrack.ParseSelectionPolicy(cfg.Selection)
}

// Timestamps returns parsed timestamp mode
func (cfg Config) Timestamps() (qtrack.TimestampMode, error) {
	return qtrack.ParseTimestampMode(cfg.TimestampMode)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LdDl/quadtrack/qtrack"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quadtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 30, cfg.Stride)
	require.Equal(t, 500.0, cfg.MinArea)
	require.Equal(t, "XVID", cfg.Codec)
	if diff := cmp.Diff(qtrack.DefaultPalette(), cfg.Palette()); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
input: match.mp4
stride: 10
selection: nearest
max_misses: 3
timestamp_mode: media
events_format: json
log:
  level: debug
  format: json
colors:
  - name: red
    lower: [0, 120, 70]
    upper: [10, 255, 255]
  - name: blue
    lower: [100, 150, 50]
    upper: [130, 255, 255]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "match.mp4", cfg.Input)
	require.Equal(t, 10, cfg.Stride)
	require.Equal(t, 3, cfg.MaxMisses)
	require.Equal(t, "json", cfg.EventsFormat)
	// untouched keys keep defaults
	require.Equal(t, "output.avi", cfg.OutputVideo)
	require.Equal(t, 500.0, cfg.MinArea)

	policy, err := cfg.SelectionPolicy()
	require.NoError(t, err)
	require.Equal(t, qtrack.SelectNearestPredicted, policy)
	mode, err := cfg.Timestamps()
	require.NoError(t, err)
	require.Equal(t, qtrack.TimestampMedia, mode)

	expected := qtrack.Palette{
		{Name: "red", Lower: qtrack.HSV{H: 0, S: 120, V: 70}, Upper: qtrack.HSV{H: 10, S: 255, V: 255}},
		{Name: "blue", Lower: qtrack.HSV{H: 100, S: 150, V: 50}, Upper: qtrack.HSV{H: 130, S: 255, V: 255}},
	}
	if diff := cmp.Diff(expected, cfg.Palette()); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "stride: [1, 2"))
	require.Error(t, err)

	cases := []string{
		"stride: 0",
		"selection: random",
		"timestamp_mode: sundial",
		"events_format: xlsx",
		"codec: MPEG4",
		"max_misses: -1",
		"log:\n  level: trace",
		"grid:\n  rows: 0\n  cols: 2",
		"colors:\n  - name: red\n    lower: [20, 0, 0]\n    upper: [10, 255, 255]",
		"colors: []",
	}
	for _, c := range cases {
		_, err := Load(writeConfig(t, c))
		require.Error(t, err, "config %q should be rejected", c)
	}
}

func TestLoadExampleMatchesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "quadtrack.example.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("example config drifted from defaults (-want +got):\n%s", diff)
	}
}

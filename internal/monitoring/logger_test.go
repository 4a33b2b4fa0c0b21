package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "info", "json")
	require.NoError(t, err)
	logger.Debug("pipeline: hidden")
	logger.Info("pipeline: visible", "frame", 30)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "pipeline: visible", record["msg"])
	require.Equal(t, float64(30), record["frame"])
}

func TestNewLoggerErrors(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "trace", "text")
	require.Error(t, err)
	_, err = NewLogger(&bytes.Buffer{}, "info", "xml")
	require.Error(t, err)
}

func TestDiscard(t *testing.T) {
	require.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}

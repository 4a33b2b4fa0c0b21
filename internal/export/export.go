package export

import (
	"os"
	"time"

	"github.com/LdDl/quadtrack/qtrack"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Header holds the fixed column names of the tabular event log
var Header = []string{"Time", "Quadrant Number", "Ball Colour", "Type"}

// RunInfo describes the run that produced an event log
type RunInfo struct {
	RunID         uuid.UUID
	Input         string
	StartedAt     time.Time
	Stride        int
	FPS           float64
	FramesRead    int
	FramesSampled int
}

// Writer serializes an event log
type Writer interface {
	Write(info RunInfo, events []qtrack.Event) error
}

// WriteFile writes events to path in the given format (csv, json or sqlite).
// For sqlite the path is the database file and events are appended to it.
func WriteFile(path, format string, info RunInfo, events []qtrack.Event) error {
	if format == "sqlite" {
		store, err := OpenSQLite(path)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Write(info, events)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Can't create '%s'", path)
	}
	var w Writer
	switch format {
	case "csv":
		w = NewCSVWriter(file)
	case "json":
		w = NewJSONWriter(file)
	default:
		file.Close()
		return errors.Errorf("unknown events format '%s'", format)
	}
	if err := w.Write(info, events); err != nil {
		file.Close()
		return errors.Wrapf(err, "Can't write events to '%s'", path)
	}
	return errors.Wrapf(file.Close(), "Can't close '%s'", path)
}

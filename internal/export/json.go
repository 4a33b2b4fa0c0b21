package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/LdDl/quadtrack/qtrack"
	"github.com/pkg/errors"
)

type jsonEvent struct {
	Time     float64 `json:"time"`
	Quadrant int     `json:"quadrant"`
	Colour   string  `json:"colour"`
	Type     string  `json:"type"`
}

type jsonLog struct {
	RunID         string      `json:"run_id"`
	Input         string      `json:"input"`
	StartedAt     string      `json:"started_at"`
	Stride        int         `json:"stride"`
	FPS           float64     `json:"fps"`
	FramesRead    int         `json:"frames_read"`
	FramesSampled int         `json:"frames_sampled"`
	Events        []jsonEvent `json:"events"`
}

// JSONWriter writes events together with run metadata
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter creates JSON writer over w
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

func (jw *JSONWriter) Write(info RunInfo, events []qtrack.Event) error {
	doc := jsonLog{
		RunID:         info.RunID.String(),
		Input:         info.Input,
		StartedAt:     info.StartedAt.UTC().Format(time.RFC3339Nano),
		Stride:        info.Stride,
		FPS:           info.FPS,
		FramesRead:    info.FramesRead,
		FramesSampled: info.FramesSampled,
		Events:        make([]jsonEvent, len(events)),
	}
	for i, event := range events {
		doc.Events[i] = jsonEvent{
			Time:     event.Time,
			Quadrant: int(event.Quadrant),
			Colour:   event.Color,
			Type:     event.Kind.String(),
		}
	}
	encoder := json.NewEncoder(jw.w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(doc), "Can't encode events")
}

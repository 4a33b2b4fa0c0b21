package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/LdDl/quadtrack/internal/export"
	"github.com/LdDl/quadtrack/internal/vision"
	"github.com/LdDl/quadtrack/qtrack"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Source provides frames of constant size and rate
type Source interface {
	// Read fills frame and returns false at end of stream or on read failure
	Read(frame *gocv.Mat) bool
	Width() int
	Height() int
	FPS() float64
}

// Sink receives every frame, sampled or not
type Sink interface {
	Write(frame gocv.Mat) error
}

// Detector reports candidate regions per color class on the current frame
type Detector interface {
	Begin(frame gocv.Mat) error
	Candidates(class qtrack.ColorClass) ([]qtrack.Candidate, error)
}

// Annotator draws detections onto sampled frames
type Annotator interface {
	Annotate(frame *gocv.Mat, timestamp float64, marks []vision.Mark)
}

// Options configures a run
type Options struct {
	Palette       qtrack.Palette
	Stride        int
	MinArea       float64
	Selection     qtrack.SelectionPolicy
	MissPolicy    qtrack.MissPolicy
	TimestampMode qtrack.TimestampMode
	GridRows      int
	GridCols      int
	// Input name recorded in run metadata
	Input string
	// Nil annotator disables drawing
	Annotator Annotator
	// Nil means real time
	Clock  qtrack.Clock
	Logger *slog.Logger
}

// DefaultOptions returns options for the classic four-ball setup
func DefaultOptions() Options {
	return Options{
		Palette:       qtrack.DefaultPalette(),
		Stride:        qtrack.DefaultStride,
		MinArea:       qtrack.DefaultMinArea,
		Selection:     qtrack.SelectFirstFound,
		TimestampMode: qtrack.TimestampWallClock,
		GridRows:      2,
		GridCols:      2,
		Clock:         qtrack.RealClock{},
		Logger:        slog.Default(),
	}
}

// Result is what survives a run
type Result struct {
	Info      export.RunInfo
	Events    []qtrack.Event
	Summaries []qtrack.ColorSummary
}

// Processor owns the per-run state and processes frames one at a time.
type Processor struct {
	opts     Options
	geometry qtrack.Geometry
	sampler  *qtrack.Sampler
	selector *qtrack.Selector
	tracker  *qtrack.Tracker
	balls    *qtrack.BallTracks
	detector Detector
	logger   *slog.Logger
	sampled  int
}

// NewProcessor prepares state for a run over frames of the given size and rate.
// The run clock starts here.
func NewProcessor(opts Options, detector Detector, width, height int, fps float64) (*Processor, error) {
	if err := opts.Palette.Validate(); err != nil {
		return nil, errors.Wrap(err, "Bad palette")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	var geometry qtrack.Geometry
	if opts.GridRows == 2 && opts.GridCols == 2 {
		geometry = qtrack.NewQuadrantGrid(width, height)
	} else {
		grid, err := qtrack.NewGrid(width, height, opts.GridRows, opts.GridCols)
		if err != nil {
			return nil, errors.Wrap(err, "Bad grid")
		}
		geometry = grid
	}
	sampler, err := qtrack.NewSampler(opts.Stride, opts.TimestampMode, fps, opts.Clock)
	if err != nil {
		return nil, errors.Wrap(err, "Bad sampler")
	}
	dt := 1.0
	if fps > 0 {
		dt = float64(opts.Stride) / fps
	}
	return &Processor{
		opts:     opts,
		geometry: geometry,
		sampler:  sampler,
		selector: qtrack.NewSelector(opts.Selection, opts.MinArea),
		tracker:  qtrack.NewTracker(opts.MissPolicy),
		balls:    qtrack.NewBallTracks(dt, 5),
		detector: detector,
		logger:   opts.Logger,
	}, nil
}

// ProcessFrame registers a frame read from the source. Selected frames go through
// detection, classification and tracking and get annotated in place.
func (p *Processor) ProcessFrame(frame *gocv.Mat) (qtrack.Sample, error) {
	sample := p.sampler.Next()
	if !sample.Selected {
		return sample, nil
	}
	p.sampled++

	if err := p.detector.Begin(*frame); err != nil {
		return sample, errors.Wrapf(err, "Can't prepare frame %d", sample.Index)
	}
	p.balls.PredictAll()

	observations := make([]qtrack.Observation, 0, len(p.opts.Palette))
	marks := make([]vision.Mark, 0, len(p.opts.Palette))
	for _, class := range p.opts.Palette {
		candidates, err := p.detector.Candidates(class)
		if err != nil {
			return sample, errors.Wrapf(err, "Can't detect '%s' on frame %d", class.Name, sample.Index)
		}
		var predicted *qtrack.Point
		if pt, ok := p.balls.Predicted(class.Name); ok {
			predicted = &pt
		}
		selected, ok := p.selector.Select(candidates, predicted)
		if !ok {
			p.balls.Miss(class.Name)
			continue
		}
		quadrant := p.geometry.Classify(selected.Center)
		observations = append(observations, qtrack.Observation{
			Color:    class.Name,
			Quadrant: quadrant,
			Center:   selected.Center,
		})
		if err := p.balls.Observe(class.Name, selected.Center); err != nil {
			return sample, errors.Wrapf(err, "Can't update track on frame %d", sample.Index)
		}
		mark := vision.Mark{Color: class.Name, Center: selected.Center, Quadrant: quadrant}
		if ball, ok := p.balls.Objects[class.Name]; ok {
			mark.Trail = ball.GetTrack()
		}
		marks = append(marks, mark)
	}

	before := p.tracker.Log.Len()
	if err := p.tracker.MatchObservations(sample.Timestamp, observations); err != nil {
		return sample, err
	}
	if p.logger.Enabled(context.Background(), slog.LevelDebug) {
		for _, event := range p.tracker.Events()[before:] {
			p.logger.Debug("pipeline: event",
				"time", event.Time,
				"quadrant", int(event.Quadrant),
				"color", event.Color,
				"type", event.Kind.String(),
			)
		}
	}
	if p.opts.Annotator != nil {
		p.opts.Annotator.Annotate(frame, sample.Timestamp, marks)
	}
	return sample, nil
}

// Events returns the event log so far
func (p *Processor) Events() []qtrack.Event {
	return p.tracker.Events()
}

// Sampled returns number of analyzed frames
func (p *Processor) Sampled() int {
	return p.sampled
}

// Elapsed returns seconds since the run started
func (p *Processor) Elapsed() float64 {
	return p.sampler.Elapsed()
}

// Run reads source until it is exhausted, writing every frame to sink. Sampled
// frames are analyzed and annotated before being written. Only a failure to
// write or a contract violation stops the run early.
func Run(source Source, sink Sink, detector Detector, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger
	info := export.RunInfo{
		RunID:     uuid.New(),
		Input:     opts.Input,
		StartedAt: time.Now(),
		Stride:    opts.Stride,
		FPS:       source.FPS(),
	}
	processor, err := NewProcessor(opts, detector, source.Width(), source.Height(), source.FPS())
	if err != nil {
		return nil, err
	}
	logger.Info("pipeline: run started",
		"run_id", info.RunID.String(),
		"input", opts.Input,
		"width", source.Width(),
		"height", source.Height(),
		"fps", source.FPS(),
		"stride", opts.Stride,
		"colors", opts.Palette.Names(),
		"selection", opts.Selection.String(),
		"timestamps", opts.TimestampMode.String(),
	)

	frame := gocv.NewMat()
	defer frame.Close()
	for source.Read(&frame) {
		info.FramesRead++
		sample, err := processor.ProcessFrame(&frame)
		if err != nil {
			return nil, errors.Wrapf(err, "Run %s failed", info.RunID)
		}
		if err := sink.Write(frame); err != nil {
			return nil, errors.Wrapf(err, "Can't write frame %d", sample.Index)
		}
		if sample.Selected {
			logger.Debug("pipeline: frame written", "frame", sample.Index, "timestamp", sample.Timestamp)
		}
	}
	info.FramesSampled = processor.Sampled()

	result := &Result{
		Info:      info,
		Events:    processor.Events(),
		Summaries: qtrack.Summarize(processor.Events(), processor.Elapsed()),
	}
	logger.Info("pipeline: finished processing video",
		"run_id", info.RunID.String(),
		"frames_read", info.FramesRead,
		"frames_sampled", info.FramesSampled,
		"events", len(result.Events),
	)
	return result, nil
}

package qtrack

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultStride is the sampling interval: only every 30th frame is analyzed
const DefaultStride = 30

// Clock abstracts wall-clock time so timestamps can be controlled in tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// TimestampMode selects how sampled frames are timestamped
type TimestampMode uint16

const (
	// TimestampWallClock uses elapsed processing time since the sampler was created
	TimestampWallClock TimestampMode = iota
	// TimestampMedia uses frame index divided by stream FPS
	TimestampMedia
)

func (mode TimestampMode) String() string {
	switch mode {
	case TimestampWallClock:
		return "wall"
	case TimestampMedia:
		return "media"
	default:
		return "unknown"
	}
}

// ParseTimestampMode parses "wall" or "media"
func ParseTimestampMode(s string) (TimestampMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wall":
		return TimestampWallClock, nil
	case "media":
		return TimestampMedia, nil
	default:
		return TimestampWallClock, errors.Errorf("unknown timestamp mode '%s'", s)
	}
}

// Sample describes one frame read from the source
type Sample struct {
	// 1-based frame index
	Index int
	// Whether the frame should be analyzed
	Selected bool
	// Seconds since run start. Zero for frames that are not selected
	Timestamp float64
}

// Sampler decimates frames with a fixed stride and timestamps selected ones.
type Sampler struct {
	stride int
	mode   TimestampMode
	fps    float64
	clock  Clock
	start  time.Time
	index  int
}

// NewSamplerDefault creates wall-clock sampler with stride 30
func NewSamplerDefault() *Sampler {
	sampler, _ := NewSampler(DefaultStride, TimestampWallClock, 0, RealClock{})
	return sampler
}

// NewSampler creates new instance of Sampler. Wall-clock time starts counting
// from this call. fps is only required for TimestampMedia.
func NewSampler(stride int, mode TimestampMode, fps float64, clock Clock) (*Sampler, error) {
	if stride < 1 {
		return nil, errors.Errorf("stride must be positive, got %d", stride)
	}
	if mode == TimestampMedia && fps <= 0 {
		return nil, errors.Errorf("media timestamps need positive FPS, got %f", fps)
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Sampler{
		stride: stride,
		mode:   mode,
		fps:    fps,
		clock:  clock,
		start:  clock.Now(),
	}, nil
}

// Stride returns sampling interval
func (sampler *Sampler) Stride() int {
	return sampler.stride
}

// Next registers one more frame read from the source
func (sampler *Sampler) Next() Sample {
	sampler.index++
	sample := Sample{
		Index:    sampler.index,
		Selected: sampler.index%sampler.stride == 0,
	}
	if !sample.Selected {
		return sample
	}
	switch sampler.mode {
	case TimestampMedia:
		sample.Timestamp = float64(sampler.index) / sampler.fps
	default:
		sample.Timestamp = sampler.clock.Now().Sub(sampler.start).Seconds()
	}
	return sample
}

// Elapsed returns seconds since run start according to the sampler's clock
// (or the position of the last frame for media timestamps)
func (sampler *Sampler) Elapsed() float64 {
	if sampler.mode == TimestampMedia {
		return float64(sampler.index) / sampler.fps
	}
	return sampler.clock.Now().Sub(sampler.start).Seconds()
}

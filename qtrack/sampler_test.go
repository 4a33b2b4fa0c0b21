package qtrack

import (
	"math"
	"testing"
	"time"
)

// stepClock advances by a fixed step on every call to Now
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (clock *stepClock) Now() time.Time {
	t := clock.now
	clock.now = clock.now.Add(clock.step)
	return t
}

func TestSamplerStride(t *testing.T) {
	sampler, err := NewSampler(30, TimestampMedia, 30, nil)
	if err != nil {
		t.Fatal(err)
	}
	selected := []int{}
	for i := 0; i < 100; i++ {
		sample := sampler.Next()
		if sample.Index != i+1 {
			t.Fatalf("Expected index %d, got %d", i+1, sample.Index)
		}
		if sample.Selected {
			selected = append(selected, sample.Index)
		} else if sample.Timestamp != 0 {
			t.Errorf("Unselected frame %d has timestamp %v", sample.Index, sample.Timestamp)
		}
	}
	expected := []int{30, 60, 90}
	if len(selected) != len(expected) {
		t.Fatalf("Expected selected frames %v, got %v", expected, selected)
	}
	for i := range expected {
		if selected[i] != expected[i] {
			t.Errorf("Expected selected frames %v, got %v", expected, selected)
		}
	}
}

func TestSamplerMediaTimestamps(t *testing.T) {
	sampler, err := NewSampler(30, TimestampMedia, 30, nil)
	if err != nil {
		t.Fatal(err)
	}
	timestamps := []float64{}
	for i := 0; i < 90; i++ {
		if sample := sampler.Next(); sample.Selected {
			timestamps = append(timestamps, sample.Timestamp)
		}
	}
	expected := []float64{1.0, 2.0, 3.0}
	for i := range expected {
		if math.Abs(timestamps[i]-expected[i]) > eps {
			t.Errorf("Sample #%d: expected %v, got %v", i, expected[i], timestamps[i])
		}
	}
	if math.Abs(sampler.Elapsed()-3.0) > eps {
		t.Errorf("Expected elapsed 3.0, got %v", sampler.Elapsed())
	}
}

func TestSamplerWallClock(t *testing.T) {
	clock := &stepClock{now: time.Unix(1000, 0), step: 500 * time.Millisecond}
	sampler, err := NewSampler(2, TimestampWallClock, 0, clock)
	if err != nil {
		t.Fatal(err)
	}
	// Clock is read at construction and on selected frames only
	if sample := sampler.Next(); sample.Selected {
		t.Fatal("Frame 1 should not be selected")
	}
	sample := sampler.Next()
	if !sample.Selected {
		t.Fatal("Frame 2 should be selected")
	}
	if math.Abs(sample.Timestamp-0.5) > eps {
		t.Errorf("Expected 0.5s, got %v", sample.Timestamp)
	}
	sampler.Next()
	sample = sampler.Next()
	if math.Abs(sample.Timestamp-1.0) > eps {
		t.Errorf("Expected 1.0s, got %v", sample.Timestamp)
	}
}

func TestSamplerErrors(t *testing.T) {
	if _, err := NewSampler(0, TimestampWallClock, 0, nil); err == nil {
		t.Error("Expected error for zero stride")
	}
	if _, err := NewSampler(30, TimestampMedia, 0, nil); err == nil {
		t.Error("Expected error for media timestamps without FPS")
	}
	if _, err := ParseTimestampMode("sundial"); err == nil {
		t.Error("Expected error for unknown mode")
	}
	if mode, _ := ParseTimestampMode("media"); mode != TimestampMedia {
		t.Errorf("Expected media mode, got %v", mode)
	}
	if NewSamplerDefault().Stride() != DefaultStride {
		t.Error("Default sampler should use default stride")
	}
}

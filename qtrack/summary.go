package qtrack

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColorSummary aggregates the events of a single color.
type ColorSummary struct {
	Color   string
	Entries int
	Exits   int
	// Total seconds spent per quadrant
	Dwell map[Quadrant]float64
	// Sum and mean of individual stay durations
	TotalDwell float64
	MeanDwell  float64
	// Quadrant the color is still in at endTime, QuadrantNone if it was closed
	Current Quadrant
}

// Summarize computes per-color statistics from an event log. A stay lasts from an
// Entry to the next Exit of the same color; a stay without an Exit lasts until endTime.
// Colors are reported in order of their first event.
func Summarize(events []Event, endTime float64) []ColorSummary {
	type openStay struct {
		quadrant Quadrant
		since    float64
	}
	order := make([]string, 0, 4)
	summaries := make(map[string]*ColorSummary)
	stays := make(map[string][]float64)
	open := make(map[string]*openStay)

	for _, event := range events {
		summary, ok := summaries[event.Color]
		if !ok {
			summary = &ColorSummary{Color: event.Color, Dwell: make(map[Quadrant]float64)}
			summaries[event.Color] = summary
			order = append(order, event.Color)
		}
		switch event.Kind {
		case EventEntry:
			summary.Entries++
			open[event.Color] = &openStay{quadrant: event.Quadrant, since: event.Time}
		case EventExit:
			summary.Exits++
			if stay, ok := open[event.Color]; ok && stay.quadrant == event.Quadrant {
				d := event.Time - stay.since
				summary.Dwell[stay.quadrant] += d
				stays[event.Color] = append(stays[event.Color], d)
				delete(open, event.Color)
			}
		}
	}

	out := make([]ColorSummary, 0, len(order))
	for _, color := range order {
		summary := summaries[color]
		if stay, ok := open[color]; ok {
			d := endTime - stay.since
			if d < 0 {
				d = 0
			}
			summary.Dwell[stay.quadrant] += d
			stays[color] = append(stays[color], d)
			summary.Current = stay.quadrant
		}
		if len(stays[color]) > 0 {
			summary.TotalDwell = floats.Sum(stays[color])
			summary.MeanDwell = stat.Mean(stays[color], nil)
		}
		out = append(out, *summary)
	}
	return out
}

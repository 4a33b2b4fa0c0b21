package qtrack

import (
	"strings"

	"github.com/pkg/errors"
)

// DefaultMinArea is the contour area a region must exceed to count as a ball
const DefaultMinArea = 500.0

// Candidate is one region of a color mask that could be the ball.
type Candidate struct {
	// Bounding box center
	Center Point
	BBox   Rectangle
	// Contour area
	Area float64
}

// NewCandidate creates candidate from contour bounding box and area
func NewCandidate(bbox Rectangle, area float64) Candidate {
	return Candidate{
		Center: bbox.Center(),
		BBox:   bbox,
		Area:   area,
	}
}

// SelectionPolicy decides which candidate wins when several regions qualify
type SelectionPolicy uint16

const (
	// SelectFirstFound takes the first qualifying region in detector order
	SelectFirstFound SelectionPolicy = iota
	// SelectLargestArea takes the qualifying region with the largest contour area
	SelectLargestArea
	// SelectNearestPredicted takes the qualifying region closest to where the color's track
	// expects the ball. Without a track it behaves like SelectFirstFound
	SelectNearestPredicted
)

func (policy SelectionPolicy) String() string {
	switch policy {
	case SelectFirstFound:
		return "first"
	case SelectLargestArea:
		return "largest"
	case SelectNearestPredicted:
		return "nearest"
	default:
		return "unknown"
	}
}

// ParseSelectionPolicy parses "first", "largest" or "nearest"
func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return SelectFirstFound, nil
	case "largest":
		return SelectLargestArea, nil
	case "nearest":
		return SelectNearestPredicted, nil
	default:
		return SelectFirstFound, errors.Errorf("unknown selection policy '%s'", s)
	}
}

// Selector picks at most one candidate per color per frame.
type Selector struct {
	policy  SelectionPolicy
	minArea float64
}

// NewSelectorDefault creates selector keeping the first region with area above 500
func NewSelectorDefault() *Selector {
	return NewSelector(SelectFirstFound, DefaultMinArea)
}

// NewSelector creates new instance of Selector
func NewSelector(policy SelectionPolicy, minArea float64) *Selector {
	return &Selector{
		policy:  policy,
		minArea: minArea,
	}
}

// Policy returns selection policy
func (selector *Selector) Policy() SelectionPolicy {
	return selector.policy
}

// Select returns the winning candidate. Regions with area not strictly greater
// than the minimum are ignored. predicted may be nil.
func (selector *Selector) Select(candidates []Candidate, predicted *Point) (Candidate, bool) {
	priorityQueue := make(candidateHeap, 0, len(candidates))
	for i, candidate := range candidates {
		if candidate.Area <= selector.minArea {
			continue
		}
		var rank float64
		switch selector.policy {
		case SelectLargestArea:
			rank = -candidate.Area
		case SelectNearestPredicted:
			if predicted != nil {
				rank = euclideanDistance(*predicted, candidate.Center)
			}
		}
		priorityQueue.Push(&rankedCandidate{
			underlying: candidate,
			order:      i,
			rank:       rank,
		})
	}
	if priorityQueue.Len() == 0 {
		return Candidate{}, false
	}
	return priorityQueue.Pop().underlying, true
}

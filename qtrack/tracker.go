package qtrack

import (
	"github.com/pkg/errors"
)

// Observation is a detected ball on a single sampled frame.
type Observation struct {
	Color    string
	Quadrant Quadrant
	Center   Point
}

type colorState struct {
	quadrant Quadrant
	// Consecutive sampled frames without an observation
	misses int
}

// TrackingState holds last known quadrant per color. Colors that were never
// observed (or were closed by MissPolicy) are absent.
type TrackingState struct {
	colors map[string]*colorState
	// First-seen order, used to make miss handling deterministic
	order []string
}

// NewTrackingState creates empty state
func NewTrackingState() *TrackingState {
	return &TrackingState{
		colors: make(map[string]*colorState),
		order:  make([]string, 0, 4),
	}
}

// Quadrant returns last known quadrant for the color
func (state *TrackingState) Quadrant(color string) (Quadrant, bool) {
	cs, ok := state.colors[color]
	if !ok {
		return QuadrantNone, false
	}
	return cs.quadrant, true
}

// Colors returns currently set colors in first-seen order
func (state *TrackingState) Colors() []string {
	out := make([]string, len(state.order))
	copy(out, state.order)
	return out
}

func (state *TrackingState) set(color string, quadrant Quadrant) {
	if cs, ok := state.colors[color]; ok {
		cs.quadrant = quadrant
		cs.misses = 0
		return
	}
	state.colors[color] = &colorState{quadrant: quadrant}
	state.order = append(state.order, color)
}

func (state *TrackingState) unset(color string) {
	delete(state.colors, color)
	for i := range state.order {
		if state.order[i] == color {
			state.order = append(state.order[:i], state.order[i+1:]...)
			break
		}
	}
}

// MissPolicy controls what happens when a tracked color is not observed.
type MissPolicy struct {
	// MaxMisses is number of consecutive sampled frames without observation after
	// which an Exit is recorded for the last known quadrant and the color is forgotten.
	// Zero disables closing exits: a missing color keeps its last quadrant forever.
	MaxMisses int
}

// Track applies a single sampled frame's observations to the state and appends
// resulting events to the log. Observations are processed in the given order.
// A contract violation (invalid quadrant or the same color twice) is reported
// before anything is changed.
func Track(state *TrackingState, log *EventLog, timestamp float64, observations []Observation, policy MissPolicy) error {
	seen := make(map[string]struct{}, len(observations))
	for _, obs := range observations {
		if !obs.Quadrant.Valid() {
			return errors.Errorf("observation for color '%s' has invalid quadrant %d", obs.Color, int(obs.Quadrant))
		}
		if _, ok := seen[obs.Color]; ok {
			return errors.Errorf("color '%s' observed more than once at %.3fs", obs.Color, timestamp)
		}
		seen[obs.Color] = struct{}{}
	}

	for _, obs := range observations {
		prev, ok := state.Quadrant(obs.Color)
		switch {
		case !ok:
			log.Append(Event{Time: timestamp, Quadrant: obs.Quadrant, Color: obs.Color, Kind: EventEntry})
		case prev != obs.Quadrant:
			log.Append(Event{Time: timestamp, Quadrant: prev, Color: obs.Color, Kind: EventExit})
			log.Append(Event{Time: timestamp, Quadrant: obs.Quadrant, Color: obs.Color, Kind: EventEntry})
		}
		state.set(obs.Color, obs.Quadrant)
	}

	if policy.MaxMisses <= 0 {
		return nil
	}
	// Iterate over a copy since closing a color mutates the order
	for _, color := range state.Colors() {
		if _, ok := seen[color]; ok {
			continue
		}
		cs := state.colors[color]
		cs.misses++
		if cs.misses >= policy.MaxMisses {
			log.Append(Event{Time: timestamp, Quadrant: cs.quadrant, Color: color, Kind: EventExit})
			state.unset(color)
		}
	}
	return nil
}

// Tracker owns a TrackingState and an EventLog for a single run.
type Tracker struct {
	State  *TrackingState
	Log    *EventLog
	policy MissPolicy
}

// NewTrackerDefault creates tracker which never closes missing colors
func NewTrackerDefault() *Tracker {
	return NewTracker(MissPolicy{})
}

// NewTracker creates new instance of Tracker
func NewTracker(policy MissPolicy) *Tracker {
	return &Tracker{
		State:  NewTrackingState(),
		Log:    NewEventLog(),
		policy: policy,
	}
}

// MatchObservations processes observations of a single sampled frame
func (tracker *Tracker) MatchObservations(timestamp float64, observations []Observation) error {
	err := Track(tracker.State, tracker.Log, timestamp, observations, tracker.policy)
	if err != nil {
		return errors.Wrapf(err, "Can't track frame at %.3fs", timestamp)
	}
	return nil
}

// Events returns copy of the event log
func (tracker *Tracker) Events() []Event {
	return tracker.Log.Export()
}

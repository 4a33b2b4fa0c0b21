package qtrack

import (
	"fmt"
)

// EventKind tells whether a ball entered or left a quadrant
type EventKind uint16

const (
	EventEntry EventKind = iota
	EventExit
)

func (kind EventKind) String() string {
	switch kind {
	case EventEntry:
		return "Entry"
	case EventExit:
		return "Exit"
	default:
		return fmt.Sprintf("EventKind(%d)", uint16(kind))
	}
}

// Event is a single quadrant transition record. Time is seconds since run start.
type Event struct {
	Time     float64
	Quadrant Quadrant
	Color    string
	Kind     EventKind
}

func (event Event) String() string {
	return fmt.Sprintf("%s(%.2f, %d, %s)", event.Kind, event.Time, int(event.Quadrant), event.Color)
}

// EventLog is an append-only ordered sequence of events.
type EventLog struct {
	events []Event
}

// NewEventLog creates empty log
func NewEventLog() *EventLog {
	return &EventLog{
		events: make([]Event, 0, 64),
	}
}

// Append adds event to the end of the log
func (log *EventLog) Append(event Event) {
	log.events = append(log.events, event)
}

// Len returns number of events
func (log *EventLog) Len() int {
	return len(log.events)
}

// Export returns copy of events in insertion order
func (log *EventLog) Export() []Event {
	out := make([]Event, len(log.events))
	copy(out, log.events)
	return out
}

package stopwatch

import "time"

// State is a consistent view of the stopwatch fields.
type State struct {
	ElapsedSeconds int
	Running        bool
}

// TickEvent is emitted to subscribers after every visible change.
// It is a snapshot taken at emission time.
type TickEvent struct {
	ElapsedSeconds int
	Running        bool
	At             time.Time
}

// Handler receives tick events.
type Handler func(TickEvent)

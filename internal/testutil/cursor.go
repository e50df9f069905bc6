package testutil

import (
	"github.com/roach88/evsel/internal/event"
)

// ManualCursor is a cursor whose current record is set directly by the
// test. Every Load advances the position, even when the same record is
// loaded again.
//
// Thread-safety: none. The analysis is single-threaded.
type ManualCursor struct {
	clock *event.Clock
	pos   event.Position
	rec   *event.Record
	sim   bool
}

// NewManualCursor creates a cursor with no current record.
func NewManualCursor(simulation bool) *ManualCursor {
	return &ManualCursor{clock: event.NewClock(), sim: simulation}
}

// Load makes rec the current record at a fresh position.
func (c *ManualCursor) Load(rec event.Record) {
	c.rec = &rec
	c.pos = c.clock.Next()
}

// Position implements the cursor interface.
func (c *ManualCursor) Position() event.Position {
	return c.pos
}

// Record returns the current record, or nil before the first Load.
func (c *ManualCursor) Record() *event.Record {
	return c.rec
}

// EventID returns the event number of the current record.
func (c *ManualCursor) EventID() uint64 {
	if c.rec == nil {
		return 0
	}
	return c.rec.Event
}

// Simulation reports the flag given to NewManualCursor.
func (c *ManualCursor) Simulation() bool {
	return c.sim
}

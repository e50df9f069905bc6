package event

// Position identifies the currently active record. Values are opaque and
// only compared for equality.
type Position uint64

// Clock is a monotonic logical clock handing out record positions.
//
// The first call to Next returns 1, so the zero Position never names a
// real record.
//
// Thread-safety: Clock is not safe for concurrent use; the record stream is
// driven from a single goroutine.
type Clock struct {
	seq Position
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next position and advances the clock.
func (c *Clock) Next() Position {
	c.seq++
	return c.seq
}

// Current returns the last issued position without advancing.
func (c *Clock) Current() Position {
	return c.seq
}

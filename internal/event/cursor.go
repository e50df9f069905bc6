package event

// SliceCursor walks the records of a Dataset in order.
//
// Before the first call to Next the cursor sits at the zero Position and
// Record returns nil.
type SliceCursor struct {
	dataset *Dataset
	clock   *Clock
	idx     int
	pos     Position
}

// NewSliceCursor creates a cursor over the dataset records using a fresh
// clock.
func NewSliceCursor(d *Dataset) *SliceCursor {
	return NewSliceCursorWithClock(d, NewClock())
}

// NewSliceCursorWithClock creates a cursor that stamps positions from the
// given clock.
func NewSliceCursorWithClock(d *Dataset, clock *Clock) *SliceCursor {
	return &SliceCursor{
		dataset: d,
		clock:   clock,
		idx:     -1,
	}
}

// Next advances to the following record. Returns false once the dataset is
// exhausted. The first exhausting call still moves to a fresh position, so
// caches keyed on the position never serve the last record's values while
// Record returns nil.
func (c *SliceCursor) Next() bool {
	if c.idx+1 >= len(c.dataset.Records) {
		if c.idx < len(c.dataset.Records) {
			c.idx = len(c.dataset.Records)
			c.pos = c.clock.Next()
		}
		return false
	}
	c.idx++
	c.pos = c.clock.Next()
	return true
}

// Position returns the position of the current record.
func (c *SliceCursor) Position() Position {
	return c.pos
}

// Record returns the current record, or nil outside the dataset.
func (c *SliceCursor) Record() *Record {
	if c.idx < 0 || c.idx >= len(c.dataset.Records) {
		return nil
	}
	return &c.dataset.Records[c.idx]
}

// EventID returns the event identifier of the current record, or 0 outside
// the dataset.
func (c *SliceCursor) EventID() uint64 {
	if r := c.Record(); r != nil {
		return r.Event
	}
	return 0
}

// Simulation reports whether the dataset is simulated.
func (c *SliceCursor) Simulation() bool {
	return c.dataset.Simulation
}

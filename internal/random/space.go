package random

import (
	"github.com/roach88/evsel/internal/protocol"
)

// Allocation is a contiguous range of channels owned by one consumer.
type Allocation struct {
	Name   string
	Offset int
	Width  int

	space *Space
}

// Channels returns the absolute channel indices of the allocation.
func (a Allocation) Channels() []int {
	out := make([]int, a.Width)
	for i := range out {
		out[i] = a.Offset + i
	}
	return out
}

// Space is the registration phase of the channel partition.
// Ranges are handed out in registration order and never overlap.
type Space struct {
	allocs []Allocation
	names  map[string]int
	next   int
	sealed bool
}

// NewSpace creates an empty channel space.
func NewSpace() *Space {
	return &Space{names: make(map[string]int)}
}

// Register allocates width contiguous channels starting at the next free
// offset. Each consumer registers exactly once, under a unique name, before
// the space is sealed.
func (s *Space) Register(name string, width int) (Allocation, error) {
	if s.sealed {
		return Allocation{}, protocol.New(protocol.CodeChannelAfterSeal, name,
			"channel space is sealed; register every consumer before reading")
	}
	if width < 1 {
		return Allocation{}, protocol.New(protocol.CodeInvalidChannelWidth, name,
			"channel width must be at least 1, got %d", width)
	}
	if _, dup := s.names[name]; dup {
		return Allocation{}, protocol.New(protocol.CodeDuplicateChannel, name,
			"consumer already registered")
	}

	a := Allocation{Name: name, Offset: s.next, Width: width, space: s}
	s.names[name] = len(s.allocs)
	s.allocs = append(s.allocs, a)
	s.next += width
	return a, nil
}

// Width returns the total number of allocated channels.
func (s *Space) Width() int {
	return s.next
}

// Allocations returns the allocations in registration order.
func (s *Space) Allocations() []Allocation {
	out := make([]Allocation, len(s.allocs))
	copy(out, s.allocs)
	return out
}

// Seal ends the registration phase and builds the read-only engine.
// The event identifier for every read is taken from src.
func (s *Space) Seal(src EventIDSource, opts ...Option) (*Engine, error) {
	if s.sealed {
		return nil, protocol.New(protocol.CodeChannelAfterSeal, "",
			"channel space already sealed")
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	table, err := NewTable(cfg.seed, cfg.tableSize)
	if err != nil {
		return nil, err
	}

	s.sealed = true
	return &Engine{
		table: table,
		src:   src,
		space: s,
		width: s.next,
	}, nil
}

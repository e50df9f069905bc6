package random

import (
	"math"

	"github.com/roach88/evsel/internal/protocol"
)

// EventIDSource exposes the identifier of the currently active record.
// Implemented by event.SliceCursor.
type EventIDSource interface {
	EventID() uint64
}

// Engine is the run phase of the channel partition: a sealed space plus the
// precomputed table.
type Engine struct {
	table Table
	src   EventIDSource
	space *Space
	width int
}

// Read returns the raw value for an absolute channel in the current event.
//
// Panics with CHANNEL_OUT_OF_RANGE if channel lies outside the registered
// space.
func (e *Engine) Read(channel int) uint32 {
	if channel < 0 || channel >= e.width {
		panic(protocol.New(protocol.CodeChannelOutOfRange, "",
			"channel %d outside registered space [0, %d)", channel, e.width))
	}
	return e.table.At(e.src.EventID(), channel)
}

// Width returns the number of registered channels.
func (e *Engine) Width() int {
	return e.width
}

// TableSize returns the number of precomputed values.
func (e *Engine) TableSize() int {
	return len(e.table)
}

// Generator binds an allocation from the sealed space to this engine.
func (e *Engine) Generator(a Allocation) (*Generator, error) {
	if a.space != e.space {
		return nil, protocol.New(protocol.CodeForeignAllocation, a.Name,
			"allocation was not registered in the space this engine was sealed from")
	}
	return &Generator{eng: e, name: a.Name, offset: a.Offset, width: a.Width}, nil
}

// MustGenerator is like Generator but panics on error.
// Use only during setup when the allocation is known to be valid.
func (e *Engine) MustGenerator(a Allocation) *Generator {
	g, err := e.Generator(a)
	if err != nil {
		panic(err)
	}
	return g
}

// Generator is one consumer's view of its channel range.
//
// Channel indices are local to the range. An index at or beyond the
// registered width wraps around modulo the width, so a consumer with more
// draws than channels reuses them instead of reading a neighbour's range.
type Generator struct {
	eng    *Engine
	name   string
	offset int
	width  int
}

// Name returns the consumer name the range was registered under.
func (g *Generator) Name() string {
	return g.name
}

// Width returns the number of channels in the range.
func (g *Generator) Width() int {
	return g.width
}

// Raw returns the raw table value for a local channel.
func (g *Generator) Raw(channel int) uint32 {
	return g.eng.Read(g.offset + g.local(channel))
}

// Rndm returns a uniform value on [0, 1].
func (g *Generator) Rndm(channel int) float64 {
	return float64(g.Raw(channel)) / MaxRaw
}

// Gaus returns a normally distributed value with the given mean and sigma,
// obtained by applying the inverse error function to Rndm.
func (g *Generator) Gaus(channel int, mean, sigma float64) float64 {
	u := g.Rndm(channel)
	return mean + sigma*math.Sqrt2*math.Erfinv(2*u-1)
}

func (g *Generator) local(channel int) int {
	c := channel % g.width
	if c < 0 {
		c += g.width
	}
	return c
}

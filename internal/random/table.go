package random

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	// DefaultTableSize is the number of precomputed values.
	DefaultTableSize = 100000

	// DefaultSeed seeds the table generator.
	DefaultSeed int64 = 4357

	// MaxRaw is the largest raw value a table can hold.
	MaxRaw = math.MaxUint32
)

// Table is an immutable circular buffer of uniformly distributed values.
type Table []uint32

// NewTable generates a table of the given size from seed. Two tables built
// with the same arguments are identical.
func NewTable(seed int64, size int) (Table, error) {
	if size < 1 {
		return nil, fmt.Errorf("random table size must be positive, got %d", size)
	}
	src := rand.New(rand.NewSource(seed))
	t := make(Table, size)
	for i := range t {
		t[i] = src.Uint32()
	}
	return t, nil
}

// At returns the value for the event identifier and absolute channel.
// Both terms are reduced before adding so the sum cannot wrap for event
// identifiers near the top of the uint64 range.
func (t Table) At(eventID uint64, channel int) uint32 {
	n := uint64(len(t))
	return t[(eventID%n+uint64(channel)%n)%n]
}

// Option configures table construction.
type Option func(*options)

type options struct {
	seed      int64
	tableSize int
}

func defaultOptions() options {
	return options{seed: DefaultSeed, tableSize: DefaultTableSize}
}

// WithSeed overrides DefaultSeed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithTableSize overrides DefaultTableSize.
func WithTableSize(size int) Option {
	return func(o *options) {
		o.tableSize = size
	}
}

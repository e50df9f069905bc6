package analysis

import (
	"sort"

	"github.com/roach88/evsel/internal/config"
)

// binned is a one-dimensional lookup table with up/down alternatives.
type binned struct {
	edges   []float64
	nominal []float64
	up      []float64
	down    []float64
}

func newBinned(o *config.BinnedOptions) *binned {
	if o == nil {
		return nil
	}
	return &binned{edges: o.Edges, nominal: o.Nominal, up: o.Up, down: o.Down}
}

// bin returns the bin containing x. Values outside the edges use the first
// or last bin.
func (b *binned) bin(x float64) int {
	i := sort.SearchFloat64s(b.edges, x)
	// SearchFloat64s returns the first edge ≥ x; edge values open a bin.
	if i < len(b.edges) && b.edges[i] == x {
		i++
	}
	i--
	if i < 0 {
		return 0
	}
	if n := len(b.nominal); i >= n {
		return n - 1
	}
	return i
}

// lookup returns nominal, up and down values at x.
func (b *binned) lookup(x float64) (nom, up, down float64) {
	i := b.bin(x)
	return b.nominal[i], b.up[i], b.down[i]
}

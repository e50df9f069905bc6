package weight

import (
	"fmt"

	"github.com/roach88/evsel/internal/protocol"
)

// Component is an independent multiplicative correction factor.
type Component interface {
	// NominalWeight is the best-estimate weight for the current record.
	NominalWeight() float64

	// NumVariations is the number of supported one-sided variations.
	NumVariations() int

	// DefaultWeight is NominalWeight, or NominalWeight × RelWeight(i) when
	// the globally requested systematic names variation i of this component.
	DefaultWeight() float64

	// RelWeight is the ratio of varied to nominal weight for variation i.
	RelWeight(i int) float64

	// VariationName is a stable label for variation i.
	VariationName(i int) string
}

// Named is implemented by components that report a display name.
type Named interface {
	Name() string
}

// ComponentName returns c's display name, or its type when it has none.
func ComponentName(c Component) string {
	if n, ok := c.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", c)
}

// Up and Down are the conventional suffixes of one-sided variation pairs.
const (
	Up   = "_up"
	Down = "_down"
)

// UpDown returns the variation names of an up/down pair.
func UpDown(base string) [2]string {
	return [2]string{base + Up, base + Down}
}

// FindVariation returns the index of the variation of c called name.
func FindVariation(c Component, name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	for i := 0; i < c.NumVariations(); i++ {
		if c.VariationName(i) == name {
			return i, true
		}
	}
	return 0, false
}

// ApplySyst returns the default weight of c under the requested
// systematic: NominalWeight, or NominalWeight × RelWeight(i) if syst names
// variation i of c. Components implement DefaultWeight with it.
func ApplySyst(c Component, syst string) float64 {
	if i, ok := FindVariation(c, syst); ok {
		return c.NominalWeight() * c.RelWeight(i)
	}
	return c.NominalWeight()
}

// CheckIndex panics with VARIATION_OUT_OF_RANGE unless 0 ≤ i < n.
func CheckIndex(component string, i, n int) {
	if i < 0 || i >= n {
		panic(protocol.VariationOutOfRange(component, i, n))
	}
}

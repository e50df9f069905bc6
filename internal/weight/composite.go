package weight

import "github.com/roach88/evsel/internal/protocol"

// Composite multiplies an ordered list of components.
// It stores no per-component state and owns none of its components.
type Composite struct {
	components []Component
}

// Compile-time check that Composite is itself a Component.
var _ Component = (*Composite)(nil)

// NewComposite creates an aggregator over the components, in order.
// The slice is copied so the order cannot change after construction.
func NewComposite(components ...Component) *Composite {
	cs := make([]Component, len(components))
	copy(cs, components)
	return &Composite{components: cs}
}

// Name implements Named.
func (w *Composite) Name() string {
	return "composite"
}

// Components returns the components in registration order.
func (w *Composite) Components() []Component {
	out := make([]Component, len(w.components))
	copy(out, w.components)
	return out
}

// NominalWeight returns the product of the components' nominal weights.
func (w *Composite) NominalWeight() float64 {
	product := 1.0
	for _, c := range w.components {
		product *= c.NominalWeight()
	}
	return product
}

// DefaultWeight returns the product of the components' default weights.
func (w *Composite) DefaultWeight() float64 {
	product := 1.0
	for _, c := range w.components {
		product *= c.DefaultWeight()
	}
	return product
}

// NumVariations returns the sum of the components' variation counts.
func (w *Composite) NumVariations() int {
	n := 0
	for _, c := range w.components {
		n += c.NumVariations()
	}
	return n
}

// TranslateIndex maps a global variation index to the owning component's
// position and its local index.
func (w *Composite) TranslateIndex(global int) (component, local int) {
	if global >= 0 {
		start := 0
		for i, c := range w.components {
			n := c.NumVariations()
			if global < start+n {
				return i, global - start
			}
			start += n
		}
	}
	panic(protocol.VariationOutOfRange(w.Name(), global, w.NumVariations()))
}

// RelWeight returns the owning component's relative weight; all other
// components are held at nominal.
func (w *Composite) RelWeight(global int) float64 {
	ci, li := w.TranslateIndex(global)
	return w.components[ci].RelWeight(li)
}

// VariationName returns the owning component's variation name.
func (w *Composite) VariationName(global int) string {
	ci, li := w.TranslateIndex(global)
	return w.components[ci].VariationName(li)
}

// Variation describes one entry of the flattened variation space.
type Variation struct {
	Index     int    `json:"index"`
	Component string `json:"component"`
	Local     int    `json:"local"`
	Name      string `json:"name"`
}

// Variations lists the flattened variation space in index order.
func (w *Composite) Variations() []Variation {
	var out []Variation
	global := 0
	for _, c := range w.components {
		name := ComponentName(c)
		for li := 0; li < c.NumVariations(); li++ {
			out = append(out, Variation{
				Index:     global,
				Component: name,
				Local:     li,
				Name:      c.VariationName(li),
			})
			global++
		}
	}
	return out
}

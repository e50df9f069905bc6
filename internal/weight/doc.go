// Package weight defines the contract shared by every independent
// multiplicative correction factor and the aggregator combining them.
//
// A Component reports a nominal weight for the current record and a list of
// one-sided systematic variations, each expressed as a ratio to nominal.
// Components that are switched off by configuration, or do not apply to the
// current dataset, still satisfy the contract: nominal weight 1 and no
// variations. They are included unconditionally.
//
// Composite multiplies its components. Its variations are the concatenation
// of the components' variations in registration order; a global index is
// mapped to (component, local index) by walking the components and
// accumulating their counts:
//
//	counts  [2, 0, 3]
//	global   0 1 | | 2 3 4
//	owner    0 0 | | 2 2 2
//	local    0 1 | | 0 1 2
//
// Only the owning component is varied; every other component stays at its
// nominal value. Combined shifts of several components are not modelled.
//
// An index outside [0, NumVariations()) is a programming error and panics
// with VARIATION_OUT_OF_RANGE.
package weight

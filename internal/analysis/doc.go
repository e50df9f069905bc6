// Package analysis wires the generic engine into a Z→ℓℓ selection.
//
// It defines the concrete physics objects (Lepton, Jet), the builders that
// derive them from event records, the selection filters and the weight
// components. New is the composition root: it registers random channels,
// builds every collection, enables cleaning, checks the cleaning graph for
// cycles, seals the random space and assembles the composite weight.
//
// Setup order is fixed:
//
//	space := random.NewSpace()       // registration phase
//	... Register(...) per consumer
//	collections + EnableCleaning
//	collection.CheckAcyclic(...)
//	engine := space.Seal(cursor)      // run phase
//	generators bound to engine
//
// Everything here reads the current record through a Cursor and is
// recomputed at most once per position.
package analysis

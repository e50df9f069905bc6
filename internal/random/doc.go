// Package random provides reproducible per-event randomness shared by
// unrelated consumers without correlating them.
//
// A fixed table of uniformly distributed 32-bit integers is generated once
// from a single seed. A draw for channel c in the event with identifier id
// is table[(id + c) mod len(table)], a pure function of (id, c): the same
// inputs return the same value no matter how often, in which order, or by
// whom they are read.
//
// Channels are partitioned between consumers during setup:
//
//	space := random.NewSpace()
//	jer, _ := space.Register("jet_smearing", 8)   // channels 0..7
//	trig, _ := space.Register("trigger_gate", 1)  // channel 8
//	eng, _ := space.Seal(cursor)
//
//	smear := eng.MustGenerator(jer)
//	smear.Gaus(3, 1, 0.1) // reads channel 3 of the jet_smearing range
//
// Registration and reading are type-distinct phases. Space only registers;
// Engine, obtained by sealing the space, only reads. A Space refuses
// registrations once sealed, so no consumer can grow the partition after
// draws have begun.
//
// Nothing here is safe for concurrent use.
package random

// Package collection implements lazily built, per-record derived
// collections of physics objects.
//
// A Collection turns the raw candidates of the current record into two
// graded lists: a loose list of every candidate passing the loose
// selection, and a tight list, the subset of loose candidates that also
// pass the tight selection. Both are built together on the first Get or
// GetLoose after the cursor moves and are memoized until it moves again.
//
// # Cleaning
//
// A collection may be cleaned against higher-priority collections: any
// candidate within a squared angular distance of an object already held by
// one of them is dropped. Cleaning pulls the providers' Get, which rebuilds
// them for the current record first if needed. Dependencies therefore form
// a graph that must be acyclic:
//
//	muons := collection.New("muons", cursor, muonSel)
//	electrons := collection.New("electrons", cursor, eleSel)
//	jets := collection.New("jets", cursor, jetSel, collection.WithCleaningRadius(0.4))
//	_ = electrons.EnableCleaning(muons)
//	_ = jets.EnableCleaning(muons, electrons)
//	if err := collection.CheckAcyclic(muons, electrons, jets); err != nil { ... }
//
// EnableCleaning must be called during setup; calling it on a collection
// that has already been built returns a CLEANING_AFTER_BUILD error.
// CheckAcyclic reports static cycles during setup, and a collection whose
// build re-enters itself panics with DEPENDENCY_CYCLE at run time.
//
// # Momentum sums
//
// Every Collection implements MomentumSource, so consumers such as the
// missing-momentum builder can propagate calibration changes without knowing
// the concrete object type.
//
// Nothing here is safe for concurrent use.
package collection

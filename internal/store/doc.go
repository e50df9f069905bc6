// Package store provides SQLite-backed storage for analysis results.
//
// A run is one pass of the event loop over a dataset with one set of
// options. The store keeps:
//   - Runs: dataset, options hash and canonical options, requested syst
//   - Variations: the flattened variation table of the run's weight
//   - Events: nominal and default weight of every selected record
//   - Variation weights: the relative weight of every variation per record
//
// # Ordering
//
// Runs are numbered by a logical seq, never by wall time. Every read is
// ordered by (position, idx) so results are identical across reruns.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

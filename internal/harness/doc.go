// Package harness provides a conformance testing framework for evsel.
//
// A scenario is a YAML file holding inline analysis options, an inline
// dataset (or a path to one) and expectations about individual events and
// run-level totals. The harness runs the scenario through the real
// pipeline against a fresh in-memory store, reads the persisted events
// back and checks every expectation. Mismatches are collected in
// Result.Errors rather than failing fast, so one run reports every
// deviation.
//
// Scenarios run with a fixed run id so the trace is byte-identical across
// runs and can be compared against golden files.
package harness

// Package pipeline runs the event loop.
//
// A Runner owns one pass over a dataset: it advances the cursor, evaluates
// the filters in order, computes the weights of every selected record and
// persists them. The loop is single-writer and strictly sequential; the
// only concurrency it tolerates is cancellation through the context, which
// is checked between records.
//
// Contract violations raised while processing a record abort the run and
// are returned as an *EventError wrapping the *protocol.ProtocolError.
package pipeline

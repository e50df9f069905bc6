// Package protocol defines the structured error raised when a caller breaks
// one of the engine's usage contracts.
//
// Two phases exist for every engine object:
//
//   - Setup: random channels are registered, cleaning dependencies are
//     declared, the collection graph is checked for cycles. Violations in
//     this phase are returned as errors and abort the run.
//   - Run: one strictly sequential pass over records. Violations here are
//     programming errors on the hot path (an out-of-range variation index,
//     a re-entrant build) and panic with a *ProtocolError.
//
// Feature absence driven by configuration is never a ProtocolError; those
// components degrade to identity values instead.
package protocol

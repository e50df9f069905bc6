// Package cache tells a consumer whether the record stream has moved since
// that consumer last looked.
//
// A Cache owns a single token: the last event.Position it observed.
// IsUpdated compares the stream's current position with the token, and on a
// mismatch stores the new position and reports true. The very first call
// always reports true because a fresh token matches no position at all,
// including the zero Position.
//
// Lazy pairs a Cache with a cached value so that a quantity is computed at
// most once per record, however many times it is read:
//
//	pt := cache.NewLazy(cursor, func() float64 { return expensive(cursor.Record()) })
//	pt.Get() // computes
//	pt.Get() // cached until the cursor advances
//
// Neither type is safe for concurrent use. Each consumer owns its own Cache;
// tokens are never shared.
package cache

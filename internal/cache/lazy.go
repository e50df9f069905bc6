package cache

// Lazy is a value recomputed at most once per record.
//
// The zero Lazy is not usable; construct with NewLazy.
type Lazy[T any] struct {
	cache   Cache
	value   T
	compute func() T
}

// NewLazy creates a lazily computed value bound to the position source.
func NewLazy[T any](src PositionSource, compute func() T) *Lazy[T] {
	return &Lazy[T]{
		cache:   Cache{src: src},
		compute: compute,
	}
}

// Get returns the value for the current record, computing it first if the
// stream moved since the last call. If compute panics the value is not
// cached, and the next Get at the same position computes again.
func (l *Lazy[T]) Get() T {
	if l.cache.IsUpdated() {
		done := false
		defer func() {
			if !done {
				l.cache.Invalidate()
			}
		}()
		l.value = l.compute()
		done = true
	}
	return l.value
}

package cache

import "github.com/roach88/evsel/internal/event"

// PositionSource exposes the position of the currently active record.
// Implemented by event.SliceCursor.
type PositionSource interface {
	Position() event.Position
}

// Token is the last position observed by one consumer.
// The zero Token matches no position.
type Token struct {
	pos   event.Position
	valid bool
}

// Matches reports whether the token was taken at pos.
func (t Token) Matches(pos event.Position) bool {
	return t.valid && t.pos == pos
}

// Cache reports whether the stream has advanced since the last check.
type Cache struct {
	src   PositionSource
	token Token
}

// New creates a cache bound to the given position source.
func New(src PositionSource) *Cache {
	return &Cache{src: src}
}

// IsUpdated returns true and records the current position if it differs
// from the stored token. Repeated calls without an intervening move return
// false.
func (c *Cache) IsUpdated() bool {
	pos := c.src.Position()
	if c.token.Matches(pos) {
		return false
	}
	c.token = Token{pos: pos, valid: true}
	return true
}

// Invalidate forgets the stored position so the next IsUpdated reports
// true again, even at the same position.
func (c *Cache) Invalidate() {
	c.token = Token{}
}

// Token returns the last observed position.
func (c *Cache) Token() Token {
	return c.token
}

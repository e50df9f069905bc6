package pipeline

import (
	"errors"
	"fmt"

	"github.com/roach88/evsel/internal/event"
	"github.com/roach88/evsel/internal/protocol"
)

// EventError reports a failure while processing one record.
type EventError struct {
	RunID    string
	Position event.Position
	EventID  uint64
	Err      error
}

// Error implements the error interface.
func (e *EventError) Error() string {
	return fmt.Sprintf("event %d (position=%d, run=%s): %v", e.EventID, e.Position, e.RunID, e.Err)
}

// Unwrap returns the underlying error.
func (e *EventError) Unwrap() error {
	return e.Err
}

// IsContractViolation reports whether err carries a ProtocolError.
// Uses errors.As to handle wrapped errors.
func IsContractViolation(err error) bool {
	var pe *protocol.ProtocolError
	return errors.As(err, &pe)
}

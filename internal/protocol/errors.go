package protocol

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code categorizes contract violations.
type Code string

const (
	// CodeChannelAfterSeal indicates a random channel registration after the
	// channel space was sealed.
	CodeChannelAfterSeal Code = "CHANNEL_AFTER_SEAL"

	// CodeInvalidChannelWidth indicates a registration with width < 1.
	CodeInvalidChannelWidth Code = "INVALID_CHANNEL_WIDTH"

	// CodeDuplicateChannel indicates two consumers registered under one name.
	CodeDuplicateChannel Code = "DUPLICATE_CHANNEL"

	// CodeForeignAllocation indicates an allocation bound to an engine sealed
	// from a different channel space.
	CodeForeignAllocation Code = "FOREIGN_ALLOCATION"

	// CodeChannelOutOfRange indicates a raw read outside the allocated space.
	CodeChannelOutOfRange Code = "CHANNEL_OUT_OF_RANGE"

	// CodeCleaningAfterBuild indicates EnableCleaning on a collection that has
	// already been built for some record.
	CodeCleaningAfterBuild Code = "CLEANING_AFTER_BUILD"

	// CodeDependencyCycle indicates derived collections that depend on each
	// other, directly or transitively.
	CodeDependencyCycle Code = "DEPENDENCY_CYCLE"

	// CodeVariationOutOfRange indicates a variation index outside
	// [0, NumVariations()).
	CodeVariationOutOfRange Code = "VARIATION_OUT_OF_RANGE"
)

// ProtocolError describes a broken usage contract.
type ProtocolError struct {
	// Code identifies the violated contract.
	Code Code

	// Message is a human-readable description.
	Message string

	// Component names the object that detected the violation
	// (a collection, a channel consumer, a weight component).
	Component string

	// Details contains additional context.
	Details map[string]string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Component != "" {
		fmt.Fprintf(&b, " (component=%s", e.Component)
		for _, k := range sortedKeys(e.Details) {
			fmt.Fprintf(&b, ", %s=%s", k, e.Details[k])
		}
		b.WriteString(")")
	}
	return b.String()
}

// New creates a ProtocolError.
func New(code Code, component, format string, args ...any) *ProtocolError {
	return &ProtocolError{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Component: component,
	}
}

// With returns the error with an extra detail attached.
func (e *ProtocolError) With(key string, value any) *ProtocolError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = fmt.Sprint(value)
	return e
}

// Is reports whether err is a ProtocolError with the given code.
// Uses errors.As to handle wrapped errors.
func Is(err error, code Code) bool {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// Recover converts a recovered panic value carrying a *ProtocolError back
// into an error. Any other panic value is re-raised.
//
//	defer func() { err = protocol.Recover(recover(), err) }()
func Recover(r any, err error) error {
	if r == nil {
		return err
	}
	if pe, ok := r.(*ProtocolError); ok {
		return pe
	}
	panic(r)
}

// VariationOutOfRange builds the panic value for an invalid variation index.
func VariationOutOfRange(component string, index, count int) *ProtocolError {
	return New(CodeVariationOutOfRange, component,
		"variation index %d outside [0, %d)", index, count).
		With("index", index).
		With("num_variations", count)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

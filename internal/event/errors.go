package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for broadcasters and sources.
var (
	// ErrClosed is returned when subscribing to a closed broadcaster or source.
	ErrClosed = errors.New("event source is closed")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrHandlerPanic is matched by PanicError via errors.Is.
	ErrHandlerPanic = errors.New("handler panicked")
)

// PanicError wraps a recovered handler panic.
type PanicError struct {
	// SubscriptionID is the ID of the subscription whose handler panicked.
	SubscriptionID string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic for subscription %s: %v", e.SubscriptionID, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

package session

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	// ErrSessionActive is returned when a session is started while another runs.
	ErrSessionActive = errors.New("a session is already running")

	// ErrNoActiveSession is returned when input arrives while the engine is idle.
	ErrNoActiveSession = errors.New("no active session")

	// ErrStaleToken is returned when input names a card that is no longer live.
	ErrStaleToken = errors.New("token does not match the live card")

	// ErrInputDropped is returned when the session input buffer is full.
	ErrInputDropped = errors.New("input buffer full, input dropped")

	// ErrMissingStrategy is returned by NewEngine when a card type has no strategy.
	ErrMissingStrategy = errors.New("no strategy registered for card type")

	// ErrUnknownCardType is reported when a card's type has no strategy at dispatch.
	ErrUnknownCardType = errors.New("unknown card type")

	// ErrUnsupportedCardType is reported by placeholder strategies.
	ErrUnsupportedCardType = errors.New("card type has no presentation")
)

// EngineError wraps errors from engine operations with additional context.
type EngineError struct {
	// Operation is the name of the operation that failed
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates a new EngineError.
func NewEngineError(operation, message string, err error) *EngineError {
	return &EngineError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalTransition means a command is not valid for the current state.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrClockUnavailable means the periodic ticker could not be armed.
	ErrClockUnavailable = errors.New("clock unavailable")
	// ErrInvalidDuration is returned for negative session lengths.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidState is returned when a session is requested for a non-session state.
	ErrInvalidState = errors.New("invalid session state")
)

// TransitionError describes a rejected command. It always unwraps to
// ErrIllegalTransition.
type TransitionError struct {
	Op     string
	State  State
	Paused bool
}

func (e *TransitionError) Error() string {
	from := e.State.String()
	if e.Paused {
		from += " (paused)"
	}
	return fmt.Sprintf("%s: %v from %s", e.Op, ErrIllegalTransition, from)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// NewTransitionError creates a TransitionError for op attempted in state.
func NewTransitionError(op string, state State, paused bool) *TransitionError {
	return &TransitionError{Op: op, State: state, Paused: paused}
}

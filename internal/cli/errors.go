package cli

import (
	"errors"
	"fmt"

	"github.com/vburojevic/pomo/internal/domain"
	"github.com/vburojevic/pomo/internal/output"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so callers always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	if globals != nil && globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, hint...)
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s", code, message)
		if len(hint) > 0 && hint[0] != "" {
			fmt.Fprintf(globals.Stderr, " (hint: %s)", hint[0])
		}
		fmt.Fprintln(globals.Stderr)
	}
	return errors.New(message)
}

// errorCode maps core errors to stable NDJSON codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrIllegalTransition):
		return "ILLEGAL_TRANSITION"
	case errors.Is(err, domain.ErrInvalidDuration):
		return "INVALID_DURATION"
	case errors.Is(err, domain.ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, domain.ErrClockUnavailable):
		return "CLOCK_UNAVAILABLE"
	case errors.Is(err, errUnknownCommand):
		return "UNKNOWN_COMMAND"
	}
	return "INTERNAL"
}

// errorHint suggests the next command for a rejected one
func errorHint(err error) string {
	var te *domain.TransitionError
	if !errors.As(err, &te) {
		return ""
	}
	switch {
	case te.State == domain.StateIdle:
		return "start a session with work or break"
	case te.Op == "start":
		return "end the current session first"
	case te.Op == "resume":
		return "the session is not paused"
	case te.Paused:
		return "resume or end the paused session"
	}
	return ""
}

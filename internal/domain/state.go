package domain

import (
	"fmt"
	"strings"
)

// State is the mode of the single timer session.
type State int

const (
	StateIdle State = iota
	StateWork
	StateBreak
)

const (
	stateIdleString  = "Idle"
	stateWorkString  = "WorkSession"
	stateBreakString = "BreakSession"
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return stateIdleString
	case StateWork:
		return stateWorkString
	case StateBreak:
		return stateBreakString
	default:
		return "Unknown"
	}
}

// Active reports whether s is a running (or paused) work or break session.
func (s State) Active() bool {
	return s == StateWork || s == StateBreak
}

// MarshalText encodes the state by name so JSON payloads carry "WorkSession" etc.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts anything ParseState accepts.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseState converts a state name to a State.
// Accepts canonical names ("WorkSession") and short forms ("work").
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idle":
		return StateIdle, nil
	case "worksession", "work":
		return StateWork, nil
	case "breaksession", "break":
		return StateBreak, nil
	default:
		return StateIdle, fmt.Errorf("unknown session state %q", s)
	}
}

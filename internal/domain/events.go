package domain

import "time"

// SchemaVersion is stamped on every published payload.
const SchemaVersion = 1

// Event names published by the timer core.
const (
	EventSessionStart  = "session-start"
	EventSessionEnd    = "session-end"
	EventSessionPause  = "session-pause"
	EventSessionResume = "session-resume"
	EventTimerTick     = "timer-tick"
	EventWarning       = "warning"
)

// EventNames lists every event the core publishes, in lifecycle order.
var EventNames = []string{
	EventSessionStart,
	EventSessionPause,
	EventSessionResume,
	EventTimerTick,
	EventSessionEnd,
	EventWarning,
}

// End reasons carried by SessionEnd.
const (
	EndReasonCompleted = "completed"
	EndReasonCancelled = "cancelled"
)

// SessionStart is published when a work or break session begins
type SessionStart struct {
	Type            string `json:"type"`          // "session-start"
	SchemaVersion   int    `json:"schemaVersion"` // 1
	Session         int    `json:"session"`       // Sequence number (1, 2, 3...)
	SessionID       string `json:"session_id"`
	State           State  `json:"state"`
	DurationSeconds int    `json:"duration"`
	Timestamp       string `json:"timestamp"` // ISO8601 timestamp
}

// SessionEnd is published exactly once per session, on expiry or cancellation
type SessionEnd struct {
	Type          string         `json:"type"` // "session-end"
	SchemaVersion int            `json:"schemaVersion"`
	Session       int            `json:"session"`
	SessionID     string         `json:"session_id"`
	State         State          `json:"state"`  // State that ended
	Reason        string         `json:"reason"` // "completed" or "cancelled"
	Summary       SessionSummary `json:"summary"`
	Totals        Totals         `json:"totals"`
	Timestamp     string         `json:"timestamp"`
}

// SessionSummary describes one finished session
type SessionSummary struct {
	DurationSeconds int `json:"duration_seconds"`
	ElapsedSeconds  int `json:"elapsed_seconds"`
	PausedSeconds   int `json:"paused_seconds"`
	Pauses          int `json:"pauses"`
}

// Totals are per-process counters, reset on restart
type Totals struct {
	CompletedWork   int `json:"completed_work"`
	CompletedBreaks int `json:"completed_breaks"`
	Cancelled       int `json:"cancelled"`
	FocusSeconds    int `json:"focus_seconds"`
}

// PauseChange is published for both session-pause and session-resume
type PauseChange struct {
	Type          string `json:"type"` // "session-pause" or "session-resume"
	SchemaVersion int    `json:"schemaVersion"`
	Session       int    `json:"session"`
	State         State  `json:"state"`
	RemainingTime int    `json:"remainingTime"` // Seconds
	Timestamp     string `json:"timestamp"`
}

// TimerTick is published once per tick interval while a session is active
type TimerTick struct {
	Type          string `json:"type"` // "timer-tick"
	SchemaVersion int    `json:"schemaVersion"`
	Session       int    `json:"session"`
	State         State  `json:"state"`
	RemainingTime int    `json:"remainingTime"` // Seconds, frozen while paused
	Paused        bool   `json:"paused"`
	Timestamp     string `json:"timestamp"`
}

// Warning is published while idle, once per elapsed warning interval
type Warning struct {
	Type                string `json:"type"` // "warning"
	SchemaVersion       int    `json:"schemaVersion"`
	IdleDurationMinutes int    `json:"idleDurationMinutes"`
	IdleSeconds         int    `json:"idle_seconds"`
	Count               int    `json:"count"` // 1 for the first warning of this idle stretch
	Timestamp           string `json:"timestamp"`
}

func stamp(at time.Time) string {
	return at.UTC().Format(time.RFC3339)
}

// NewSessionStart creates a session-start payload for s
func NewSessionStart(s Session, at time.Time) *SessionStart {
	return &SessionStart{
		Type:            EventSessionStart,
		SchemaVersion:   SchemaVersion,
		Session:         s.Number,
		SessionID:       s.ID,
		State:           s.State,
		DurationSeconds: Seconds(s.Duration),
		Timestamp:       stamp(at),
	}
}

// NewSessionEnd creates a session-end payload for the session that just ended
func NewSessionEnd(s Session, reason string, totals Totals, at time.Time) *SessionEnd {
	return &SessionEnd{
		Type:          EventSessionEnd,
		SchemaVersion: SchemaVersion,
		Session:       s.Number,
		SessionID:     s.ID,
		State:         s.State,
		Reason:        reason,
		Summary: SessionSummary{
			DurationSeconds: Seconds(s.Duration),
			ElapsedSeconds:  int(s.Elapsed(at) / time.Second),
			PausedSeconds:   int(s.Paused(at) / time.Second),
			Pauses:          s.Pauses,
		},
		Totals:    totals,
		Timestamp: stamp(at),
	}
}

// NewSessionPause creates a session-pause payload
func NewSessionPause(s Session, at time.Time) *PauseChange {
	return newPauseChange(EventSessionPause, s, at)
}

// NewSessionResume creates a session-resume payload
func NewSessionResume(s Session, at time.Time) *PauseChange {
	return newPauseChange(EventSessionResume, s, at)
}

func newPauseChange(eventType string, s Session, at time.Time) *PauseChange {
	return &PauseChange{
		Type:          eventType,
		SchemaVersion: SchemaVersion,
		Session:       s.Number,
		State:         s.State,
		RemainingTime: Seconds(s.Remaining(at)),
		Timestamp:     stamp(at),
	}
}

// NewTimerTick creates a timer-tick payload
func NewTimerTick(s Session, at time.Time) *TimerTick {
	return &TimerTick{
		Type:          EventTimerTick,
		SchemaVersion: SchemaVersion,
		Session:       s.Number,
		State:         s.State,
		RemainingTime: Seconds(s.Remaining(at)),
		Paused:        s.IsPaused,
		Timestamp:     stamp(at),
	}
}

// NewWarning creates an idle warning payload
func NewWarning(idle time.Duration, count int, at time.Time) *Warning {
	return &Warning{
		Type:                EventWarning,
		SchemaVersion:       SchemaVersion,
		IdleDurationMinutes: int(idle / time.Minute),
		IdleSeconds:         int(idle / time.Second),
		Count:               count,
		Timestamp:           stamp(at),
	}
}

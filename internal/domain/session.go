package domain

import (
	"math"
	"time"
)

// Session is the single live timer session. The zero value is Idle.
type Session struct {
	State         State
	Number        int    // Sequence number within the process (1, 2, 3...)
	ID            string // Random identifier for correlating events
	StartTime     time.Time
	Duration      time.Duration
	IsPaused      bool
	PausedAt      time.Time
	PauseDuration time.Duration // Accumulated on each resume
	Pauses        int
}

// Elapsed returns active time since start, excluding paused intervals,
// clamped to [0, Duration].
func (s Session) Elapsed(now time.Time) time.Duration {
	if !s.State.Active() {
		return 0
	}
	elapsed := now.Sub(s.StartTime) - s.PauseDuration
	if s.IsPaused {
		elapsed -= now.Sub(s.PausedAt)
	}
	if elapsed < 0 {
		return 0
	}
	if elapsed > s.Duration {
		return s.Duration
	}
	return elapsed
}

// Remaining returns Duration - Elapsed, never negative.
func (s Session) Remaining(now time.Time) time.Duration {
	if !s.State.Active() {
		return 0
	}
	return s.Duration - s.Elapsed(now)
}

// Expired reports whether an active session has no time left.
func (s Session) Expired(now time.Time) bool {
	return s.State.Active() && s.Remaining(now) == 0
}

// Paused returns the time spent paused so far, including an open pause.
func (s Session) Paused(now time.Time) time.Duration {
	paused := s.PauseDuration
	if s.IsPaused {
		paused += now.Sub(s.PausedAt)
	}
	return paused
}

// Progress returns the completed fraction of the session in [0, 1].
func (s Session) Progress(now time.Time) float64 {
	if !s.State.Active() || s.Duration <= 0 {
		return 0
	}
	return float64(s.Elapsed(now)) / float64(s.Duration)
}

// Seconds converts a duration to whole seconds, rounding up so a running
// session never reports 0 before it ends.
func Seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

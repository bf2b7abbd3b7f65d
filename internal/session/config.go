package session

import (
	"time"

	"github.com/vburojevic/pomo/internal/domain"
)

// Default timer settings.
const (
	DefaultWorkDuration        = 25 * time.Minute
	DefaultBreakDuration       = 5 * time.Minute
	DefaultIdleWarningInterval = 5 * time.Minute
	DefaultTickInterval        = time.Second
)

// Config holds the durations the controller and watcher are built with.
type Config struct {
	WorkDuration        time.Duration
	BreakDuration       time.Duration
	IdleWarningInterval time.Duration
	TickInterval        time.Duration
}

// DefaultConfig returns the classic 25/5 Pomodoro settings.
func DefaultConfig() Config {
	return Config{
		WorkDuration:        DefaultWorkDuration,
		BreakDuration:       DefaultBreakDuration,
		IdleWarningInterval: DefaultIdleWarningInterval,
		TickInterval:        DefaultTickInterval,
	}
}

// withDefaults fills unset fields. A negative tick interval is kept so the
// scheduler can refuse to arm it.
func (c Config) withDefaults() Config {
	if c.WorkDuration <= 0 {
		c.WorkDuration = DefaultWorkDuration
	}
	if c.BreakDuration <= 0 {
		c.BreakDuration = DefaultBreakDuration
	}
	if c.IdleWarningInterval <= 0 {
		c.IdleWarningInterval = DefaultIdleWarningInterval
	}
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	return c
}

func (c Config) durationFor(state domain.State) time.Duration {
	if state == domain.StateBreak {
		return c.BreakDuration
	}
	return c.WorkDuration
}

// Package session implements the Pomodoro state machine: one session at a
// time, pause-aware remaining time, the idle watcher, and the scheduler
// loop that drives both.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vburojevic/pomo/internal/domain"
)

// Publisher receives lifecycle, tick and warning notifications.
type Publisher interface {
	Publish(name string, payload any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source. Tests pass clock.NewMock().
func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) {
		if c != nil {
			ctrl.clock = c
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *zap.Logger) Option {
	return func(ctrl *Controller) {
		if logger != nil {
			ctrl.logger = logger
		}
	}
}

// WithIDGenerator overrides how session IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(ctrl *Controller) {
		if fn != nil {
			ctrl.newID = fn
		}
	}
}

// Snapshot is a consistent copy of everything a front end reads.
type Snapshot struct {
	State     domain.State
	Session   int
	SessionID string
	Duration  time.Duration
	Elapsed   time.Duration
	Remaining time.Duration
	Progress  float64
	Paused    bool
	IdleFor   time.Duration
	Warnings  int
	Totals    domain.Totals
}

// RemainingSeconds returns Remaining as whole seconds, rounded up.
func (s Snapshot) RemainingSeconds() int {
	return domain.Seconds(s.Remaining)
}

// Status converts the snapshot into a status record.
func (s Snapshot) Status() *domain.Status {
	return &domain.Status{
		Type:          "status",
		SchemaVersion: domain.SchemaVersion,
		State:         s.State,
		Session:       s.Session,
		SessionID:     s.SessionID,
		RemainingTime: s.RemainingSeconds(),
		Paused:        s.Paused,
		IdleSeconds:   int(s.IdleFor / time.Second),
		Totals:        s.Totals,
	}
}

// Controller owns the single Session. Every mutation, including the
// scheduler's expiry check, runs under one lock, and events are published
// while it is held so subscribers see them in mutation order.
type Controller struct {
	mu      sync.RWMutex
	cfg     Config
	clock   clock.Clock
	pub     Publisher
	logger  *zap.Logger
	newID   func() string
	current domain.Session
	idle    *IdleWatcher
	stats   Stats
	seq     int
}

// NewController creates a Controller in the Idle state. A nil publisher
// discards all notifications.
func NewController(cfg Config, pub Publisher, opts ...Option) *Controller {
	if pub == nil {
		pub = nopPublisher{}
	}
	ctrl := &Controller{
		cfg:    cfg.withDefaults(),
		clock:  clock.New(),
		pub:    pub,
		logger: zap.NewNop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	ctrl.idle = NewIdleWatcher(ctrl.cfg.IdleWarningInterval, pub)
	ctrl.idle.Enter(ctrl.clock.Now())
	return ctrl
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// StartWork begins a work session of the configured length.
func (c *Controller) StartWork() error {
	return c.Start(domain.StateWork, 0)
}

// StartBreak begins a break session of the configured length.
func (c *Controller) StartBreak() error {
	return c.Start(domain.StateBreak, 0)
}

// Start begins a session in state. A zero duration selects the configured
// default. It fails with ErrIllegalTransition unless the controller is Idle.
func (c *Controller) Start(state domain.State, d time.Duration) error {
	if !state.Active() {
		return fmt.Errorf("start %s: %w", state, domain.ErrInvalidState)
	}
	if d < 0 {
		return fmt.Errorf("start %s for %s: %w", state, d, domain.ErrInvalidDuration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.expireLocked(now)
	if c.current.State.Active() {
		return c.rejectLocked("start")
	}
	if d == 0 {
		d = c.cfg.durationFor(state)
	}

	c.seq++
	c.current = domain.Session{
		State:     state,
		Number:    c.seq,
		ID:        c.newID(),
		StartTime: now,
		Duration:  d,
	}
	c.idle.Leave()

	c.logger.Debug("session started",
		zap.Stringer("state", state),
		zap.Int("session", c.seq),
		zap.Duration("duration", d),
	)
	c.pub.Publish(domain.EventSessionStart, domain.NewSessionStart(c.current, now))
	return nil
}

// Pause freezes the remaining time of the active session.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.expireLocked(now)
	if !c.current.State.Active() || c.current.IsPaused {
		return c.rejectLocked("pause")
	}

	c.current.IsPaused = true
	c.current.PausedAt = now
	c.current.Pauses++

	c.logger.Debug("session paused", zap.Int("session", c.current.Number))
	c.pub.Publish(domain.EventSessionPause, domain.NewSessionPause(c.current, now))
	return nil
}

// Resume continues a paused session; the paused interval is excluded
// from elapsed time.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.expireLocked(now)
	if !c.current.IsPaused {
		return c.rejectLocked("resume")
	}

	c.current.PauseDuration += now.Sub(c.current.PausedAt)
	c.current.IsPaused = false
	c.current.PausedAt = time.Time{}

	c.logger.Debug("session resumed",
		zap.Int("session", c.current.Number),
		zap.Duration("paused_total", c.current.PauseDuration),
	)
	c.pub.Publish(domain.EventSessionResume, domain.NewSessionResume(c.current, now))
	return nil
}

// ForceEnd cancels the active session and returns to Idle.
func (c *Controller) ForceEnd() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.expireLocked(now) || !c.current.State.Active() {
		return c.rejectLocked("end")
	}
	c.endLocked(now, domain.EndReasonCancelled)
	return nil
}

// CurrentState returns Idle, WorkSession or BreakSession.
func (c *Controller) CurrentState() domain.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.State
}

// RemainingTime returns max(0, duration - elapsed) for the active session.
func (c *Controller) RemainingTime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Remaining(c.clock.Now())
}

// RemainingSeconds returns RemainingTime in whole seconds, rounded up.
func (c *Controller) RemainingSeconds() int {
	return domain.Seconds(c.RemainingTime())
}

// Snapshot returns every read value from a single consistent view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.clock.Now()
	return Snapshot{
		State:     c.current.State,
		Session:   c.current.Number,
		SessionID: c.current.ID,
		Duration:  c.current.Duration,
		Elapsed:   c.current.Elapsed(now),
		Remaining: c.current.Remaining(now),
		Progress:  c.current.Progress(now),
		Paused:    c.current.IsPaused,
		IdleFor:   c.idle.IdleFor(now),
		Warnings:  c.idle.Warnings(),
		Totals:    c.stats.Totals(),
	}
}

// advance runs one scheduler step atomically: idle observation while
// Idle, otherwise a tick or, at zero, the end of the session.
func (c *Controller) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if !c.current.State.Active() {
		c.idle.Observe(now)
		return
	}
	if c.expireLocked(now) {
		return
	}
	c.pub.Publish(domain.EventTimerTick, domain.NewTimerTick(c.current, now))
}

// expireLocked ends a session whose time has run out. It reports whether
// it did so.
func (c *Controller) expireLocked(now time.Time) bool {
	if !c.current.Expired(now) {
		return false
	}
	c.endLocked(now, domain.EndReasonCompleted)
	return true
}

func (c *Controller) endLocked(now time.Time, reason string) {
	ended := c.current
	c.stats.record(ended, reason, now)
	c.current = domain.Session{}
	c.idle.Enter(now)

	c.logger.Debug("session ended",
		zap.Stringer("state", ended.State),
		zap.Int("session", ended.Number),
		zap.String("reason", reason),
	)
	c.pub.Publish(domain.EventSessionEnd, domain.NewSessionEnd(ended, reason, c.stats.Totals(), now))
}

func (c *Controller) rejectLocked(op string) error {
	err := domain.NewTransitionError(op, c.current.State, c.current.IsPaused)
	c.logger.Debug("command rejected", zap.Error(err))
	return err
}

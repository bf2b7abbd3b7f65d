package session

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vburojevic/pomo/internal/domain"
)

// Scheduler drives a Controller once per tick interval for as long as its
// context lives.
type Scheduler struct {
	controller *Controller
	clock      clock.Clock
	interval   time.Duration
	logger     *zap.Logger
}

// NewScheduler creates a scheduler using the controller's clock, logger
// and tick interval.
func NewScheduler(controller *Controller) *Scheduler {
	return &Scheduler{
		controller: controller,
		clock:      controller.clock,
		interval:   controller.cfg.TickInterval,
		logger:     controller.logger,
	}
}

// Run ticks until ctx is cancelled. It fails immediately with
// ErrClockUnavailable when the ticker cannot be armed.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("arm ticker every %s: %w", s.interval, domain.ErrClockUnavailable)
	}

	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	s.logger.Debug("scheduler started", zap.Duration("interval", s.interval))
	defer s.logger.Debug("scheduler stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick performs one scheduler step immediately.
func (s *Scheduler) Tick() {
	s.controller.advance()
}

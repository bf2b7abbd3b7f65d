package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/pomo/internal/events"
	"github.com/vburojevic/pomo/internal/session"
	"github.com/vburojevic/pomo/internal/tui"
)

// UICmd launches the interactive terminal timer
type UICmd struct {
	TimerFlags `embed:""`
}

// Run executes the UI command
func (c *UICmd) Run(globals *Globals) error {
	if !isTerminal(globals.Stdout) {
		return outputErrorCommon(globals, "NOT_A_TERMINAL", "pomo ui needs an interactive terminal", "use pomo run for pipes and scripts")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	sessCfg, err := c.sessionConfig(globals.Config)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_DURATION", err.Error())
	}
	if err := checkTick(sessCfg); err != nil {
		return outputErrorCommon(globals, errorCode(err), err.Error(), "use a positive --tick such as 1s")
	}

	log := newAgentLogger(globals, uuid.NewString())
	defer log.Sync()

	pub := events.NewPublisher()
	defer pub.Close()
	sub, unsubscribe := pub.Subscribe(eventBuffer)
	defer unsubscribe()

	ctrl := session.NewController(sessCfg, pub, session.WithLogger(log.Zap()))
	globals.Debug("Starting TUI: work %s, break %s", sessCfg.WorkDuration, sessCfg.BreakDuration)

	p := tea.NewProgram(tui.New(ctrl, sub), tea.WithAltScreen())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.NewScheduler(ctrl).Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	})
	// Handle context cancellation
	go func() {
		<-gctx.Done()
		p.Quit()
	}()

	if err := g.Wait(); err != nil {
		return outputErrorCommon(globals, errorCode(err), err.Error())
	}
	return nil
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/pomo/internal/config"
	"github.com/vburojevic/pomo/internal/domain"
	"github.com/vburojevic/pomo/internal/events"
	"github.com/vburojevic/pomo/internal/filter"
	"github.com/vburojevic/pomo/internal/output"
	"github.com/vburojevic/pomo/internal/session"
	"github.com/vburojevic/pomo/internal/tmux"
)

// eventBuffer is the subscription depth between the core and the writer
const eventBuffer = 256

var (
	tmuxAvailable  = tmux.IsTmuxAvailable
	newTmuxManager = tmux.NewManager
)

// TimerFlags are the duration flags shared by run and ui
type TimerFlags struct {
	Work        time.Duration `default:"${config_work}" help:"Work session length"`
	Break       time.Duration `default:"${config_break}" help:"Break session length"`
	IdleWarning time.Duration `name:"idle-warning" default:"${config_idle}" help:"Warn this often while no session runs"`
	Tick        time.Duration `default:"${config_tick}" help:"Tick interval"`
}

// sessionConfig overlays non-zero flags on the configured timer values
func (f TimerFlags) sessionConfig(cfg *config.Config) (session.Config, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	sc := cfg.SessionConfig()
	if f.Work < 0 || f.Break < 0 || f.IdleWarning < 0 {
		return sc, fmt.Errorf("durations must be positive: %w", domain.ErrInvalidDuration)
	}
	if f.Work > 0 {
		sc.WorkDuration = f.Work
	}
	if f.Break > 0 {
		sc.BreakDuration = f.Break
	}
	if f.IdleWarning > 0 {
		sc.IdleWarningInterval = f.IdleWarning
	}
	if f.Tick != 0 {
		sc.TickInterval = f.Tick
	}
	return sc, nil
}

// RunCmd runs the timer headless for embedding in scripts and status bars
type RunCmd struct {
	TimerFlags `embed:""`

	Start        string        `enum:"none,work,break" default:"none" help:"Start a session immediately (work or break)"`
	Events       []string      `short:"e" sep:"," placeholder:"TYPE" help:"Only emit these event types (repeatable or comma separated)"`
	Where        []string      `short:"w" placeholder:"EXPR" help:"Field filter, e.g. state=work or remainingTime<=60 (repeatable, AND)"`
	Dedupe       bool          `help:"Collapse consecutive identical events such as paused ticks"`
	DedupeWindow time.Duration `name:"dedupe-window" placeholder:"DUR" help:"Collapse identical events seen within this window (implies --dedupe)"`
	Tmux         bool          `help:"Mirror output into a tmux session"`
	TmuxSession  string        `name:"tmux-session" default:"${config_tmux_session}" help:"tmux session name"`
	Detach       bool          `help:"Ignore stdin and run until interrupted"`
}

// Run executes the run command
func (c *RunCmd) Run(globals *Globals) error {
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

	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}
	eventTypes := c.Events
	if len(eventTypes) == 0 {
		eventTypes = cfg.Defaults.Events
	}
	whereClauses := c.Where
	if len(whereClauses) == 0 {
		whereClauses = cfg.Defaults.Where
	}

	if err := validateFlags(globals, eventTypes, c.Tmux); err != nil {
		return err
	}
	where, err := filter.NewWhereFilter(whereClauses)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_WHERE", err.Error(), "use field=value, field~regex or remainingTime<=60")
	}
	sessCfg, err := c.sessionConfig(cfg)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_DURATION", err.Error())
	}
	if err := checkTick(sessCfg); err != nil {
		return outputErrorCommon(globals, errorCode(err), err.Error(), "use a positive --tick such as 1s")
	}
	dedupe, err := c.dedupeFilter(cfg)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_DURATION", err.Error())
	}
	pipeline := filter.NewPipeline(eventTypes, where, dedupe)

	log := newAgentLogger(globals, uuid.NewString())
	defer log.Sync()

	pub := events.NewPublisher()
	defer pub.Close()
	sub, unsubscribe := pub.Subscribe(eventBuffer)
	defer unsubscribe()
	log.Debug("event stream open, %d subscriber(s)", pub.Subscribers())

	ctrl := session.NewController(sessCfg, pub, session.WithLogger(log.Zap()))
	log.withSession(func() int { return ctrl.Snapshot().Session })

	// Determine output destination
	var out io.Writer = globals.Stdout
	var tmuxMgr *tmux.Manager
	if c.Tmux {
		tmuxMgr, err = c.setupTmux(globals)
		if err != nil {
			return outputErrorCommon(globals, "TMUX_FAILED", err.Error())
		}
		defer tmuxMgr.Cleanup()
		tw := tmux.NewWriter(tmuxMgr)
		defer tw.Flush()
		out = io.MultiWriter(globals.Stdout, tw)
	}
	writer := newEventWriter(globals.Format, out)

	keep := func(e events.Event) (bool, int) {
		ok, collapsed := pipeline.Check(e)
		if !ok {
			return false, 0
		}
		if start, isStart := e.Payload.(*domain.SessionStart); isStart && tmuxMgr != nil {
			if err := tmuxMgr.WriteSessionBanner(start); err != nil {
				log.Debug("tmux banner: %v", err)
			}
		}
		return true, collapsed
	}

	if !globals.Quiet {
		c.writeReady(globals, writer, sessCfg)
	}

	if state, err := domain.ParseState(c.Start); err == nil && state.Active() {
		if err := ctrl.Start(state, 0); err != nil {
			return outputErrorCommon(globals, errorCode(err), err.Error())
		}
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	// Replies share the drain goroutine with events so they are written
	// after the events their command published.
	replies := make(chan output.Reply)

	scheduler := session.NewScheduler(ctrl)
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		return output.Drain(gctx, sub, replies, writer, keep)
	})
	if !c.Detach {
		lines := readLines(gctx, globals.Stdin)
		g.Go(func() error {
			c.commandLoop(gctx, ctrl, replies, lines, log)
			stop()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outputErrorCommon(globals, errorCode(err), err.Error())
	}
	log.Debug("runner stopped")
	return nil
}

// commandLoop applies stdin commands until quit, EOF or cancellation.
// Rejected commands are reported and the loop continues. Replies go to
// the drain, which stops the group if one cannot be written.
func (c *RunCmd) commandLoop(ctx context.Context, ctrl *session.Controller, replies chan<- output.Reply, lines <-chan string, log *agentLogger) {
	reply := func(r output.Reply) bool {
		select {
		case replies <- r:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				log.Debug("stdin closed")
				return
			}
			res, err := dispatch(ctrl, line)
			if err != nil {
				log.Debug("command %q rejected: %v", line, err)
				code, msg, hint := errorCode(err), err.Error(), errorHint(err)
				if !reply(func(w output.EventWriter) error { return w.WriteError(code, msg, hint) }) {
					return
				}
				continue
			}
			switch {
			case res.quit:
				return
			case res.status != nil:
				status := res.status
				if !reply(func(w output.EventWriter) error { return w.WriteStatus(status) }) {
					return
				}
			case res.help:
				if !reply(func(w output.EventWriter) error { return w.WriteInfo(commandHelp) }) {
					return
				}
			}
		}
	}
}

// dedupeFilter builds the dedupe stage from flags, falling back to config
func (c *RunCmd) dedupeFilter(cfg *config.Config) (*filter.DedupeFilter, error) {
	if c.DedupeWindow < 0 {
		return nil, fmt.Errorf("dedupe window %s: %w", c.DedupeWindow, domain.ErrInvalidDuration)
	}
	window := c.DedupeWindow
	if window == 0 {
		window = cfg.Defaults.DedupeWindow
	}
	if window <= 0 && !c.Dedupe && !cfg.Defaults.Dedupe {
		return nil, nil
	}
	if window < 0 {
		window = 0
	}
	return filter.NewDedupeFilter(window), nil
}

// checkTick rejects a tick interval the scheduler could never arm, before
// anything is written.
func checkTick(cfg session.Config) error {
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("tick interval %s: %w", cfg.TickInterval, domain.ErrClockUnavailable)
	}
	return nil
}

func (c *RunCmd) setupTmux(globals *Globals) (*tmux.Manager, error) {
	mgr, err := newTmuxManager(&tmux.Config{SessionName: c.TmuxSession})
	if err != nil {
		return nil, err
	}
	if err := mgr.GetOrCreateSession(); err != nil {
		return nil, err
	}
	if err := mgr.ClearPaneWithBanner("headless runner", time.Now()); err != nil {
		globals.Debug("tmux banner: %v", err)
	}

	if globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteTmux(mgr.SessionName(), mgr.AttachCommand())
	} else if !globals.Quiet {
		fmt.Fprintf(globals.Stderr, "Tmux session: %s\n", mgr.SessionName())
		fmt.Fprintf(globals.Stderr, "Attach with: %s\n", mgr.AttachCommand())
	}
	return mgr, nil
}

func (c *RunCmd) writeReady(globals *Globals, w output.EventWriter, cfg session.Config) {
	if nd, ok := w.(*output.NDJSONWriter); ok {
		nd.WriteReady(&output.Ready{
			Timestamp:           time.Now().UTC().Format(time.RFC3339),
			Version:             Version,
			WorkSeconds:         domain.Seconds(cfg.WorkDuration),
			BreakSeconds:        domain.Seconds(cfg.BreakDuration),
			IdleWarningSeconds:  domain.Seconds(cfg.IdleWarningInterval),
			TickIntervalSeconds: cfg.TickInterval.Seconds(),
			Events:              domain.EventNames,
			Commands:            commandNames,
		})
		return
	}
	w.WriteInfo(fmt.Sprintf("pomo %s ready: work %s, break %s, idle warning every %s",
		Version, cfg.WorkDuration, cfg.BreakDuration, cfg.IdleWarningInterval))
	if !c.Detach && isTerminal(globals.Stdin) {
		w.WriteInfo("Type help for commands.")
	}
}

func newEventWriter(format string, w io.Writer) output.EventWriter {
	if format == "ndjson" {
		return output.NewNDJSONWriter(w)
	}
	return output.NewTextWriter(w)
}

// readLines streams r line by line and closes the channel at EOF. A read
// already blocked on r outlives ctx until the process exits.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	if r == nil {
		close(lines)
		return lines
	}
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// isTerminal reports whether v is an *os.File attached to a terminal
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

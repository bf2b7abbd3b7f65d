package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/vburojevic/pomo/internal/domain"
	"github.com/vburojevic/pomo/internal/events"
)

// Messages shown when a session ends or the user has been idle too long.
const (
	WorkSessionEndMessage  = "POMODORO COMPLETE! You MUST take a break!"
	BreakSessionEndMessage = "BREAK OVER! Get back to work NOW!"
	WarningMessage         = "WARNING! Start your next session!"
)

// TextWriter renders events as human readable lines
type TextWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTextWriter creates a text writer on w
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// FormatClock renders whole seconds as mm:ss, or h:mm:ss past an hour
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds/60)%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatEvent returns the single line used for e, without a trailing newline
func FormatEvent(e events.Event) string {
	switch p := e.Payload.(type) {
	case *domain.SessionStart:
		return fmt.Sprintf("%s #%d started (%s)", p.State, p.Session, FormatClock(p.DurationSeconds))
	case *domain.SessionEnd:
		if p.Reason == domain.EndReasonCancelled {
			return fmt.Sprintf("%s #%d cancelled after %s", p.State, p.Session, FormatClock(p.Summary.ElapsedSeconds))
		}
		if p.State == domain.StateBreak {
			return BreakSessionEndMessage
		}
		return WorkSessionEndMessage
	case *domain.PauseChange:
		verb := "paused"
		if p.Type == domain.EventSessionResume {
			verb = "resumed"
		}
		return fmt.Sprintf("%s #%d %s, %s left", p.State, p.Session, verb, FormatClock(p.RemainingTime))
	case *domain.TimerTick:
		suffix := ""
		if p.Paused {
			suffix = " (paused)"
		}
		return fmt.Sprintf("%s %s%s", p.State, FormatClock(p.RemainingTime), suffix)
	case *domain.Warning:
		return fmt.Sprintf("%s Idle for %d min.", WarningMessage, p.IdleDurationMinutes)
	case *domain.Status:
		return FormatStatus(p)
	}
	return e.Name
}

// FormatStatus renders a status record
func FormatStatus(s *domain.Status) string {
	if !s.State.Active() {
		return fmt.Sprintf("Idle for %s (work %d, breaks %d, cancelled %d)",
			FormatClock(s.IdleSeconds), s.Totals.CompletedWork, s.Totals.CompletedBreaks, s.Totals.Cancelled)
	}
	line := fmt.Sprintf("%s #%d %s left", s.State, s.Session, FormatClock(s.RemainingTime))
	if s.Paused {
		line += " (paused)"
	}
	return line
}

// WriteEvent writes one timestamped line for e
func (w *TextWriter) WriteEvent(e events.Event) error {
	return w.writeLine(time.Now().Format("15:04:05") + " " + FormatEvent(e))
}

// WriteStatus writes a status line
func (w *TextWriter) WriteStatus(s *domain.Status) error {
	return w.writeLine(FormatStatus(s))
}

// WriteError writes "Error [CODE]: message (hint: ...)"
func (w *TextWriter) WriteError(code, message string, hint ...string) error {
	line := fmt.Sprintf("Error [%s]: %s", code, message)
	if len(hint) > 0 && hint[0] != "" {
		line += fmt.Sprintf(" (hint: %s)", hint[0])
	}
	return w.writeLine(line)
}

// WriteInfo writes message verbatim
func (w *TextWriter) WriteInfo(message string) error {
	return w.writeLine(message)
}

// WriteCollapsed notes how many identical lines dedupe dropped
func (w *TextWriter) WriteCollapsed(count int) error {
	if count == 1 {
		return w.writeLine("  (1 repeated line collapsed)")
	}
	return w.writeLine(fmt.Sprintf("  (%d repeated lines collapsed)", count))
}

func (w *TextWriter) writeLine(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := io.WriteString(w.w, strings.TrimRight(line, "\n")+"\n")
	return err
}

package tmux

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/vburojevic/pomo/internal/domain"
)

// ClearPane clears the pane content and scrollback history
func (m *Manager) ClearPane() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pane == "" {
		return ErrNoPaneAvailable
	}

	// Send reset terminal state + clear screen
	if _, err := m.tmux.Command("send-keys", "-t", m.pane, "-R"); err != nil {
		return fmt.Errorf("failed to reset terminal: %w", err)
	}

	// Clear the scrollback history
	if _, err := m.tmux.Command("clear-history", "-t", m.pane); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	if _, err := m.tmux.Command("send-keys", "-t", m.pane, "clear", "Enter"); err != nil {
		return fmt.Errorf("failed to clear screen: %w", err)
	}

	return nil
}

// ClearPaneWithBanner clears the pane and displays a header
func (m *Manager) ClearPaneWithBanner(message string, now time.Time) error {
	if err := m.ClearPane(); err != nil {
		return err
	}

	banner := fmt.Sprintf(
		"═══════════════════════════════════════════════════════════\n"+
			"  pomo - %s\n"+
			"  tmux: %s | Started: %s\n"+
			"═══════════════════════════════════════════════════════════",
		message,
		m.config.SessionName,
		now.Format("2006-01-02 15:04:05"),
	)

	return m.WriteLines(strings.Split(banner, "\n"))
}

// WriteSessionBanner marks the start of a work or break session
func (m *Manager) WriteSessionBanner(start *domain.SessionStart) error {
	icon := "🍅"
	if start.State == domain.StateBreak {
		icon = "☕"
	}
	banner := fmt.Sprintf(
		"\n══════════════════════════════════════════════════════════════\n"+
			"  %s SESSION %d: %s (%d min)\n"+
			"  %s\n"+
			"══════════════════════════════════════════════════════════════",
		icon,
		start.Session,
		start.State,
		start.DurationSeconds/60,
		start.Timestamp,
	)

	return m.WriteLines(strings.Split(banner, "\n"))
}

// WriteLine writes a single line to the tmux pane using echo
func (m *Manager) WriteLine(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pane == "" {
		return ErrNoPaneAvailable
	}

	escaped := escapeTmuxString(line)
	_, err := m.tmux.Command("send-keys", "-t", m.pane, fmt.Sprintf("echo '%s'", escaped), "Enter")
	return err
}

// WriteLines writes multiple lines
func (m *Manager) WriteLines(lines []string) error {
	for _, line := range lines {
		if err := m.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// escapeTmuxString escapes single quotes for the echo wrapper
func escapeTmuxString(s string) string {
	return strings.ReplaceAll(s, "'", `'"'"'`)
}

// lineWriter is what Writer needs from a Manager
type lineWriter interface {
	WriteLine(line string) error
}

// Writer implements io.Writer for streaming output to a tmux pane
type Writer struct {
	mu     sync.Mutex
	lines  lineWriter
	buffer strings.Builder
}

// NewWriter creates a new writer that streams to the manager's pane
func NewWriter(manager *Manager) *Writer {
	return &Writer{lines: manager}
}

// Write buffers p and sends every complete line to the pane
func (w *Writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buffer.Write(p)

	content := w.buffer.String()
	lines := strings.Split(content, "\n")

	// Keep incomplete last line in buffer
	w.buffer.Reset()
	if !strings.HasSuffix(content, "\n") {
		w.buffer.WriteString(lines[len(lines)-1])
	}
	lines = lines[:len(lines)-1]

	for _, line := range lines {
		if line == "" {
			continue
		}
		if err := w.lines.WriteLine(line); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}

// Flush writes any remaining buffered content
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buffer.Len() > 0 {
		err := w.lines.WriteLine(w.buffer.String())
		w.buffer.Reset()
		return err
	}
	return nil
}

var _ io.Writer = (*Writer)(nil)

// Package tmux mirrors runner output into a detached tmux session so it
// can be watched from another terminal.
package tmux

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"

	"github.com/GianlucaP106/gotmux/gotmux"
)

var (
	// ErrNoPaneAvailable is returned when writing before a session exists
	ErrNoPaneAvailable = errors.New("no tmux pane available")
	// ErrTmuxNotInstalled is returned when the tmux binary is missing
	ErrTmuxNotInstalled = errors.New("tmux is not installed")
)

// Config describes the session to mirror into
type Config struct {
	SessionName string
	KillOnExit  bool // Kill the session in Cleanup instead of leaving it for attach
}

// commander is the part of gotmux.Tmux the manager uses
type commander interface {
	Command(args ...string) (string, error)
}

// Manager owns one tmux session and its first pane
type Manager struct {
	mu     sync.Mutex
	config *Config
	tmux   commander
	pane   string // "session:0.0" once the session exists
}

// IsTmuxAvailable reports whether a tmux binary is on PATH
func IsTmuxAvailable() bool {
	_, err := exec.LookPath("tmux")
	return err == nil
}

// NewManager connects to the default tmux server
func NewManager(cfg *Config) (*Manager, error) {
	if !IsTmuxAvailable() {
		return nil, ErrTmuxNotInstalled
	}
	t, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("connect to tmux: %w", err)
	}
	return newManager(cfg, t), nil
}

func newManager(cfg *Config, t commander) *Manager {
	c := *cfg
	c.SessionName = SanitizeSessionName(c.SessionName)
	return &Manager{config: &c, tmux: t}
}

// SessionName returns the sanitized session name
func (m *Manager) SessionName() string {
	return m.config.SessionName
}

// GetOrCreateSession reuses an existing session or starts a detached one
func (m *Manager) GetOrCreateSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := m.config.SessionName
	if _, err := m.tmux.Command("has-session", "-t", name); err != nil {
		if _, err := m.tmux.Command("new-session", "-d", "-s", name); err != nil {
			return fmt.Errorf("failed to create tmux session %s: %w", name, err)
		}
	}
	m.pane = fmt.Sprintf("%s:0.0", name)
	return nil
}

// AttachCommand returns the shell command that attaches to the session
func (m *Manager) AttachCommand() string {
	return fmt.Sprintf("tmux attach -t %s", m.config.SessionName)
}

// Cleanup detaches the manager from its pane, killing the session when
// configured to.
func (m *Manager) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pane == "" {
		return nil
	}
	m.pane = ""
	if !m.config.KillOnExit {
		return nil
	}
	if _, err := m.tmux.Command("kill-session", "-t", m.config.SessionName); err != nil {
		return fmt.Errorf("failed to kill tmux session: %w", err)
	}
	return nil
}

var unsafeSessionChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SanitizeSessionName replaces characters tmux reserves in targets
func SanitizeSessionName(name string) string {
	name = strings.Trim(unsafeSessionChars.ReplaceAllString(strings.TrimSpace(name), "-"), "-")
	if name == "" {
		return "pomo"
	}
	return name
}

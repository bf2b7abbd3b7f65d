package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const fileHeader = "# pomo configuration file\n# Durations use Go syntax: 25m, 1h30m, 500ms\n\n"

// fileConfig is the on-disk YAML layout; durations are written in their
// shortest Go form.
type fileConfig struct {
	Format   string         `yaml:"format"`
	Quiet    bool           `yaml:"quiet"`
	Verbose  bool           `yaml:"verbose"`
	Timer    fileTimer      `yaml:"timer"`
	Defaults fileDefaults `yaml:"defaults"`
}

type fileDefaults struct {
	Events       []string `yaml:"events,omitempty"`
	Where        []string `yaml:"where,omitempty"`
	Dedupe       bool     `yaml:"dedupe"`
	DedupeWindow string   `yaml:"dedupe_window,omitempty"`
	TmuxSession  string   `yaml:"tmux_session,omitempty"`
}

type fileTimer struct {
	Work        string `yaml:"work"`
	Break       string `yaml:"break"`
	IdleWarning string `yaml:"idle_warning"`
	Tick        string `yaml:"tick"`
}

// Marshal renders cfg as a commented YAML document
func Marshal(cfg *Config) ([]byte, error) {
	doc := fileConfig{
		Format:  cfg.Format,
		Quiet:   cfg.Quiet,
		Verbose: cfg.Verbose,
		Timer: fileTimer{
			Work:        shortDuration(cfg.Timer.Work),
			Break:       shortDuration(cfg.Timer.Break),
			IdleWarning: shortDuration(cfg.Timer.IdleWarning),
			Tick:        shortDuration(cfg.Timer.Tick),
		},
		Defaults: fileDefaults{
			Events:      cfg.Defaults.Events,
			Where:       cfg.Defaults.Where,
			Dedupe:      cfg.Defaults.Dedupe,
			TmuxSession: cfg.Defaults.TmuxSession,
		},
	}
	if cfg.Defaults.DedupeWindow > 0 {
		doc.Defaults.DedupeWindow = shortDuration(cfg.Defaults.DedupeWindow)
	}
	body, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return append([]byte(fileHeader), body...), nil
}

// DefaultPath is where Save writes when no path is given
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(configDir, "pomo", "pomo.yaml"), nil
}

// Save writes cfg to path, creating parent directories
func Save(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// shortDuration drops zero trailing units: 25m0s -> 25m, 1h0m0s -> 1h
func shortDuration(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/vburojevic/pomo/internal/domain"
	"github.com/vburojevic/pomo/internal/session"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Timer durations
	Timer TimerConfig `mapstructure:"timer"`

	// Default values for commands
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// TimerConfig holds the session lengths and scheduler cadence
type TimerConfig struct {
	Work        time.Duration `mapstructure:"work"`
	Break       time.Duration `mapstructure:"break"`
	IdleWarning time.Duration `mapstructure:"idle_warning"`
	Tick        time.Duration `mapstructure:"tick"`
}

// DefaultsConfig holds default values for the run command
type DefaultsConfig struct {
	Events []string `mapstructure:"events" yaml:"events,omitempty" json:"events,omitempty"`
	Where  []string `mapstructure:"where" yaml:"where,omitempty" json:"where,omitempty"`
	Dedupe bool     `mapstructure:"dedupe" yaml:"dedupe" json:"dedupe"`
	// DedupeWindow > 0 collapses identical records seen within the window,
	// not only consecutive ones. It implies Dedupe.
	DedupeWindow time.Duration `mapstructure:"dedupe_window" yaml:"-" json:"-"`
	TmuxSession  string        `mapstructure:"tmux_session" yaml:"tmux_session,omitempty" json:"tmux_session,omitempty"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "ndjson",
		Quiet:   false,
		Verbose: false,
		Timer: TimerConfig{
			Work:        session.DefaultWorkDuration,
			Break:       session.DefaultBreakDuration,
			IdleWarning: session.DefaultIdleWarningInterval,
			Tick:        session.DefaultTickInterval,
		},
		Defaults: DefaultsConfig{
			TmuxSession: "pomo",
		},
	}
}

// SessionConfig converts the timer section for the session controller
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		WorkDuration:        c.Timer.Work,
		BreakDuration:       c.Timer.Break,
		IdleWarningInterval: c.Timer.IdleWarning,
		TickInterval:        c.Timer.Tick,
	}
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Format != "ndjson" && c.Format != "text" {
		result = multierror.Append(result, fmt.Errorf("format %q: must be ndjson or text", c.Format))
	}
	durations := []struct {
		key string
		d   time.Duration
	}{
		{"timer.work", c.Timer.Work},
		{"timer.break", c.Timer.Break},
		{"timer.idle_warning", c.Timer.IdleWarning},
		{"timer.tick", c.Timer.Tick},
	}
	for _, d := range durations {
		if d.d <= 0 {
			result = multierror.Append(result, fmt.Errorf("%s %s: %w", d.key, d.d, domain.ErrInvalidDuration))
		}
	}
	if c.Defaults.DedupeWindow < 0 {
		result = multierror.Append(result, fmt.Errorf("defaults.dedupe_window %s: %w", c.Defaults.DedupeWindow, domain.ErrInvalidDuration))
	}
	if unknown := lo.Without(c.Defaults.Events, domain.EventNames...); len(unknown) > 0 {
		result = multierror.Append(result, fmt.Errorf("defaults.events: unknown event %s", strings.Join(unknown, ", ")))
	}

	return result.ErrorOrNil()
}

// configCandidates lists config files in search order
func configCandidates() []string {
	paths := []string{".pomo.yaml", ".pomo.yml", "pomo.yaml"}
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "pomo", "pomo.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".pomo.yaml"), filepath.Join(home, ".pomo.yml"))
	}
	return append(paths, "/etc/pomo/pomo.yaml")
}

// findConfigFile returns the first existing config file, or ""
func findConfigFile() string {
	for _, path := range configCandidates() {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Environment variables
	v.SetEnvPrefix("POMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables
	v.BindEnv("timer.work", "POMO_WORK")
	v.BindEnv("timer.break", "POMO_BREAK")
	v.BindEnv("timer.idle_warning", "POMO_IDLE_WARNING")
	v.BindEnv("timer.tick", "POMO_TICK")
	v.BindEnv("defaults.tmux_session", "POMO_TMUX_SESSION")

	// Set defaults
	cfg := Default()
	v.SetDefault("format", cfg.Format)
	v.SetDefault("quiet", cfg.Quiet)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("timer.work", cfg.Timer.Work)
	v.SetDefault("timer.break", cfg.Timer.Break)
	v.SetDefault("timer.idle_warning", cfg.Timer.IdleWarning)
	v.SetDefault("timer.tick", cfg.Timer.Tick)
	v.SetDefault("defaults.dedupe", cfg.Defaults.Dedupe)
	v.SetDefault("defaults.dedupe_window", cfg.Defaults.DedupeWindow)
	v.SetDefault("defaults.tmux_session", cfg.Defaults.TmuxSession)
	return v
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := newViper()

	if path := findConfigFile(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file Load would read
func ConfigFile() string {
	return findConfigFile()
}

// applyEnvOverrides applies the global flag variables, which accept only
// "true" or "1" for booleans.
func applyEnvOverrides(cfg *Config) {
	if format := os.Getenv("POMO_FORMAT"); format != "" {
		cfg.Format = format
	}
	if quiet, ok := os.LookupEnv("POMO_QUIET"); ok {
		cfg.Quiet = quiet == "true" || quiet == "1"
	}
	if verbose, ok := os.LookupEnv("POMO_VERBOSE"); ok {
		cfg.Verbose = verbose == "true" || verbose == "1"
	}
}

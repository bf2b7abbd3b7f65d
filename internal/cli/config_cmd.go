package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/pomo/internal/config"
	"github.com/vburojevic/pomo/internal/output"
)

// ConfigCmd groups the config subcommands
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"1" help:"Show the effective configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show which config file is used"`
	Generate ConfigGenerateCmd `cmd:"" help:"Print a sample config file"`
	Save     ConfigSaveCmd     `cmd:"" help:"Write the effective configuration to a file"`
}

// ConfigShowCmd prints the effective configuration
type ConfigShowCmd struct{}

type timerOutput struct {
	Work        string `json:"work"`
	Break       string `json:"break"`
	IdleWarning string `json:"idle_warning"`
	Tick        string `json:"tick"`
}

type defaultsOutput struct {
	config.DefaultsConfig
	DedupeWindow string `json:"dedupe_window,omitempty"`
}

type configOutput struct {
	Type          string         `json:"type"`
	SchemaVersion int            `json:"schemaVersion"`
	Path          string         `json:"path,omitempty"`
	Format        string         `json:"format"`
	Quiet         bool           `json:"quiet"`
	Verbose       bool           `json:"verbose"`
	Timer         timerOutput    `json:"timer"`
	Defaults      defaultsOutput `json:"defaults"`
}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := effectiveConfig(globals)
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		out := configOutput{
			Type:          "config",
			SchemaVersion: output.SchemaVersion,
			Path:          path,
			Format:        cfg.Format,
			Quiet:         cfg.Quiet,
			Verbose:       cfg.Verbose,
			Timer: timerOutput{
				Work:        cfg.Timer.Work.String(),
				Break:       cfg.Timer.Break.String(),
				IdleWarning: cfg.Timer.IdleWarning.String(),
				Tick:        cfg.Timer.Tick.String(),
			},
			Defaults: defaultsOutput{DefaultsConfig: cfg.Defaults},
		}
		if cfg.Defaults.DedupeWindow > 0 {
			out.Defaults.DedupeWindow = cfg.Defaults.DedupeWindow.String()
		}
		return json.NewEncoder(globals.Stdout).Encode(out)
	}

	fmt.Fprintln(globals.Stdout, "Current Configuration:")
	table := tablewriter.NewWriter(globals.Stdout)
	table.Header("Key", "Value")
	rows := [][]string{
		{"format", cfg.Format},
		{"quiet", fmt.Sprint(cfg.Quiet)},
		{"verbose", fmt.Sprint(cfg.Verbose)},
		{"timer.work", cfg.Timer.Work.String()},
		{"timer.break", cfg.Timer.Break.String()},
		{"timer.idle_warning", cfg.Timer.IdleWarning.String()},
		{"timer.tick", cfg.Timer.Tick.String()},
		{"defaults.events", orDash(strings.Join(cfg.Defaults.Events, ","))},
		{"defaults.where", orDash(strings.Join(cfg.Defaults.Where, " AND "))},
		{"defaults.dedupe", fmt.Sprint(cfg.Defaults.Dedupe)},
		{"defaults.dedupe_window", orDash(durationOrEmpty(cfg.Defaults.DedupeWindow))},
		{"defaults.tmux_session", cfg.Defaults.TmuxSession},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	} else {
		fmt.Fprintln(globals.Stdout, "Config file: (none, using defaults)")
	}
	return nil
}

// ConfigPathCmd prints the config file location
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()
	defaultPath, _ := config.DefaultPath()

	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(map[string]interface{}{
			"type":          "config_path",
			"schemaVersion": output.SchemaVersion,
			"path":          path,
			"found":         path != "",
			"default_path":  defaultPath,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintf(globals.Stdout, "Create one with: pomo config save (writes %s)\n", defaultPath)
		return nil
	}
	fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	return nil
}

// ConfigGenerateCmd prints a sample config file
type ConfigGenerateCmd struct{}

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	data, err := config.Marshal(config.Default())
	if err != nil {
		return outputErrorCommon(globals, "CONFIG_ERROR", err.Error())
	}
	_, err = globals.Stdout.Write(data)
	return err
}

// ConfigSaveCmd persists the effective configuration
type ConfigSaveCmd struct {
	Path  string `arg:"" optional:"" type:"path" help:"Destination (default: user config dir)"`
	Force bool   `help:"Overwrite an existing file"`
}

// Run executes the config save command
func (c *ConfigSaveCmd) Run(globals *Globals) error {
	cfg := effectiveConfig(globals)
	if err := cfg.Validate(); err != nil {
		return outputErrorCommon(globals, "INVALID_CONFIG", err.Error())
	}

	path := c.Path
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return outputErrorCommon(globals, "CONFIG_ERROR", err.Error())
		}
	}
	if _, err := os.Stat(path); err == nil && !c.Force {
		return outputErrorCommon(globals, "CONFIG_EXISTS", fmt.Sprintf("%s already exists", path), "add --force to overwrite")
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return outputErrorCommon(globals, "CONFIG_ERROR", err.Error())
	}

	if err := config.Save(cfg, path); err != nil {
		return outputErrorCommon(globals, "CONFIG_ERROR", err.Error())
	}

	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(map[string]interface{}{
			"type":          "config_saved",
			"schemaVersion": output.SchemaVersion,
			"path":          path,
		})
	}
	fmt.Fprintf(globals.Stdout, "Saved configuration to %s\n", path)
	return nil
}

// effectiveConfig is the loaded config with global flag overrides applied
func effectiveConfig(globals *Globals) *config.Config {
	cfg := config.Default()
	if globals.Config != nil {
		copied := *globals.Config
		cfg = &copied
	}
	cfg.Format = globals.Format
	cfg.Quiet = globals.Quiet
	cfg.Verbose = globals.Verbose
	return cfg
}

func durationOrEmpty(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

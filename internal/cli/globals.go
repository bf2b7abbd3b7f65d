package cli

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/pomo/internal/config"
)

// Build information, set with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "none"
)

// Globals carries global flags and I/O for every command
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config

	logger *agentLogger
}

// Debug logs a formatted message when --verbose is set
func (g *Globals) Debug(format string, args ...interface{}) {
	if g.logger == nil {
		g.logger = newAgentLogger(g, "")
	}
	g.logger.Debug(format, args...)
}

// CLI is the kong command tree
type CLI struct {
	Format     string `short:"f" default:"${config_format}" enum:"ndjson,text" help:"Output format (ndjson or text)"`
	Quiet      bool   `short:"q" help:"Only emit events; suppress ready, info and prompt lines"`
	Verbose    bool   `short:"v" help:"Debug logs on stderr"`
	ConfigFile string `name:"config" type:"path" placeholder:"FILE" help:"Config file (default: ./.pomo.yaml, user config dir, ~/.pomo.yaml)"`

	Run       RunCmd       `cmd:"" help:"Run the timer headless, reading commands from stdin and writing events to stdout"`
	UI        UICmd        `cmd:"" name:"ui" help:"Interactive terminal timer"`
	Config    ConfigCmd    `cmd:"" help:"Show, locate, generate or save configuration"`
	Schema    SchemaCmd    `cmd:"" help:"JSON Schema for every NDJSON record"`
	Autostart AutostartCmd `cmd:"" help:"Install a macOS LaunchAgent that starts the runner at login"`
	Version   VersionCmd   `cmd:"" help:"Show version"`
}

// NewGlobalsWithConfig builds Globals from parsed flags, falling back to cfg
func NewGlobalsWithConfig(c *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	format := c.Format
	if format == "" {
		format = cfg.Format
	}
	return &Globals{
		Format:  format,
		Quiet:   c.Quiet || cfg.Quiet,
		Verbose: c.Verbose || cfg.Verbose,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
}

// ConfigPathFromArgs finds --config before kong parses, so the file can
// supply flag defaults.
func ConfigPathFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// Vars feeds config values to kong as flag defaults. CLI flags still win.
func Vars(cfg *config.Config) kong.Vars {
	if cfg == nil {
		cfg = config.Default()
	}
	return kong.Vars{
		"config_format":       cfg.Format,
		"config_work":         cfg.Timer.Work.String(),
		"config_break":        cfg.Timer.Break.String(),
		"config_idle":         cfg.Timer.IdleWarning.String(),
		"config_tick":         cfg.Timer.Tick.String(),
		"config_tmux_session": cfg.Defaults.TmuxSession,
	}
}

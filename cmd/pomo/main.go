package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/pomo/internal/cli"
	"github.com/vburojevic/pomo/internal/config"
)

const quickStart = `pomo - Pomodoro timer for terminals, scripts and status bars

Quick start:
  pomo ui                               Interactive timer
  pomo run --start work --detach        Headless timer, NDJSON events on stdout
  pomo run -f text                      Type work, pause, resume, end, state
  (echo work; cat) | pomo run -f text   Script the first command, keep stdin open

For help:
  pomo --help                           All commands and flags
  pomo schema                           JSON Schema for every NDJSON record
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	cfg := loadConfig(cli.ConfigPathFromArgs(os.Args[1:]))

	var c cli.CLI

	// Config values become flag defaults; CLI flags still win
	ctx := kong.Parse(&c,
		kong.Name("pomo"),
		kong.Description("pomo: a Pomodoro work/break timer\n\nRun 'pomo run' to embed the timer in scripts: commands on stdin, NDJSON events on stdout"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		cli.Vars(cfg),
	)

	// Create globals with config fallbacks
	globals := cli.NewGlobalsWithConfig(&c, cfg)
	if err := ctx.Run(globals); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, falling back to
// defaults with a warning so a broken file never blocks the timer.
func loadConfig(path string) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.Default()
	}
	return cfg
}

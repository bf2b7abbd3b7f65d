package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vburojevic/pomo/internal/domain"
	"github.com/vburojevic/pomo/internal/session"
)

var errUnknownCommand = errors.New("unknown command")

// commandNames lists what the runner accepts on stdin
var commandNames = []string{"work", "break", "pause", "resume", "end", "state", "remaining", "help", "quit"}

const commandHelp = `Commands:
  work [DURATION]    start a work session (default from config)
  break [DURATION]   start a break session
  pause              pause the running session
  resume             resume a paused session
  end                cancel the current session
  state, remaining   print the current status
  help               show this help
  quit               stop the runner (also on EOF)`

// commandResult is what a stdin command asks the runner to print
type commandResult struct {
	status *domain.Status
	help   bool
	quit   bool
}

// dispatch executes one stdin line against the controller
func dispatch(ctrl *session.Controller, line string) (commandResult, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return commandResult{}, nil
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "work", "w", "start":
		d, err := parseCommandDuration(args)
		if err != nil {
			return commandResult{}, err
		}
		return commandResult{}, ctrl.Start(domain.StateWork, d)
	case "break", "b":
		d, err := parseCommandDuration(args)
		if err != nil {
			return commandResult{}, err
		}
		return commandResult{}, ctrl.Start(domain.StateBreak, d)
	case "pause", "p":
		return commandResult{}, ctrl.Pause()
	case "resume", "r":
		return commandResult{}, ctrl.Resume()
	case "end", "stop", "e":
		return commandResult{}, ctrl.ForceEnd()
	case "state", "status", "remaining", "s":
		return commandResult{status: ctrl.Snapshot().Status()}, nil
	case "help", "?":
		return commandResult{help: true}, nil
	case "quit", "exit", "q":
		return commandResult{quit: true}, nil
	}
	return commandResult{}, fmt.Errorf("%s: %w", name, errUnknownCommand)
}

// parseCommandDuration accepts Go durations or a bare number of minutes
func parseCommandDuration(args []string) (time.Duration, error) {
	if len(args) == 0 {
		return 0, nil
	}
	raw := args[0]
	if isDigits(raw) {
		raw += "m"
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("duration %q: %w", args[0], domain.ErrInvalidDuration)
	}
	return d, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

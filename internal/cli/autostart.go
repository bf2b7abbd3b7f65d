package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"howett.net/plist"

	"github.com/vburojevic/pomo/internal/output"
)

const defaultAutostartLabel = "com.vburojevic.pomo"

// AutostartCmd installs or removes a LaunchAgent that runs the timer at login
type AutostartCmd struct {
	Disable bool   `help:"Remove the LaunchAgent instead of installing it"`
	Print   bool   `help:"Print the property list without writing it"`
	Dir     string `type:"path" placeholder:"DIR" help:"LaunchAgents directory (default: ~/Library/LaunchAgents)"`
	Label   string `default:"com.vburojevic.pomo" help:"launchd job label"`
}

// launchAgent is the subset of launchd.plist keys pomo writes
type launchAgent struct {
	Label             string   `plist:"Label"`
	ProgramArguments  []string `plist:"ProgramArguments"`
	RunAtLoad         bool     `plist:"RunAtLoad"`
	StandardOutPath   string   `plist:"StandardOutPath"`
	StandardErrorPath string   `plist:"StandardErrorPath"`
}

// AutostartOutput represents the NDJSON output for the autostart command
type AutostartOutput struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	Action        string `json:"action"` // "installed", "removed" or "printed"
	Label         string `json:"label"`
	Path          string `json:"path"`
}

// Run executes the autostart command
func (c *AutostartCmd) Run(globals *Globals) error {
	label := c.Label
	if label == "" {
		label = defaultAutostartLabel
	}
	dir, err := c.agentDir()
	if err != nil {
		return outputErrorCommon(globals, "AUTOSTART_ERROR", err.Error())
	}
	path := filepath.Join(dir, label+".plist")

	if c.Disable {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return outputErrorCommon(globals, "AUTOSTART_ERROR", err.Error())
		}
		return c.report(globals, "removed", label, path)
	}

	exe, err := os.Executable()
	if err != nil {
		return outputErrorCommon(globals, "AUTOSTART_ERROR", err.Error())
	}
	data, err := marshalLaunchAgent(label, exe, os.TempDir())
	if err != nil {
		return outputErrorCommon(globals, "AUTOSTART_ERROR", err.Error())
	}

	if c.Print {
		_, err := globals.Stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return outputErrorCommon(globals, "AUTOSTART_ERROR", err.Error())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return outputErrorCommon(globals, "AUTOSTART_ERROR", err.Error())
	}
	globals.Debug("Wrote LaunchAgent %s", path)
	return c.report(globals, "installed", label, path)
}

func (c *AutostartCmd) agentDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "LaunchAgents"), nil
}

func (c *AutostartCmd) report(globals *Globals, action, label, path string) error {
	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(AutostartOutput{
			Type:          "autostart",
			SchemaVersion: output.SchemaVersion,
			Action:        action,
			Label:         label,
			Path:          path,
		})
	}
	switch action {
	case "removed":
		fmt.Fprintf(globals.Stdout, "Removed %s\n", path)
		fmt.Fprintf(globals.Stdout, "Unload a running agent with: launchctl remove %s\n", label)
	default:
		fmt.Fprintf(globals.Stdout, "Installed %s\n", path)
		fmt.Fprintf(globals.Stdout, "Load it now with: launchctl load %s\n", path)
	}
	return nil
}

// marshalLaunchAgent renders the plist that launches a detached runner
// mirrored into tmux.
func marshalLaunchAgent(label, exe, logDir string) ([]byte, error) {
	agent := launchAgent{
		Label:             label,
		ProgramArguments:  []string{exe, "run", "--detach", "--tmux"},
		RunAtLoad:         true,
		StandardOutPath:   filepath.Join(logDir, "pomo.out.log"),
		StandardErrorPath: filepath.Join(logDir, "pomo.err.log"),
	}
	return plist.MarshalIndent(agent, plist.XMLFormat, "\t")
}

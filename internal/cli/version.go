package cli

import (
	"encoding/json"
	"fmt"

	"github.com/vburojevic/pomo/internal/output"
)

// VersionCmd shows version information
type VersionCmd struct{}

// VersionOutput represents the NDJSON output for the version command
type VersionOutput struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
}

// Run executes the version command
func (c *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(VersionOutput{
			Type:          "version",
			SchemaVersion: output.SchemaVersion,
			Version:       Version,
			Commit:        Commit,
		})
	}
	fmt.Fprintf(globals.Stdout, "pomo version %s (%s)\n", Version, Commit)
	return nil
}

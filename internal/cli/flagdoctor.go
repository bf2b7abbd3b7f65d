package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/vburojevic/pomo/internal/domain"
)

// validateFlags centralizes common flag combinations to keep behavior consistent.
func validateFlags(globals *Globals, eventTypes []string, tmux bool) error {
	// quiet + text leaves nothing readable; steer to ndjson
	if globals != nil && globals.Format == "text" && globals.Quiet {
		return outputErrorCommon(globals, "INVALID_FLAGS", "--quiet is only supported with ndjson output", "switch to --format ndjson or drop --quiet")
	}
	if unknown := lo.Without(eventTypes, domain.EventNames...); len(unknown) > 0 {
		return outputErrorCommon(globals, "INVALID_FLAGS",
			fmt.Sprintf("unknown event type: %s", strings.Join(unknown, ", ")),
			"valid types: "+strings.Join(domain.EventNames, ", "))
	}
	if tmux && !tmuxAvailable() {
		return outputErrorCommon(globals, "TMUX_NOT_AVAILABLE", "--tmux requires tmux on PATH", "install tmux or drop --tmux")
	}
	return nil
}

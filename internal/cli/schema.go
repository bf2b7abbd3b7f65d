package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// SchemaCmd outputs JSON Schema for pomo output types
type SchemaCmd struct {
	Type []string `short:"t" help:"Output types to include (session-start,session-end,session-pause,session-resume,timer-tick,warning,status,ready,error,tmux,collapsed). Default: all"`
}

// Run executes the schema command
func (c *SchemaCmd) Run(globals *Globals) error {
	schemas := map[string]map[string]interface{}{
		"session-start":  sessionStartSchema(),
		"session-end":    sessionEndSchema(),
		"session-pause":  pauseChangeSchema("session-pause", "Session Paused", "The countdown of the current session was frozen"),
		"session-resume": pauseChangeSchema("session-resume", "Session Resumed", "The countdown of the current session continues"),
		"timer-tick":     timerTickSchema(),
		"warning":        warningSchema(),
		"status":         statusSchema(),
		"ready":          readySchema(),
		"error":          errorSchema(),
		"tmux":           tmuxSchema(),
		"collapsed":      collapsedSchema(),
	}

	if globals.Format == "text" && len(c.Type) == 0 {
		c.outputTextHelp(globals)
		return nil
	}

	// Determine which schemas to output
	typesToOutput := c.Type
	if len(typesToOutput) == 0 {
		typesToOutput = lo.Keys(schemas)
		sort.Strings(typesToOutput)
	}

	output := map[string]interface{}{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       "pomo Output Schemas",
		"description": "JSON Schema definitions for all pomo NDJSON output types",
		"definitions": map[string]interface{}{},
	}

	defs := output["definitions"].(map[string]interface{})
	for _, t := range typesToOutput {
		t = strings.ToLower(strings.TrimSpace(t))
		schema, ok := schemas[t]
		if !ok {
			return outputErrorCommon(globals, "INVALID_FLAGS", fmt.Sprintf("unknown schema type %q", t), "run pomo schema -f text for the list")
		}
		defs[t] = schema
	}

	encoder := json.NewEncoder(globals.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func constProp(v string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "const": v}
}

func typedProp(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func timestampProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"format":      "date-time",
		"description": "ISO8601 timestamp",
	}
}

func stateProp(states ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        states,
		"description": "Timer state",
	}
}

func totalsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Per-process counters",
		"properties": map[string]interface{}{
			"completed_work":   typedProp("integer", "Work sessions that ran to completion"),
			"completed_breaks": typedProp("integer", "Breaks that ran to completion"),
			"cancelled":        typedProp("integer", "Sessions ended early"),
			"focus_seconds":    typedProp("integer", "Active seconds spent in work sessions"),
		},
		"required": []string{"completed_work", "completed_breaks", "cancelled", "focus_seconds"},
	}
}

func sessionStartSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Session Start",
		"description": "A work or break session began",
		"properties": map[string]interface{}{
			"type":          constProp("session-start"),
			"schemaVersion": typedProp("integer", "Record schema version"),
			"session":       typedProp("integer", "Session sequence number"),
			"session_id":    typedProp("string", "Unique session identifier"),
			"state":         stateProp("WorkSession", "BreakSession"),
			"duration":      typedProp("integer", "Configured length in seconds"),
			"timestamp":     timestampProp(),
		},
		"required": []string{"type", "session", "session_id", "state", "duration", "timestamp"},
	}
}

func sessionEndSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Session End",
		"description": "A session completed or was cancelled",
		"properties": map[string]interface{}{
			"type":          constProp("session-end"),
			"schemaVersion": typedProp("integer", "Record schema version"),
			"session":       typedProp("integer", "Session sequence number"),
			"session_id":    typedProp("string", "Unique session identifier"),
			"state":         stateProp("WorkSession", "BreakSession"),
			"reason": map[string]interface{}{
				"type": "string",
				"enum": []string{"completed", "cancelled"},
			},
			"summary": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"duration_seconds": typedProp("integer", "Configured length"),
					"elapsed_seconds":  typedProp("integer", "Active seconds, pauses excluded"),
					"paused_seconds":   typedProp("integer", "Seconds spent paused"),
					"pauses":           typedProp("integer", "Number of pauses"),
				},
			},
			"totals":    totalsSchema(),
			"timestamp": timestampProp(),
		},
		"required": []string{"type", "session", "state", "reason", "summary", "totals", "timestamp"},
	}
}

func pauseChangeSchema(name, title, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       title,
		"description": description,
		"properties": map[string]interface{}{
			"type":          constProp(name),
			"schemaVersion": typedProp("integer", "Record schema version"),
			"session":       typedProp("integer", "Session sequence number"),
			"state":         stateProp("WorkSession", "BreakSession"),
			"remainingTime": typedProp("integer", "Seconds left, rounded up"),
			"timestamp":     timestampProp(),
		},
		"required": []string{"type", "session", "state", "remainingTime", "timestamp"},
	}
}

func timerTickSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Timer Tick",
		"description": "Periodic remaining-time update while a session is active",
		"properties": map[string]interface{}{
			"type":          constProp("timer-tick"),
			"schemaVersion": typedProp("integer", "Record schema version"),
			"session":       typedProp("integer", "Session sequence number"),
			"state":         stateProp("WorkSession", "BreakSession"),
			"remainingTime": typedProp("integer", "Seconds left, frozen while paused"),
			"paused":        typedProp("boolean", "True while the session is paused"),
			"timestamp":     timestampProp(),
		},
		"required": []string{"type", "session", "state", "remainingTime", "paused", "timestamp"},
	}
}

func warningSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Idle Warning",
		"description": "No session has been started for a full warning interval",
		"properties": map[string]interface{}{
			"type":                constProp("warning"),
			"schemaVersion":       typedProp("integer", "Record schema version"),
			"idleDurationMinutes": typedProp("integer", "Whole minutes spent idle"),
			"idle_seconds":        typedProp("integer", "Seconds spent idle"),
			"count":               typedProp("integer", "Warnings issued during this idle stretch"),
			"timestamp":           timestampProp(),
		},
		"required": []string{"type", "idleDurationMinutes", "count", "timestamp"},
	}
}

func statusSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Status",
		"description": "Reply to a state query; never published",
		"properties": map[string]interface{}{
			"type":          constProp("status"),
			"schemaVersion": typedProp("integer", "Record schema version"),
			"state":         stateProp("Idle", "WorkSession", "BreakSession"),
			"session":       typedProp("integer", "Session sequence number"),
			"session_id":    typedProp("string", "Unique session identifier"),
			"remainingTime": typedProp("integer", "Seconds left, 0 when idle"),
			"paused":        typedProp("boolean", "True while the session is paused"),
			"idle_seconds":  typedProp("integer", "Seconds spent idle"),
			"totals":        totalsSchema(),
		},
		"required": []string{"type", "state", "remainingTime", "paused", "totals"},
	}
}

func readySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Ready",
		"description": "The runner is accepting commands",
		"properties": map[string]interface{}{
			"type":                  constProp("ready"),
			"schemaVersion":         typedProp("integer", "Record schema version"),
			"timestamp":             timestampProp(),
			"version":               typedProp("string", "pomo version"),
			"work_seconds":          typedProp("integer", "Default work session length"),
			"break_seconds":         typedProp("integer", "Default break length"),
			"idle_warning_seconds":  typedProp("integer", "Idle warning interval"),
			"tick_interval_seconds": typedProp("number", "Tick interval"),
			"events": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Event types that will be emitted",
			},
			"commands": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Commands accepted on stdin",
			},
		},
		"required": []string{"type", "timestamp", "work_seconds", "break_seconds", "events", "commands"},
	}
}

func errorSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Error",
		"description": "Error message from pomo",
		"properties": map[string]interface{}{
			"type":          constProp("error"),
			"schemaVersion": typedProp("integer", "Record schema version"),
			"code": map[string]interface{}{
				"type":        "string",
				"description": "Error code (e.g., ILLEGAL_TRANSITION, INVALID_DURATION)",
				"enum": []string{
					"ILLEGAL_TRANSITION",
					"INVALID_DURATION",
					"INVALID_STATE",
					"CLOCK_UNAVAILABLE",
					"UNKNOWN_COMMAND",
					"INVALID_FLAGS",
					"INVALID_WHERE",
					"TMUX_NOT_AVAILABLE",
					"TMUX_FAILED",
					"NOT_A_TERMINAL",
					"INVALID_CONFIG",
					"CONFIG_EXISTS",
					"CONFIG_ERROR",
					"AUTOSTART_ERROR",
					"INTERNAL",
				},
			},
			"message": typedProp("string", "Human-readable error description"),
			"hint":    typedProp("string", "Suggested next step"),
		},
		"required": []string{"type", "code", "message"},
	}
}

func tmuxSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Tmux Session Info",
		"description": "Information about the tmux session mirroring output",
		"properties": map[string]interface{}{
			"type":          constProp("tmux"),
			"schemaVersion": typedProp("integer", "Record schema version"),
			"session":       typedProp("string", "Tmux session name"),
			"attach":        typedProp("string", "Command to attach to the session"),
		},
		"required": []string{"type", "session", "attach"},
	}
}

func collapsedSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Collapsed Records",
		"description": "Identical records dropped by --dedupe since the previous record",
		"properties": map[string]interface{}{
			"type":          constProp("collapsed"),
			"schemaVersion": typedProp("integer", "Record schema version"),
			"count":         typedProp("integer", "Number of records dropped"),
		},
		"required": []string{"type", "count"},
	}
}

// Helper to output a quick reference
func (c *SchemaCmd) outputTextHelp(globals *Globals) {
	fmt.Fprintln(globals.Stdout, "pomo Output Types:")
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintln(globals.Stdout, "  session-start  - Work or break session began")
	fmt.Fprintln(globals.Stdout, "  session-end    - Session completed or cancelled")
	fmt.Fprintln(globals.Stdout, "  session-pause  - Countdown frozen")
	fmt.Fprintln(globals.Stdout, "  session-resume - Countdown continues")
	fmt.Fprintln(globals.Stdout, "  timer-tick     - Remaining time update")
	fmt.Fprintln(globals.Stdout, "  warning        - Idle too long")
	fmt.Fprintln(globals.Stdout, "  status         - Reply to a state query")
	fmt.Fprintln(globals.Stdout, "  ready          - Runner accepting commands")
	fmt.Fprintln(globals.Stdout, "  error          - Error from pomo")
	fmt.Fprintln(globals.Stdout, "  tmux           - Tmux session info")
	fmt.Fprintln(globals.Stdout, "  collapsed      - Duplicates dropped by --dedupe")
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintln(globals.Stdout, "Use --type to filter: pomo schema --type session-end,warning")
}

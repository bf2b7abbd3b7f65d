package output

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/vburojevic/pomo/internal/domain"
	"github.com/vburojevic/pomo/internal/events"
)

// SchemaVersion is stamped on every NDJSON record.
const SchemaVersion = domain.SchemaVersion

// ErrorOutput is the NDJSON error record
type ErrorOutput struct {
	Type          string `json:"type"` // "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// Ready is emitted once when the runner starts accepting commands
type Ready struct {
	Type                string   `json:"type"` // "ready"
	SchemaVersion       int      `json:"schemaVersion"`
	Timestamp           string   `json:"timestamp"`
	Version             string   `json:"version"`
	WorkSeconds         int      `json:"work_seconds"`
	BreakSeconds        int      `json:"break_seconds"`
	IdleWarningSeconds  int      `json:"idle_warning_seconds"`
	TickIntervalSeconds float64  `json:"tick_interval_seconds"`
	Events              []string `json:"events"`
	Commands            []string `json:"commands"`
}

// TmuxOutput tells the caller where mirrored output can be watched
type TmuxOutput struct {
	Type          string `json:"type"` // "tmux"
	SchemaVersion int    `json:"schemaVersion"`
	Session       string `json:"session"`
	Attach        string `json:"attach"`
}

// InfoOutput is a free-form informational record
type InfoOutput struct {
	Type          string `json:"type"` // "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// CollapsedOutput reports identical records dropped by dedupe ahead of
// the next record
type CollapsedOutput struct {
	Type          string `json:"type"` // "collapsed"
	SchemaVersion int    `json:"schemaVersion"`
	Count         int    `json:"count"`
}

// NDJSONWriter writes one JSON object per line. It is safe for concurrent
// use so the event drain and command replies can share stdout.
type NDJSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewNDJSONWriter creates a writer on w
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONWriter{enc: enc}
}

// Write encodes any record as a single line
func (w *NDJSONWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(v)
}

// WriteEvent writes the payload of a published event
func (w *NDJSONWriter) WriteEvent(e events.Event) error {
	return w.Write(e.Payload)
}

// WriteStatus writes a status record
func (w *NDJSONWriter) WriteStatus(s *domain.Status) error {
	return w.Write(s)
}

// WriteError writes an error record; the first hint, if any, is included
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := &ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return w.Write(out)
}

// WriteReady writes the ready record
func (w *NDJSONWriter) WriteReady(r *Ready) error {
	r.Type = "ready"
	r.SchemaVersion = SchemaVersion
	return w.Write(r)
}

// WriteTmux writes the tmux session record
func (w *NDJSONWriter) WriteTmux(session, attach string) error {
	return w.Write(&TmuxOutput{
		Type:          "tmux",
		SchemaVersion: SchemaVersion,
		Session:       session,
		Attach:        attach,
	})
}

// WriteInfo writes an informational message
func (w *NDJSONWriter) WriteInfo(message string) error {
	return w.Write(&InfoOutput{Type: "info", SchemaVersion: SchemaVersion, Message: message})
}

// WriteCollapsed writes a collapsed record for count suppressed duplicates
func (w *NDJSONWriter) WriteCollapsed(count int) error {
	return w.Write(&CollapsedOutput{Type: "collapsed", SchemaVersion: SchemaVersion, Count: count})
}

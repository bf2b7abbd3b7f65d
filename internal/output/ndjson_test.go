package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vburojevic/pomo/internal/domain"
	"github.com/vburojevic/pomo/internal/events"
)

var t0 = time.Date(2025, 12, 11, 10, 0, 0, 0, time.UTC)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line, err := buf.ReadBytes('\n')
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(line, &m))
	return m
}

func workSession() domain.Session {
	return domain.Session{
		State:     domain.StateWork,
		Number:    2,
		ID:        "sess-abc",
		StartTime: t0,
		Duration:  25 * time.Minute,
	}
}

func TestWriteEventSessionStart(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	payload := domain.NewSessionStart(workSession(), t0)
	require.NoError(t, w.WriteEvent(events.Event{Name: domain.EventSessionStart, Payload: payload}))

	m := decodeLine(t, buf)
	require.Equal(t, "session-start", m["type"])
	require.EqualValues(t, 1, m["schemaVersion"])
	require.Equal(t, "WorkSession", m["state"])
	require.EqualValues(t, 1500, m["duration"])
	require.EqualValues(t, 2, m["session"])
	require.Equal(t, "sess-abc", m["session_id"])
	require.Equal(t, "2025-12-11T10:00:00Z", m["timestamp"])
}

func TestWriteEventTickWhilePaused(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	s := workSession()
	s.IsPaused = true
	s.PausedAt = t0.Add(10 * time.Second)
	payload := domain.NewTimerTick(s, t0.Add(time.Minute))
	require.NoError(t, w.WriteEvent(events.Event{Name: domain.EventTimerTick, Payload: payload}))

	m := decodeLine(t, buf)
	require.Equal(t, "timer-tick", m["type"])
	require.EqualValues(t, 1490, m["remainingTime"])
	require.Equal(t, true, m["paused"])
}

func TestWriteError(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	require.NoError(t, w.WriteError("ILLEGAL_TRANSITION", "pause: illegal transition from Idle", "start a session first"))

	m := decodeLine(t, buf)
	require.Equal(t, "error", m["type"])
	require.Equal(t, "ILLEGAL_TRANSITION", m["code"])
	require.Equal(t, "pause: illegal transition from Idle", m["message"])
	require.Equal(t, "start a session first", m["hint"])
}

func TestWriteErrorOmitsEmptyHint(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewNDJSONWriter(buf).WriteError("X", "boom"))

	m := decodeLine(t, buf)
	require.NotContains(t, m, "hint")
}

func TestWriteReadyStampsType(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	err := w.WriteReady(&Ready{
		Timestamp:   "2025-12-11T10:00:00Z",
		Version:     "dev",
		WorkSeconds: 1500,
		Events:      domain.EventNames,
		Commands:    []string{"work", "break"},
	})
	require.NoError(t, err)

	m := decodeLine(t, buf)
	require.Equal(t, "ready", m["type"])
	require.EqualValues(t, 1, m["schemaVersion"])
	require.EqualValues(t, 1500, m["work_seconds"])
	evs, ok := m["events"].([]interface{})
	require.True(t, ok)
	require.Len(t, evs, len(domain.EventNames))
}

func TestWriteTmuxAndInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	require.NoError(t, w.WriteTmux("pomo", "tmux attach -t pomo"))
	require.NoError(t, w.WriteInfo("hello"))

	m := decodeLine(t, buf)
	require.Equal(t, "tmux", m["type"])
	require.Equal(t, "tmux attach -t pomo", m["attach"])

	m = decodeLine(t, buf)
	require.Equal(t, "info", m["type"])
	require.Equal(t, "hello", m["message"])
}

func TestWriteCollapsedBetweenRecords(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	require.NoError(t, w.WriteInfo("before"))
	require.NoError(t, w.WriteCollapsed(7))
	require.NoError(t, w.WriteInfo("after"))

	require.Equal(t, "before", decodeLine(t, buf)["message"])
	m := decodeLine(t, buf)
	require.Equal(t, "collapsed", m["type"])
	require.EqualValues(t, 7, m["count"])
	require.Equal(t, "after", decodeLine(t, buf)["message"])
}

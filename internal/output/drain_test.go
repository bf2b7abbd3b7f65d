package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/pomo/internal/domain"
	"github.com/vburojevic/pomo/internal/events"
)

func TestDrainStopsWhenChannelCloses(t *testing.T) {
	buf := &bytes.Buffer{}
	ch := make(chan events.Event, 4)
	ch <- events.Event{Name: domain.EventSessionStart, Payload: domain.NewSessionStart(workSession(), t0)}
	ch <- events.Event{Name: domain.EventWarning, Payload: domain.NewWarning(5*time.Minute, 1, t0)}
	close(ch)

	require.NoError(t, Drain(context.Background(), ch, nil, NewNDJSONWriter(buf), nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"type":"session-start"`)
	assert.Contains(t, lines[1], `"type":"warning"`)
}

func TestDrainFlushesBufferedEventsOnCancel(t *testing.T) {
	buf := &bytes.Buffer{}
	ch := make(chan events.Event, 4)
	end := domain.NewSessionEnd(workSession(), domain.EndReasonCancelled, domain.Totals{}, t0)
	ch <- events.Event{Name: domain.EventSessionEnd, Payload: end}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, Drain(ctx, ch, nil, NewNDJSONWriter(buf), nil))
	assert.Contains(t, buf.String(), `"type":"session-end"`)
}

func TestDrainAppliesKeep(t *testing.T) {
	buf := &bytes.Buffer{}
	ch := make(chan events.Event, 4)
	ch <- events.Event{Name: domain.EventTimerTick, Payload: domain.NewTimerTick(workSession(), t0)}
	ch <- events.Event{Name: domain.EventWarning, Payload: domain.NewWarning(5*time.Minute, 1, t0)}
	close(ch)

	keep := func(e events.Event) (bool, int) { return e.Name != domain.EventTimerTick, 0 }
	require.NoError(t, Drain(context.Background(), ch, nil, NewTextWriter(buf), keep))

	assert.NotContains(t, buf.String(), "WorkSession 25:00")
	assert.Contains(t, buf.String(), WarningMessage)
}

func TestDrainWritesBufferedEventsBeforeReply(t *testing.T) {
	buf := &bytes.Buffer{}
	ch := make(chan events.Event, 4)
	replies := make(chan Reply)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Drain(ctx, ch, replies, NewNDJSONWriter(buf), nil) }()

	for i := 0; i < 50; i++ {
		ch <- events.Event{Name: domain.EventSessionStart, Payload: domain.NewSessionStart(workSession(), t0)}
		replies <- func(w EventWriter) error {
			return w.WriteStatus(&domain.Status{Type: "status", State: domain.StateWork})
		}
	}
	cancel()
	require.NoError(t, <-done)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 100)
	for i := 0; i < len(lines); i += 2 {
		assert.Contains(t, lines[i], `"type":"session-start"`)
		assert.Contains(t, lines[i+1], `"type":"status"`)
	}
}

func TestDrainReplyErrorStopsDrain(t *testing.T) {
	ch := make(chan events.Event)
	replies := make(chan Reply, 1)
	replies <- func(EventWriter) error { return assert.AnError }

	err := Drain(context.Background(), ch, replies, NewNDJSONWriter(&bytes.Buffer{}), nil)
	require.ErrorIs(t, err, assert.AnError)
}

func TestDrainWritesCollapsedAheadOfEvent(t *testing.T) {
	buf := &bytes.Buffer{}
	ch := make(chan events.Event, 1)
	ch <- events.Event{Name: domain.EventWarning, Payload: domain.NewWarning(5*time.Minute, 1, t0)}
	close(ch)

	keep := func(events.Event) (bool, int) { return true, 4 }
	require.NoError(t, Drain(context.Background(), ch, nil, NewNDJSONWriter(buf), keep))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"type":"collapsed","schemaVersion":1,"count":4}`, lines[0])
	assert.Contains(t, lines[1], `"type":"warning"`)
}

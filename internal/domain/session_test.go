package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 12, 11, 10, 0, 0, 0, time.UTC)

func TestSessionRemaining(t *testing.T) {
	s := Session{State: StateWork, StartTime: t0, Duration: 1500 * time.Second}

	t.Run("full duration at start", func(t *testing.T) {
		assert.Equal(t, 1500*time.Second, s.Remaining(t0))
	})

	t.Run("counts down while running", func(t *testing.T) {
		assert.Equal(t, 1490*time.Second, s.Remaining(t0.Add(10*time.Second)))
	})

	t.Run("never negative", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), s.Remaining(t0.Add(2*time.Hour)))
		assert.True(t, s.Expired(t0.Add(2*time.Hour)))
	})

	t.Run("idle has nothing remaining", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), Session{}.Remaining(t0))
		assert.False(t, Session{}.Expired(t0))
	})
}

func TestSessionPausedTimeExcluded(t *testing.T) {
	s := Session{
		State:         StateWork,
		StartTime:     t0,
		Duration:      1500 * time.Second,
		PauseDuration: 100 * time.Second,
	}
	assert.Equal(t, 10*time.Second, s.Elapsed(t0.Add(110*time.Second)))

	s.IsPaused = true
	s.PausedAt = t0.Add(110 * time.Second)
	frozen := s.Remaining(t0.Add(110 * time.Second))
	assert.Equal(t, frozen, s.Remaining(t0.Add(10*time.Minute)))
	assert.Equal(t, 100*time.Second+5*time.Minute, s.Paused(t0.Add(110*time.Second+5*time.Minute)))
}

func TestSessionProgress(t *testing.T) {
	s := Session{State: StateBreak, StartTime: t0, Duration: 300 * time.Second}
	assert.InDelta(t, 0.5, s.Progress(t0.Add(150*time.Second)), 1e-9)
	assert.Zero(t, Session{}.Progress(t0))
}

func TestSecondsRoundsUp(t *testing.T) {
	assert.Equal(t, 0, Seconds(0))
	assert.Equal(t, 0, Seconds(-time.Second))
	assert.Equal(t, 1, Seconds(time.Millisecond))
	assert.Equal(t, 1500, Seconds(1500*time.Second))
}

func TestParseState(t *testing.T) {
	tests := []struct {
		input    string
		expected State
	}{
		{"Idle", StateIdle},
		{"WorkSession", StateWork},
		{"work", StateWork},
		{"BreakSession", StateBreak},
		{" BREAK ", StateBreak},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseState(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseState("lunch")
	assert.Error(t, err)
}

func TestStateJSONUsesNames(t *testing.T) {
	b, err := json.Marshal(NewTimerTick(Session{State: StateBreak, Number: 2, StartTime: t0, Duration: time.Minute}, t0))
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "BreakSession", m["state"])
	assert.Equal(t, "timer-tick", m["type"])
	assert.EqualValues(t, 60, m["remainingTime"])
	assert.EqualValues(t, 2, m["session"])
}

func TestTransitionErrorUnwraps(t *testing.T) {
	err := NewTransitionError("pause", StateIdle, false)
	assert.True(t, errors.Is(err, ErrIllegalTransition))
	assert.Equal(t, "pause: illegal transition from Idle", err.Error())

	err = NewTransitionError("pause", StateWork, true)
	assert.Contains(t, err.Error(), "WorkSession (paused)")
}

func TestNewSessionEndSummary(t *testing.T) {
	s := Session{
		State:         StateWork,
		Number:        3,
		ID:            "abc",
		StartTime:     t0,
		Duration:      1500 * time.Second,
		PauseDuration: 100 * time.Second,
		Pauses:        1,
	}
	end := NewSessionEnd(s, EndReasonCancelled, Totals{Cancelled: 1}, t0.Add(400*time.Second))

	assert.Equal(t, EventSessionEnd, end.Type)
	assert.Equal(t, StateWork, end.State)
	assert.Equal(t, 300, end.Summary.ElapsedSeconds)
	assert.Equal(t, 100, end.Summary.PausedSeconds)
	assert.Equal(t, 1500, end.Summary.DurationSeconds)
	assert.Equal(t, 1, end.Totals.Cancelled)
	assert.Equal(t, "2025-12-11T10:06:40Z", end.Timestamp)
}

package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/vburojevic/pomo/internal/events"
)

// recorder is a Publisher that keeps every event for assertions
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events.Event{Name: name, Payload: payload})
}

func (r *recorder) named(name string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) count(name string) int {
	return len(r.named(name))
}

func (r *recorder) last() events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return events.Event{}
	}
	return r.events[len(r.events)-1]
}

func newTestController(t *testing.T, cfg Config) (*Controller, *clock.Mock, *recorder) {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 12, 11, 9, 0, 0, 0, time.UTC))
	rec := &recorder{}
	n := 0
	ctrl := NewController(cfg, rec, WithClock(mock), WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	return ctrl, mock, rec
}

// tickFor advances the mock clock one second at a time, running a
// scheduler step after each second.
func tickFor(mock *clock.Mock, sched *Scheduler, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += time.Second {
		mock.Add(time.Second)
		sched.Tick()
	}
}

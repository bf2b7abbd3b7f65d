package session

import (
	"time"

	"github.com/vburojevic/pomo/internal/domain"
)

// IdleWatcher raises a recurring warning while no session is active.
//
// The watcher is not safe for concurrent use; the Controller owns it and
// only calls it while holding its lock, so Idle entry, exit and
// observation never interleave with a command.
type IdleWatcher struct {
	threshold time.Duration
	pub       Publisher
	active    bool
	since     time.Time
	warned    int
}

// NewIdleWatcher creates a watcher that warns every threshold while idle.
func NewIdleWatcher(threshold time.Duration, pub Publisher) *IdleWatcher {
	if pub == nil {
		pub = nopPublisher{}
	}
	return &IdleWatcher{threshold: threshold, pub: pub}
}

// Enter starts a new idle stretch at now.
func (w *IdleWatcher) Enter(now time.Time) {
	w.active = true
	w.since = now
	w.warned = 0
}

// Leave ends the idle stretch; no warnings fire until the next Enter.
func (w *IdleWatcher) Leave() {
	w.active = false
	w.since = time.Time{}
	w.warned = 0
}

// Observe publishes a warning if another full threshold of idleness has
// passed since the last one. When ticks were delayed across several
// thresholds only one warning fires and the count catches up.
func (w *IdleWatcher) Observe(now time.Time) bool {
	if !w.active || w.threshold <= 0 {
		return false
	}
	idle := now.Sub(w.since)
	due := int(idle / w.threshold)
	if due <= w.warned {
		return false
	}
	w.warned = due
	w.pub.Publish(domain.EventWarning, domain.NewWarning(idle, due, now))
	return true
}

// IdleFor returns how long the current idle stretch has lasted.
func (w *IdleWatcher) IdleFor(now time.Time) time.Duration {
	if !w.active {
		return 0
	}
	return now.Sub(w.since)
}

// Warnings returns how many warnings the current idle stretch has raised.
func (w *IdleWatcher) Warnings() int {
	return w.warned
}

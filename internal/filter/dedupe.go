package filter

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/vburojevic/pomo/internal/events"
)

// DedupeFilter collapses repeated identical events. Two events are
// identical when every field except the timestamp matches, so ticks
// published while a session is paused collapse into one line.
type DedupeFilter struct {
	mu        sync.Mutex
	clock     clock.Clock
	window    time.Duration        // Time window for deduplication (0 = consecutive only)
	lastSeen  map[string]time.Time // window mode: key -> last occurrence
	lastKey   string
	collapsed int // suppressed since the last emitted event
}

// NewDedupeFilter creates a new deduplication filter
// window=0 means only collapse consecutive identical events
// window>0 means collapse identical events within the time window
func NewDedupeFilter(window time.Duration) *DedupeFilter {
	return newDedupeFilter(window, clock.New())
}

func newDedupeFilter(window time.Duration, clk clock.Clock) *DedupeFilter {
	return &DedupeFilter{
		clock:    clk,
		window:   window,
		lastSeen: make(map[string]time.Time),
	}
}

// DedupeResult holds the result of a dedupe check
type DedupeResult struct {
	ShouldEmit bool // Whether this event should be emitted
	// Collapsed is set on an emitted event: how many events were
	// suppressed since the previous emitted one.
	Collapsed int
}

// Check determines if an event should be emitted or suppressed
func (f *DedupeFilter) Check(e events.Event) DedupeResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := dedupeKey(e)
	duplicate := f.lastKey == key
	if f.window > 0 {
		now := f.clock.Now()
		f.cleanOldEntries(now)
		_, duplicate = f.lastSeen[key]
		f.lastSeen[key] = now
	}
	f.lastKey = key

	if duplicate {
		f.collapsed++
		return DedupeResult{ShouldEmit: false}
	}

	res := DedupeResult{ShouldEmit: true, Collapsed: f.collapsed}
	f.collapsed = 0
	return res
}

// cleanOldEntries removes entries outside the time window
func (f *DedupeFilter) cleanOldEntries(now time.Time) {
	cutoff := now.Add(-f.window)
	for key, seen := range f.lastSeen {
		if seen.Before(cutoff) {
			delete(f.lastSeen, key)
		}
	}
}

func dedupeKey(e events.Event) string {
	fields := Fields(e)
	delete(fields, "timestamp")

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
		b.WriteByte(';')
	}
	return b.String()
}

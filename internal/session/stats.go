package session

import (
	"time"

	"github.com/vburojevic/pomo/internal/domain"
)

// Stats counts finished sessions for the lifetime of the process.
// It is guarded by the owning Controller's lock.
type Stats struct {
	completedWork   int
	completedBreaks int
	cancelled       int
	focus           time.Duration
}

// record folds one ended session into the counters
func (s *Stats) record(ended domain.Session, reason string, now time.Time) {
	if ended.State == domain.StateWork {
		s.focus += ended.Elapsed(now)
	}
	if reason == domain.EndReasonCancelled {
		s.cancelled++
		return
	}
	switch ended.State {
	case domain.StateWork:
		s.completedWork++
	case domain.StateBreak:
		s.completedBreaks++
	}
}

// Totals returns the counters as a payload value
func (s *Stats) Totals() domain.Totals {
	return domain.Totals{
		CompletedWork:   s.completedWork,
		CompletedBreaks: s.completedBreaks,
		Cancelled:       s.cancelled,
		FocusSeconds:    int(s.focus / time.Second),
	}
}

package output

import (
	"context"

	"github.com/vburojevic/pomo/internal/domain"
	"github.com/vburojevic/pomo/internal/events"
)

// EventWriter is implemented by NDJSONWriter and TextWriter
type EventWriter interface {
	WriteEvent(e events.Event) error
	WriteStatus(s *domain.Status) error
	WriteError(code, message string, hint ...string) error
	WriteInfo(message string) error
	WriteCollapsed(count int) error
}

var (
	_ EventWriter = (*NDJSONWriter)(nil)
	_ EventWriter = (*TextWriter)(nil)
)

// Reply is a record written in answer to a command rather than published
type Reply func(w EventWriter) error

// KeepFunc decides whether e is written. A positive collapsed count is
// written as a collapsed record ahead of e.
type KeepFunc func(e events.Event) (keep bool, collapsed int)

// Drain writes events from ch and replies until ctx is done or ch is
// closed. Before a reply is written every event already buffered in ch is
// written, so a reply never overtakes the events its command published.
// Events buffered when ctx ends are still written so a final session-end
// is not lost. keep and replies may be nil.
func Drain(ctx context.Context, ch <-chan events.Event, replies <-chan Reply, w EventWriter, keep KeepFunc) error {
	write := func(e events.Event) error {
		if keep != nil {
			ok, collapsed := keep(e)
			if !ok {
				return nil
			}
			if collapsed > 0 {
				if err := w.WriteCollapsed(collapsed); err != nil {
					return err
				}
			}
		}
		return w.WriteEvent(e)
	}

	// flush writes what is buffered in ch without blocking
	flush := func() (closed bool, err error) {
		for {
			select {
			case e, ok := <-ch:
				if !ok {
					return true, nil
				}
				if err := write(e); err != nil {
					return false, err
				}
			default:
				return false, nil
			}
		}
	}

	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			if err := write(e); err != nil {
				return err
			}
		case r := <-replies:
			closed, err := flush()
			if err != nil {
				return err
			}
			if err := r(w); err != nil {
				return err
			}
			if closed {
				return nil
			}
		case <-ctx.Done():
			_, err := flush()
			return err
		}
	}
}

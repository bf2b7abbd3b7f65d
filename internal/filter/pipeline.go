package filter

import (
	"github.com/samber/lo"

	"github.com/vburojevic/pomo/internal/events"
)

// Pipeline applies the event type allow-list, where clauses and dedupe in
// that order. A nil Pipeline lets everything through.
type Pipeline struct {
	types  map[string]struct{}
	where  *WhereFilter
	dedupe *DedupeFilter
}

// NewPipeline returns nil when no filter is configured
func NewPipeline(types []string, where *WhereFilter, dedupe *DedupeFilter) *Pipeline {
	types = lo.Compact(types)
	if len(types) == 0 && where == nil && dedupe == nil {
		return nil
	}
	p := &Pipeline{where: where, dedupe: dedupe}
	if len(types) > 0 {
		p.types = lo.SliceToMap(types, func(t string) (string, struct{}) {
			return t, struct{}{}
		})
	}
	return p
}

// Match reports whether e should be written
func (p *Pipeline) Match(e events.Event) bool {
	keep, _ := p.Check(e)
	return keep
}

// Check is Match plus the number of duplicates dedupe suppressed since the
// previous kept event.
func (p *Pipeline) Check(e events.Event) (keep bool, collapsed int) {
	if p == nil {
		return true, 0
	}
	if p.types != nil {
		if _, ok := p.types[e.Name]; !ok {
			return false, 0
		}
	}
	if !p.where.Match(e) {
		return false, 0
	}
	if p.dedupe != nil {
		res := p.dedupe.Check(e)
		return res.ShouldEmit, res.Collapsed
	}
	return true, 0
}

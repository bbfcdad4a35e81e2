// Package window implements the context scanner the derived-tag passes share:
// bounded forward/backward lookups around an anchor event, scoped to the
// anchor's match and period and optionally its possession or team.
package window

import "github.com/jkds/go-football-metrics/internal/model"

// Filter narrows a window query. Zero value matches every event in range.
type Filter struct {
	SamePossession bool
	SameTeam       bool // only events by the anchor's team
	OtherTeam      bool // only events by the other team
	Types          []model.EventType
}

func (f Filter) match(anchor, e *model.Event) bool {
	if f.SamePossession && e.PossessionID != anchor.PossessionID {
		return false
	}
	if f.SameTeam && e.Team != anchor.Team {
		return false
	}
	if f.OtherTeam && e.Team == anchor.Team {
		return false
	}
	if len(f.Types) > 0 {
		ok := false
		for _, t := range f.Types {
			if e.Type == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Scanner runs window queries over one match's events, which must be sorted
// by event index with cumulative minutes already set.
type Scanner struct {
	events []model.Event
}

func NewScanner(events []model.Event) *Scanner {
	return &Scanner{events: events}
}

// Events exposes the underlying slice for iteration; callers must not
// reorder it.
func (s *Scanner) Events() []model.Event { return s.events }

func (s *Scanner) At(i int) *model.Event { return &s.events[i] }

func (s *Scanner) Len() int { return len(s.events) }

// Forward returns the events after position i whose cumulative minute lies
// within seconds of the anchor, inclusive at the far bound, in original
// order. The scan never leaves the anchor's match or period. A
// possession-scoped query with no possession id on the anchor returns nil.
func (s *Scanner) Forward(i int, seconds float64, f Filter) []model.Event {
	anchor := &s.events[i]
	if f.SamePossession && anchor.PossessionID == 0 {
		return nil
	}
	limit := anchor.CumulativeMins + seconds/60
	var out []model.Event
	for j := i + 1; j < len(s.events); j++ {
		e := &s.events[j]
		if e.MatchID != anchor.MatchID || e.Period != anchor.Period {
			break
		}
		if e.CumulativeMins > limit {
			break
		}
		if f.match(anchor, e) {
			out = append(out, *e)
		}
	}
	return out
}

// Backward is Forward's mirror: events before the anchor within seconds,
// inclusive at the far bound, still in original (ascending) order.
func (s *Scanner) Backward(i int, seconds float64, f Filter) []model.Event {
	anchor := &s.events[i]
	if f.SamePossession && anchor.PossessionID == 0 {
		return nil
	}
	limit := anchor.CumulativeMins - seconds/60
	var rev []model.Event
	for j := i - 1; j >= 0; j-- {
		e := &s.events[j]
		if e.MatchID != anchor.MatchID || e.Period != anchor.Period {
			break
		}
		if e.CumulativeMins < limit {
			break
		}
		if f.match(anchor, e) {
			rev = append(rev, *e)
		}
	}
	for l, r := 0, len(rev)-1; l < r; l, r = l+1, r-1 {
		rev[l], rev[r] = rev[r], rev[l]
	}
	return rev
}

// BackwardFirst walks index order backward from position i, bounded by the
// anchor's possession, and returns the slice position of the nearest earlier
// event satisfying pred. It is a first-match scan: at most one hit. An
// anchor without a possession id finds nothing.
func (s *Scanner) BackwardFirst(i int, pred func(*model.Event) bool) (int, bool) {
	anchor := &s.events[i]
	if anchor.PossessionID == 0 {
		return 0, false
	}
	for j := i - 1; j >= 0; j-- {
		e := &s.events[j]
		if e.MatchID != anchor.MatchID || e.PossessionID != anchor.PossessionID {
			break
		}
		if pred(e) {
			return j, true
		}
	}
	return 0, false
}

package tagger

import (
	"math"

	"github.com/jkds/go-football-metrics/internal/model"
	"github.com/jkds/go-football-metrics/internal/window"
)

// PreAssists returns a copy of events with PreAssist set on the nearest pass
// before each goal-assisting pass, within the same possession, whose
// recipient is the assister. At most one pre-assist per assist.
func PreAssists(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)

	s := window.NewScanner(out)
	for i := range out {
		if !out[i].PassGoalAssist {
			continue
		}
		assister := out[i].Player
		j, ok := s.BackwardFirst(i, func(e *model.Event) bool {
			return e.Type == model.TypePass && e.PassRecipient == assister
		})
		if ok {
			out[j].PreAssist = true
		}
	}
	return out
}

// XGAssisted returns a copy of events with each shot-assisting pass carrying
// the xG of the shot it assisted, resolved through the assisted-shot
// back-reference id. A dangling reference leaves the pass untagged.
func XGAssisted(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)

	shotXG := map[string]float64{}
	for i := range out {
		if out[i].Type == model.TypeShot && out[i].ID != "" {
			shotXG[out[i].ID] = out[i].ShotXG
		}
	}
	for i := range out {
		if out[i].PassShotAssist {
			if xg, ok := shotXG[out[i].AssistedShotID]; ok {
				out[i].XGAssisted = xg
			}
		}
	}
	return out
}

// BoxEntryOpts gates the box-entry predicate.
type BoxEntryOpts struct {
	InPlayOnly     bool
	SuccessfulOnly bool
}

// BoxEntry reports whether a pass or carry starts outside the opposition box
// and ends inside it. Events without both locations never qualify.
func BoxEntry(e *model.Event, opts BoxEntryOpts) bool {
	if e.Type != model.TypePass && e.Type != model.TypeCarry {
		return false
	}
	if e.Loc == nil || e.EndLoc == nil {
		return false
	}
	if opts.SuccessfulOnly && e.Outcome == model.OutcomeFailure {
		return false
	}
	if opts.InPlayOnly && !InPlay(e) {
		return false
	}
	return !e.Loc.InBox() && e.EndLoc.InBox()
}

// Progressive zone thresholds: the reduction in distance to the goal centre
// required for a pass or carry to count as progressive, by zone.
const (
	progOwnHalf   = 32.8
	progCrossHalf = 16.4
	progOppHalf   = 10.94
)

// Progressive reports whether a successful pass or carry moves the ball far
// enough toward the goal centre for its zone: both ends in the own half,
// crossing halves, or both ends in the attacking half. Thresholds are
// boundary-inclusive.
func Progressive(e *model.Event, inPlayOnly bool) bool {
	if e.Type != model.TypePass && e.Type != model.TypeCarry {
		return false
	}
	if e.Loc == nil || e.EndLoc == nil {
		return false
	}
	if e.Type == model.TypePass && e.Outcome != model.OutcomeSuccess {
		return false
	}
	if inPlayOnly && !InPlay(e) {
		return false
	}

	delta := goalDist(*e.Loc) - goalDist(*e.EndLoc)
	switch {
	case e.Loc.X < model.HalfwayX && e.EndLoc.X < model.HalfwayX:
		return delta >= progOwnHalf
	case e.Loc.X < model.HalfwayX && e.EndLoc.X >= model.HalfwayX:
		return delta >= progCrossHalf
	case e.Loc.X >= model.HalfwayX && e.EndLoc.X >= model.HalfwayX:
		return delta >= progOppHalf
	}
	return false
}

func goalDist(p model.Point) float64 {
	return math.Hypot(model.GoalCentre.X-p.X, model.GoalCentre.Y-p.Y)
}

package tagger

import (
	"math"

	"github.com/jkds/go-football-metrics/internal/model"
	"github.com/jkds/go-football-metrics/internal/window"
)

// Default scan windows, in seconds.
const (
	DefaultCounterpressWindow  = 5.0
	DefaultCounterattackWindow = 10.0
	DefaultPassOutcomeWindow   = 5.0

	trivialCarrySecs = 3.0
	highOBVThreshold = 0.006
)

var defensiveTypes = map[model.EventType]bool{
	model.TypePressure:      true,
	model.TypeDuel:          true,
	model.TypeInterception:  true,
	model.TypeBallRecovery:  true,
	model.TypeBlock:         true,
	model.TypeClearance:     true,
	model.TypeFoulCommitted: true,
	model.TypeFiftyFifty:    true,
}

// possessionLoss reports whether an event surrenders the ball in open play.
func possessionLoss(e *model.Event) bool {
	switch e.Type {
	case model.TypeDispossessed:
		return true
	case model.TypeDribble:
		return e.Outcome == model.OutcomeFailure
	case model.TypePass:
		return InPlay(e) && (e.OutcomeDetail == "Incomplete" || e.OutcomeDetail == "Out")
	}
	return false
}

// possessionWin reports whether an event wins the ball in open play.
func possessionWin(e *model.Event) bool {
	switch e.Type {
	case model.TypeDuel:
		return e.SubType == "Tackle" && e.Outcome == model.OutcomeSuccess
	case model.TypeFiftyFifty, model.TypeInterception, model.TypeBallRecovery:
		return e.Outcome == model.OutcomeSuccess
	}
	return false
}

// Counterpressures finds, for every in-play possession loss, the first
// qualifying reaction within the window: a defensive action by the losing
// team, an opposition pass out of play, or an opposition backward pass.
// Opposition-sourced locations are mirrored so every reaction is expressed
// in the losing team's attacking direction. Losses with no qualifying
// reaction produce no record. Events must carry cumulative minutes.
func Counterpressures(events []model.Event, seconds float64) []model.LossReaction {
	var out []model.LossReaction
	s := window.NewScanner(events)

	for i := 0; i < s.Len(); i++ {
		anchor := s.At(i)
		if !possessionLoss(anchor) {
			continue
		}
		for _, e := range s.Forward(i, seconds, window.Filter{}) {
			reaction, loc := classifyReaction(anchor, &e)
			if reaction == "" {
				continue
			}
			out = append(out, model.LossReaction{
				MatchID:       anchor.MatchID,
				LossIndex:     anchor.Index,
				Team:          anchor.Team,
				Player:        anchor.Player,
				Reaction:      reaction,
				ReactionIndex: e.Index,
				ReactionType:  e.Type,
				ElapsedSecs:   (e.CumulativeMins - anchor.CumulativeMins) * 60,
				Loc:           loc,
			})
			break
		}
	}
	return out
}

// classifyReaction returns the reaction label for a candidate follow-on
// event, or "" when the event does not qualify.
func classifyReaction(anchor, e *model.Event) (string, *model.Point) {
	if e.Team == anchor.Team {
		if !defensiveTypes[e.Type] {
			return "", nil
		}
		if e.Counterpress {
			return model.ReactionCounterpress, e.Loc
		}
		return model.ReactionRecoveryAttempt, e.Loc
	}

	if e.Type != model.TypePass {
		return "", nil
	}
	if e.OutcomeDetail == "Out" {
		return model.ReactionOppPassOut, mirrored(e.Loc)
	}
	if e.Loc != nil && e.EndLoc != nil {
		angle := math.Atan2(e.EndLoc.Y-e.Loc.Y, e.EndLoc.X-e.Loc.X)
		if math.Abs(angle) > 3*math.Pi/4 {
			return model.ReactionOppPassBackward, mirrored(e.Loc)
		}
	}
	return "", nil
}

func mirrored(p *model.Point) *model.Point {
	if p == nil {
		return nil
	}
	m := p.Mirror()
	return &m
}

// Counterattacks finds, for every in-play possession win, the first carry,
// pass or shot by the winning team within the window, skipping carries
// shorter than three seconds, and classifies the transition. Wins with no
// qualifying action produce no record. Events must carry cumulative minutes.
func Counterattacks(events []model.Event, seconds float64) []model.Counterattack {
	var out []model.Counterattack
	s := window.NewScanner(events)

	onBall := window.Filter{SameTeam: true, Types: []model.EventType{model.TypeCarry, model.TypePass, model.TypeShot}}
	for i := 0; i < s.Len(); i++ {
		anchor := s.At(i)
		if !possessionWin(anchor) {
			continue
		}
		for _, e := range s.Forward(i, seconds, onBall) {
			if e.Type == model.TypeCarry && carrySecs(s, e.MatchID, e.Index) < trivialCarrySecs {
				continue
			}
			out = append(out, model.Counterattack{
				MatchID:     anchor.MatchID,
				WinIndex:    anchor.Index,
				Team:        anchor.Team,
				Player:      anchor.Player,
				ActionIndex: e.Index,
				ActionType:  e.Type,
				Outcome:     classifyCounter(&e),
				ElapsedSecs: (e.CumulativeMins - anchor.CumulativeMins) * 60,
				StartLoc:    e.Loc,
				EndLoc:      e.EndLoc,
			})
			break
		}
	}
	return out
}

// carrySecs measures a carry's duration as the clock gap to the next event
// in the same match, +Inf when the carry is the last event.
func carrySecs(s *window.Scanner, matchID int64, index int) float64 {
	evs := s.Events()
	for i := range evs {
		if evs[i].MatchID != matchID || evs[i].Index != index {
			continue
		}
		if i+1 < len(evs) && evs[i+1].MatchID == evs[i].MatchID {
			return (evs[i+1].CumulativeMins - evs[i].CumulativeMins) * 60
		}
		break
	}
	return math.Inf(1)
}

func classifyCounter(e *model.Event) string {
	start, end := e.Loc, e.EndLoc
	if end == nil {
		end = start
	}
	switch {
	case e.Type != model.TypeShot && start != nil && end != nil &&
		end.X <= start.X && start.X < model.FinalThirdX:
		return model.CounterMovedBackwards
	case BoxEntry(e, BoxEntryOpts{}):
		return model.CounterIntoBox
	case e.Type == model.TypePass &&
		(e.OutcomeDetail == "Incomplete" || e.OutcomeDetail == "Out" ||
			e.OutcomeDetail == "Offside" || e.OutcomeDetail == "Pass Offside"):
		return model.CounterUnsuccessful
	default:
		return model.CounterSuccess
	}
}

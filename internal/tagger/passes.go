package tagger

import (
	"fmt"
	"math"

	"github.com/jkds/go-football-metrics/internal/model"
	"github.com/jkds/go-football-metrics/internal/window"
)

// Long-ball length thresholds in pitch units (120x80 pitch): roughly 30m for
// ground passes and 20m for lofted passes.
const (
	longGroundPass = 32.8
	longLoftedPass = 21.87
)

// PassFinalOutcomes classifies what each pass with known locations led to
// within the window, among same-team follow-on events, in priority order:
// Goal, Shot, High OBV Pass, To team, Unsuccessful. A pass ending exactly on
// a pitch boundary line is always Unsuccessful. Events must carry cumulative
// minutes.
func PassFinalOutcomes(events []model.Event, seconds float64) []model.PassFinalOutcome {
	var out []model.PassFinalOutcome
	s := window.NewScanner(events)

	for i := 0; i < s.Len(); i++ {
		anchor := s.At(i)
		if anchor.Type != model.TypePass || anchor.Loc == nil || anchor.EndLoc == nil {
			continue
		}
		out = append(out, model.PassFinalOutcome{
			MatchID:   anchor.MatchID,
			PassIndex: anchor.Index,
			Player:    anchor.Player,
			Team:      anchor.Team,
			Outcome:   finalOutcome(s, i, seconds),
		})
	}
	return out
}

func finalOutcome(s *window.Scanner, i int, seconds float64) string {
	anchor := s.At(i)
	if anchor.EndLoc.OnBoundary() {
		return model.PassOutcomeUnsuccessful
	}

	following := s.Forward(i, seconds, window.Filter{SameTeam: true})
	shot, highOBV := false, false
	for _, e := range following {
		if e.Type == model.TypeShot {
			if e.OutcomeDetail == "Goal" {
				return model.PassOutcomeGoal
			}
			shot = true
		}
		if e.OBVNet >= highOBVThreshold {
			highOBV = true
		}
	}
	switch {
	case shot:
		return model.PassOutcomeShot
	case highOBV:
		return model.PassOutcomeHighOBV
	case anchor.Outcome == model.OutcomeSuccess:
		return model.PassOutcomeToTeam
	default:
		return model.PassOutcomeUnsuccessful
	}
}

// isLongBall reports whether a pass to the target qualifies for retention
// analysis: a ground pass beyond ~30m or a lofted pass beyond ~20m, played
// anywhere but directly into the box.
func isLongBall(e *model.Event, player string) bool {
	if e.Type != model.TypePass || e.PassRecipient != player {
		return false
	}
	long := (e.PassHeight == "Ground Pass" && e.PassLength > longGroundPass) ||
		((e.PassHeight == "Low Pass" || e.PassHeight == "High Pass") && e.PassLength > longLoftedPass)
	if !long {
		return false
	}
	return !BoxEntry(e, BoxEntryOpts{SuccessfulOnly: true})
}

// LongBallRetention analyses the target player's ability to retain each long
// ball played to them: the receipt, any interim carry, the next action with
// its per-type success rule, and an overall retention flag meaning the ball
// was not miscontrolled and the team still had possession ten seconds after
// receipt, or a goal came inside that window. High balls met with a
// first-time header are excluded. Events must carry cumulative minutes.
func LongBallRetention(events []model.Event, player, team string) []model.LongBallReceipt {
	var out []model.LongBallReceipt
	s := window.NewScanner(events)

	for i := 0; i < s.Len(); i++ {
		anchor := s.At(i)
		if !isLongBall(anchor, player) {
			continue
		}
		if r, ok := receiptRecord(s, i, player, team); ok {
			out = append(out, r)
		}
	}
	return out
}

func receiptRecord(s *window.Scanner, i int, player, team string) (model.LongBallReceipt, bool) {
	anchor := s.At(i)
	// 20s of following events covers the receipt and everything the
	// retention rules look at.
	following := s.Forward(i, 20, window.Filter{})

	var receipt *model.Event
	for j := range following {
		if following[j].Type == model.TypeBallReceipt && following[j].Player == player {
			receipt = &following[j]
			break
		}
	}
	if receipt == nil || receipt.Outcome != model.OutcomeSuccess {
		return model.LongBallReceipt{}, false
	}
	receiptTime := receipt.CumulativeMins

	// The first touch at the same timestamp as the receipt, and the first
	// event strictly after it.
	var immediate, next *model.Event
	for j := range following {
		e := &following[j]
		if e.Player != player {
			continue
		}
		if immediate == nil && e.CumulativeMins == receiptTime && e.Type != model.TypeBallReceipt {
			immediate = e
		}
		if next == nil && e.CumulativeMins > receiptTime {
			next = e
		}
	}

	// A high ball met with a first-time header says nothing about control.
	if immediate != nil && immediate.PassBodyPart == "Head" && anchor.PassHeight == "High Pass" {
		return model.LongBallReceipt{}, false
	}

	r := model.LongBallReceipt{
		MatchID:          anchor.MatchID,
		Period:           anchor.Period,
		PassIndex:        anchor.Index,
		Matchtime:        fmt.Sprintf("%02d:%02d", anchor.Minute, anchor.Second),
		PassLoc:          anchor.Loc,
		ReceiptLoc:       anchor.EndLoc,
		UnderPressure:    receipt.UnderPressure,
		SecsToNextAction: math.NaN(),
	}

	switch {
	case immediate == nil && next != nil:
		setNextAction(&r, next, receiptTime, nil)
	case immediate == nil:
		// Nothing followed within the window.
	case immediate.Type == model.TypeMiscontrol:
		r.Miscontrol = true
	case immediate.Type == model.TypePass, immediate.Type == model.TypeShot:
		setNextAction(&r, immediate, receiptTime, nil)
	case immediate.Type == model.TypeCarry:
		r.InterimCarry = true
		r.CarryUnderPressure = immediate.UnderPressure
		r.CarryEnd = immediate.EndLoc
		if next != nil {
			if next.Type == model.TypeMiscontrol {
				r.Miscontrol = true
				r.InterimCarry = false
				r.CarryUnderPressure = false
				r.CarryEnd = nil
			} else {
				setNextAction(&r, next, receiptTime, immediate)
			}
		}
	}

	// Retention: the team still holds possession ten seconds on, or the
	// receipt leads to a goal inside that window.
	possession := anchor.PossessionTeam
	goal := false
	for j := range following {
		e := &following[j]
		if e.CumulativeMins > receiptTime+10.0/60 {
			continue
		}
		possession = e.PossessionTeam
		if e.Team == team && e.Type == model.TypeShot && e.OutcomeDetail == "Goal" {
			goal = true
		}
	}
	r.Retained = (possession == team || goal) && !r.Miscontrol

	return r, true
}

// setNextAction fills the next-action fields using the per-type success
// rule. carry is the interim carry when there was one; a dispossession ends
// at the carry's end point.
func setNextAction(r *model.LongBallReceipt, e *model.Event, receiptTime float64, carry *model.Event) {
	switch e.Type {
	case model.TypePass, model.TypeShot, model.TypeDribble:
		r.NextActionSuccess = e.Outcome == model.OutcomeSuccess
	case model.TypeFoulWon:
		r.NextActionSuccess = true
	case model.TypeDispossessed:
		r.NextActionSuccess = false
	default:
		return
	}
	r.HasNextAction = true
	r.NextAction = e.Type
	r.SecsToNextAction = (e.CumulativeMins - receiptTime) * 60
	switch e.Type {
	case model.TypePass, model.TypeShot:
		r.NextActionEnd = e.EndLoc
	case model.TypeDispossessed:
		if carry != nil {
			r.NextActionEnd = carry.EndLoc
		}
	default:
		r.NextActionEnd = e.Loc
	}
}

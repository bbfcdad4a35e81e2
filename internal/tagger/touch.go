// Package tagger derives second-order facts from normalized event streams:
// touch classification, pre-assists, progressive actions, box entries,
// possession-loss reactions, counterattacks, pass final outcomes and
// long-ball retention, plus the per-player roll-up.
package tagger

import (
	"strings"

	"github.com/jkds/go-football-metrics/internal/model"
)

// TouchKind classifies whether and how a player touched the ball.
type TouchKind int

const (
	TouchNone TouchKind = iota
	TouchOffensive
	TouchDefensive
)

func (k TouchKind) String() string {
	switch k {
	case TouchOffensive:
		return "Offensive"
	case TouchDefensive:
		return "Defensive"
	default:
		return "None"
	}
}

// Touch is the classification of a single event. Success is only meaningful
// when Kind is not TouchNone; InBox and FinalThird derive from the event's
// start location.
type Touch struct {
	Kind       TouchKind
	Success    bool
	InBox      bool
	FinalThird bool
}

var passRestarts = map[string]bool{
	"Corner":    true,
	"Free Kick": true,
	"Goal Kick": true,
	"Kick Off":  true,
	"Throw-in":  true,
	"Set Piece": true, // generic restart marker from providers without named sub-types
}

// InPlay reports whether an event arose in open play rather than directly
// from a dead-ball restart. Only Pass, Shot and Goal Keeper events carry
// restart sub-types; every other type is inherently in play.
func InPlay(e *model.Event) bool {
	switch e.Type {
	case model.TypePass:
		return !passRestarts[e.SubType]
	case model.TypeShot:
		return e.SubType == "" || e.SubType == "Open Play"
	case model.TypeGoalKeeper:
		return !strings.HasPrefix(e.SubType, "Penalty")
	}
	return true
}

// ClassifyTouch determines whether an event involves the player touching the
// ball, and whether the touch is offensive or defensive and successful. The
// dispatch is an exhaustive table over (type, sub-type, outcome); unknown
// combinations classify to TouchNone. With inPlayOnly set, restart touches
// classify to TouchNone as well.
func ClassifyTouch(e *model.Event, inPlayOnly bool) Touch {
	var t Touch
	setPiece := false

	switch {
	case e.Type == model.TypeFiftyFifty:
		if e.Team == e.PossessionTeam {
			t.Kind = TouchOffensive
		} else {
			t.Kind = TouchDefensive
		}
		t.Success = e.Outcome == model.OutcomeSuccess

	case e.Type == model.TypeBallReceipt && e.Outcome == model.OutcomeSuccess:
		t.Kind = TouchOffensive
		t.Success = true

	case e.Type == model.TypeBallRecovery:
		if e.Offensive {
			t.Kind = TouchOffensive
		} else {
			t.Kind = TouchDefensive
		}
		t.Success = e.Outcome == model.OutcomeSuccess

	case e.Type == model.TypeBlock:
		if e.Offensive {
			t.Kind = TouchOffensive
		} else {
			t.Kind = TouchDefensive
		}
		t.Success = true

	case e.Type == model.TypeCarry:
		t.Kind = TouchOffensive
		t.Success = true

	case e.Type == model.TypeClearance:
		t.Kind = TouchDefensive
		t.Success = true

	case e.Type == model.TypeDribble && !e.DribbleNoTouch:
		t.Kind = TouchOffensive
		t.Success = e.OutcomeDetail == "Complete"

	case e.Type == model.TypeDuel && e.SubType == "Tackle":
		t.Kind = TouchDefensive
		t.Success = e.Outcome == model.OutcomeSuccess

	case e.Type == model.TypeInterception && e.OutcomeDetail != "Lost":
		t.Kind = TouchDefensive
		t.Success = e.Outcome == model.OutcomeSuccess

	case e.Type == model.TypeMiscontrol:
		t.Kind = TouchOffensive

	case e.Type == model.TypePass && e.PassBodyPart != "No Touch":
		t.Kind = TouchOffensive
		setPiece = passRestarts[e.SubType]
		t.Success = e.Outcome == model.OutcomeSuccess

	case e.Type == model.TypeShot:
		t.Kind = TouchOffensive
		setPiece = e.SubType != "" && e.SubType != "Open Play"
		t.Success = e.Outcome == model.OutcomeSuccess
	}

	if inPlayOnly && setPiece {
		return Touch{}
	}

	if e.Loc != nil {
		t.InBox = e.Loc.InBox()
		t.FinalThird = e.Loc.X >= model.FinalThirdX
	}
	return t
}

// Package provider decodes raw provider JSON into the canonical event model.
// Each loader converts coordinates, type names and outcome conventions at
// this boundary so the core only ever sees one schema.
package provider

import (
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/jkds/go-football-metrics/internal/model"
)

// Outcome paths per event type in the StatsBomb schema. Types not listed
// either have no outcome or encode it as a flag.
var sbOutcomePaths = map[model.EventType]string{
	model.TypePass:         "pass.outcome.name",
	model.TypeShot:         "shot.outcome.name",
	model.TypeDribble:      "dribble.outcome.name",
	model.TypeDuel:         "duel.outcome.name",
	model.TypeInterception: "interception.outcome.name",
	model.TypeBallReceipt:  "ball_receipt.outcome.name",
	model.TypeFiftyFifty:   "50_50.outcome.name",
	model.TypeGoalKeeper:   "goalkeeper.outcome.name",
	model.TypeClearance:    "clearance.outcome.name",
}

var sbSubTypePaths = map[model.EventType]string{
	model.TypePass:       "pass.type.name",
	model.TypeShot:       "shot.type.name",
	model.TypeDuel:       "duel.type.name",
	model.TypeGoalKeeper: "goalkeeper.type.name",
}

// LoadStatsBombEvents decodes a StatsBomb events document (a JSON array of
// event objects) into canonical events for one match. Unknown event types
// are kept with TypeUnknown so the stream's ordering survives intact.
func LoadStatsBombEvents(r io.Reader, matchID int64) ([]model.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("events document is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("events document is not a JSON array")
	}

	var events []model.Event
	doc.ForEach(func(_, g gjson.Result) bool {
		t := model.ParseEventType(g.Get("type.name").String())

		e := model.Event{
			MatchID:        matchID,
			ID:             g.Get("id").String(),
			Index:          int(g.Get("index").Int()),
			Period:         int(g.Get("period").Int()),
			Minute:         int(g.Get("minute").Int()),
			Second:         int(g.Get("second").Int()),
			Type:           t,
			Team:           g.Get("team.name").String(),
			Player:         g.Get("player.name").String(),
			Position:       g.Get("position.name").String(),
			PossessionID:   int(g.Get("possession").Int()),
			PossessionTeam: g.Get("possession_team.name").String(),
			UnderPressure:  g.Get("under_pressure").Bool(),
			Counterpress:   g.Get("counterpress").Bool(),
			OBVNet:         g.Get("obv_total_net").Float(),
			Loc:            sbPoint(g.Get("location")),
		}
		if p, ok := sbSubTypePaths[t]; ok {
			e.SubType = g.Get(p).String()
		}
		if p, ok := sbOutcomePaths[t]; ok {
			e.OutcomeDetail = g.Get(p).String()
		}

		switch t {
		case model.TypePass:
			e.EndLoc = sbPoint(g.Get("pass.end_location"))
			e.PassRecipient = g.Get("pass.recipient.name").String()
			e.PassHeight = g.Get("pass.height.name").String()
			e.PassLength = g.Get("pass.length").Float()
			e.PassBodyPart = g.Get("pass.body_part.name").String()
			e.PassGoalAssist = g.Get("pass.goal_assist").Bool()
			e.PassShotAssist = g.Get("pass.shot_assist").Bool()
			e.AssistedShotID = g.Get("pass.assisted_shot_id").String()
		case model.TypeCarry:
			e.EndLoc = sbPoint(g.Get("carry.end_location"))
		case model.TypeShot:
			e.EndLoc = sbPoint(g.Get("shot.end_location"))
			e.ShotXG = g.Get("shot.statsbomb_xg").Float()
		case model.TypeDribble:
			e.DribbleNoTouch = g.Get("dribble.no_touch").Bool()
		case model.TypeBallRecovery:
			e.Offensive = g.Get("ball_recovery.offensive").Bool()
			if g.Get("ball_recovery.recovery_failure").Bool() {
				e.OutcomeDetail = "Recovery Failure"
			}
		case model.TypeBlock:
			e.Offensive = g.Get("block.offensive").Bool()
		case model.TypeSubstitution:
			e.SubReplacement = g.Get("substitution.replacement.name").String()
		}

		e.Outcome = model.ResolveOutcome(e.Type, e.OutcomeDetail)
		events = append(events, e)
		return true
	})
	return events, nil
}

// sbPoint reads a StatsBomb [x, y] (or [x, y, z]) location array, nil when
// absent or malformed.
func sbPoint(g gjson.Result) *model.Point {
	arr := g.Array()
	if len(arr) < 2 {
		return nil
	}
	return &model.Point{X: arr[0].Float(), Y: arr[1].Float()}
}

// LoadStatsBombLineups decodes a StatsBomb lineups document: an array of two
// team objects each carrying a lineup array. Minutes are filled later from
// the event stream.
func LoadStatsBombLineups(r io.Reader, matchID int64) ([]model.Lineup, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading lineups: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("lineups document is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("lineups document is not a JSON array")
	}

	var lineups []model.Lineup
	doc.ForEach(func(_, team gjson.Result) bool {
		teamName := team.Get("team_name").String()
		team.Get("lineup").ForEach(func(_, p gjson.Result) bool {
			l := model.Lineup{
				MatchID:  matchID,
				Player:   p.Get("player_name").String(),
				Team:     teamName,
				Position: p.Get("positions.0.position").String(),
				Starter:  p.Get("positions.0.start_reason").String() == "Starting XI",
			}
			lineups = append(lineups, l)
			return true
		})
		return true
	})
	return lineups, nil
}

package provider

import (
	"strings"
	"testing"

	"github.com/jkds/go-football-metrics/internal/model"
)

const sbEvents = `[
	{
		"id": "a1", "index": 1, "period": 1, "minute": 0, "second": 0,
		"type": {"name": "Pass"}, "possession": 2, "possession_team": {"name": "Home FC"},
		"team": {"name": "Home FC"}, "player": {"name": "Alice"}, "position": {"name": "Center Midfield"},
		"location": [40.0, 35.0],
		"pass": {
			"recipient": {"name": "Bea"}, "length": 28.5, "height": {"name": "Ground Pass"},
			"end_location": [65.0, 40.0], "body_part": {"name": "Right Foot"},
			"type": {"name": "Free Kick"}, "shot_assist": true, "assisted_shot_id": "s9"
		},
		"obv_total_net": 0.012
	},
	{
		"id": "s9", "index": 2, "period": 1, "minute": 0, "second": 4,
		"type": {"name": "Shot"}, "possession": 2, "possession_team": {"name": "Home FC"},
		"team": {"name": "Home FC"}, "player": {"name": "Bea"},
		"location": [110.0, 38.0], "under_pressure": true,
		"shot": {"statsbomb_xg": 0.31, "type": {"name": "Open Play"}, "outcome": {"name": "Saved"}, "end_location": [119.5, 39.0, 1.2]}
	},
	{
		"id": "d3", "index": 3, "period": 2, "minute": 50, "second": 10,
		"type": {"name": "Duel"}, "team": {"name": "Away FC"}, "player": {"name": "Cara"},
		"location": [60.0, 20.0], "counterpress": true,
		"duel": {"type": {"name": "Tackle"}, "outcome": {"name": "Won"}}
	},
	{
		"id": "r4", "index": 4, "period": 2, "minute": 60, "second": 0,
		"type": {"name": "Ball Recovery"}, "team": {"name": "Away FC"}, "player": {"name": "Cara"},
		"location": [30.0, 20.0],
		"ball_recovery": {"recovery_failure": true}
	},
	{
		"id": "x5", "index": 5, "period": 2, "minute": 70, "second": 0,
		"type": {"name": "Starting XI"}, "team": {"name": "Away FC"}
	}
]`

func TestLoadStatsBombEvents(t *testing.T) {
	events, err := LoadStatsBombEvents(strings.NewReader(sbEvents), 77)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}

	pass := events[0]
	if pass.Type != model.TypePass || pass.SubType != "Free Kick" {
		t.Errorf("pass type/sub-type = %v/%q", pass.Type, pass.SubType)
	}
	if pass.Outcome != model.OutcomeSuccess || pass.OutcomeDetail != "" {
		t.Errorf("absent pass outcome must resolve to success: %v %q", pass.Outcome, pass.OutcomeDetail)
	}
	if pass.MatchID != 77 || pass.PossessionID != 2 || pass.PossessionTeam != "Home FC" {
		t.Errorf("pass identity fields: %+v", pass)
	}
	if pass.PassRecipient != "Bea" || pass.PassLength != 28.5 || pass.PassHeight != "Ground Pass" {
		t.Errorf("pass sub-fields: %+v", pass)
	}
	if !pass.PassShotAssist || pass.AssistedShotID != "s9" || pass.OBVNet != 0.012 {
		t.Errorf("pass assist fields: %+v", pass)
	}
	if pass.Loc == nil || *pass.Loc != (model.Point{X: 40, Y: 35}) ||
		pass.EndLoc == nil || *pass.EndLoc != (model.Point{X: 65, Y: 40}) {
		t.Errorf("pass locations: %+v %+v", pass.Loc, pass.EndLoc)
	}

	shot := events[1]
	if shot.ShotXG != 0.31 || shot.OutcomeDetail != "Saved" || shot.Outcome != model.OutcomeSuccess {
		t.Errorf("shot fields: %+v", shot)
	}
	if !shot.UnderPressure {
		t.Error("under_pressure flag lost")
	}
	if shot.EndLoc == nil || *shot.EndLoc != (model.Point{X: 119.5, Y: 39}) {
		t.Errorf("3D shot end location not truncated: %+v", shot.EndLoc)
	}

	duel := events[2]
	if duel.SubType != "Tackle" || duel.Outcome != model.OutcomeSuccess || !duel.Counterpress {
		t.Errorf("duel fields: %+v", duel)
	}

	recovery := events[3]
	if recovery.OutcomeDetail != "Recovery Failure" || recovery.Outcome != model.OutcomeFailure {
		t.Errorf("failed recovery fields: %+v", recovery)
	}

	if events[4].Type != model.TypeUnknown {
		t.Errorf("unlisted type mapped to %v, want Unknown", events[4].Type)
	}
}

func TestLoadStatsBombEventsRejectsBadInput(t *testing.T) {
	if _, err := LoadStatsBombEvents(strings.NewReader("not json"), 1); err == nil {
		t.Error("invalid JSON accepted")
	}
	if _, err := LoadStatsBombEvents(strings.NewReader(`{"events": []}`), 1); err == nil {
		t.Error("non-array document accepted")
	}
}

const sbLineups = `[
	{
		"team_id": 1, "team_name": "Home FC",
		"lineup": [
			{"player_name": "Alice", "positions": [{"position": "Center Midfield", "start_reason": "Starting XI"}]},
			{"player_name": "Dan", "positions": [{"position": "Center Forward", "start_reason": "Substitution - On (Tactical)"}]},
			{"player_name": "Eve", "positions": []}
		]
	},
	{
		"team_id": 2, "team_name": "Away FC",
		"lineup": [
			{"player_name": "Cara", "positions": [{"position": "Left Back", "start_reason": "Starting XI"}]}
		]
	}
]`

func TestLoadStatsBombLineups(t *testing.T) {
	lineups, err := LoadStatsBombLineups(strings.NewReader(sbLineups), 77)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lineups) != 4 {
		t.Fatalf("got %d lineup rows, want 4", len(lineups))
	}
	if lineups[0].Player != "Alice" || !lineups[0].Starter || lineups[0].Position != "Center Midfield" {
		t.Errorf("starter row: %+v", lineups[0])
	}
	if lineups[1].Starter {
		t.Error("substitute marked as starter")
	}
	if lineups[2].Position != "" || lineups[2].Starter {
		t.Errorf("unused substitute row: %+v", lineups[2])
	}
	if lineups[3].Team != "Away FC" {
		t.Errorf("team not carried: %+v", lineups[3])
	}
}

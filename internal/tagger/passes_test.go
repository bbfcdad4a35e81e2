package tagger

import (
	"math"
	"testing"

	"github.com/jkds/go-football-metrics/internal/model"
)

func TestPassFinalOutcomePriority(t *testing.T) {
	// A shot and a goal both inside the window: Goal outranks Shot.
	events := seq(
		model.Event{Type: model.TypePass, Team: "A", Player: "passer", Outcome: model.OutcomeSuccess, Loc: pt(60, 40), EndLoc: pt(80, 40), CumulativeMins: 10},
		model.Event{Type: model.TypeShot, Team: "A", OutcomeDetail: "Saved", CumulativeMins: 10 + 2.0/60},
		model.Event{Type: model.TypeShot, Team: "A", OutcomeDetail: "Goal", CumulativeMins: 10 + 4.0/60},
	)
	got := PassFinalOutcomes(events, DefaultPassOutcomeWindow)
	if len(got) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(got))
	}
	if got[0].Outcome != model.PassOutcomeGoal {
		t.Fatalf("outcome = %q, want Goal (priority over Shot)", got[0].Outcome)
	}
}

func TestPassFinalOutcomeLadder(t *testing.T) {
	base := model.Event{Type: model.TypePass, Team: "A", Player: "passer", Outcome: model.OutcomeSuccess, Loc: pt(60, 40), EndLoc: pt(80, 40), CumulativeMins: 10}
	cases := []struct {
		name      string
		following []model.Event
		want      string
	}{
		{"shot without goal", []model.Event{{Type: model.TypeShot, Team: "A", OutcomeDetail: "Saved", CumulativeMins: 10 + 2.0/60}}, model.PassOutcomeShot},
		{"high obv follow-on", []model.Event{{Type: model.TypeCarry, Team: "A", OBVNet: 0.006, CumulativeMins: 10 + 2.0/60}}, model.PassOutcomeHighOBV},
		{"low obv completed pass", []model.Event{{Type: model.TypeCarry, Team: "A", OBVNet: 0.005, CumulativeMins: 10 + 2.0/60}}, model.PassOutcomeToTeam},
		{"opposition shot ignored", []model.Event{{Type: model.TypeShot, Team: "B", OutcomeDetail: "Goal", CumulativeMins: 10 + 2.0/60}}, model.PassOutcomeToTeam},
		{"shot outside window", []model.Event{{Type: model.TypeShot, Team: "A", OutcomeDetail: "Goal", CumulativeMins: 10 + 6.0/60}}, model.PassOutcomeToTeam},
		{"nothing follows", nil, model.PassOutcomeToTeam},
	}
	for _, c := range cases {
		events := seq(append([]model.Event{base}, c.following...)...)
		got := PassFinalOutcomes(events, DefaultPassOutcomeWindow)
		if len(got) != 1 || got[0].Outcome != c.want {
			t.Errorf("%s: got %+v, want %q", c.name, got, c.want)
		}
	}
}

func TestPassFinalOutcomeWindowWidth(t *testing.T) {
	// A goal ten seconds after the pass: inside a 30s window, outside 5s.
	events := seq(
		model.Event{Type: model.TypePass, Team: "A", Player: "passer", Outcome: model.OutcomeSuccess, Loc: pt(60, 40), EndLoc: pt(80, 40), CumulativeMins: 10},
		model.Event{Type: model.TypeShot, Team: "A", OutcomeDetail: "Goal", CumulativeMins: 10 + 10.0/60},
	)

	got := PassFinalOutcomes(events, 30)
	if len(got) != 1 || got[0].Outcome != model.PassOutcomeGoal {
		t.Fatalf("window=30s: got %+v, want Goal", got)
	}
	got = PassFinalOutcomes(events, 5)
	if len(got) != 1 || got[0].Outcome != model.PassOutcomeToTeam {
		t.Fatalf("window=5s: got %+v, want To team", got)
	}
}

func TestPassFinalOutcomeBoundaryLine(t *testing.T) {
	// Ends on the touchline: always Unsuccessful, even with a goal after.
	events := seq(
		model.Event{Type: model.TypePass, Team: "A", Player: "passer", Outcome: model.OutcomeSuccess, Loc: pt(60, 40), EndLoc: pt(80, 0), CumulativeMins: 10},
		model.Event{Type: model.TypeShot, Team: "A", OutcomeDetail: "Goal", CumulativeMins: 10 + 2.0/60},
	)
	got := PassFinalOutcomes(events, DefaultPassOutcomeWindow)
	if len(got) != 1 || got[0].Outcome != model.PassOutcomeUnsuccessful {
		t.Fatalf("got %+v, want Unsuccessful for a boundary-line pass", got)
	}
}

func TestPassFinalOutcomeUnsuccessful(t *testing.T) {
	events := seq(
		model.Event{Type: model.TypePass, Team: "A", OutcomeDetail: "Incomplete", Outcome: model.OutcomeFailure, Loc: pt(60, 40), EndLoc: pt(80, 40), CumulativeMins: 10},
	)
	got := PassFinalOutcomes(events, DefaultPassOutcomeWindow)
	if len(got) != 1 || got[0].Outcome != model.PassOutcomeUnsuccessful {
		t.Fatalf("got %+v, want Unsuccessful", got)
	}
}

// buildLongBall builds a 35-unit ground pass to the target at minute 50 plus
// the receipt and whatever follows.
func buildLongBall(following ...model.Event) []model.Event {
	events := []model.Event{
		{Type: model.TypePass, Team: "A", Player: "launcher", PassRecipient: "target",
			PassHeight: "Ground Pass", PassLength: 35, Outcome: model.OutcomeSuccess,
			Loc: pt(30, 40), EndLoc: pt(65, 40), PossessionTeam: "A", Minute: 50, CumulativeMins: 50},
		{Type: model.TypeBallReceipt, Team: "A", Player: "target", Outcome: model.OutcomeSuccess,
			Loc: pt(65, 40), PossessionTeam: "A", CumulativeMins: 50 + 1.0/60},
	}
	return seq(append(events, following...)...)
}

func TestLongBallRetentionCarryThenPass(t *testing.T) {
	receiptTime := 50 + 1.0/60
	events := buildLongBall(
		model.Event{Type: model.TypeCarry, Team: "A", Player: "target", UnderPressure: true,
			Loc: pt(65, 40), EndLoc: pt(70, 40), PossessionTeam: "A", CumulativeMins: receiptTime},
		model.Event{Type: model.TypePass, Team: "A", Player: "target", Outcome: model.OutcomeSuccess,
			Loc: pt(70, 40), EndLoc: pt(80, 40), PossessionTeam: "A", CumulativeMins: receiptTime + 4.0/60},
	)
	got := LongBallRetention(events, "target", "A")
	if len(got) != 1 {
		t.Fatalf("got %d receipts, want 1", len(got))
	}
	r := got[0]
	if !r.InterimCarry || !r.CarryUnderPressure || *r.CarryEnd != (model.Point{X: 70, Y: 40}) {
		t.Errorf("interim carry not recorded: %+v", r)
	}
	if !r.HasNextAction || r.NextAction != model.TypePass || !r.NextActionSuccess {
		t.Errorf("next action not recorded: %+v", r)
	}
	if math.Abs(r.SecsToNextAction-4) > 1e-9 {
		t.Errorf("seconds to next action = %v, want 4", r.SecsToNextAction)
	}
	if !r.Retained {
		t.Error("possession kept and no miscontrol: receipt should be retained")
	}
	if r.Matchtime != "50:00" {
		t.Errorf("matchtime = %q, want 50:00", r.Matchtime)
	}
}

func TestLongBallRetentionMiscontrol(t *testing.T) {
	events := buildLongBall(
		model.Event{Type: model.TypeMiscontrol, Team: "A", Player: "target",
			Loc: pt(65, 40), PossessionTeam: "B", CumulativeMins: 50 + 1.0/60},
	)
	got := LongBallRetention(events, "target", "A")
	if len(got) != 1 {
		t.Fatalf("got %d receipts, want 1", len(got))
	}
	if !got[0].Miscontrol || got[0].Retained {
		t.Errorf("miscontrol must fail retention: %+v", got[0])
	}
	if got[0].HasNextAction {
		t.Errorf("miscontrol should suppress next-action recording: %+v", got[0])
	}
}

func TestLongBallRetentionPossessionLost(t *testing.T) {
	events := buildLongBall(
		model.Event{Type: model.TypePass, Team: "A", Player: "target", OutcomeDetail: "Incomplete", Outcome: model.OutcomeFailure,
			Loc: pt(65, 40), EndLoc: pt(80, 40), PossessionTeam: "A", CumulativeMins: 50 + 3.0/60},
		model.Event{Type: model.TypePass, Team: "B", Outcome: model.OutcomeSuccess,
			Loc: pt(40, 40), EndLoc: pt(50, 40), PossessionTeam: "B", CumulativeMins: 50 + 8.0/60},
	)
	got := LongBallRetention(events, "target", "A")
	if len(got) != 1 {
		t.Fatalf("got %d receipts, want 1", len(got))
	}
	if got[0].Retained {
		t.Error("possession lost within 10s: receipt must not be retained")
	}
	if got[0].NextActionSuccess {
		t.Error("incomplete pass recorded as successful next action")
	}
}

func TestLongBallRetentionGoalDespitePossessionFlip(t *testing.T) {
	// Flicked on for an immediate goal: the kickoff hands possession to the
	// opposition inside the 10-second probe, but a goal still retains.
	receiptTime := 50 + 1.0/60
	events := buildLongBall(
		model.Event{Type: model.TypePass, Team: "A", Player: "target", Outcome: model.OutcomeSuccess,
			Loc: pt(65, 40), EndLoc: pt(100, 40), PossessionTeam: "A", CumulativeMins: receiptTime + 2.0/60},
		model.Event{Type: model.TypeShot, Team: "A", Player: "striker", OutcomeDetail: "Goal", Outcome: model.OutcomeSuccess,
			Loc: pt(100, 40), PossessionTeam: "A", CumulativeMins: receiptTime + 4.0/60},
		model.Event{Type: model.TypePass, Team: "B", Outcome: model.OutcomeSuccess,
			Loc: pt(60, 40), EndLoc: pt(55, 40), PossessionTeam: "B", CumulativeMins: receiptTime + 8.0/60},
	)
	got := LongBallRetention(events, "target", "A")
	if len(got) != 1 {
		t.Fatalf("got %d receipts, want 1", len(got))
	}
	if !got[0].Retained {
		t.Error("goal within 10s of receipt must count as retained")
	}
}

func TestLongBallQualification(t *testing.T) {
	cases := []struct {
		name string
		e    model.Event
		want bool
	}{
		{"long ground pass", model.Event{Type: model.TypePass, PassRecipient: "target", PassHeight: "Ground Pass", PassLength: 32.9, Outcome: model.OutcomeSuccess, Loc: pt(30, 40), EndLoc: pt(60, 40)}, true},
		{"short ground pass", model.Event{Type: model.TypePass, PassRecipient: "target", PassHeight: "Ground Pass", PassLength: 32.8, Outcome: model.OutcomeSuccess, Loc: pt(30, 40), EndLoc: pt(60, 40)}, false},
		{"long high pass", model.Event{Type: model.TypePass, PassRecipient: "target", PassHeight: "High Pass", PassLength: 22, Outcome: model.OutcomeSuccess, Loc: pt(30, 40), EndLoc: pt(50, 40)}, true},
		{"short low pass", model.Event{Type: model.TypePass, PassRecipient: "target", PassHeight: "Low Pass", PassLength: 21.87, Outcome: model.OutcomeSuccess, Loc: pt(30, 40), EndLoc: pt(50, 40)}, false},
		{"into the box excluded", model.Event{Type: model.TypePass, PassRecipient: "target", PassHeight: "Ground Pass", PassLength: 40, Outcome: model.OutcomeSuccess, Loc: pt(70, 40), EndLoc: pt(110, 40)}, false},
		{"other recipient", model.Event{Type: model.TypePass, PassRecipient: "someone", PassHeight: "Ground Pass", PassLength: 40, Outcome: model.OutcomeSuccess, Loc: pt(30, 40), EndLoc: pt(70, 40)}, false},
	}
	for _, c := range cases {
		if got := isLongBall(&c.e, "target"); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestLongBallFirstTimeHeaderExcluded(t *testing.T) {
	events := seq(
		model.Event{Type: model.TypePass, Team: "A", Player: "launcher", PassRecipient: "target",
			PassHeight: "High Pass", PassLength: 30, Outcome: model.OutcomeSuccess,
			Loc: pt(30, 40), EndLoc: pt(60, 40), PossessionTeam: "A", CumulativeMins: 50},
		model.Event{Type: model.TypeBallReceipt, Team: "A", Player: "target", Outcome: model.OutcomeSuccess,
			Loc: pt(60, 40), PossessionTeam: "A", CumulativeMins: 50 + 1.0/60},
		model.Event{Type: model.TypePass, Team: "A", Player: "target", PassBodyPart: "Head", Outcome: model.OutcomeSuccess,
			Loc: pt(60, 40), EndLoc: pt(55, 40), PossessionTeam: "A", CumulativeMins: 50 + 1.0/60},
	)
	if got := LongBallRetention(events, "target", "A"); len(got) != 0 {
		t.Fatalf("first-time header from a high ball must be excluded: %+v", got)
	}
}

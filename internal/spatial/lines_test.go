package spatial

import (
	"math"
	"testing"

	"github.com/jkds/go-football-metrics/internal/model"
)

func defEvent(t model.EventType, team, position string, x, y float64) model.Event {
	return model.Event{MatchID: 1, Type: t, Team: team, Position: position, Loc: &model.Point{X: x, Y: y}}
}

func TestDefensiveLines(t *testing.T) {
	events := []model.Event{
		// Centre-back clearances define the line height.
		defEvent(model.TypeClearance, "A", "Center Back", 30, 40),
		defEvent(model.TypeInterception, "A", "Center Back", 34, 35),
		defEvent(model.TypeClearance, "A", "Center Back", 32, 45),
		// Opposition offside at x=85: line held at 120-85=35.
		defEvent(model.TypeOffside, "B", "Center Forward", 85, 40),
		// Pressures.
		defEvent(model.TypePressure, "A", "Center Midfield", 60, 40),
		defEvent(model.TypePressure, "A", "Center Midfield", 64, 30),
		// Wide defensive actions.
		defEvent(model.TypeBallRecovery, "A", "Left Back", 40, 70),
		defEvent(model.TypeDuel, "A", "Left Wing Back", 42, 66),
		defEvent(model.TypeBlock, "A", "Right Back", 40, 12),
		// Offensive events never count.
		defEvent(model.TypeCarry, "A", "Center Back", 90, 40),
		defEvent(model.TypePass, "A", "Left Back", 90, 70),
	}

	lines := DefensiveLines(events, "A", Include{Percent: 100})
	// Heights 30, 34, 32, 35: median 33.
	if lines.DefensiveHeight != 33 {
		t.Errorf("defensive height = %v, want 33", lines.DefensiveHeight)
	}
	if lines.PressureHeight != 62 {
		t.Errorf("pressure height = %v, want 62", lines.PressureHeight)
	}
	if lines.LeftWidth != 68 {
		t.Errorf("left width = %v, want 68", lines.LeftWidth)
	}
	if lines.RightWidth != 12 {
		t.Errorf("right width = %v, want 12", lines.RightWidth)
	}
}

func TestDefensiveLinesPassOffside(t *testing.T) {
	e := model.Event{
		MatchID: 1, Type: model.TypePass, Team: "B", OutcomeDetail: "Pass Offside",
		Loc: &model.Point{X: 60, Y: 40}, EndLoc: &model.Point{X: 90, Y: 40},
	}
	lines := DefensiveLines([]model.Event{e}, "A", Include{Percent: 100})
	if lines.DefensiveHeight != 30 {
		t.Errorf("defensive height = %v, want 120-90=30", lines.DefensiveHeight)
	}
}

func TestDefensiveLinesStdTrim(t *testing.T) {
	events := []model.Event{
		defEvent(model.TypeClearance, "A", "Center Back", 30, 40),
		defEvent(model.TypeClearance, "A", "Center Back", 31, 40),
		defEvent(model.TypeClearance, "A", "Center Back", 32, 40),
		defEvent(model.TypeClearance, "A", "Center Back", 29, 40),
		// Far outlier up the pitch.
		defEvent(model.TypeClearance, "A", "Center Back", 110, 40),
	}
	lines := DefensiveLines(events, "A", Include{Stds: 1})
	if lines.DefensiveHeight > 33 {
		t.Errorf("outlier not trimmed: height = %v", lines.DefensiveHeight)
	}
}

func TestDefensiveLinesEmpty(t *testing.T) {
	lines := DefensiveLines(nil, "A", Include{Stds: 1})
	if !math.IsNaN(lines.DefensiveHeight) || !math.IsNaN(lines.PressureHeight) ||
		!math.IsNaN(lines.LeftWidth) || !math.IsNaN(lines.RightWidth) {
		t.Fatalf("no events must yield NaN lines: %+v", lines)
	}
}

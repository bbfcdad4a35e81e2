package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jkds/go-football-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleMatch(id int64) model.MatchSummary {
	return model.MatchSummary{
		MatchID:   id,
		Provider:  "statsbomb",
		MatchDate: "2026-03-01",
		HomeTeam:  "Home FC",
		AwayTeam:  "Away FC",
		HomeScore: 2,
		AwayScore: 1,
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "metrics.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("parent dir not created: %v", err)
	}
}

func TestMatchInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(sampleMatch(7)); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	exists, err := db.MatchExists(7)
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}

	exists2, _ := db.MatchExists(8)
	if exists2 {
		t.Error("expected unknown match to not exist")
	}

	// Second insert should not error (INSERT OR REPLACE).
	if err := db.InsertMatch(sampleMatch(7)); err != nil {
		t.Errorf("second InsertMatch should succeed: %v", err)
	}
}

func TestListMatchesOrder(t *testing.T) {
	db := openMemDB(t)

	older := sampleMatch(1)
	older.MatchDate = "2026-01-10"
	newer := sampleMatch(2)
	newer.MatchDate = "2026-02-10"
	for _, m := range []model.MatchSummary{older, newer} {
		if err := db.InsertMatch(m); err != nil {
			t.Fatalf("InsertMatch: %v", err)
		}
	}

	list, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(list))
	}
	// Ordered by match_date DESC.
	if list[0].MatchID != 2 {
		t.Errorf("expected match 2 first (newest), got %d", list[0].MatchID)
	}
}

func TestGetMatchUnknown(t *testing.T) {
	db := openMemDB(t)

	m, err := db.GetMatch(99)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if m != nil {
		t.Error("expected nil for unknown match id")
	}
}

func TestEventsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(sampleMatch(1))

	loc := &model.Point{X: 60, Y: 40}
	end := &model.Point{X: 102, Y: 40}
	events := []model.Event{
		{
			MatchID: 1, ID: "e1", Index: 0, Period: 1, Minute: 12, Second: 30,
			CumulativeMins: 12.5, Type: model.TypePass, SubType: "Corner",
			Outcome: model.OutcomeSuccess, Team: "Home FC", Player: "Alice",
			PossessionID: 3, PossessionTeam: "Home FC",
			Loc: loc, EndLoc: end,
			PassRecipient: "Bea", PassHeight: "Ground Pass", PassLength: 42.0,
			PassGoalAssist: true, UnderPressure: true, OBVNet: 0.012,
		},
		{
			MatchID: 1, ID: "e2", Index: 1, Period: 1, Minute: 12, Second: 33,
			CumulativeMins: 12.55, Type: model.TypeShot, SubType: "Open Play",
			Outcome: model.OutcomeSuccess, OutcomeDetail: "Goal",
			Team: "Home FC", Player: "Bea", Loc: end, ShotXG: 0.31,
		},
	}

	if err := db.InsertEvents(events); err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}

	got, err := db.GetEvents(1)
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}

	pass := got[0]
	if pass.Type != model.TypePass || pass.SubType != "Corner" {
		t.Errorf("pass type round trip: %+v", pass)
	}
	if pass.Loc == nil || *pass.Loc != *loc {
		t.Errorf("pass location round trip: %+v", pass.Loc)
	}
	if pass.EndLoc == nil || *pass.EndLoc != *end {
		t.Errorf("pass end location round trip: %+v", pass.EndLoc)
	}
	if pass.PassRecipient != "Bea" || !pass.PassGoalAssist || !pass.UnderPressure {
		t.Errorf("pass sub-fields round trip: %+v", pass)
	}
	if pass.CumulativeMins != 12.5 || pass.OBVNet != 0.012 {
		t.Errorf("pass numeric fields round trip: %+v", pass)
	}

	shot := got[1]
	if shot.Type != model.TypeShot || shot.OutcomeDetail != "Goal" || shot.ShotXG != 0.31 {
		t.Errorf("shot round trip: %+v", shot)
	}
	if shot.EndLoc != nil {
		t.Error("absent end location should round trip as nil")
	}
}

func TestLineupsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(sampleMatch(1))

	lineups := []model.Lineup{
		{MatchID: 1, Player: "Alice", Team: "Home FC", Position: "Center Back", Starter: true, TimeOn: 0, TimeOff: 94.2, MinutesPlayed: 94.2},
		{MatchID: 1, Player: "Cara", Team: "Away FC", Position: "Striker", Starter: false, TimeOn: 60, TimeOff: 94.2, MinutesPlayed: 34.2},
	}
	if err := db.InsertLineups(lineups); err != nil {
		t.Fatalf("InsertLineups: %v", err)
	}

	got, err := db.GetLineups(1)
	if err != nil {
		t.Fatalf("GetLineups: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lineups, got %d", len(got))
	}
	// Ordered by team then player: Away FC first.
	if got[0].Player != "Cara" || got[0].Starter {
		t.Errorf("substitute round trip: %+v", got[0])
	}
	if got[1].Player != "Alice" || !got[1].Starter || got[1].MinutesPlayed != 94.2 {
		t.Errorf("starter round trip: %+v", got[1])
	}
}

func TestPlayerMatchStatsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(sampleMatch(1))

	stats := []model.PlayerMatchStats{
		{
			MatchID: 1, Player: "Alice", Team: "Home FC", Position: "Center Midfield",
			MinutesPlayed: 90, Passes: 60, PassesCompleted: 52,
			ProgressivePasses: 8, ProgressiveCarries: 3, BoxEntries: 4,
			PreAssists: 1, Assists: 1, XGAssisted: 0.4,
			Shots: 2, XG: 0.15, Goals: 0,
			Touches: 75, OffensiveTouches: 60, DefensiveTouches: 15,
			BoxTouches: 5, FinalThirdTouches: 30,
			Counterpressures: 6, PossessionsWon: 4,
		},
		{
			MatchID: 1, Player: "Cara", Team: "Away FC",
			MinutesPlayed: 90, Shots: 3, XG: 0.9, Goals: 1,
		},
	}
	if err := db.InsertPlayerMatchStats(stats); err != nil {
		t.Fatalf("InsertPlayerMatchStats: %v", err)
	}

	got, err := db.GetPlayerMatchStats(1)
	if err != nil {
		t.Fatalf("GetPlayerMatchStats: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 player rows, got %d", len(got))
	}

	var alice *model.PlayerMatchStats
	for i := range got {
		if got[i].Player == "Alice" {
			alice = &got[i]
		}
	}
	if alice == nil {
		t.Fatal("Alice not found in results")
	}
	if alice.Passes != 60 || alice.PassesCompleted != 52 || alice.ProgressivePasses != 8 {
		t.Errorf("Alice pass stats mismatch: %+v", alice)
	}
	if alice.XGAssisted != 0.4 || alice.Counterpressures != 6 {
		t.Errorf("Alice derived stats mismatch: %+v", alice)
	}
}

func TestSimulationRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(sampleMatch(1))

	r := model.SimulationResult{
		MatchID: 1, Trials: 10000,
		HomeWinProb: 0.5, AwayWinProb: 0.2, DrawProb: 0.3,
		HomeXPoints: 1.8, AwayXPoints: 0.9,
		HomeXG: 1.6, AwayXG: 0.7,
	}
	if err := db.InsertSimulation(r); err != nil {
		t.Fatalf("InsertSimulation: %v", err)
	}

	got, err := db.GetSimulation(1)
	if err != nil {
		t.Fatalf("GetSimulation: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored simulation")
	}
	if got.Trials != 10000 || got.HomeWinProb != 0.5 || got.HomeXPoints != 1.8 {
		t.Errorf("simulation round trip: %+v", got)
	}

	missing, err := db.GetSimulation(2)
	if err != nil {
		t.Fatalf("GetSimulation missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown match id")
	}
}

func TestGetShotXGSplitsByTeam(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(sampleMatch(1))

	events := []model.Event{
		{MatchID: 1, Index: 0, Period: 1, Type: model.TypeShot, Team: "Home FC", ShotXG: 0.3},
		{MatchID: 1, Index: 1, Period: 1, Type: model.TypePass, Team: "Home FC"},
		{MatchID: 1, Index: 2, Period: 2, Type: model.TypeShot, Team: "Away FC", ShotXG: 0.1},
		{MatchID: 1, Index: 3, Period: 2, Type: model.TypeShot, Team: "Home FC", ShotXG: 0.6},
	}
	if err := db.InsertEvents(events); err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}

	home, away, err := db.GetShotXG(1, "Home FC")
	if err != nil {
		t.Fatalf("GetShotXG: %v", err)
	}
	if len(home) != 2 || home[0] != 0.3 || home[1] != 0.6 {
		t.Errorf("home xG = %v", home)
	}
	if len(away) != 1 || away[0] != 0.1 {
		t.Errorf("away xG = %v", away)
	}
}

func TestPlayerSeasonTotals(t *testing.T) {
	db := openMemDB(t)

	m1 := sampleMatch(1)
	m1.MatchDate = "2026-01-10"
	m2 := sampleMatch(2)
	m2.MatchDate = "2026-01-17"
	m2.AwayTeam = "Third FC"
	db.InsertMatch(m1)
	db.InsertMatch(m2)

	db.InsertPlayerMatchStats([]model.PlayerMatchStats{
		{MatchID: 1, Player: "Alice", Team: "Home FC", MinutesPlayed: 90, Passes: 50, PassesCompleted: 40, Goals: 1, XG: 0.5},
		{MatchID: 2, Player: "Alice", Team: "Home FC", MinutesPlayed: 45, Passes: 20, PassesCompleted: 18, Goals: 0, XG: 0.2},
	})

	totals, err := db.PlayerSeasonTotals("Alice", nil)
	if err != nil {
		t.Fatalf("PlayerSeasonTotals: %v", err)
	}
	if totals == nil {
		t.Fatal("expected totals for Alice")
	}
	if totals.Matches != 2 || totals.MinutesPlayed != 135 || totals.Passes != 70 || totals.Goals != 1 {
		t.Errorf("totals mismatch: %+v", totals)
	}

	scoped, err := db.PlayerSeasonTotals("Alice", []int64{2})
	if err != nil {
		t.Fatalf("PlayerSeasonTotals scoped: %v", err)
	}
	if scoped.Matches != 1 || scoped.Passes != 20 {
		t.Errorf("scoped totals mismatch: %+v", scoped)
	}

	none, err := db.PlayerSeasonTotals("Nobody", nil)
	if err != nil {
		t.Fatalf("PlayerSeasonTotals unknown: %v", err)
	}
	if none != nil {
		t.Error("expected nil totals for unknown player")
	}

	rows, err := db.PlayerMatchRows("Alice")
	if err != nil {
		t.Fatalf("PlayerMatchRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Ordered by match_date ASC; opponent is the non-Home side.
	if rows[0].MatchID != 1 || rows[0].Opponent != "Away FC" {
		t.Errorf("first row: %+v", rows[0])
	}
	if rows[1].Opponent != "Third FC" {
		t.Errorf("second row: %+v", rows[1])
	}
}

package tagger

import (
	"fmt"
	"sort"

	"github.com/jkds/go-football-metrics/internal/model"
)

// Aggregate rolls tagged events up into per-player per-match stats. Events
// must carry cumulative minutes; lineups should carry minutes played. The
// pre-assist and xG-assisted tags are applied here so callers can pass the
// engineered stream straight in.
func Aggregate(events []model.Event, lineups []model.Lineup) []model.PlayerMatchStats {
	events = XGAssisted(PreAssists(events))

	stats := map[string]*model.PlayerMatchStats{}
	get := func(matchID int64, player, team, position string) *model.PlayerMatchStats {
		key := fmt.Sprintf("%d|%s", matchID, player)
		s, ok := stats[key]
		if !ok {
			s = &model.PlayerMatchStats{MatchID: matchID, Player: player, Team: team, Position: position}
			stats[key] = s
		}
		return s
	}

	// ---- Pass 1: seed players and minutes from the lineups ----
	for i := range lineups {
		l := &lineups[i]
		s := get(l.MatchID, l.Player, l.Team, l.Position)
		s.MinutesPlayed = l.MinutesPlayed
	}

	// ---- Pass 2: passes and carries ----
	for i := range events {
		e := &events[i]
		if e.Player == "" {
			continue
		}
		switch e.Type {
		case model.TypePass:
			s := get(e.MatchID, e.Player, e.Team, e.Position)
			s.Passes++
			if e.Outcome == model.OutcomeSuccess {
				s.PassesCompleted++
			}
			if Progressive(e, true) {
				s.ProgressivePasses++
			}
			if BoxEntry(e, BoxEntryOpts{InPlayOnly: true, SuccessfulOnly: true}) {
				s.BoxEntries++
			}
			if e.PassGoalAssist {
				s.Assists++
			}
			if e.PreAssist {
				s.PreAssists++
			}
			s.XGAssisted += e.XGAssisted
		case model.TypeCarry:
			s := get(e.MatchID, e.Player, e.Team, e.Position)
			if Progressive(e, true) {
				s.ProgressiveCarries++
			}
			if BoxEntry(e, BoxEntryOpts{}) {
				s.BoxEntries++
			}
		}
	}

	// ---- Pass 3: shots ----
	for i := range events {
		e := &events[i]
		if e.Type != model.TypeShot || e.Player == "" {
			continue
		}
		s := get(e.MatchID, e.Player, e.Team, e.Position)
		s.Shots++
		s.XG += e.ShotXG
		if e.OutcomeDetail == "Goal" {
			s.Goals++
		}
	}

	// ---- Pass 4: touches ----
	for i := range events {
		e := &events[i]
		if e.Player == "" {
			continue
		}
		t := ClassifyTouch(e, true)
		if t.Kind == TouchNone {
			continue
		}
		s := get(e.MatchID, e.Player, e.Team, e.Position)
		s.Touches++
		if t.Kind == TouchOffensive {
			s.OffensiveTouches++
		} else {
			s.DefensiveTouches++
		}
		if t.InBox {
			s.BoxTouches++
		}
		if t.FinalThird {
			s.FinalThirdTouches++
		}
	}

	// ---- Pass 5: pressing and possession wins ----
	for i := range events {
		e := &events[i]
		if e.Player == "" {
			continue
		}
		if e.Counterpress && defensiveTypes[e.Type] {
			get(e.MatchID, e.Player, e.Team, e.Position).Counterpressures++
		}
		if possessionWin(e) {
			get(e.MatchID, e.Player, e.Team, e.Position).PossessionsWon++
		}
	}

	out := make([]model.PlayerMatchStats, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].Player < out[j].Player
	})
	return out
}

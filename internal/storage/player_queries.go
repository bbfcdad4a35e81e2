package storage

import (
	"fmt"
	"strings"
)

// PlayerTotals holds summed stats for one player across multiple matches.
type PlayerTotals struct {
	Player            string
	Team              string
	Matches           int
	MinutesPlayed     float64
	Passes            int
	PassesCompleted   int
	ProgressivePasses int
	BoxEntries        int
	PreAssists        int
	Assists           int
	XGAssisted        float64
	Shots             int
	XG                float64
	Goals             int
	Counterpressures  int
	PossessionsWon    int
}

// PlayerMatchRow holds one match's stats for a player, with the match label
// columns needed for trend output.
type PlayerMatchRow struct {
	MatchID           int64
	MatchDate         string
	Opponent          string
	MinutesPlayed     float64
	Passes            int
	PassesCompleted   int
	ProgressivePasses int
	BoxEntries        int
	Assists           int
	XGAssisted        float64
	Shots             int
	XG                float64
	Goals             int
}

// PlayerSeasonTotals returns summed stats for a player, optionally restricted
// to the given match ids. An empty id list means all stored matches.
func (db *DB) PlayerSeasonTotals(player string, matchIDs []int64) (*PlayerTotals, error) {
	where := "WHERE player = ?"
	args := []interface{}{player}
	if len(matchIDs) > 0 {
		where += fmt.Sprintf(" AND match_id IN (%s)", placeholders(len(matchIDs)))
		for _, id := range matchIDs {
			args = append(args, id)
		}
	}

	query := fmt.Sprintf(`
		SELECT MAX(team), COUNT(*),
		       COALESCE(SUM(minutes_played), 0),
		       COALESCE(SUM(passes), 0), COALESCE(SUM(passes_completed), 0),
		       COALESCE(SUM(progressive_passes), 0), COALESCE(SUM(box_entries), 0),
		       COALESCE(SUM(pre_assists), 0), COALESCE(SUM(assists), 0),
		       COALESCE(SUM(xg_assisted), 0),
		       COALESCE(SUM(shots), 0), COALESCE(SUM(xg), 0), COALESCE(SUM(goals), 0),
		       COALESCE(SUM(counterpressures), 0), COALESCE(SUM(possessions_won), 0)
		FROM player_match_stats %s`, where)

	var t PlayerTotals
	t.Player = player
	var team interface{}
	err := db.conn.QueryRow(query, args...).Scan(
		&team, &t.Matches, &t.MinutesPlayed,
		&t.Passes, &t.PassesCompleted,
		&t.ProgressivePasses, &t.BoxEntries,
		&t.PreAssists, &t.Assists, &t.XGAssisted,
		&t.Shots, &t.XG, &t.Goals,
		&t.Counterpressures, &t.PossessionsWon,
	)
	if err != nil {
		return nil, err
	}
	if t.Matches == 0 {
		return nil, nil
	}
	if s, ok := team.(string); ok {
		t.Team = s
	}
	return &t, nil
}

// PlayerMatchRows returns one row per stored match for a player, joined with
// the matches table, ordered by match_date ascending so the trend reads
// left to right.
func (db *DB) PlayerMatchRows(player string) ([]PlayerMatchRow, error) {
	rows, err := db.conn.Query(`
		SELECT p.match_id, m.match_date,
		       CASE WHEN p.team = m.home_team THEN m.away_team ELSE m.home_team END,
		       p.minutes_played,
		       p.passes, p.passes_completed, p.progressive_passes, p.box_entries,
		       p.assists, p.xg_assisted,
		       p.shots, p.xg, p.goals
		FROM player_match_stats p
		JOIN matches m ON m.match_id = p.match_id
		WHERE p.player = ?
		ORDER BY m.match_date ASC, p.match_id ASC`, player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerMatchRow
	for rows.Next() {
		var r PlayerMatchRow
		if err := rows.Scan(
			&r.MatchID, &r.MatchDate, &r.Opponent,
			&r.MinutesPlayed,
			&r.Passes, &r.PassesCompleted, &r.ProgressivePasses, &r.BoxEntries,
			&r.Assists, &r.XGAssisted,
			&r.Shots, &r.XG, &r.Goals,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// placeholders returns a comma-separated string of n "?" for SQL IN clauses,
// e.g. placeholders(3) → "?,?,?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

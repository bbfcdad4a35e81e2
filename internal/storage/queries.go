package storage

import (
	"database/sql"
	"fmt"

	"github.com/jkds/go-football-metrics/internal/model"
)

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(matchID int64) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch inserts a match record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertMatch(summary model.MatchSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO matches(match_id, provider, competition, season, match_date, home_team, away_team, home_score, away_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.MatchID, summary.Provider, summary.Competition, summary.Season,
		summary.MatchDate, summary.HomeTeam, summary.AwayTeam,
		summary.HomeScore, summary.AwayScore,
	)
	return err
}

// InsertEvents bulk-inserts match events in a transaction. Existing rows for
// the match are replaced so re-ingestion is safe.
func (db *DB) InsertEvents(events []model.Event) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO events(
			match_id, idx, provider_id, period, minute, second, cumulative_mins,
			type, sub_type, outcome, outcome_detail,
			team, player, position, possession_id, possession_team,
			x, y, end_x, end_y,
			pass_recipient, pass_height, pass_length, pass_body_part,
			goal_assist, shot_assist, assisted_shot_id,
			shot_xg, sub_replacement,
			under_pressure, counterpress, offensive, dribble_no_touch, obv_net
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		x, y := pointCols(e.Loc)
		endX, endY := pointCols(e.EndLoc)
		_, err = stmt.Exec(
			e.MatchID, e.Index, e.ID, e.Period, e.Minute, e.Second, e.CumulativeMins,
			e.Type.String(), e.SubType, int(e.Outcome), e.OutcomeDetail,
			e.Team, e.Player, e.Position, e.PossessionID, e.PossessionTeam,
			x, y, endX, endY,
			e.PassRecipient, e.PassHeight, e.PassLength, e.PassBodyPart,
			boolInt(e.PassGoalAssist), boolInt(e.PassShotAssist), e.AssistedShotID,
			e.ShotXG, e.SubReplacement,
			boolInt(e.UnderPressure), boolInt(e.Counterpress), boolInt(e.Offensive),
			boolInt(e.DribbleNoTouch), e.OBVNet,
		)
		if err != nil {
			return fmt.Errorf("insert event %d/%d: %w", e.MatchID, e.Index, err)
		}
	}
	return tx.Commit()
}

// InsertLineups bulk-inserts lineups in a transaction.
func (db *DB) InsertLineups(lineups []model.Lineup) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO lineups(match_id, player, team, position, starter, time_on, time_off, minutes_played)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range lineups {
		_, err = stmt.Exec(
			l.MatchID, l.Player, l.Team, l.Position,
			boolInt(l.Starter), l.TimeOn, l.TimeOff, l.MinutesPlayed,
		)
		if err != nil {
			return fmt.Errorf("insert lineup for %s: %w", l.Player, err)
		}
	}
	return tx.Commit()
}

// InsertPlayerMatchStats bulk-inserts player match stats in a transaction.
func (db *DB) InsertPlayerMatchStats(stats []model.PlayerMatchStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_match_stats(
			match_id, player, team, position, minutes_played,
			passes, passes_completed, progressive_passes, progressive_carries,
			box_entries, pre_assists, assists, xg_assisted,
			shots, xg, goals,
			touches, offensive_touches, defensive_touches, box_touches, final_third_touches,
			counterpressures, possessions_won
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		_, err = stmt.Exec(
			s.MatchID, s.Player, s.Team, s.Position, s.MinutesPlayed,
			s.Passes, s.PassesCompleted, s.ProgressivePasses, s.ProgressiveCarries,
			s.BoxEntries, s.PreAssists, s.Assists, s.XGAssisted,
			s.Shots, s.XG, s.Goals,
			s.Touches, s.OffensiveTouches, s.DefensiveTouches, s.BoxTouches, s.FinalThirdTouches,
			s.Counterpressures, s.PossessionsWon,
		)
		if err != nil {
			return fmt.Errorf("insert player_match_stats for %s: %w", s.Player, err)
		}
	}
	return tx.Commit()
}

// InsertSimulation stores a Monte Carlo result, replacing any earlier run for
// the same match.
func (db *DB) InsertSimulation(r model.SimulationResult) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO simulations(match_id, trials, home_win_prob, away_win_prob, draw_prob, home_xpoints, away_xpoints, home_xg, away_xg)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		r.MatchID, r.Trials,
		r.HomeWinProb, r.AwayWinProb, r.DrawProb,
		r.HomeXPoints, r.AwayXPoints, r.HomeXG, r.AwayXG,
	)
	return err
}

// ListMatches returns all stored match summaries ordered by match_date desc.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, provider, competition, season, match_date, home_team, away_team, home_score, away_score
		FROM matches ORDER BY match_date DESC, match_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.MatchID, &s.Provider, &s.Competition, &s.Season,
			&s.MatchDate, &s.HomeTeam, &s.AwayTeam, &s.HomeScore, &s.AwayScore); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatch returns one match summary, or nil when the id is unknown.
func (db *DB) GetMatch(matchID int64) (*model.MatchSummary, error) {
	var s model.MatchSummary
	err := db.conn.QueryRow(`
		SELECT match_id, provider, competition, season, match_date, home_team, away_team, home_score, away_score
		FROM matches WHERE match_id = ?`, matchID).
		Scan(&s.MatchID, &s.Provider, &s.Competition, &s.Season,
			&s.MatchDate, &s.HomeTeam, &s.AwayTeam, &s.HomeScore, &s.AwayScore)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetEvents returns all events for a match in index order.
func (db *DB) GetEvents(matchID int64) ([]model.Event, error) {
	rows, err := db.conn.Query(`
		SELECT idx, provider_id, period, minute, second, cumulative_mins,
		       type, sub_type, outcome, outcome_detail,
		       team, player, position, possession_id, possession_team,
		       x, y, end_x, end_y,
		       pass_recipient, pass_height, pass_length, pass_body_part,
		       goal_assist, shot_assist, assisted_shot_id,
		       shot_xg, sub_replacement,
		       under_pressure, counterpress, offensive, dribble_no_touch, obv_net
		FROM events WHERE match_id = ?
		ORDER BY idx`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		var typeStr string
		var outcomeInt int
		var x, y, endX, endY sql.NullFloat64
		var goalAssist, shotAssist, underPressure, counterpress, offensive, noTouch int
		if err := rows.Scan(
			&e.Index, &e.ID, &e.Period, &e.Minute, &e.Second, &e.CumulativeMins,
			&typeStr, &e.SubType, &outcomeInt, &e.OutcomeDetail,
			&e.Team, &e.Player, &e.Position, &e.PossessionID, &e.PossessionTeam,
			&x, &y, &endX, &endY,
			&e.PassRecipient, &e.PassHeight, &e.PassLength, &e.PassBodyPart,
			&goalAssist, &shotAssist, &e.AssistedShotID,
			&e.ShotXG, &e.SubReplacement,
			&underPressure, &counterpress, &offensive, &noTouch, &e.OBVNet,
		); err != nil {
			return nil, err
		}
		e.MatchID = matchID
		e.Type = model.ParseEventType(typeStr)
		e.Outcome = model.Outcome(outcomeInt)
		e.Loc = nullPoint(x, y)
		e.EndLoc = nullPoint(endX, endY)
		e.PassGoalAssist = goalAssist != 0
		e.PassShotAssist = shotAssist != 0
		e.UnderPressure = underPressure != 0
		e.Counterpress = counterpress != 0
		e.Offensive = offensive != 0
		e.DribbleNoTouch = noTouch != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetLineups returns all lineups for a match, ordered by team then player.
func (db *DB) GetLineups(matchID int64) ([]model.Lineup, error) {
	rows, err := db.conn.Query(`
		SELECT player, team, position, starter, time_on, time_off, minutes_played
		FROM lineups WHERE match_id = ?
		ORDER BY team, player`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Lineup
	for rows.Next() {
		var l model.Lineup
		var starter int
		if err := rows.Scan(&l.Player, &l.Team, &l.Position, &starter,
			&l.TimeOn, &l.TimeOff, &l.MinutesPlayed); err != nil {
			return nil, err
		}
		l.MatchID = matchID
		l.Starter = starter != 0
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetPlayerMatchStats returns all player stats for a match.
func (db *DB) GetPlayerMatchStats(matchID int64) ([]model.PlayerMatchStats, error) {
	rows, err := db.conn.Query(`
		SELECT player, team, position, minutes_played,
		       passes, passes_completed, progressive_passes, progressive_carries,
		       box_entries, pre_assists, assists, xg_assisted,
		       shots, xg, goals,
		       touches, offensive_touches, defensive_touches, box_touches, final_third_touches,
		       counterpressures, possessions_won
		FROM player_match_stats WHERE match_id = ?
		ORDER BY team, player`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerMatchStats
	for rows.Next() {
		var s model.PlayerMatchStats
		if err := rows.Scan(
			&s.Player, &s.Team, &s.Position, &s.MinutesPlayed,
			&s.Passes, &s.PassesCompleted, &s.ProgressivePasses, &s.ProgressiveCarries,
			&s.BoxEntries, &s.PreAssists, &s.Assists, &s.XGAssisted,
			&s.Shots, &s.XG, &s.Goals,
			&s.Touches, &s.OffensiveTouches, &s.DefensiveTouches, &s.BoxTouches, &s.FinalThirdTouches,
			&s.Counterpressures, &s.PossessionsWon,
		); err != nil {
			return nil, err
		}
		s.MatchID = matchID
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetShotXG returns the stored per-shot xG values for a match, split into the
// two team columns the simulator consumes.
func (db *DB) GetShotXG(matchID int64, homeTeam string) (home, away []float64, err error) {
	rows, err := db.conn.Query(`
		SELECT team, shot_xg FROM events
		WHERE match_id = ? AND type = 'Shot'
		ORDER BY idx`, matchID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var team string
		var xg float64
		if err := rows.Scan(&team, &xg); err != nil {
			return nil, nil, err
		}
		if team == homeTeam {
			home = append(home, xg)
		} else {
			away = append(away, xg)
		}
	}
	return home, away, rows.Err()
}

// GetSimulation returns the stored simulation for a match, or nil.
func (db *DB) GetSimulation(matchID int64) (*model.SimulationResult, error) {
	var r model.SimulationResult
	err := db.conn.QueryRow(`
		SELECT match_id, trials, home_win_prob, away_win_prob, draw_prob, home_xpoints, away_xpoints, home_xg, away_xg
		FROM simulations WHERE match_id = ?`, matchID).
		Scan(&r.MatchID, &r.Trials, &r.HomeWinProb, &r.AwayWinProb, &r.DrawProb,
			&r.HomeXPoints, &r.AwayXPoints, &r.HomeXG, &r.AwayXG)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// QueryRaw runs an arbitrary query and returns column names plus all rows as
// strings. NULLs come back as empty strings.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = v.String
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func pointCols(p *model.Point) (sql.NullFloat64, sql.NullFloat64) {
	if p == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: p.X, Valid: true}, sql.NullFloat64{Float64: p.Y, Valid: true}
}

func nullPoint(x, y sql.NullFloat64) *model.Point {
	if !x.Valid || !y.Valid {
		return nil
	}
	return &model.Point{X: x.Float64, Y: y.Float64}
}

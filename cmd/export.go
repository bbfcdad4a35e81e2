package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/model"
	"github.com/jkds/go-football-metrics/internal/storage"
)

var (
	exportMatchID int64
	exportPlayer  string
	exportOut     string
)

// matchExport is the top-level JSON document produced for --match-id.
type matchExport struct {
	MatchID     int64             `json:"match_id"`
	Provider    string            `json:"provider"`
	Competition string            `json:"competition,omitempty"`
	Season      string            `json:"season,omitempty"`
	MatchDate   string            `json:"match_date,omitempty"`
	HomeTeam    string            `json:"home_team"`
	AwayTeam    string            `json:"away_team"`
	HomeScore   int               `json:"home_score"`
	AwayScore   int               `json:"away_score"`
	Players     []playerStatsJSON `json:"players"`
	Simulation  *simulationJSON   `json:"simulation,omitempty"`
	GeneratedAt string            `json:"generated_at"`
}

// playerStatsJSON is one player's row in the match export.
type playerStatsJSON struct {
	Player             string  `json:"player"`
	Team               string  `json:"team"`
	Position           string  `json:"position,omitempty"`
	MinutesPlayed      float64 `json:"minutes_played"`
	Passes             int     `json:"passes"`
	PassesCompleted    int     `json:"passes_completed"`
	ProgressivePasses  int     `json:"progressive_passes"`
	ProgressiveCarries int     `json:"progressive_carries"`
	BoxEntries         int     `json:"box_entries"`
	PreAssists         int     `json:"pre_assists"`
	Assists            int     `json:"assists"`
	XGAssisted         float64 `json:"xg_assisted"`
	Shots              int     `json:"shots"`
	XG                 float64 `json:"xg"`
	Goals              int     `json:"goals"`
	Touches            int     `json:"touches"`
	OffensiveTouches   int     `json:"offensive_touches"`
	DefensiveTouches   int     `json:"defensive_touches"`
	BoxTouches         int     `json:"box_touches"`
	FinalThirdTouches  int     `json:"final_third_touches"`
	Counterpressures   int     `json:"counterpressures"`
	PossessionsWon     int     `json:"possessions_won"`
}

// simulationJSON is the stored simulation block in the match export.
type simulationJSON struct {
	Trials      int     `json:"trials"`
	HomeWinProb float64 `json:"home_win_prob"`
	DrawProb    float64 `json:"draw_prob"`
	AwayWinProb float64 `json:"away_win_prob"`
	HomeXPoints float64 `json:"home_xpoints"`
	AwayXPoints float64 `json:"away_xpoints"`
	HomeXG      float64 `json:"home_xg"`
	AwayXG      float64 `json:"away_xg"`
}

// playerExport is the top-level JSON document produced for --player.
type playerExport struct {
	Player        string           `json:"player"`
	Team          string           `json:"team"`
	Matches       int              `json:"matches"`
	MinutesPlayed float64          `json:"minutes_played"`
	Totals        playerStatsJSON  `json:"totals"`
	Trend         []matchTrendJSON `json:"trend"`
	GeneratedAt   string           `json:"generated_at"`
}

// matchTrendJSON is one match's row in the player export.
type matchTrendJSON struct {
	MatchID           int64   `json:"match_id"`
	MatchDate         string  `json:"match_date,omitempty"`
	Opponent          string  `json:"opponent"`
	MinutesPlayed     float64 `json:"minutes_played"`
	Passes            int     `json:"passes"`
	PassesCompleted   int     `json:"passes_completed"`
	ProgressivePasses int     `json:"progressive_passes"`
	BoxEntries        int     `json:"box_entries"`
	Assists           int     `json:"assists"`
	XGAssisted        float64 `json:"xg_assisted"`
	Shots             int     `json:"shots"`
	XG                float64 `json:"xg"`
	Goals             int     `json:"goals"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored metrics as JSON",
	Long: `Writes stored match or player metrics as a JSON document for use in
spreadsheets, notebooks, or downstream models.

Specify either --match-id for one match's summary, player stats, and simulation,
or --player for a player's season totals and per-match trend.

Example:
  fbmetrics export --match-id 3773386 --out match.json
  fbmetrics export --player "Aitana Bonmatí"`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Int64Var(&exportMatchID, "match-id", 0, "match to export")
	exportCmd.Flags().StringVar(&exportPlayer, "player", "", "player to export season totals for")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(_ *cobra.Command, _ []string) error {
	if exportMatchID == 0 && exportPlayer == "" {
		return fmt.Errorf("nothing to export: use --match-id or --player")
	}
	if exportMatchID != 0 && exportPlayer != "" {
		return fmt.Errorf("--match-id and --player are mutually exclusive")
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	var doc interface{}
	if exportMatchID != 0 {
		doc, err = buildMatchExport(db, exportMatchID)
	} else {
		doc, err = buildPlayerExport(db, strings.TrimSpace(exportPlayer))
	}
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}

func buildMatchExport(db *storage.DB, matchID int64) (*matchExport, error) {
	match, err := db.GetMatch(matchID)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("match %d not found: ingest it first", matchID)
	}
	stats, err := db.GetPlayerMatchStats(matchID)
	if err != nil {
		return nil, fmt.Errorf("get player stats: %w", err)
	}
	sim, err := db.GetSimulation(matchID)
	if err != nil {
		return nil, fmt.Errorf("get simulation: %w", err)
	}

	out := &matchExport{
		MatchID:     match.MatchID,
		Provider:    match.Provider,
		Competition: match.Competition,
		Season:      match.Season,
		MatchDate:   match.MatchDate,
		HomeTeam:    match.HomeTeam,
		AwayTeam:    match.AwayTeam,
		HomeScore:   match.HomeScore,
		AwayScore:   match.AwayScore,
		Players:     make([]playerStatsJSON, 0, len(stats)),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, s := range stats {
		out.Players = append(out.Players, playerStatsRow(s))
	}
	if sim != nil {
		out.Simulation = &simulationJSON{
			Trials:      sim.Trials,
			HomeWinProb: sim.HomeWinProb,
			DrawProb:    sim.DrawProb,
			AwayWinProb: sim.AwayWinProb,
			HomeXPoints: sim.HomeXPoints,
			AwayXPoints: sim.AwayXPoints,
			HomeXG:      sim.HomeXG,
			AwayXG:      sim.AwayXG,
		}
	}
	return out, nil
}

func buildPlayerExport(db *storage.DB, player string) (*playerExport, error) {
	totals, err := db.PlayerSeasonTotals(player, nil)
	if err != nil {
		return nil, fmt.Errorf("player totals: %w", err)
	}
	if totals == nil {
		return nil, fmt.Errorf("no stored matches for %q", player)
	}
	rows, err := db.PlayerMatchRows(player)
	if err != nil {
		return nil, fmt.Errorf("player match rows: %w", err)
	}

	out := &playerExport{
		Player:        totals.Player,
		Team:          totals.Team,
		Matches:       totals.Matches,
		MinutesPlayed: totals.MinutesPlayed,
		Totals: playerStatsJSON{
			Player:            totals.Player,
			Team:              totals.Team,
			MinutesPlayed:     totals.MinutesPlayed,
			Passes:            totals.Passes,
			PassesCompleted:   totals.PassesCompleted,
			ProgressivePasses: totals.ProgressivePasses,
			BoxEntries:        totals.BoxEntries,
			PreAssists:        totals.PreAssists,
			Assists:           totals.Assists,
			XGAssisted:        totals.XGAssisted,
			Shots:             totals.Shots,
			XG:                totals.XG,
			Goals:             totals.Goals,
			Counterpressures:  totals.Counterpressures,
			PossessionsWon:    totals.PossessionsWon,
		},
		Trend:       make([]matchTrendJSON, 0, len(rows)),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, r := range rows {
		out.Trend = append(out.Trend, matchTrendJSON{
			MatchID:           r.MatchID,
			MatchDate:         r.MatchDate,
			Opponent:          r.Opponent,
			MinutesPlayed:     r.MinutesPlayed,
			Passes:            r.Passes,
			PassesCompleted:   r.PassesCompleted,
			ProgressivePasses: r.ProgressivePasses,
			BoxEntries:        r.BoxEntries,
			Assists:           r.Assists,
			XGAssisted:        r.XGAssisted,
			Shots:             r.Shots,
			XG:                r.XG,
			Goals:             r.Goals,
		})
	}
	return out, nil
}

func playerStatsRow(s model.PlayerMatchStats) playerStatsJSON {
	return playerStatsJSON{
		Player:             s.Player,
		Team:               s.Team,
		Position:           s.Position,
		MinutesPlayed:      s.MinutesPlayed,
		Passes:             s.Passes,
		PassesCompleted:    s.PassesCompleted,
		ProgressivePasses:  s.ProgressivePasses,
		ProgressiveCarries: s.ProgressiveCarries,
		BoxEntries:         s.BoxEntries,
		PreAssists:         s.PreAssists,
		Assists:            s.Assists,
		XGAssisted:         s.XGAssisted,
		Shots:              s.Shots,
		XG:                 s.XG,
		Goals:              s.Goals,
		Touches:            s.Touches,
		OffensiveTouches:   s.OffensiveTouches,
		DefensiveTouches:   s.DefensiveTouches,
		BoxTouches:         s.BoxTouches,
		FinalThirdTouches:  s.FinalThirdTouches,
		Counterpressures:   s.Counterpressures,
		PossessionsWon:     s.PossessionsWon,
	}
}

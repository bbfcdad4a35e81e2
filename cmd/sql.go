package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  matches(match_id, provider, competition, season, match_date, home_team, away_team,
    home_score, away_score)
  events(match_id, idx, period, minute, second, cumulative_mins, type, sub_type,
    outcome, outcome_detail, team, player, possession_id, x, y, end_x, end_y,
    pass_recipient, pass_height, pass_length, shot_xg, obv_net, ...)
  lineups(match_id, player, team, position, starter, time_on, time_off, minutes_played)
  player_match_stats(match_id, player, team, minutes_played, passes, passes_completed,
    progressive_passes, box_entries, pre_assists, assists, xg_assisted, shots, xg,
    goals, touches, counterpressures, possessions_won, ...)
  simulations(match_id, trials, home_win_prob, away_win_prob, draw_prob,
    home_xpoints, away_xpoints, home_xg, away_xg)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/report"
	"github.com/jkds/go-football-metrics/internal/storage"
)

var playerTrend bool

var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Cross-match totals and per-90 rates for a player",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().BoolVar(&playerTrend, "trend", false, "also print one row per match, oldest first")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	totals, err := db.PlayerSeasonTotals(name, nil)
	if err != nil {
		return fmt.Errorf("query totals: %w", err)
	}
	if totals == nil {
		fmt.Fprintf(os.Stderr, "No stored matches for %q\n", name)
		return nil
	}
	report.PrintPlayerTotals(os.Stdout, *totals)

	if playerTrend {
		rows, err := db.PlayerMatchRows(name)
		if err != nil {
			return fmt.Errorf("query trend: %w", err)
		}
		fmt.Fprintln(os.Stdout)
		report.PrintPlayerTrend(os.Stdout, rows)
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/report"
	"github.com/jkds/go-football-metrics/internal/storage"
)

var showFocus string

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show stored match stats",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFocus, "player", "", "highlight player")
}

func runShow(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return showByID(db, matchID, showFocus)
}

func showByID(db *storage.DB, matchID int64, focus string) error {
	match, err := db.GetMatch(matchID)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with id %d\n", matchID)
		return nil
	}

	stats, err := db.GetPlayerMatchStats(matchID)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}

	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintPlayerTable(stats, focus)
	report.PrintTouchTable(os.Stdout, stats, focus)

	sim, err := db.GetSimulation(matchID)
	if err != nil {
		return fmt.Errorf("get simulation: %w", err)
	}
	if sim != nil {
		report.PrintSimulation(os.Stdout, match.HomeTeam, match.AwayTeam, *sim)
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/report"
	"github.com/jkds/go-football-metrics/internal/spatial"
	"github.com/jkds/go-football-metrics/internal/storage"
)

var (
	linesTeam    string
	linesInclude string
)

var linesCmd = &cobra.Command{
	Use:   "lines <match-id>",
	Short: "Defensive line height and width estimates for a team",
	Args:  cobra.ExactArgs(1),
	RunE:  runLines,
}

func init() {
	linesCmd.Flags().StringVar(&linesTeam, "team", "", "team name (required)")
	linesCmd.Flags().StringVar(&linesInclude, "include", "90%", "trim rule: Nstd or N%")
	linesCmd.MarkFlagRequired("team")
}

func runLines(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id: %w", err)
	}

	include, err := spatial.ParseInclude(linesInclude)
	if err != nil {
		return fmt.Errorf("parse include: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	events, err := db.GetEvents(matchID)
	if err != nil {
		return fmt.Errorf("get events: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintf(os.Stderr, "No events stored for match %d\n", matchID)
		return nil
	}

	lines := spatial.DefensiveLines(events, linesTeam, include)
	report.PrintDefensiveLines(os.Stdout, linesTeam, lines)
	return nil
}

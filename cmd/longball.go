package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/report"
	"github.com/jkds/go-football-metrics/internal/storage"
	"github.com/jkds/go-football-metrics/internal/tagger"
)

var (
	longballPlayer string
	longballTeam   string
)

var longballCmd = &cobra.Command{
	Use:   "longball <match-id>",
	Short: "Long balls into a target player and whether possession was retained",
	Args:  cobra.ExactArgs(1),
	RunE:  runLongball,
}

func init() {
	longballCmd.Flags().StringVar(&longballPlayer, "player", "", "target player (required)")
	longballCmd.Flags().StringVar(&longballTeam, "team", "", "target's team; inferred from lineups when omitted")
	longballCmd.MarkFlagRequired("player")
}

func runLongball(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id: %w", err)
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

	team := longballTeam
	if team == "" {
		lineups, err := db.GetLineups(matchID)
		if err != nil {
			return fmt.Errorf("get lineups: %w", err)
		}
		for _, l := range lineups {
			if l.Player == longballPlayer {
				team = l.Team
				break
			}
		}
		if team == "" {
			for i := range events {
				if events[i].Player == longballPlayer {
					team = events[i].Team
					break
				}
			}
		}
	}
	if team == "" {
		return fmt.Errorf("player %q not found in match %d", longballPlayer, matchID)
	}

	receipts := tagger.LongBallRetention(events, longballPlayer, team)
	report.PrintLongBalls(os.Stdout, longballPlayer, receipts)
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/model"
	"github.com/jkds/go-football-metrics/internal/report"
	"github.com/jkds/go-football-metrics/internal/storage"
	"github.com/jkds/go-football-metrics/internal/tagger"
)

var (
	passesTeam   string
	passesWindow float64
)

var passesCmd = &cobra.Command{
	Use:   "passes <match-id>",
	Short: "Final outcomes of open-play passes",
	Args:  cobra.ExactArgs(1),
	RunE:  runPasses,
}

func init() {
	passesCmd.Flags().StringVar(&passesTeam, "team", "", "restrict to one team")
	passesCmd.Flags().Float64Var(&passesWindow, "window", tagger.DefaultPassOutcomeWindow, "seconds a pass has to lead to something")
}

func runPasses(cmd *cobra.Command, args []string) error {
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

	outcomes := tagger.PassFinalOutcomes(events, passesWindow)
	if passesTeam != "" {
		var scoped []model.PassFinalOutcome
		for _, o := range outcomes {
			if o.Team == passesTeam {
				scoped = append(scoped, o)
			}
		}
		outcomes = scoped
	}

	report.PrintPassOutcomes(os.Stdout, outcomes)
	return nil
}

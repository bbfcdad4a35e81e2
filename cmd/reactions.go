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
	reactionsTeam    string
	reactionsPressOn float64
	reactionsCounter float64
)

var reactionsCmd = &cobra.Command{
	Use:   "reactions <match-id>",
	Short: "Possession-loss reactions and counterattacks",
	Args:  cobra.ExactArgs(1),
	RunE:  runReactions,
}

func init() {
	reactionsCmd.Flags().StringVar(&reactionsTeam, "team", "", "restrict to one team")
	reactionsCmd.Flags().Float64Var(&reactionsPressOn, "press-window", tagger.DefaultCounterpressWindow, "seconds after a loss to look for a reaction")
	reactionsCmd.Flags().Float64Var(&reactionsCounter, "counter-window", tagger.DefaultCounterattackWindow, "seconds after a win to look for a counter action")
}

func runReactions(cmd *cobra.Command, args []string) error {
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

	reactions := tagger.Counterpressures(events, reactionsPressOn)
	counters := tagger.Counterattacks(events, reactionsCounter)
	if reactionsTeam != "" {
		reactions = filterReactions(reactions, reactionsTeam)
		counters = filterCounters(counters, reactionsTeam)
	}

	fmt.Fprintln(os.Stdout, "\nReactions to possession losses:")
	report.PrintLossReactions(os.Stdout, reactions)
	fmt.Fprintln(os.Stdout, "\nCounterattacks from possession wins:")
	report.PrintCounterattacks(os.Stdout, counters)
	return nil
}

func filterReactions(in []model.LossReaction, team string) []model.LossReaction {
	var out []model.LossReaction
	for _, r := range in {
		if r.Team == team {
			out = append(out, r)
		}
	}
	return out
}

func filterCounters(in []model.Counterattack, team string) []model.Counterattack {
	var out []model.Counterattack
	for _, c := range in {
		if c.Team == team {
			out = append(out, c)
		}
	}
	return out
}

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/report"
	"github.com/jkds/go-football-metrics/internal/simulate"
	"github.com/jkds/go-football-metrics/internal/storage"
)

var (
	simTrials int
	simSeed   int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <match-id>",
	Short: "Monte Carlo match outcome from stored shot xG",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simTrials, "n", simulate.DefaultTrials, "number of trials")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "RNG seed, 0 for time-based")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	match, err := db.GetMatch(matchID)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with id %d\n", matchID)
		return nil
	}

	home, away, err := db.GetShotXG(matchID, match.HomeTeam)
	if err != nil {
		return fmt.Errorf("get shot xG: %w", err)
	}
	log.WithFields(logrus.Fields{
		"home_shots": len(home),
		"away_shots": len(away),
		"trials":     simTrials,
	}).Debug("running simulation")

	seed := simSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim := simulate.New(seed)
	result := sim.Match(home, away, simTrials)
	result.MatchID = matchID
	result.HomeTeam = match.HomeTeam
	result.AwayTeam = match.AwayTeam

	if err := db.InsertSimulation(result); err != nil {
		return fmt.Errorf("insert simulation: %w", err)
	}

	report.PrintSimulation(os.Stdout, match.HomeTeam, match.AwayTeam, result)
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/model"
	"github.com/jkds/go-football-metrics/internal/report"
	"github.com/jkds/go-football-metrics/internal/spatial"
	"github.com/jkds/go-football-metrics/internal/storage"
	"github.com/jkds/go-football-metrics/internal/tagger"
)

var (
	hullPlayer    string
	hullTeam      string
	hullInclude   string
	hullMinPoints int
	hullDefensive bool
)

var hullCmd = &cobra.Command{
	Use:   "hull <match-id>",
	Short: "Convex hull of a player's or team's touches",
	Long: `Build a trimmed convex hull over touch locations and report its area,
centroid, and how much opposition pass traffic it absorbed.`,
	Args: cobra.ExactArgs(1),
	RunE: runHull,
}

func init() {
	hullCmd.Flags().StringVar(&hullPlayer, "player", "", "build hull for one player")
	hullCmd.Flags().StringVar(&hullTeam, "team", "", "build hull for a whole team")
	hullCmd.Flags().StringVar(&hullInclude, "include", "1std", "trim rule: Nstd or N%")
	hullCmd.Flags().IntVar(&hullMinPoints, "min-points", 4, "minimum touches required")
	hullCmd.Flags().BoolVar(&hullDefensive, "defensive", false, "use defensive touches only")
}

func runHull(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id: %w", err)
	}
	if hullPlayer == "" && hullTeam == "" {
		return fmt.Errorf("one of --player or --team is required")
	}

	include, err := spatial.ParseInclude(hullInclude)
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

	label := hullPlayer
	if label == "" {
		label = hullTeam
	}

	var team string
	var points []model.Point
	for i := range events {
		e := &events[i]
		if hullPlayer != "" && e.Player != hullPlayer {
			continue
		}
		if hullTeam != "" && e.Team != hullTeam {
			continue
		}
		touch := tagger.ClassifyTouch(e, true)
		if touch.Kind == tagger.TouchNone {
			continue
		}
		if hullDefensive && touch.Kind != tagger.TouchDefensive {
			continue
		}
		if e.Loc == nil {
			continue
		}
		points = append(points, *e.Loc)
		team = e.Team
	}

	hull := spatial.BuildHull(label, points, include, hullMinPoints, model.PitchArea)

	var stats spatial.HullPassStats
	if hull != nil {
		var oppPasses []model.Event
		for i := range events {
			if events[i].Type == model.TypePass && events[i].Team != team {
				oppPasses = append(oppPasses, events[i])
			}
		}
		stats = spatial.PassesIntoHull(hull, oppPasses, true)
	}

	report.PrintHull(os.Stdout, label, hull, stats)
	return nil
}

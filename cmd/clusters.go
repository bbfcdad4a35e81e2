package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/report"
	"github.com/jkds/go-football-metrics/internal/spatial"
	"github.com/jkds/go-football-metrics/internal/storage"
)

var (
	clustersModel  string
	clustersPlayer string
	clustersTeam   string
)

var clustersCmd = &cobra.Command{
	Use:   "clusters <match-id>",
	Short: "Assign passes to the nearest centroid of a pretrained cluster model",
	Args:  cobra.ExactArgs(1),
	RunE:  runClusters,
}

func init() {
	clustersCmd.Flags().StringVar(&clustersModel, "model", "", "path to centroid model JSON (required)")
	clustersCmd.Flags().StringVar(&clustersPlayer, "player", "", "restrict to one player")
	clustersCmd.Flags().StringVar(&clustersTeam, "team", "", "restrict to one team")
	clustersCmd.MarkFlagRequired("model")
}

func runClusters(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id: %w", err)
	}

	mf, err := os.Open(clustersModel)
	if err != nil {
		return fmt.Errorf("open model: %w", err)
	}
	defer mf.Close()
	clusterModel, err := spatial.LoadClusterModel(mf)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
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

	scoped := events[:0:0]
	for i := range events {
		e := events[i]
		if clustersPlayer != "" && e.Player != clustersPlayer {
			continue
		}
		if clustersTeam != "" && e.Team != clustersTeam {
			continue
		}
		scoped = append(scoped, e)
	}

	assignments := clusterModel.AssignAll(scoped)
	if len(assignments) == 0 {
		fmt.Fprintln(os.Stdout, "No passes to assign.")
		return nil
	}

	counts := map[int]int{}
	centroids := map[int][4]float64{}
	for _, a := range assignments {
		counts[a.ClusterID]++
		centroids[a.ClusterID] = a.Centroid
	}
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return counts[ids[i]] > counts[ids[j]] })

	rows := make([]report.ClusterRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, report.ClusterRow{
			ClusterID: id,
			Passes:    counts[id],
			Share:     100 * float64(counts[id]) / float64(len(assignments)),
			Centroid:  centroids[id],
		})
	}
	report.PrintClusters(os.Stdout, rows)
	return nil
}

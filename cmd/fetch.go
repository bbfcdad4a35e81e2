package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/model"
	"github.com/jkds/go-football-metrics/internal/opendata"
	"github.com/jkds/go-football-metrics/internal/provider"
	"github.com/jkds/go-football-metrics/internal/storage"
)

// fetch command flags.
var (
	// fetchCompetition is the open-data competition id.
	fetchCompetition int
	// fetchSeason is the open-data season id.
	fetchSeason int
	// fetchCount caps how many matches to ingest in one run.
	fetchCount int
	// fetchMatchID ingests a single match instead of a whole season.
	fetchMatchID int64
)

// fetchCmd downloads and ingests matches from the StatsBomb open-data repository.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and ingest open-data matches",
	Long: `Fetches event feeds from the StatsBomb open-data repository on GitHub
and stores their derived metrics.

Examples:
  # List available competitions and seasons
  fbmetrics fetch

  # Ingest a whole season
  fbmetrics fetch --competition 11 --season 90 --count 10

  # Ingest one match
  fbmetrics fetch --match-id 3773386`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchCompetition, "competition", 0, "open-data competition id")
	fetchCmd.Flags().IntVar(&fetchSeason, "season", 0, "open-data season id")
	fetchCmd.Flags().IntVar(&fetchCount, "count", 10, "number of matches to ingest")
	fetchCmd.Flags().Int64Var(&fetchMatchID, "match-id", 0, "ingest a single match id")
}

func runFetch(cmd *cobra.Command, args []string) error {
	client := opendata.NewClient()

	if fetchMatchID == 0 && fetchSeason == 0 {
		return printCompetitions(client)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if fetchMatchID != 0 {
		info := opendata.MatchInfo{MatchID: fetchMatchID}
		if err := fetchMatch(client, db, info); err != nil {
			return err
		}
		fmt.Printf("\nDone: match %d ingested\n", fetchMatchID)
		return nil
	}

	matches, err := client.ListMatches(fetchCompetition, fetchSeason)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	ingested := 0
	for _, info := range matches {
		if ingested >= fetchCount {
			break
		}

		exists, err := db.MatchExists(info.MatchID)
		if err != nil {
			return err
		}
		if exists {
			fmt.Printf("  [skip] %d already stored\n", info.MatchID)
			continue
		}

		fmt.Printf("[%d/%d] %d  %s vs %s  %s\n",
			ingested+1, fetchCount, info.MatchID,
			info.HomeTeam.Name, info.AwayTeam.Name, info.MatchDate)

		if err := fetchMatch(client, db, info); err != nil {
			fmt.Fprintf(os.Stderr, "  [error] %v\n", err)
			continue
		}
		ingested++
	}

	fmt.Printf("\nDone: %d/%d matches ingested\n", ingested, fetchCount)
	return nil
}

// fetchMatch downloads one match's events and lineups and stores its metrics.
func fetchMatch(client *opendata.Client, db *storage.DB, info opendata.MatchInfo) error {
	body, err := client.GetEvents(info.MatchID)
	if err != nil {
		return fmt.Errorf("download events: %w", err)
	}
	events, err := provider.LoadStatsBombEvents(body, info.MatchID)
	body.Close()
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	var lineups []model.Lineup
	lbody, err := client.GetLineups(info.MatchID)
	if err == nil {
		lineups, err = provider.LoadStatsBombLineups(lbody, info.MatchID)
		lbody.Close()
		if err != nil {
			return fmt.Errorf("load lineups: %w", err)
		}
	} else {
		lineups = lineupsFromEvents(events)
	}

	home, away := info.HomeTeam.Name, info.AwayTeam.Name
	if home == "" || away == "" {
		home, away = teamNames(events, lineups)
	}
	summary := model.MatchSummary{
		MatchID:     info.MatchID,
		Provider:    "statsbomb",
		Competition: info.Competition.Name,
		Season:      info.Season.Name,
		MatchDate:   info.MatchDate,
		HomeTeam:    home,
		AwayTeam:    away,
		HomeScore:   info.HomeScore,
		AwayScore:   info.AwayScore,
	}

	stats, err := processAndStore(db, &summary, events, lineups)
	if err != nil {
		return err
	}
	fmt.Printf("  stored: %d events, %d players\n", len(events), len(stats))
	return nil
}

func printCompetitions(client *opendata.Client) error {
	comps, err := client.ListCompetitions()
	if err != nil {
		return fmt.Errorf("list competitions: %w", err)
	}
	fmt.Printf("%-6s  %-6s  %-32s  %s\n", "COMP", "SEASON", "COMPETITION", "SEASON NAME")
	for _, c := range comps {
		fmt.Printf("%-6d  %-6d  %-32s  %s\n",
			c.CompetitionID, c.SeasonID, c.CompetitionName, c.SeasonName)
	}
	return nil
}

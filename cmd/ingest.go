package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jkds/go-football-metrics/internal/engineer"
	"github.com/jkds/go-football-metrics/internal/model"
	"github.com/jkds/go-football-metrics/internal/provider"
	"github.com/jkds/go-football-metrics/internal/report"
	"github.com/jkds/go-football-metrics/internal/storage"
	"github.com/jkds/go-football-metrics/internal/tagger"
)

var (
	ingestProvider    string
	ingestLineups     string
	ingestMatchID     int64
	ingestDate        string
	ingestCompetition string
	ingestSeason      string
	ingestHome        string
	ingestAway        string
	ingestFocus       string
	ingestForce       bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <events.json>",
	Short: "Ingest a provider event feed and store derived metrics",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestProvider, "provider", "statsbomb", "event feed provider (statsbomb|whoscored)")
	ingestCmd.Flags().StringVar(&ingestLineups, "lineups", "", "path to lineups JSON (statsbomb)")
	ingestCmd.Flags().Int64Var(&ingestMatchID, "match-id", 0, "match id (required)")
	ingestCmd.Flags().StringVar(&ingestDate, "date", "", "match date, YYYY-MM-DD")
	ingestCmd.Flags().StringVar(&ingestCompetition, "competition", "", "competition label")
	ingestCmd.Flags().StringVar(&ingestSeason, "season", "", "season label")
	ingestCmd.Flags().StringVar(&ingestHome, "home", "", "home team name (default: inferred from the feed)")
	ingestCmd.Flags().StringVar(&ingestAway, "away", "", "away team name (default: inferred from the feed)")
	ingestCmd.Flags().StringVar(&ingestFocus, "player", "", "highlight player in output")
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "re-ingest even if the match is already stored")
	ingestCmd.MarkFlagRequired("match-id")
}

func runIngest(cmd *cobra.Command, args []string) error {
	eventsPath := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	exists, err := db.MatchExists(ingestMatchID)
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if exists && !ingestForce {
		log.WithField("match_id", ingestMatchID).Info("match already stored, showing cached results")
		return showByID(db, ingestMatchID, ingestFocus)
	}

	events, lineups, err := loadFeed(eventsPath)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"match_id": ingestMatchID,
		"provider": ingestProvider,
		"events":   len(events),
	}).Info("loaded event feed")

	home, away := teamNames(events, lineups)
	if ingestHome != "" {
		home = ingestHome
	}
	if ingestAway != "" {
		away = ingestAway
	}
	summary := model.MatchSummary{
		MatchID:     ingestMatchID,
		Provider:    ingestProvider,
		Competition: ingestCompetition,
		Season:      ingestSeason,
		MatchDate:   ingestDate,
		HomeTeam:    home,
		AwayTeam:    away,
	}

	stats, err := processAndStore(db, &summary, events, lineups)
	if err != nil {
		return err
	}

	report.PrintMatchSummary(os.Stdout, summary)
	report.PrintPlayerTable(stats, ingestFocus)
	report.PrintTouchTable(os.Stdout, stats, ingestFocus)
	return nil
}

// processAndStore runs the engineering and tagging passes over a raw feed and
// persists everything. The summary's score line is filled from the events
// when it is not already set.
func processAndStore(db *storage.DB, summary *model.MatchSummary, events []model.Event, lineups []model.Lineup) ([]model.PlayerMatchStats, error) {
	events = engineer.AddCumulativeMinutes(events)
	events = engineer.AddPassRecipients(events)
	lineups = engineer.MinutesPlayed(lineups, events)

	stats := tagger.Aggregate(events, lineups)

	if summary.HomeScore == 0 && summary.AwayScore == 0 {
		summary.HomeScore, summary.AwayScore = countGoals(events, summary.HomeTeam, summary.AwayTeam)
	}

	if err := db.InsertMatch(*summary); err != nil {
		return nil, fmt.Errorf("insert match: %w", err)
	}
	if err := db.InsertEvents(events); err != nil {
		return nil, fmt.Errorf("insert events: %w", err)
	}
	if err := db.InsertLineups(lineups); err != nil {
		return nil, fmt.Errorf("insert lineups: %w", err)
	}
	if err := db.InsertPlayerMatchStats(stats); err != nil {
		return nil, fmt.Errorf("insert player stats: %w", err)
	}
	log.WithField("players", len(stats)).Debug("stored derived stats")
	return stats, nil
}

func loadFeed(eventsPath string) ([]model.Event, []model.Lineup, error) {
	f, err := os.Open(eventsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open events: %w", err)
	}
	defer f.Close()

	switch ingestProvider {
	case "statsbomb":
		events, err := provider.LoadStatsBombEvents(f, ingestMatchID)
		if err != nil {
			return nil, nil, fmt.Errorf("load events: %w", err)
		}
		var lineups []model.Lineup
		if ingestLineups != "" {
			lf, err := os.Open(ingestLineups)
			if err != nil {
				return nil, nil, fmt.Errorf("open lineups: %w", err)
			}
			defer lf.Close()
			lineups, err = provider.LoadStatsBombLineups(lf, ingestMatchID)
			if err != nil {
				return nil, nil, fmt.Errorf("load lineups: %w", err)
			}
		} else {
			lineups = lineupsFromEvents(events)
		}
		return events, lineups, nil
	case "whoscored":
		events, err := provider.LoadWhoScoredEvents(f, ingestMatchID)
		if err != nil {
			return nil, nil, fmt.Errorf("load events: %w", err)
		}
		return events, lineupsFromEvents(events), nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", ingestProvider)
	}
}

// lineupsFromEvents builds a minimal lineup list from the players seen in the
// feed, when no lineup file is available. Everyone present from the first
// period is treated as a starter; substitution events still bound minutes.
func lineupsFromEvents(events []model.Event) []model.Lineup {
	seen := map[string]model.Lineup{}
	firstPeriod := map[string]int{}
	for i := range events {
		e := &events[i]
		if e.Player == "" {
			continue
		}
		if _, ok := seen[e.Player]; !ok {
			seen[e.Player] = model.Lineup{
				MatchID:  e.MatchID,
				Player:   e.Player,
				Team:     e.Team,
				Position: e.Position,
			}
			firstPeriod[e.Player] = e.Period
		}
		if e.Type == model.TypeSubstitution && e.SubReplacement != "" {
			if _, ok := seen[e.SubReplacement]; !ok {
				seen[e.SubReplacement] = model.Lineup{
					MatchID: e.MatchID,
					Player:  e.SubReplacement,
					Team:    e.Team,
				}
				firstPeriod[e.SubReplacement] = 0 // came on, not a starter
			}
		}
	}

	cameOn := map[string]bool{}
	for i := range events {
		if events[i].Type == model.TypeSubstitution {
			cameOn[events[i].SubReplacement] = true
		}
	}

	var out []model.Lineup
	for name, l := range seen {
		l.Starter = !cameOn[name] && firstPeriod[name] == 1
		out = append(out, l)
	}
	return out
}

// teamNames picks home/away labels: the lineups' order when available,
// otherwise first-seen order in the feed.
func teamNames(events []model.Event, lineups []model.Lineup) (home, away string) {
	pick := func(team string) {
		switch {
		case team == "" || team == home:
		case home == "":
			home = team
		case away == "":
			away = team
		}
	}
	for _, l := range lineups {
		pick(l.Team)
		if away != "" {
			return
		}
	}
	for i := range events {
		pick(events[i].Team)
		if away != "" {
			return
		}
	}
	return
}

func countGoals(events []model.Event, home, away string) (homeScore, awayScore int) {
	for i := range events {
		e := &events[i]
		if e.Period == 5 {
			continue // shootout goals do not count toward the score line
		}
		scorer := ""
		switch {
		case e.Type == model.TypeShot && e.OutcomeDetail == "Goal":
			scorer = e.Team
		case e.Type == model.TypeOwnGoal:
			// Credited to the opposition.
			if e.Team == home {
				scorer = away
			} else {
				scorer = home
			}
		}
		switch scorer {
		case "":
		case home:
			homeScore++
		default:
			awayScore++
		}
	}
	return
}

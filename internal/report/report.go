package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/jkds/go-football-metrics/internal/model"
	"github.com/jkds/go-football-metrics/internal/spatial"
	"github.com/jkds/go-football-metrics/internal/storage"
)

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	comp := s.Competition
	if comp == "" {
		comp = "-"
	}
	fmt.Fprintf(w, "\n%s  |  %s  |  %s  |  Provider: %s  |  ID: %d\n\n",
		s.Label(), s.MatchDate, comp, s.Provider, s.MatchID)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintPlayerTable prints the player stats table to stdout.
// If focusPlayer is non-empty, that player's row is marked with ">".
func PrintPlayerTable(stats []model.PlayerMatchStats, focusPlayer string) {
	PrintPlayerTableTo(os.Stdout, stats, focusPlayer)
}

// PrintPlayerTableTo writes the table to the provided writer.
func PrintPlayerTableTo(w io.Writer, stats []model.PlayerMatchStats, focusPlayer string) {
	table := newTable(w)
	table.Header(
		" ", "PLAYER", "TEAM", "MIN", "PASSES", "PASS%", "PROG_P", "PROG_C",
		"BOX_ENT", "PRE_A", "A", "xGA", "SHOTS", "xG", "G",
	)

	for _, s := range stats {
		marker := " "
		if focusPlayer != "" && s.Player == focusPlayer {
			marker = ">"
		}
		passPct := "—"
		if s.Passes > 0 {
			passPct = fmt.Sprintf("%.0f%%", s.PassPct())
		}
		table.Append(
			marker,
			s.Player,
			s.Team,
			fmt.Sprintf("%.0f", s.MinutesPlayed),
			strconv.Itoa(s.Passes),
			passPct,
			strconv.Itoa(s.ProgressivePasses),
			strconv.Itoa(s.ProgressiveCarries),
			strconv.Itoa(s.BoxEntries),
			strconv.Itoa(s.PreAssists),
			strconv.Itoa(s.Assists),
			fmt.Sprintf("%.2f", s.XGAssisted),
			strconv.Itoa(s.Shots),
			fmt.Sprintf("%.2f", s.XG),
			strconv.Itoa(s.Goals),
		)
	}
	table.Render()
}

// PrintTouchTable prints the touch breakdown table.
func PrintTouchTable(w io.Writer, stats []model.PlayerMatchStats, focusPlayer string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "TOUCHES", "OFF", "DEF", "BOX", "FINAL_3RD", "C_PRESS", "POSS_WON")

	for _, s := range stats {
		marker := " "
		if focusPlayer != "" && s.Player == focusPlayer {
			marker = ">"
		}
		table.Append(
			marker,
			s.Player,
			strconv.Itoa(s.Touches),
			strconv.Itoa(s.OffensiveTouches),
			strconv.Itoa(s.DefensiveTouches),
			strconv.Itoa(s.BoxTouches),
			strconv.Itoa(s.FinalThirdTouches),
			strconv.Itoa(s.Counterpressures),
			strconv.Itoa(s.PossessionsWon),
		)
	}
	table.Render()
}

// PrintLossReactions prints one row per possession loss with its reaction.
func PrintLossReactions(w io.Writer, reactions []model.LossReaction) {
	if len(reactions) == 0 {
		fmt.Fprintln(w, "No possession-loss reactions found.")
		return
	}
	table := newTable(w)
	table.Header("TEAM", "PLAYER", "REACTION", "TYPE", "SECS", "X", "Y")

	for _, r := range reactions {
		x, y := "—", "—"
		if r.Loc != nil {
			x = fmt.Sprintf("%.1f", r.Loc.X)
			y = fmt.Sprintf("%.1f", r.Loc.Y)
		}
		table.Append(
			r.Team,
			r.Player,
			r.Reaction,
			r.ReactionType.String(),
			fmt.Sprintf("%.1f", r.ElapsedSecs),
			x, y,
		)
	}
	table.Render()
}

// PrintCounterattacks prints one row per possession win with its first action.
func PrintCounterattacks(w io.Writer, counters []model.Counterattack) {
	if len(counters) == 0 {
		fmt.Fprintln(w, "No counterattacks found.")
		return
	}
	table := newTable(w)
	table.Header("TEAM", "PLAYER", "ACTION", "OUTCOME", "SECS", "FROM", "TO")

	for _, c := range counters {
		table.Append(
			c.Team,
			c.Player,
			c.ActionType.String(),
			c.Outcome,
			fmt.Sprintf("%.1f", c.ElapsedSecs),
			pointStr(c.StartLoc),
			pointStr(c.EndLoc),
		)
	}
	table.Render()
}

// PrintPassOutcomes prints per-player counts of what passes led to.
func PrintPassOutcomes(w io.Writer, outcomes []model.PassFinalOutcome) {
	if len(outcomes) == 0 {
		fmt.Fprintln(w, "No open-play passes found.")
		return
	}

	type counts struct {
		team                                string
		goal, shot, highOBV, toTeam, unsucc int
	}
	byPlayer := map[string]*counts{}
	var order []string
	for _, o := range outcomes {
		c, ok := byPlayer[o.Player]
		if !ok {
			c = &counts{team: o.Team}
			byPlayer[o.Player] = c
			order = append(order, o.Player)
		}
		switch o.Outcome {
		case model.PassOutcomeGoal:
			c.goal++
		case model.PassOutcomeShot:
			c.shot++
		case model.PassOutcomeHighOBV:
			c.highOBV++
		case model.PassOutcomeToTeam:
			c.toTeam++
		default:
			c.unsucc++
		}
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := byPlayer[order[i]], byPlayer[order[j]]
		if a.team != b.team {
			return a.team < b.team
		}
		return order[i] < order[j]
	})

	table := newTable(w)
	table.Header("PLAYER", "TEAM", "GOAL", "SHOT", "HIGH_OBV", "TO_TEAM", "UNSUCC", "TOTAL")
	for _, name := range order {
		c := byPlayer[name]
		total := c.goal + c.shot + c.highOBV + c.toTeam + c.unsucc
		table.Append(
			name,
			c.team,
			strconv.Itoa(c.goal),
			strconv.Itoa(c.shot),
			strconv.Itoa(c.highOBV),
			strconv.Itoa(c.toTeam),
			strconv.Itoa(c.unsucc),
			strconv.Itoa(total),
		)
	}
	table.Render()
}

// PrintLongBalls prints the long-ball retention table for a target player.
func PrintLongBalls(w io.Writer, player string, receipts []model.LongBallReceipt) {
	if len(receipts) == 0 {
		fmt.Fprintf(w, "No long balls into %s found.\n", player)
		return
	}
	table := newTable(w)
	table.Header("PERIOD", "TIME", "FROM", "TO", "PRESSED", "CARRY", "NEXT", "NEXT_OK", "SECS", "RETAINED")

	retained := 0
	for _, r := range receipts {
		if r.Retained {
			retained++
		}
		next := "—"
		nextOK := "—"
		if r.HasNextAction {
			next = r.NextAction.String()
			nextOK = yesNo(r.NextActionSuccess)
		}
		secs := "—"
		if !math.IsNaN(r.SecsToNextAction) {
			secs = fmt.Sprintf("%.1f", r.SecsToNextAction)
		}
		table.Append(
			strconv.Itoa(r.Period),
			r.Matchtime,
			pointStr(r.PassLoc),
			pointStr(r.ReceiptLoc),
			yesNo(r.UnderPressure),
			yesNo(r.InterimCarry),
			next,
			nextOK,
			secs,
			yesNo(r.Retained),
		)
	}
	table.Render()
	fmt.Fprintf(w, "\nRetention: %d/%d (%.0f%%)\n",
		retained, len(receipts), float64(retained)/float64(len(receipts))*100)
}

// PrintHull prints a convex-hull summary plus pass traffic into it.
func PrintHull(w io.Writer, label string, h *spatial.Hull, stats spatial.HullPassStats) {
	if h == nil {
		fmt.Fprintf(w, "Not enough actions to build a hull for %s.\n", label)
		return
	}
	fmt.Fprintf(w, "\nHull for %s: %d actions, %d retained, %d vertices\n",
		label, len(h.Points), len(h.Retained), len(h.Vertices))
	fmt.Fprintf(w, "Centroid: (%.1f, %.1f)  Area: %.0f (%.1f%% of pitch)  Perimeter: %.0f\n",
		h.Centroid.X, h.Centroid.Y, h.Area, h.AreaPct, h.Perimeter)

	fmt.Fprintf(w, "\nOpposition passes into hull: %d successful, %d unsuccessful\n",
		stats.Successful, stats.Unsuccessful)
	if !math.IsNaN(stats.TargetedPct) {
		fmt.Fprintf(w, "Targeted: %.1f%%  Prevented: %.1f%%\n", stats.TargetedPct, stats.PreventedPct)
	}
}

// PrintDefensiveLines prints team defensive height and width estimates.
func PrintDefensiveLines(w io.Writer, team string, lines spatial.Lines) {
	table := newTable(w)
	table.Header("TEAM", "DEF_LINE", "PRESS_LINE", "LEFT_WIDTH", "RIGHT_WIDTH")
	table.Append(
		team,
		floatCell(lines.DefensiveHeight),
		floatCell(lines.PressureHeight),
		floatCell(lines.LeftWidth),
		floatCell(lines.RightWidth),
	)
	table.Render()
}

// PrintSimulation prints a Monte Carlo outcome summary.
func PrintSimulation(w io.Writer, home, away string, r model.SimulationResult) {
	fmt.Fprintf(w, "\nSimulated %d trials (xG %.2f vs %.2f)\n\n", r.Trials, r.HomeXG, r.AwayXG)

	table := newTable(w)
	table.Header("TEAM", "WIN%", "DRAW%", "xPTS")
	table.Append(home,
		fmt.Sprintf("%.1f%%", r.HomeWinProb*100),
		fmt.Sprintf("%.1f%%", r.DrawProb*100),
		fmt.Sprintf("%.2f", r.HomeXPoints))
	table.Append(away,
		fmt.Sprintf("%.1f%%", r.AwayWinProb*100),
		fmt.Sprintf("%.1f%%", r.DrawProb*100),
		fmt.Sprintf("%.2f", r.AwayXPoints))
	table.Render()
}

// PrintPlayerTotals prints cross-match totals plus per-90 rates.
func PrintPlayerTotals(w io.Writer, t storage.PlayerTotals) {
	fmt.Fprintf(w, "\n%s (%s)  |  %d matches, %.0f minutes\n\n", t.Player, t.Team, t.Matches, t.MinutesPlayed)

	table := newTable(w)
	table.Header("STAT", "TOTAL", "PER 90")
	per90 := func(n float64) string {
		if t.MinutesPlayed == 0 {
			return "—"
		}
		return fmt.Sprintf("%.2f", n/t.MinutesPlayed*90)
	}
	table.Append("Passes", strconv.Itoa(t.Passes), per90(float64(t.Passes)))
	table.Append("Progressive passes", strconv.Itoa(t.ProgressivePasses), per90(float64(t.ProgressivePasses)))
	table.Append("Box entries", strconv.Itoa(t.BoxEntries), per90(float64(t.BoxEntries)))
	table.Append("Pre-assists", strconv.Itoa(t.PreAssists), per90(float64(t.PreAssists)))
	table.Append("Assists", strconv.Itoa(t.Assists), per90(float64(t.Assists)))
	table.Append("xG assisted", fmt.Sprintf("%.2f", t.XGAssisted), per90(t.XGAssisted))
	table.Append("Shots", strconv.Itoa(t.Shots), per90(float64(t.Shots)))
	table.Append("xG", fmt.Sprintf("%.2f", t.XG), per90(t.XG))
	table.Append("Goals", strconv.Itoa(t.Goals), per90(float64(t.Goals)))
	table.Append("Counterpressures", strconv.Itoa(t.Counterpressures), per90(float64(t.Counterpressures)))
	table.Append("Possessions won", strconv.Itoa(t.PossessionsWon), per90(float64(t.PossessionsWon)))
	table.Render()
}

// PrintPlayerTrend prints one row per match for a player, oldest first.
func PrintPlayerTrend(w io.Writer, rows []storage.PlayerMatchRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No stored matches for this player.")
		return
	}
	table := newTable(w)
	table.Header("DATE", "OPPONENT", "MIN", "PASSES", "PASS%", "PROG_P", "BOX_ENT", "A", "xGA", "SHOTS", "xG", "G")

	for _, r := range rows {
		passPct := "—"
		if r.Passes > 0 {
			passPct = fmt.Sprintf("%.0f%%", float64(r.PassesCompleted)/float64(r.Passes)*100)
		}
		table.Append(
			r.MatchDate,
			r.Opponent,
			fmt.Sprintf("%.0f", r.MinutesPlayed),
			strconv.Itoa(r.Passes),
			passPct,
			strconv.Itoa(r.ProgressivePasses),
			strconv.Itoa(r.BoxEntries),
			strconv.Itoa(r.Assists),
			fmt.Sprintf("%.2f", r.XGAssisted),
			strconv.Itoa(r.Shots),
			fmt.Sprintf("%.2f", r.XG),
			strconv.Itoa(r.Goals),
		)
	}
	table.Render()
}

// ClusterRow is one pass-cluster summary line.
type ClusterRow struct {
	ClusterID int
	Passes    int
	Share     float64
	Centroid  [4]float64 // x, y, endX, endY in pitch units
}

// PrintClusters prints pass-cluster membership counts, most used first.
func PrintClusters(w io.Writer, rows []ClusterRow) {
	table := newTable(w)
	table.Header("CLUSTER", "PASSES", "SHARE", "FROM", "TO")
	for _, r := range rows {
		table.Append(
			strconv.Itoa(r.ClusterID),
			strconv.Itoa(r.Passes),
			fmt.Sprintf("%.1f%%", r.Share),
			fmt.Sprintf("(%.0f,%.0f)", r.Centroid[0], r.Centroid[1]),
			fmt.Sprintf("(%.0f,%.0f)", r.Centroid[2], r.Centroid[3]),
		)
	}
	table.Render()
}

// PrintMatchList prints the stored-match index.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches stored yet. Run 'fbmetrics ingest' first.")
		return
	}
	table := newTable(w)
	table.Header("ID", "DATE", "COMPETITION", "MATCH", "PROVIDER")
	for _, m := range matches {
		comp := m.Competition
		if comp == "" {
			comp = "—"
		}
		table.Append(
			strconv.FormatInt(m.MatchID, 10),
			m.MatchDate,
			comp,
			m.Label(),
			m.Provider,
		)
	}
	table.Render()
}

func pointStr(p *model.Point) string {
	if p == nil {
		return "—"
	}
	return fmt.Sprintf("(%.0f,%.0f)", p.X, p.Y)
}

func floatCell(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.1f", v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

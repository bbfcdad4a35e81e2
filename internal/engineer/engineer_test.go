package engineer

import (
	"math"
	"testing"

	"github.com/jkds/go-football-metrics/internal/model"
)

func evt(period, min, sec int, t model.EventType, team, player string) model.Event {
	return model.Event{MatchID: 1, Period: period, Minute: min, Second: sec, Type: t, Team: team, Player: player}
}

func TestAddCumulativeMinutesConcatenatesPeriods(t *testing.T) {
	events := []model.Event{
		evt(1, 0, 0, model.TypePass, "A", "p1"),
		evt(1, 45, 30, model.TypePass, "A", "p1"), // first-half stoppage
		evt(2, 45, 0, model.TypePass, "B", "p2"),
		evt(2, 90, 0, model.TypePass, "B", "p2"),
	}
	out := AddCumulativeMinutes(events)

	if got := out[1].CumulativeMins; got != 45.5 {
		t.Fatalf("end of first half = %v, want 45.5", got)
	}
	// Second half starts where the first ended: offset 45.5 - 45.0 = 0.5.
	if got := out[2].CumulativeMins; got != 45.5 {
		t.Errorf("start of second half = %v, want 45.5", got)
	}
	if got := out[3].CumulativeMins; got != 90.5 {
		t.Errorf("end of second half = %v, want 90.5", got)
	}
	// Input untouched.
	if events[2].CumulativeMins != 0 {
		t.Errorf("input slice was mutated")
	}
}

func TestAddCumulativeMinutesMonotonic(t *testing.T) {
	events := []model.Event{
		evt(1, 0, 12, model.TypePass, "A", "p1"),
		evt(1, 44, 59, model.TypePass, "A", "p1"),
		evt(1, 45, 2, model.TypePass, "A", "p1"),
		evt(2, 45, 0, model.TypePass, "B", "p2"),
		evt(2, 45, 1, model.TypePass, "B", "p2"),
		evt(3, 90, 0, model.TypePass, "A", "p1"),
		evt(3, 105, 30, model.TypePass, "A", "p1"),
		evt(4, 105, 0, model.TypePass, "B", "p2"),
	}
	out := AddCumulativeMinutes(events)
	for i := 1; i < len(out); i++ {
		if out[i].CumulativeMins < out[i-1].CumulativeMins {
			t.Fatalf("cumulative minutes not monotonic at %d: %v then %v", i, out[i-1].CumulativeMins, out[i].CumulativeMins)
		}
	}
}

func TestAddCumulativeMinutesMissingFirstPeriod(t *testing.T) {
	// Only second-half data: no prior period means zero offset.
	events := []model.Event{
		evt(2, 45, 0, model.TypePass, "A", "p1"),
		evt(2, 50, 30, model.TypePass, "A", "p1"),
	}
	out := AddCumulativeMinutes(events)
	if out[0].CumulativeMins != 45 || out[1].CumulativeMins != 50.5 {
		t.Fatalf("got %v and %v, want raw clock values", out[0].CumulativeMins, out[1].CumulativeMins)
	}
}

func TestAddPassRecipients(t *testing.T) {
	events := []model.Event{
		evt(1, 0, 0, model.TypePass, "A", "passer"),
		evt(1, 0, 2, model.TypeBallReceipt, "A", "receiver"),
		evt(1, 0, 5, model.TypePass, "A", "receiver"),
	}
	events[2].PassRecipient = "already set"

	out := AddPassRecipients(events)
	if got := out[0].PassRecipient; got != "receiver" {
		t.Errorf("recipient = %q, want %q", got, "receiver")
	}
	if got := out[2].PassRecipient; got != "already set" {
		t.Errorf("explicit recipient overwritten: %q", got)
	}
	if events[0].PassRecipient != "" {
		t.Errorf("input slice was mutated")
	}
}

func TestMinutesPlayed(t *testing.T) {
	events := AddCumulativeMinutes([]model.Event{
		evt(1, 0, 0, model.TypePass, "A", "starter"),
		func() model.Event {
			e := evt(2, 60, 0, model.TypeSubstitution, "A", "starter")
			e.SubReplacement = "sub"
			return e
		}(),
		evt(2, 90, 0, model.TypePass, "A", "sub"),
	})
	lineups := []model.Lineup{
		{MatchID: 1, Player: "starter", Team: "A", Starter: true},
		{MatchID: 1, Player: "ever-present", Team: "A", Starter: true},
		{MatchID: 1, Player: "sub", Team: "A"},
		{MatchID: 1, Player: "unused", Team: "A"},
	}

	out := MinutesPlayed(lineups, events)
	cases := []struct {
		player       string
		on, off, min float64
	}{
		{"starter", 0, 60, 60},
		{"ever-present", 0, 90, 90},
		{"sub", 60, 90, 30},
		{"unused", 0, 0, 0},
	}
	for _, c := range cases {
		var got model.Lineup
		for _, l := range out {
			if l.Player == c.player {
				got = l
			}
		}
		if got.TimeOn != c.on || got.TimeOff != c.off || got.MinutesPlayed != c.min {
			t.Errorf("%s: on/off/min = %v/%v/%v, want %v/%v/%v",
				c.player, got.TimeOn, got.TimeOff, got.MinutesPlayed, c.on, c.off, c.min)
		}
	}
}

func TestEventsWhilePlaying(t *testing.T) {
	events := AddCumulativeMinutes([]model.Event{
		evt(1, 10, 0, model.TypePass, "B", "opp1"),
		evt(1, 20, 0, model.TypePass, "B", "opp1"),
		func() model.Event {
			e := evt(1, 30, 0, model.TypeSubstitution, "A", "starter")
			e.SubReplacement = "sub"
			return e
		}(),
		evt(1, 40, 0, model.TypePass, "B", "opp1"),
		evt(1, 45, 0, model.TypePass, "A", "sub"),
	})
	lineups := MinutesPlayed([]model.Lineup{
		{MatchID: 1, Player: "starter", Team: "A", Starter: true},
		{MatchID: 1, Player: "sub", Team: "A"},
		{MatchID: 1, Player: "unused", Team: "A"},
	}, events)

	opp := EventsWhilePlaying(lineups, events, model.TypePass, true)
	if opp["starter"] != 2 {
		t.Errorf("starter saw %d opposition passes, want 2", opp["starter"])
	}
	if opp["sub"] != 1 {
		t.Errorf("sub saw %d opposition passes, want 1", opp["sub"])
	}
	if opp["unused"] != 0 {
		t.Errorf("unused sub saw %d opposition passes, want 0", opp["unused"])
	}

	own := EventsWhilePlaying(lineups, events, model.TypePass, false)
	if own["sub"] != 1 {
		t.Errorf("sub made %d own-team passes while on, want 1", own["sub"])
	}
}

func TestMatchLengthEmpty(t *testing.T) {
	if got := MatchLength(nil); got != 0 || math.IsNaN(got) {
		t.Fatalf("MatchLength(nil) = %v, want 0", got)
	}
}

// Package engineer normalizes raw provider events onto the canonical axes the
// derived-tag passes depend on: a continuous cumulative-minute clock, filled
// pass recipients, and lineup minutes. All functions are copy-on-write; the
// caller's slices are never mutated.
package engineer

import (
	"sort"

	"github.com/jkds/go-football-metrics/internal/model"
)

// AddCumulativeMinutes returns a copy of events with CumulativeMins set.
// Within a period the value is minute + second/60; each subsequent period is
// offset so its first event lands exactly where the previous period ended,
// concatenating periods without discontinuity or overlap. A period with no
// earlier events contributes a zero offset.
func AddCumulativeMinutes(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)

	for _, idxs := range byMatch(out) {
		periods := map[int][]int{}
		for _, i := range idxs {
			periods[out[i].Period] = append(periods[out[i].Period], i)
		}
		order := make([]int, 0, len(periods))
		for p := range periods {
			order = append(order, p)
		}
		sort.Ints(order)

		prevMax := 0.0
		havePrev := false
		for _, p := range order {
			minRaw, maxRaw := 0.0, 0.0
			for n, i := range periods[p] {
				raw := rawMinute(out[i])
				if n == 0 || raw < minRaw {
					minRaw = raw
				}
				if n == 0 || raw > maxRaw {
					maxRaw = raw
				}
			}
			offset := 0.0
			if havePrev {
				offset = prevMax - minRaw
			}
			for _, i := range periods[p] {
				out[i].CumulativeMins = rawMinute(out[i]) + offset
			}
			prevMax = maxRaw + offset
			havePrev = true
		}
	}
	return out
}

func rawMinute(e model.Event) float64 {
	return float64(e.Minute) + float64(e.Second)/60
}

// byMatch groups slice indices by match id, preserving order within a match.
func byMatch(events []model.Event) map[int64][]int {
	m := map[int64][]int{}
	for i := range events {
		m[events[i].MatchID] = append(m[events[i].MatchID], i)
	}
	return m
}

// AddPassRecipients fills the recipient of passes that lack one with the
// player of the next event in the same match. Schemas without an explicit
// recipient field record the receiving touch as the following row.
func AddPassRecipients(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)

	for _, idxs := range byMatch(out) {
		for n := 0; n < len(idxs)-1; n++ {
			i := idxs[n]
			if out[i].Type == model.TypePass && out[i].PassRecipient == "" {
				out[i].PassRecipient = out[idxs[n+1]].Player
			}
		}
	}
	return out
}

// MatchLength returns the last cumulative minute of the match, 0 for an
// empty event set.
func MatchLength(events []model.Event) float64 {
	max := 0.0
	for i := range events {
		if events[i].CumulativeMins > max {
			max = events[i].CumulativeMins
		}
	}
	return max
}

// MinutesPlayed returns a copy of lineups with TimeOn, TimeOff and
// MinutesPlayed filled from the Substitution events in the stream. Starters
// run from 0 until subbed off or full time; substitutes run from the moment
// they replace someone; an unused substitute stays at 0/0. Events must carry
// cumulative minutes.
func MinutesPlayed(lineups []model.Lineup, events []model.Event) []model.Lineup {
	out := make([]model.Lineup, len(lineups))
	copy(out, lineups)

	type sub struct {
		off, on string
		at      float64
	}
	subs := map[int64][]sub{}
	length := map[int64]float64{}
	for i := range events {
		e := &events[i]
		if e.CumulativeMins > length[e.MatchID] {
			length[e.MatchID] = e.CumulativeMins
		}
		if e.Type == model.TypeSubstitution {
			subs[e.MatchID] = append(subs[e.MatchID], sub{off: e.Player, on: e.SubReplacement, at: e.CumulativeMins})
		}
	}

	for i := range out {
		l := &out[i]
		total := length[l.MatchID]
		on, off := 0.0, total
		played := l.Starter
		for _, s := range subs[l.MatchID] {
			if s.on == l.Player {
				on = s.at
				played = true
			}
			if s.off == l.Player {
				off = s.at
			}
		}
		if !played {
			on, off = 0, 0
		}
		l.TimeOn, l.TimeOff = on, off
		l.MinutesPlayed = off - on
	}
	return out
}

// EventsWhilePlaying counts, per player in lineups, the events of type t that
// occurred while that player was on the pitch. With opposition true only
// events by the other team count, otherwise only the player's own team.
// Events must carry cumulative minutes and lineups must carry minutes.
func EventsWhilePlaying(lineups []model.Lineup, events []model.Event, t model.EventType, opposition bool) map[string]int {
	counts := make(map[string]int, len(lineups))
	for i := range lineups {
		l := &lineups[i]
		counts[l.Player] = 0
		if l.MinutesPlayed == 0 {
			continue
		}
		for j := range events {
			e := &events[j]
			if e.MatchID != l.MatchID || e.Type != t {
				continue
			}
			if opposition == (e.Team == l.Team) {
				continue
			}
			if e.CumulativeMins >= l.TimeOn && e.CumulativeMins <= l.TimeOff {
				counts[l.Player]++
			}
		}
	}
	return counts
}

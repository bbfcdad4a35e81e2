// Package simulate runs Monte Carlo match-outcome simulations from per-shot
// expected goals.
package simulate

import (
	"math"
	"math/rand"

	"github.com/jkds/go-football-metrics/internal/model"
)

// DefaultTrials is the simulation count used when the caller does not ask
// for a specific one.
const DefaultTrials = 10000

// Simulator draws match outcomes from independent per-shot Bernoulli
// trials. The random source is seeded by the caller so results are
// reproducible.
type Simulator struct {
	rng *rand.Rand
}

func New(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Match simulates a match from the two sides' shot xG values over the given
// number of trials. Every shot is an independent Bernoulli trial with its xG
// as the success probability. Zero trials yield NaN probabilities; a side
// with no shots is simply goalless.
func (s *Simulator) Match(homeXG, awayXG []float64, trials int) model.SimulationResult {
	r := model.SimulationResult{
		Trials: trials,
		HomeXG: sum(homeXG),
		AwayXG: sum(awayXG),
	}
	if trials <= 0 {
		r.HomeWinProb = math.NaN()
		r.AwayWinProb = math.NaN()
		r.DrawProb = math.NaN()
		r.HomeXPoints = math.NaN()
		r.AwayXPoints = math.NaN()
		return r
	}

	var homeWins, awayWins, draws int
	for t := 0; t < trials; t++ {
		home := s.goals(homeXG)
		away := s.goals(awayXG)
		switch {
		case home > away:
			homeWins++
		case away > home:
			awayWins++
		default:
			draws++
		}
	}

	n := float64(trials)
	r.HomeWinProb = float64(homeWins) / n
	r.AwayWinProb = float64(awayWins) / n
	r.DrawProb = float64(draws) / n
	r.HomeXPoints = 3*r.HomeWinProb + r.DrawProb
	r.AwayXPoints = 3*r.AwayWinProb + r.DrawProb
	return r
}

func (s *Simulator) goals(xgs []float64) int {
	goals := 0
	for _, xg := range xgs {
		if s.rng.Float64() < xg {
			goals++
		}
	}
	return goals
}

func sum(vals []float64) float64 {
	t := 0.0
	for _, v := range vals {
		t += v
	}
	return t
}

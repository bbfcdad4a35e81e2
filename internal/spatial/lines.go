package spatial

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jkds/go-football-metrics/internal/model"
)

var defensiveActionTypes = map[model.EventType]bool{
	model.TypePressure:      true,
	model.TypeBallRecovery:  true,
	model.TypeBlock:         true,
	model.TypeClearance:     true,
	model.TypeInterception:  true,
	model.TypeDuel:          true,
	model.TypeFoulCommitted: true,
	model.TypeFiftyFifty:    true,
}

var leftPositions = map[string]bool{
	"Left Back":      true,
	"Left Midfield":  true,
	"Left Wing Back": true,
	"Left Wing":      true,
}

var rightPositions = map[string]bool{
	"Right Back":      true,
	"Right Midfield":  true,
	"Right Wing Back": true,
	"Right Wing":      true,
}

// Lines holds a team's characteristic defensive positions: line height from
// centre-back actions and opposition offsides, pressure height, and the
// lateral positions of left- and right-sided defensive actions. Values are
// medians after outlier trimming, NaN when no qualifying events exist.
type Lines struct {
	DefensiveHeight float64
	PressureHeight  float64
	LeftWidth       float64
	RightWidth      float64
}

// DefensiveLines computes a team's defensive line positions over the events
// of one or more matches. Opposition offsides are mirrored onto the
// defending team's axis (an offside at opposition x is a line held at
// 120-x).
func DefensiveLines(events []model.Event, team string, include Include) Lines {
	var heights, pressures, lefts, rights []float64

	for i := range events {
		e := &events[i]
		if e.Loc == nil {
			continue
		}
		if e.Team == team {
			if defensiveActionTypes[e.Type] {
				switch {
				case e.Position == "Center Back":
					heights = append(heights, e.Loc.X)
				case leftPositions[e.Position]:
					lefts = append(lefts, e.Loc.Y)
				case rightPositions[e.Position]:
					rights = append(rights, e.Loc.Y)
				}
			}
			if e.Type == model.TypePressure {
				pressures = append(pressures, e.Loc.X)
			}
			continue
		}
		// Opposition offsides pin the defensive line.
		if e.Type == model.TypeOffside {
			heights = append(heights, model.PitchLength-e.Loc.X)
		}
		if e.Type == model.TypePass && e.OutcomeDetail == "Pass Offside" && e.EndLoc != nil {
			heights = append(heights, model.PitchLength-e.EndLoc.X)
		}
	}

	return Lines{
		DefensiveHeight: trimmedMedian(heights, include),
		PressureHeight:  trimmedMedian(pressures, include),
		LeftWidth:       trimmedMedian(lefts, include),
		RightWidth:      trimmedMedian(rights, include),
	}
}

// trimmedMedian trims outliers per include and returns the median, NaN for
// an empty sample.
func trimmedMedian(vals []float64, include Include) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	var kept []float64
	if include.Stds > 0 && len(vals) > 1 {
		mean := stat.Mean(vals, nil)
		sum := 0.0
		for _, v := range vals {
			sum += (v - mean) * (v - mean)
		}
		spread := math.Sqrt(sum / float64(len(vals)-1))
		for _, v := range vals {
			if math.Abs(v-mean) <= spread*include.Stds {
				kept = append(kept, v)
			}
		}
	} else if include.Percent > 0 && include.Percent < 100 {
		kept = append(kept, vals...)
		sort.Float64s(kept)
		kept = kept[:int(include.Percent/100*float64(len(kept)))]
	} else {
		kept = vals
	}
	if len(kept) == 0 {
		return math.NaN()
	}
	return median(kept)
}

func median(vals []float64) float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

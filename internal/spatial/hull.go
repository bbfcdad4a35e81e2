// Package spatial derives territory features from event locations: trimmed
// convex hulls, point containment, passes into a hull, defensive line
// positions and pass cluster assignment.
package spatial

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/jkds/go-football-metrics/internal/model"
)

// Include selects which points survive outlier trimming: within Stds
// standard deviations of distance from the mean position, or the closest
// Percent of points. Exactly one field is set.
type Include struct {
	Stds    float64
	Percent float64
}

// ParseInclude reads the CLI form of an include selector: "1std", "1.5std",
// "90%" or "90".
func ParseInclude(s string) (Include, error) {
	if strings.HasSuffix(s, "std") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "std"), 64)
		if err != nil || n <= 0 {
			return Include{}, fmt.Errorf("invalid include selector %q", s)
		}
		return Include{Stds: n}, nil
	}
	p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || p <= 0 || p > 100 {
		return Include{}, fmt.Errorf("invalid include selector %q", s)
	}
	return Include{Percent: p}, nil
}

// Hull is a convex hull over trimmed event locations.
type Hull struct {
	Name      string
	Points    []model.Point // all input points
	Retained  []model.Point // points surviving the trim
	Vertices  []model.Point // hull vertices, counter-clockwise
	Centroid  model.Point   // mean of retained points
	Area      float64
	Perimeter float64
	AreaPct   float64 // area over pitch area
}

// BuildHull trims the point set per include and constructs its convex hull.
// Returns nil when fewer than minPoints points are supplied or fewer than
// three survive the trim.
func BuildHull(name string, points []model.Point, include Include, minPoints int, pitchArea float64) *Hull {
	if minPoints < 3 {
		minPoints = 3
	}
	if len(points) < minPoints {
		return nil
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	mean := model.Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}

	// Sort by distance from the mean position, nearest first, ties in
	// natural order.
	ordered := make([]model.Point, len(points))
	copy(ordered, points)
	dist := func(p model.Point) float64 { return math.Hypot(p.X-mean.X, p.Y-mean.Y) }
	sort.SliceStable(ordered, func(i, j int) bool { return dist(ordered[i]) < dist(ordered[j]) })

	var retained []model.Point
	if include.Stds > 0 {
		sum := 0.0
		for _, p := range ordered {
			sum += dist(p) * dist(p)
		}
		spread := math.Sqrt(sum / float64(len(ordered)-1))
		for _, p := range ordered {
			if dist(p) <= spread*include.Stds {
				retained = append(retained, p)
			}
		}
	} else {
		keep := int(math.Ceil(float64(len(ordered)) * include.Percent / 100))
		retained = ordered[:keep]
	}
	if len(retained) < 3 {
		return nil
	}

	h := &Hull{Name: name, Points: points, Retained: retained}
	rx := make([]float64, len(retained))
	ry := make([]float64, len(retained))
	for i, p := range retained {
		rx[i], ry[i] = p.X, p.Y
	}
	h.Centroid = model.Point{X: stat.Mean(rx, nil), Y: stat.Mean(ry, nil)}

	h.Vertices = convexHull(retained)
	for i, v := range h.Vertices {
		w := h.Vertices[(i+1)%len(h.Vertices)]
		h.Area += v.X*w.Y - w.X*v.Y
		h.Perimeter += math.Hypot(w.X-v.X, w.Y-v.Y)
	}
	h.Area = math.Abs(h.Area) / 2
	if pitchArea > 0 {
		h.AreaPct = 100 * h.Area / pitchArea
	}
	return h
}

// convexHull is the monotone chain construction, returning vertices in
// counter-clockwise order without collinear points.
func convexHull(points []model.Point) []model.Point {
	pts := make([]model.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	// Deduplicate, or collinearity checks degenerate.
	uniq := pts[:1]
	for _, p := range pts[1:] {
		if p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}

	var lower, upper []model.Point
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

func cross(o, a, b model.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Contains reports whether the point lies inside the hull, boundary
// inclusive.
func (h *Hull) Contains(p model.Point) bool {
	if len(h.Vertices) < 3 {
		return false
	}
	const eps = 1e-9
	for i, v := range h.Vertices {
		w := h.Vertices[(i+1)%len(h.Vertices)]
		if cross(v, w, p) < -eps {
			return false
		}
	}
	return true
}

// HullPassStats counts passes targeting a hull. TargetedPct is the share of
// all checked passes that ended inside; PreventedPct the share of those that
// were unsuccessful. Both are NaN when their denominator is zero.
type HullPassStats struct {
	Successful   int
	Unsuccessful int
	TargetedPct  float64
	PreventedPct float64
}

// PassesIntoHull counts passes whose end point lies inside the hull. With
// mirror set, pass coordinates are reflected through the pitch centre first,
// expressing opposition passes in the hull owner's attacking direction.
// Non-pass events and passes without an end location are ignored.
func PassesIntoHull(h *Hull, events []model.Event, mirror bool) HullPassStats {
	s := HullPassStats{TargetedPct: math.NaN(), PreventedPct: math.NaN()}
	total := 0
	for i := range events {
		e := &events[i]
		if e.Type != model.TypePass || e.EndLoc == nil {
			continue
		}
		total++
		end := *e.EndLoc
		if mirror {
			end = end.Mirror()
		}
		if !h.Contains(end) {
			continue
		}
		if e.Outcome == model.OutcomeSuccess {
			s.Successful++
		} else {
			s.Unsuccessful++
		}
	}
	into := s.Successful + s.Unsuccessful
	if total > 0 {
		s.TargetedPct = 100 * float64(into) / float64(total)
	}
	if into > 0 {
		s.PreventedPct = 100 * float64(s.Unsuccessful) / float64(into)
	}
	return s
}

package spatial

import (
	"fmt"
	"io"
	"math"

	"github.com/tidwall/gjson"

	"github.com/jkds/go-football-metrics/internal/model"
)

// ClusterModel is a fixed set of pass cluster centroids from a pre-trained
// artifact. Centroids live in the model's training space: all four
// coordinates divided by the pitch length.
type ClusterModel struct {
	centroids [][4]float64
}

// LoadClusterModel reads a centroid artifact: a JSON document with a
// "centroids" array of 4-element [x, y, endX, endY] arrays in normalized
// space.
func LoadClusterModel(r io.Reader) (*ClusterModel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading cluster model: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("cluster model is not valid JSON")
	}
	m := &ClusterModel{}
	for _, c := range gjson.GetBytes(data, "centroids").Array() {
		vals := c.Array()
		if len(vals) != 4 {
			return nil, fmt.Errorf("centroid %d has %d coordinates, want 4", len(m.centroids), len(vals))
		}
		m.centroids = append(m.centroids, [4]float64{
			vals[0].Float(), vals[1].Float(), vals[2].Float(), vals[3].Float(),
		})
	}
	if len(m.centroids) == 0 {
		return nil, fmt.Errorf("cluster model has no centroids")
	}
	return m, nil
}

func (m *ClusterModel) Len() int { return len(m.centroids) }

// ClusterAssignment attaches a pass to its nearest cluster. The centroid is
// scaled back to pitch units.
type ClusterAssignment struct {
	PassIndex int
	ClusterID int
	Centroid  [4]float64 // x, y, endX, endY in pitch units
}

// Assign maps a pass to its nearest centroid by Euclidean distance in the
// model's normalized space. Non-pass events and passes without both
// locations report false.
func (m *ClusterModel) Assign(e *model.Event) (ClusterAssignment, bool) {
	if e.Type != model.TypePass || e.Loc == nil || e.EndLoc == nil {
		return ClusterAssignment{}, false
	}
	v := [4]float64{
		e.Loc.X / model.PitchLength,
		e.Loc.Y / model.PitchLength,
		e.EndLoc.X / model.PitchLength,
		e.EndLoc.Y / model.PitchLength,
	}

	best, bestDist := 0, math.Inf(1)
	for i, c := range m.centroids {
		d := 0.0
		for k := 0; k < 4; k++ {
			d += (v[k] - c[k]) * (v[k] - c[k])
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}

	a := ClusterAssignment{PassIndex: e.Index, ClusterID: best}
	for k := 0; k < 4; k++ {
		a.Centroid[k] = m.centroids[best][k] * model.PitchLength
	}
	return a, true
}

// AssignAll assigns every pass with known locations, skipping the rest.
func (m *ClusterModel) AssignAll(events []model.Event) []ClusterAssignment {
	var out []ClusterAssignment
	for i := range events {
		if a, ok := m.Assign(&events[i]); ok {
			out = append(out, a)
		}
	}
	return out
}

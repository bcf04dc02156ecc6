package vulnerability

import (
	"kmend/agriroute/pkg/datastructure"
)

// Classifier labels edges flood-vulnerable from road class and the flood-prone table.
// Weather independent; whether to avoid them is the route engine's call.
type Classifier struct {
	floodProne *FloodProneTable
}

// NewClassifier floodProne may be nil.
func NewClassifier(floodProne *FloodProneTable) *Classifier {
	return &Classifier{floodProne: floodProne}
}

func IsVulnerableClass(rc datastructure.RoadClass) bool {
	return rc == datastructure.RoadClassUnpaved || rc == datastructure.RoadClassTrack
}

// Classify builds a fresh overlay; g is not modified.
func (c *Classifier) Classify(g *datastructure.RoadGraph) *datastructure.ClassifiedGraph {
	vulnerable := make([]bool, len(g.Edges))
	for i, e := range g.Edges {
		if IsVulnerableClass(e.RoadClass) {
			vulnerable[i] = true
			continue
		}
		if c.floodProne.Intersects(g.Nodes[e.From].Coord, g.Nodes[e.To].Coord) {
			vulnerable[i] = true
		}
	}
	return datastructure.NewClassifiedGraph(g, vulnerable)
}

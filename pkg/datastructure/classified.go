package datastructure

// ClassifiedGraph per-evaluation vulnerability overlay on a shared RoadGraph.
type ClassifiedGraph struct {
	*RoadGraph
	Vulnerable []bool
}

func NewClassifiedGraph(g *RoadGraph, vulnerable []bool) *ClassifiedGraph {
	return &ClassifiedGraph{
		RoadGraph:  g,
		Vulnerable: vulnerable,
	}
}

func (cg *ClassifiedGraph) IsVulnerable(edgeID int32) bool {
	if int(edgeID) >= len(cg.Vulnerable) || edgeID < 0 {
		return false
	}
	return cg.Vulnerable[edgeID]
}

func (cg *ClassifiedGraph) VulnerableCount() int {
	n := 0
	for _, v := range cg.Vulnerable {
		if v {
			n++
		}
	}
	return n
}

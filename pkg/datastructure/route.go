package datastructure

type Path struct {
	Nodes             []int32
	Edges             []int32
	DistanceMeters    float64
	TravelTimeSeconds float64
}

func (p Path) Empty() bool {
	return len(p.Nodes) == 0
}

// RouteSet engine output for one request.
type RouteSet struct {
	Primary              Path
	Alternatives         []Path
	AlternativesAvoided  []int // VulnerableAvoided of each alternative
	SnappedStart         int32
	SnappedEnd           int32
	AvoidanceApplied     bool
	AvoidanceNotPossible bool
	VulnerableAvoided    int
}

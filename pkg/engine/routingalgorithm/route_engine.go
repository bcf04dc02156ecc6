package routingalgorithm

import (
	"math"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/server"
)

const snapCandidates = 8

type Options struct {
	Alternatives     int     // k
	Penalty          float64 // weight multiplier for edges of already found routes
	MaxOverlap       float64 // share of edges above which a candidate counts as a duplicate
	MaxSnapDistanceM float64
}

func DefaultOptions() Options {
	return Options{
		Alternatives:     3,
		Penalty:          3,
		MaxOverlap:       0.7,
		MaxSnapDistanceM: 2000,
	}
}

// RouteEngine constrained shortest path + penalty based alternatives over a classified graph.
// Synchronous; one call per request.
type RouteEngine struct {
	opts Options
}

func NewRouteEngine(opts Options) *RouteEngine {
	return &RouteEngine{opts: opts}
}

// SnapToNode nearest routable node to c.
func (re *RouteEngine) SnapToNode(g *datastructure.RoadGraph, c datastructure.Coordinate) (int32, float64, error) {
	near := g.NearestNodes(c, snapCandidates)
	if len(near) == 0 {
		return -1, math.Inf(1), server.WrapErrorf(nil, server.ErrInvalidEndpoint, "no road near %s", c)
	}
	best := near[0]
	if re.opts.MaxSnapDistanceM > 0 && best.Dist > re.opts.MaxSnapDistanceM {
		return -1, best.Dist, server.WrapErrorf(nil, server.ErrInvalidEndpoint,
			"nearest road to %s is %.0f m away (limit %.0f m)", c, best.Dist, re.opts.MaxSnapDistanceM)
	}
	return best.NodeID, best.Dist, nil
}

func travelTime(e datastructure.RoadEdge) float64 {
	return e.TravelTimeSeconds
}

func avoidVulnerable(cg *datastructure.ClassifiedGraph) WeightFunc {
	return func(e datastructure.RoadEdge) float64 {
		if cg.IsVulnerable(e.ID) {
			return math.Inf(1)
		}
		return e.TravelTimeSeconds
	}
}

// Route primary path and up to k alternatives from start to end.
// With enforceAvoidance vulnerable edges are excluded; when that disconnects the
// endpoints the unfiltered path is returned with AvoidanceNotPossible set.
func (re *RouteEngine) Route(cg *datastructure.ClassifiedGraph, start, end datastructure.Coordinate, enforceAvoidance bool) (datastructure.RouteSet, error) {
	from, _, err := re.SnapToNode(cg.RoadGraph, start)
	if err != nil {
		return datastructure.RouteSet{}, err
	}
	to, _, err := re.SnapToNode(cg.RoadGraph, end)
	if err != nil {
		return datastructure.RouteSet{}, err
	}

	unfiltered, found := ShortestPath(cg, from, to, travelTime)
	if !found {
		return datastructure.RouteSet{}, server.WrapErrorf(nil, server.ErrNoRouteFound,
			"no route between %s and %s", start, end)
	}

	res := datastructure.RouteSet{
		Primary:      unfiltered,
		SnappedStart: from,
		SnappedEnd:   to,
	}
	weight := WeightFunc(travelTime)

	if enforceAvoidance {
		constrained, ok := ShortestPath(cg, from, to, avoidVulnerable(cg))
		if ok {
			res.Primary = constrained
			res.AvoidanceApplied = true
			weight = avoidVulnerable(cg)
		} else {
			res.AvoidanceNotPossible = true
		}
	}

	res.VulnerableAvoided = countAvoided(cg, unfiltered, res.Primary)
	res.Alternatives = re.alternatives(cg, from, to, res.Primary, weight)
	res.AlternativesAvoided = make([]int, len(res.Alternatives))
	for i, alt := range res.Alternatives {
		res.AlternativesAvoided[i] = countAvoided(cg, unfiltered, alt)
	}
	return res, nil
}

// countAvoided vulnerable edges of the unfiltered path missing from the chosen path.
func countAvoided(cg *datastructure.ClassifiedGraph, unfiltered, chosen datastructure.Path) int {
	onChosen := make(map[int32]struct{}, len(chosen.Edges))
	for _, e := range chosen.Edges {
		onChosen[e] = struct{}{}
	}
	avoided := 0
	for _, e := range unfiltered.Edges {
		if !cg.IsVulnerable(e) {
			continue
		}
		if _, ok := onChosen[e]; !ok {
			avoided++
		}
	}
	return avoided
}

// alternatives penalty method: every edge of every candidate seen so far gets its
// weight multiplied by the penalty, candidates too similar to a kept route are dropped.
func (re *RouteEngine) alternatives(g Graph, from, to int32, primary datastructure.Path, base WeightFunc) []datastructure.Path {
	k := re.opts.Alternatives
	if k <= 0 || len(primary.Edges) == 0 {
		return []datastructure.Path{}
	}

	penalty := make(map[int32]float64)
	penalize := func(p datastructure.Path) {
		for _, e := range p.Edges {
			if f, ok := penalty[e]; ok {
				penalty[e] = f * re.opts.Penalty
			} else {
				penalty[e] = re.opts.Penalty
			}
		}
	}
	weight := func(e datastructure.RoadEdge) float64 {
		w := base(e)
		if f, ok := penalty[e.ID]; ok {
			return w * f
		}
		return w
	}

	kept := []datastructure.Path{primary}
	alts := []datastructure.Path{}
	penalize(primary)

	maxAttempts := k * 3
	for attempt := 0; attempt < maxAttempts && len(alts) < k; attempt++ {
		cand, ok := ShortestPath(g, from, to, weight)
		if !ok {
			break
		}
		penalize(cand)

		distinct := true
		for _, r := range kept {
			if EdgeOverlap(cand, r) > re.opts.MaxOverlap {
				distinct = false
				break
			}
		}
		if !distinct {
			continue
		}
		kept = append(kept, cand)
		alts = append(alts, cand)
	}
	return alts
}

// EdgeOverlap shared edges over the edge count of the shorter path.
func EdgeOverlap(a, b datastructure.Path) float64 {
	if len(a.Edges) == 0 || len(b.Edges) == 0 {
		return 0
	}
	inA := make(map[int32]struct{}, len(a.Edges))
	for _, e := range a.Edges {
		inA[e] = struct{}{}
	}
	shared := 0
	for _, e := range b.Edges {
		if _, ok := inA[e]; ok {
			shared++
		}
	}
	return float64(shared) / float64(min(len(a.Edges), len(b.Edges)))
}

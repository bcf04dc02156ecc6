package routingalgorithm

import (
	"testing"
	"time"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seg struct {
	from, to int32
	class    datastructure.RoadClass
}

// buildGraph two-way edges, 36 km/h on every class so time follows length.
func buildGraph(coords []datastructure.Coordinate, segs []seg) *datastructure.RoadGraph {
	nodes := make([]datastructure.RoadNode, len(coords))
	for i, c := range coords {
		nodes[i] = datastructure.RoadNode{ID: int32(i), Coord: c}
	}
	edges := []datastructure.RoadEdge{}
	add := func(from, to int32, class datastructure.RoadClass) {
		length := coords[from].DistanceMeters(coords[to])
		edges = append(edges, datastructure.RoadEdge{
			ID:                int32(len(edges)),
			From:              from,
			To:                to,
			LengthMeters:      length,
			TravelTimeSeconds: datastructure.TravelTimeSeconds(length, 36),
			RoadClass:         class,
		})
	}
	for _, s := range segs {
		add(s.from, s.to, s.class)
		add(s.to, s.from, s.class)
	}
	return datastructure.NewRoadGraph("test", time.Unix(0, 0), nodes, edges)
}

func classify(g *datastructure.RoadGraph) *datastructure.ClassifiedGraph {
	v := make([]bool, g.EdgeCount())
	for i, e := range g.Edges {
		v[i] = e.RoadClass == datastructure.RoadClassTrack || e.RoadClass == datastructure.RoadClassUnpaved
	}
	return datastructure.NewClassifiedGraph(g, v)
}

const (
	nodeA int32 = iota
	nodeB
	nodeC
	nodeD
	nodeE
)

var abcdCoords = []datastructure.Coordinate{
	{Lat: 0, Lon: 37.000},      // A
	{Lat: 0, Lon: 37.001},      // B
	{Lat: 0, Lon: 37.002},      // C
	{Lat: 0, Lon: 37.003},      // D
	{Lat: 0.001, Lon: 37.0015}, // E, detour between B and C
}

func abcdGraph(withDetour bool) *datastructure.ClassifiedGraph {
	segs := []seg{
		{nodeA, nodeB, datastructure.RoadClassPrimary},
		{nodeB, nodeC, datastructure.RoadClassTrack},
		{nodeC, nodeD, datastructure.RoadClassPrimary},
	}
	if withDetour {
		segs = append(segs,
			seg{nodeB, nodeE, datastructure.RoadClassSecondary},
			seg{nodeE, nodeC, datastructure.RoadClassSecondary})
	}
	return classify(buildGraph(abcdCoords, segs))
}

func pathHasVulnerable(cg *datastructure.ClassifiedGraph, p datastructure.Path) bool {
	for _, e := range p.Edges {
		if cg.IsVulnerable(e) {
			return true
		}
	}
	return false
}

func TestRouteAvoidsVulnerableEdgeWhenEnforced(t *testing.T) {
	cg := abcdGraph(true)
	re := NewRouteEngine(DefaultOptions())

	res, err := re.Route(cg, abcdCoords[nodeA], abcdCoords[nodeD], true)
	require.NoError(t, err)

	assert.Equal(t, []int32{nodeA, nodeB, nodeE, nodeC, nodeD}, res.Primary.Nodes)
	assert.True(t, res.AvoidanceApplied)
	assert.False(t, res.AvoidanceNotPossible)
	assert.Equal(t, 1, res.VulnerableAvoided)
	assert.False(t, pathHasVulnerable(cg, res.Primary))
	for _, alt := range res.Alternatives {
		assert.False(t, pathHasVulnerable(cg, alt))
	}
}

func TestRouteDirectWhenNotEnforced(t *testing.T) {
	cg := abcdGraph(true)
	re := NewRouteEngine(DefaultOptions())

	res, err := re.Route(cg, abcdCoords[nodeA], abcdCoords[nodeD], false)
	require.NoError(t, err)

	assert.Equal(t, []int32{nodeA, nodeB, nodeC, nodeD}, res.Primary.Nodes)
	assert.False(t, res.AvoidanceApplied)
	assert.Equal(t, 0, res.VulnerableAvoided)
}

func TestRouteFallsBackWhenAvoidanceImpossible(t *testing.T) {
	cg := abcdGraph(false)
	re := NewRouteEngine(DefaultOptions())

	res, err := re.Route(cg, abcdCoords[nodeA], abcdCoords[nodeD], true)
	require.NoError(t, err)

	assert.Equal(t, []int32{nodeA, nodeB, nodeC, nodeD}, res.Primary.Nodes)
	assert.True(t, res.AvoidanceNotPossible)
	assert.False(t, res.AvoidanceApplied)
	assert.True(t, pathHasVulnerable(cg, res.Primary))
	assert.Equal(t, 0, res.VulnerableAvoided)
}

func TestRouteErrors(t *testing.T) {
	coords := []datastructure.Coordinate{
		{Lat: 0, Lon: 37.000},
		{Lat: 0, Lon: 37.001},
		{Lat: 0.01, Lon: 37.010},
		{Lat: 0.01, Lon: 37.011},
	}
	cg := classify(buildGraph(coords, []seg{
		{0, 1, datastructure.RoadClassPrimary},
		{2, 3, datastructure.RoadClassPrimary},
	}))
	re := NewRouteEngine(DefaultOptions())

	t.Run("disconnected", func(t *testing.T) {
		_, err := re.Route(cg, coords[0], coords[3], false)
		require.Error(t, err)
		assert.ErrorIs(t, err, server.ErrNoRouteFound)
	})

	t.Run("endpoint far from any road", func(t *testing.T) {
		_, err := re.Route(cg, datastructure.NewCoordinate(1, 38), coords[1], false)
		require.Error(t, err)
		assert.ErrorIs(t, err, server.ErrInvalidEndpoint)
	})

	t.Run("empty graph", func(t *testing.T) {
		empty := classify(datastructure.NewRoadGraph("e", time.Now(), nil, nil))
		_, err := re.Route(empty, coords[0], coords[1], false)
		assert.ErrorIs(t, err, server.ErrInvalidEndpoint)
	})
}

// gridGraph n x n lattice with 0.001 degree spacing.
func gridGraph(n int) ([]datastructure.Coordinate, *datastructure.ClassifiedGraph) {
	coords := []datastructure.Coordinate{}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			coords = append(coords, datastructure.NewCoordinate(float64(i)*0.001, 37+float64(j)*0.001))
		}
	}
	segs := []seg{}
	id := func(i, j int) int32 { return int32(i*n + j) }
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j+1 < n {
				segs = append(segs, seg{id(i, j), id(i, j+1), datastructure.RoadClassSecondary})
			}
			if i+1 < n {
				segs = append(segs, seg{id(i, j), id(i+1, j), datastructure.RoadClassSecondary})
			}
		}
	}
	return coords, classify(buildGraph(coords, segs))
}

func TestRouteProperties(t *testing.T) {
	coords, cg := gridGraph(5)
	re := NewRouteEngine(DefaultOptions())
	start, end := coords[0], coords[len(coords)-1]

	res, err := re.Route(cg, start, end, false)
	require.NoError(t, err)

	t.Run("endpoints are the snapped nodes", func(t *testing.T) {
		require.NotEmpty(t, res.Primary.Nodes)
		assert.Equal(t, res.SnappedStart, res.Primary.Nodes[0])
		assert.Equal(t, res.SnappedEnd, res.Primary.Nodes[len(res.Primary.Nodes)-1])
	})

	t.Run("distance is the sum of edge lengths", func(t *testing.T) {
		for _, p := range append([]datastructure.Path{res.Primary}, res.Alternatives...) {
			sum := 0.0
			for _, e := range p.Edges {
				sum += cg.Edge(e).LengthMeters
			}
			assert.InDelta(t, sum, p.DistanceMeters, 1e-6)
			assert.Len(t, p.Nodes, len(p.Edges)+1)
		}
	})

	t.Run("alternatives are pairwise distinct", func(t *testing.T) {
		assert.NotEmpty(t, res.Alternatives)
		assert.LessOrEqual(t, len(res.Alternatives), 3)
		all := append([]datastructure.Path{res.Primary}, res.Alternatives...)
		for i := 0; i < len(all); i++ {
			for j := i + 1; j < len(all); j++ {
				assert.LessOrEqual(t, EdgeOverlap(all[i], all[j]), 0.7)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		again, err := re.Route(cg, start, end, false)
		require.NoError(t, err)
		assert.Equal(t, res, again)
	})
}

func TestRouteNoAlternatives(t *testing.T) {
	coords, cg := gridGraph(3)
	opts := DefaultOptions()
	opts.Alternatives = 0
	res, err := NewRouteEngine(opts).Route(cg, coords[0], coords[8], false)
	require.NoError(t, err)
	assert.Empty(t, res.Alternatives)
}

func TestRouteSameStartAndEnd(t *testing.T) {
	coords, cg := gridGraph(3)
	res, err := NewRouteEngine(DefaultOptions()).Route(cg, coords[4], coords[4], true)
	require.NoError(t, err)
	assert.Equal(t, []int32{4}, res.Primary.Nodes)
	assert.Equal(t, 0.0, res.Primary.DistanceMeters)
	assert.Empty(t, res.Alternatives)
}

func TestEdgeOverlap(t *testing.T) {
	a := datastructure.Path{Edges: []int32{1, 2, 3, 4}}
	b := datastructure.Path{Edges: []int32{3, 4, 5}}
	assert.InDelta(t, 2.0/3.0, EdgeOverlap(a, b), 1e-9)
	assert.Equal(t, 0.0, EdgeOverlap(a, datastructure.Path{}))
}

package vulnerability

import (
	"testing"
	"time"

	"kmend/agriroute/pkg/datastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// three edges along the equator: primary, track, secondary
func testGraph() *datastructure.RoadGraph {
	nodes := []datastructure.RoadNode{
		{ID: 0, Coord: datastructure.NewCoordinate(0, 37.000)},
		{ID: 1, Coord: datastructure.NewCoordinate(0, 37.010)},
		{ID: 2, Coord: datastructure.NewCoordinate(0, 37.020)},
		{ID: 3, Coord: datastructure.NewCoordinate(0, 37.030)},
	}
	edges := []datastructure.RoadEdge{
		{ID: 0, From: 0, To: 1, RoadClass: datastructure.RoadClassPrimary},
		{ID: 1, From: 1, To: 2, RoadClass: datastructure.RoadClassTrack},
		{ID: 2, From: 2, To: 3, RoadClass: datastructure.RoadClassSecondary},
	}
	return datastructure.NewRoadGraph("k", time.Now(), nodes, edges)
}

const floodGeoJSON = `{"type":"FeatureCollection","features":[
  {"type":"Feature","properties":{"name":"river crossing"},
   "geometry":{"type":"LineString","coordinates":[[37.025,-0.01],[37.025,0.01]]}},
  {"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[37.005,0]}}
]}`

func TestClassifyRoadClass(t *testing.T) {
	g := testGraph()
	cg := NewClassifier(nil).Classify(g)

	assert.Equal(t, []bool{false, true, false}, cg.Vulnerable)
	assert.Same(t, g, cg.RoadGraph)
}

func TestClassifyFloodProne(t *testing.T) {
	table, err := ParseFloodProneGeoJSON([]byte(floodGeoJSON), 30)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Size())

	g := testGraph()
	cg := NewClassifier(table).Classify(g)
	assert.Equal(t, []bool{false, true, true}, cg.Vulnerable)

	t.Run("graph is not mutated between evaluations", func(t *testing.T) {
		plain := NewClassifier(nil).Classify(g)
		assert.False(t, plain.IsVulnerable(2))
		assert.True(t, cg.IsVulnerable(2))
	})
}

func TestFloodProneTolerance(t *testing.T) {
	// segment parallel to the road, ~22 m north
	lines := [][]datastructure.Coordinate{{
		datastructure.NewCoordinate(0.0002, 37.000),
		datastructure.NewCoordinate(0.0002, 37.010),
	}}

	near, err := NewFloodProneTable(lines, 30)
	require.NoError(t, err)
	assert.True(t, near.Intersects(datastructure.NewCoordinate(0, 37.002), datastructure.NewCoordinate(0, 37.004)))

	strict, err := NewFloodProneTable(lines, 10)
	require.NoError(t, err)
	assert.False(t, strict.Intersects(datastructure.NewCoordinate(0, 37.002), datastructure.NewCoordinate(0, 37.004)))
}

func TestParseFloodProneGeoJSONPolygon(t *testing.T) {
	poly := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},
	  "geometry":{"type":"Polygon","coordinates":[[[37.0,0.0],[37.1,0.0],[37.1,0.1],[37.0,0.0]]]}}]}`
	table, err := ParseFloodProneGeoJSON([]byte(poly), 30)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Size())
	assert.Equal(t, 1, table.Areas())

	_, err = ParseFloodProneGeoJSON([]byte(`{"type":`), 30)
	assert.Error(t, err)

	t.Run("road inside a flood zone", func(t *testing.T) {
		zone := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},
		  "geometry":{"type":"Polygon","coordinates":[[[36.9,-0.1],[37.1,-0.1],[37.1,0.1],[36.9,0.1],[36.9,-0.1]]]}}]}`
		table, err := ParseFloodProneGeoJSON([]byte(zone), 30)
		require.NoError(t, err)

		// far from every ring edge
		assert.True(t, table.Intersects(datastructure.NewCoordinate(0, 37.000), datastructure.NewCoordinate(0, 37.010)))
		assert.False(t, table.Intersects(datastructure.NewCoordinate(0.5, 37.000), datastructure.NewCoordinate(0.5, 37.010)))

		cg := NewClassifier(table).Classify(testGraph())
		assert.Equal(t, []bool{true, true, true}, cg.Vulnerable)
	})

	t.Run("hole is not flood-prone", func(t *testing.T) {
		zone := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},
		  "geometry":{"type":"Polygon","coordinates":[
		    [[36.9,-0.1],[37.1,-0.1],[37.1,0.1],[36.9,0.1],[36.9,-0.1]],
		    [[36.95,-0.05],[37.05,-0.05],[37.05,0.05],[36.95,0.05],[36.95,-0.05]]]}}]}`
		table, err := ParseFloodProneGeoJSON([]byte(zone), 30)
		require.NoError(t, err)
		assert.False(t, table.Intersects(datastructure.NewCoordinate(0, 37.000), datastructure.NewCoordinate(0, 37.010)))
	})
}

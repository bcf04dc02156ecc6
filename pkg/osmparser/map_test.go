package osmparser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kmend/agriroute/pkg/datastructure"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="Overpass API">
  <node id="1" lat="-1.0000" lon="37.0000"/>
  <node id="2" lat="-1.0000" lon="37.0100"/>
  <node id="3" lat="-1.0000" lon="37.0200"/>
  <node id="4" lat="-1.0100" lon="37.0100"/>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="primary"/>
    <tag k="name" v="Thika Road"/>
  </way>
  <way id="101">
    <nd ref="2"/>
    <nd ref="4"/>
    <tag k="highway" v="track"/>
  </way>
  <way id="102">
    <nd ref="4"/>
    <nd ref="3"/>
    <tag k="highway" v="tertiary"/>
    <tag k="oneway" v="yes"/>
    <tag k="surface" v="dirt"/>
  </way>
  <way id="103">
    <nd ref="1"/>
    <nd ref="4"/>
    <tag k="highway" v="footway"/>
  </way>
</osm>`

func TestClassifyRoad(t *testing.T) {
	cases := []struct {
		highway, surface string
		want             datastructure.RoadClass
	}{
		{"motorway", "", datastructure.RoadClassPrimary},
		{"primary_link", "asphalt", datastructure.RoadClassPrimary},
		{"tertiary", "", datastructure.RoadClassSecondary},
		{"residential", "Gravel", datastructure.RoadClassUnpaved},
		{"primary", "dirt", datastructure.RoadClassUnpaved},
		{"track", "asphalt", datastructure.RoadClassTrack},
	}
	for _, c := range cases {
		t.Run(c.highway+"/"+c.surface, func(t *testing.T) {
			assert.Equal(t, c.want, ClassifyRoad(c.highway, c.surface))
		})
	}
}

func TestParseOSMXML(t *testing.T) {
	g, err := ParseOSMXML(strings.NewReader(sampleOSM), "key", time.Unix(100, 0))
	require.NoError(t, err)

	assert.Equal(t, "key", g.Key)
	assert.Equal(t, 4, g.NodeCount())
	// way 100: 2 segments both directions, way 101: 1 segment both directions, way 102 oneway
	assert.Equal(t, 7, g.EdgeCount())

	// ids assigned in way order
	assert.Equal(t, int64(1), g.Node(0).OSMID)
	assert.Equal(t, int64(2), g.Node(1).OSMID)

	classes := map[int64]datastructure.RoadClass{}
	for _, e := range g.Edges {
		classes[e.WayID] = e.RoadClass
		assert.Greater(t, e.LengthMeters, 0.0)
		assert.Greater(t, e.TravelTimeSeconds, 0.0)
	}
	assert.Equal(t, datastructure.RoadClassPrimary, classes[100])
	assert.Equal(t, datastructure.RoadClassTrack, classes[101])
	assert.Equal(t, datastructure.RoadClassUnpaved, classes[102])
	_, footway := classes[103]
	assert.False(t, footway)

	t.Run("oneway only forward", func(t *testing.T) {
		var n4, n3 int32 = -1, -1
		for _, n := range g.Nodes {
			switch n.OSMID {
			case 4:
				n4 = n.ID
			case 3:
				n3 = n.ID
			}
		}
		for _, e := range g.Edges {
			if e.WayID == 102 {
				assert.Equal(t, n4, e.From)
				assert.Equal(t, n3, e.To)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		g2, err := ParseOSMXML(strings.NewReader(sampleOSM), "key", time.Unix(100, 0))
		require.NoError(t, err)
		assert.Equal(t, g.Nodes, g2.Nodes)
		assert.Equal(t, g.Edges, g2.Edges)
	})
}

func TestParseOSMXMLEmpty(t *testing.T) {
	_, err := ParseOSMXML(strings.NewReader(`<osm version="0.6"></osm>`), "key", time.Now())
	assert.ErrorIs(t, err, ErrEmptyRoadNetwork)

	_, err = ParseOSMXML(strings.NewReader(`not xml`), "key", time.Now())
	assert.Error(t, err)
}

func TestGetWayAttributes(t *testing.T) {
	w := &osm.Way{Tags: osm.Tags{
		{Key: "highway", Value: "secondary"},
		{Key: "maxspeed", Value: "80"},
		{Key: "oneway", Value: "-1"},
	}}
	attr := getWayAttributes(w)
	assert.Equal(t, 80.0, attr.maxSpeed)
	assert.True(t, attr.isOneWay)
	assert.True(t, attr.reversedOneWay)

	w = &osm.Way{Tags: osm.Tags{{Key: "highway", Value: "residential"}, {Key: "maxspeed", Value: "walk"}}}
	assert.Equal(t, datastructure.RoadTypeMaxSpeed("residential"), getWayAttributes(w).maxSpeed)
}

func TestSplitInside(t *testing.T) {
	w := &osm.Way{ID: 9, Nodes: osm.WayNodes{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}}}
	inside := map[osm.NodeID]datastructure.Coordinate{1: {}, 2: {}, 4: {}, 5: {}, 6: {}}
	parts := splitInside(w, inside)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0].Nodes, 2)
	assert.Len(t, parts[1].Nodes, 3)
	assert.Equal(t, osm.WayID(9), parts[1].ID)
}

func TestOverpassSource(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Contains(t, r.PostForm.Get("data"), `way["highway"]`)
			_, _ = w.Write([]byte(sampleOSM))
		}))
		defer srv.Close()

		src := NewOverpassSource(srv.URL, 5*time.Second)
		bb := datastructure.BoundingBox{MinLat: -1.1, MinLon: 36.9, MaxLat: -0.9, MaxLon: 37.1}
		g, err := src.FetchRoadNetwork(context.Background(), bb)
		require.NoError(t, err)
		assert.Equal(t, bb.Key(), g.Key)
		assert.Equal(t, 7, g.EdgeCount())
	})

	t.Run("upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		src := NewOverpassSource(srv.URL, 5*time.Second)
		_, err := src.FetchRoadNetwork(context.Background(), datastructure.BoundingBox{})
		assert.Error(t, err)
	})
}

package kv

import (
	"testing"
	"time"

	"kmend/agriroute/pkg/datastructure"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKVDB(t *testing.T, ttl time.Duration) *KVDB {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	k := NewKVDB(db, ttl)
	t.Cleanup(func() { _ = k.Close() })
	return k
}

func sampleGraph(fetchedAt time.Time) *datastructure.RoadGraph {
	nodes := []datastructure.RoadNode{
		{ID: 0, OSMID: 1, Coord: datastructure.NewCoordinate(-1.0, 37.0)},
		{ID: 1, OSMID: 2, Coord: datastructure.NewCoordinate(-1.0, 37.01)},
	}
	edges := []datastructure.RoadEdge{
		{ID: 0, From: 0, To: 1, LengthMeters: 1112, TravelTimeSeconds: 80, RoadClass: datastructure.RoadClassTrack, Highway: "track", WayID: 7, Name: "Shamba"},
		{ID: 1, From: 1, To: 0, LengthMeters: 1112, TravelTimeSeconds: 80, RoadClass: datastructure.RoadClassTrack, Highway: "track", WayID: 7, Name: "Shamba"},
	}
	return datastructure.NewRoadGraph("-1.05,36.95,-0.95,37.05", fetchedAt, nodes, edges)
}

func TestEncodeDecodeGraph(t *testing.T) {
	g := sampleGraph(time.Unix(1700000000, 0))
	bb, err := EncodeGraph(g)
	require.NoError(t, err)

	got, err := DecodeGraph(bb)
	require.NoError(t, err)
	assert.Equal(t, g.Key, got.Key)
	assert.True(t, g.FetchedAt.Equal(got.FetchedAt))
	assert.Equal(t, g.Nodes, got.Nodes)
	assert.Equal(t, g.Edges, got.Edges)
	assert.Equal(t, []int32{0}, got.OutEdges(0))

	near := got.NearestNodes(datastructure.NewCoordinate(-1.0, 37.009), 1)
	require.Len(t, near, 1)
	assert.Equal(t, int32(1), near[0].NodeID)
}

func TestKVDB(t *testing.T) {
	t.Run("save and get", func(t *testing.T) {
		k := newTestKVDB(t, time.Hour)
		g := sampleGraph(time.Now())
		require.NoError(t, k.SaveGraph(g))

		got, err := k.GetGraph(g.Key)
		require.NoError(t, err)
		assert.Equal(t, g.Edges, got.Edges)
	})

	t.Run("missing", func(t *testing.T) {
		k := newTestKVDB(t, time.Hour)
		_, err := k.GetGraph("nope")
		assert.ErrorIs(t, err, ErrGraphNotFound)
	})

	t.Run("expired entries are dropped", func(t *testing.T) {
		k := newTestKVDB(t, time.Hour)
		g := sampleGraph(time.Now().Add(-2 * time.Hour))
		require.NoError(t, k.SaveGraph(g))

		_, err := k.GetGraph(g.Key)
		assert.ErrorIs(t, err, ErrGraphNotFound)

		k.ttl = 0
		_, err = k.GetGraph(g.Key)
		assert.ErrorIs(t, err, ErrGraphNotFound)
	})

	t.Run("undecodable entries are dropped", func(t *testing.T) {
		k := newTestKVDB(t, time.Hour)
		require.NoError(t, k.db.Set(graphKey("bad"), []byte{0x01, 0x02}, pebble.Sync))

		_, err := k.GetGraph("bad")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrGraphNotFound)

		_, err = k.GetGraph("bad")
		assert.ErrorIs(t, err, ErrGraphNotFound)
	})
}

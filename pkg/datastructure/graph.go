package datastructure

import (
	"math"
	"sort"
	"time"

	"github.com/dhconnelly/rtreego"
	"github.com/twpayne/go-polyline"
)

type RoadClass uint8

const (
	RoadClassPrimary RoadClass = iota
	RoadClassSecondary
	RoadClassUnpaved
	RoadClassTrack
)

func (rc RoadClass) String() string {
	switch rc {
	case RoadClassPrimary:
		return "primary"
	case RoadClassSecondary:
		return "secondary"
	case RoadClassUnpaved:
		return "unpaved"
	case RoadClassTrack:
		return "track"
	default:
		return "unknown"
	}
}

type RoadNode struct {
	ID    int32
	OSMID int64
	Coord Coordinate
}

// RoadEdge directed road segment between two consecutive way nodes.
// Vulnerability is not stored here, see ClassifiedGraph.
type RoadEdge struct {
	ID                int32
	From              int32
	To                int32
	LengthMeters      float64
	TravelTimeSeconds float64
	RoadClass         RoadClass
	Highway           string
	WayID             int64
	Name              string
}

// RoadGraph is immutable after NewRoadGraph; concurrent requests share it read-only.
type RoadGraph struct {
	Key       string
	FetchedAt time.Time
	Nodes     []RoadNode
	Edges     []RoadEdge

	outEdges [][]int32
	rtree    *rtreego.Rtree
}

const snapTol = 0.0001

type nodeRect struct {
	id       int32
	location rtreego.Point
}

func (n *nodeRect) Bounds() rtreego.Rect {
	return n.location.ToRect(snapTol)
}

// NewRoadGraph node ids and edge ids must equal their slice index.
func NewRoadGraph(key string, fetchedAt time.Time, nodes []RoadNode, edges []RoadEdge) *RoadGraph {
	g := &RoadGraph{
		Key:       key,
		FetchedAt: fetchedAt,
		Nodes:     nodes,
		Edges:     edges,
		outEdges:  make([][]int32, len(nodes)),
	}

	used := make([]bool, len(nodes))
	for _, e := range edges {
		g.outEdges[e.From] = append(g.outEdges[e.From], e.ID)
		used[e.From] = true
		used[e.To] = true
	}

	objs := make([]rtreego.Spatial, 0, len(nodes))
	for _, n := range nodes {
		if !used[n.ID] {
			continue
		}
		objs = append(objs, &nodeRect{id: n.ID, location: rtreego.Point{n.Coord.Lat, n.Coord.Lon}})
	}
	g.rtree = rtreego.NewTree(2, 25, 50, objs...) // 2 dimension, 25 min entries dan 50 max entries
	return g
}

func (g *RoadGraph) NodeCount() int {
	return len(g.Nodes)
}

func (g *RoadGraph) EdgeCount() int {
	return len(g.Edges)
}

func (g *RoadGraph) Node(id int32) RoadNode {
	return g.Nodes[id]
}

func (g *RoadGraph) Edge(id int32) RoadEdge {
	return g.Edges[id]
}

func (g *RoadGraph) OutEdges(node int32) []int32 {
	return g.outEdges[node]
}

type NodeDistance struct {
	NodeID int32
	Dist   float64 // meters
}

// NearestNodes k routable nodes closest to c, ascending by haversine distance.
func (g *RoadGraph) NearestNodes(c Coordinate, k int) []NodeDistance {
	if g.rtree.Size() == 0 || k <= 0 {
		return nil
	}
	neighbors := g.rtree.NearestNeighbors(k, rtreego.Point{c.Lat, c.Lon})

	res := make([]NodeDistance, 0, len(neighbors))
	for _, nb := range neighbors {
		nr, ok := nb.(*nodeRect)
		if !ok || nr == nil {
			continue
		}
		res = append(res, NodeDistance{
			NodeID: nr.id,
			Dist:   c.DistanceMeters(g.Nodes[nr.id].Coord),
		})
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Dist == res[j].Dist {
			return res[i].NodeID < res[j].NodeID
		}
		return res[i].Dist < res[j].Dist
	})
	return res
}

// PathCoordinates ordered coordinates of nodes.
func (g *RoadGraph) PathCoordinates(nodes []int32) []Coordinate {
	coords := make([]Coordinate, 0, len(nodes))
	for _, n := range nodes {
		coords = append(coords, g.Nodes[n].Coord)
	}
	return coords
}

// RoadTypeMaxSpeed km/h per osm highway type.
func RoadTypeMaxSpeed(roadType string) float64 {
	switch roadType {
	case "motorway":
		return 95
	case "trunk":
		return 85
	case "primary":
		return 75
	case "secondary":
		return 65
	case "tertiary":
		return 50
	case "unclassified":
		return 50
	case "residential":
		return 30
	case "service":
		return 20
	case "motorway_link":
		return 90
	case "trunk_link":
		return 80
	case "primary_link":
		return 70
	case "secondary_link":
		return 60
	case "tertiary_link":
		return 50
	case "living_street":
		return 20
	case "track":
		return 15
	default:
		return 40
	}
}

// TravelTimeSeconds time to traverse lengthMeters at speedKmh.
func TravelTimeSeconds(lengthMeters, speedKmh float64) float64 {
	if speedKmh <= 0 {
		return math.Inf(1)
	}
	return lengthMeters / (speedKmh / 3.6)
}

func RenderPath(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}

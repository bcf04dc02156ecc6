package routingalgorithm

import (
	"math"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/util"
)

type cameFromPair struct {
	EdgeID  int32
	NodeIDx int32
}

// Graph read access the search needs.
type Graph interface {
	NodeCount() int
	OutEdges(node int32) []int32
	Edge(id int32) datastructure.RoadEdge
}

// WeightFunc cost of traversing an edge. +Inf removes the edge from the search.
type WeightFunc func(e datastructure.RoadEdge) float64

// ShortestPath dijkstra from -> to under weight. Distance and travel time of the
// returned path are the real edge values, not the weights.
func ShortestPath(g Graph, from, to int32, weight WeightFunc) (datastructure.Path, bool) {
	n := g.NodeCount()
	if from < 0 || to < 0 || int(from) >= n || int(to) >= n {
		return datastructure.Path{}, false
	}

	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	settled := make([]bool, n)
	cameFrom := make(map[int32]cameFromPair)

	heap := datastructure.NewMinHeap[int32]()
	dist[from] = 0
	heap.Insert(datastructure.PriorityQueueNode[int32]{Rank: 0, Item: from})

	found := false
	for heap.Size() > 0 {
		node, _ := heap.ExtractMin()
		if settled[node.Item] {
			continue
		}
		settled[node.Item] = true
		if node.Item == to {
			found = true
			break
		}

		for _, edgeID := range g.OutEdges(node.Item) {
			edge := g.Edge(edgeID)
			if settled[edge.To] {
				continue
			}
			w := weight(edge)
			if math.IsInf(w, 1) || math.IsNaN(w) {
				continue
			}
			newCost := dist[node.Item] + w
			if newCost >= dist[edge.To] {
				continue
			}
			dist[edge.To] = newCost
			cameFrom[edge.To] = cameFromPair{EdgeID: edgeID, NodeIDx: node.Item}

			neighborNode := datastructure.PriorityQueueNode[int32]{Rank: newCost, Item: edge.To}
			if heap.Contains(edge.To) {
				_ = heap.DecreaseKey(neighborNode)
			} else {
				heap.Insert(neighborNode)
			}
		}
	}

	if !found {
		return datastructure.Path{}, false
	}
	return buildPath(g, from, to, cameFrom), true
}

func buildPath(g Graph, from, to int32, cameFrom map[int32]cameFromPair) datastructure.Path {
	nodes := []int32{to}
	edges := []int32{}
	distance, eta := 0.0, 0.0

	curr := to
	for curr != from {
		prev := cameFrom[curr]
		edge := g.Edge(prev.EdgeID)
		edges = append(edges, prev.EdgeID)
		distance += edge.LengthMeters
		eta += edge.TravelTimeSeconds
		nodes = append(nodes, prev.NodeIDx)
		curr = prev.NodeIDx
	}

	return datastructure.Path{
		Nodes:             util.ReverseG(nodes),
		Edges:             util.ReverseG(edges),
		DistanceMeters:    distance,
		TravelTimeSeconds: eta,
	}
}

package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"kmend/agriroute/pkg/datastructure"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// PBFSource cuts the road network of a bounding box out of a local .osm.pbf extract.
type PBFSource struct {
	path string
}

func NewPBFSource(path string) *PBFSource {
	return &PBFSource{path: path}
}

func (s *PBFSource) Name() string {
	return "pbf"
}

// FetchRoadNetwork two passes over the file: nodes inside the box, then the ways using them.
// Ways leaving the box are cut at the boundary.
func (s *PBFSource) FetchRoadNetwork(ctx context.Context, bb datastructure.BoundingBox) (*datastructure.RoadGraph, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	coords := make(map[osm.NodeID]datastructure.Coordinate)

	scanner := osmpbf.New(ctx, f, runtime.GOMAXPROCS(0))
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		c := datastructure.NewCoordinate(node.Lat, node.Lon)
		if bb.Contains(c) {
			coords[node.ID] = c
		}
	}
	scanErr := scanner.Err()
	scanner.Close()
	if scanErr != nil {
		return nil, fmt.Errorf("scan pbf nodes: %w", scanErr)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ways := []*osm.Way{}
	scanner = osmpbf.New(ctx, f, runtime.GOMAXPROCS(0))
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || !isOsmWayRoutable(way.TagMap()) {
			continue
		}
		ways = append(ways, splitInside(way, coords)...)
	}
	scanErr = scanner.Err()
	scanner.Close()
	if scanErr != nil {
		return nil, fmt.Errorf("scan pbf ways: %w", scanErr)
	}

	fillWayNodeCoords(ways, coords)
	return BuildRoadGraph(bb.Key(), time.Now(), ways)
}

// splitInside runs of consecutive way nodes that lie inside the box, as separate ways.
func splitInside(way *osm.Way, inside map[osm.NodeID]datastructure.Coordinate) []*osm.Way {
	res := []*osm.Way{}
	run := osm.WayNodes{}
	flush := func() {
		if len(run) >= 2 {
			part := *way
			part.Nodes = run
			res = append(res, &part)
		}
		run = osm.WayNodes{}
	}
	for _, wn := range way.Nodes {
		if _, ok := inside[wn.ID]; ok {
			run = append(run, wn)
			continue
		}
		flush()
	}
	flush()
	return res
}

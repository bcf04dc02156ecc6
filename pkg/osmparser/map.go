package osmparser

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/geo"

	"github.com/paulmach/osm"
)

var ErrEmptyRoadNetwork = errors.New("no routable ways in region")

var ValidRoadType = map[string]bool{
	"motorway":       true,
	"trunk":          true,
	"primary":        true,
	"secondary":      true,
	"tertiary":       true,
	"unclassified":   true,
	"residential":    true,
	"motorway_link":  true,
	"trunk_link":     true,
	"primary_link":   true,
	"secondary_link": true,
	"tertiary_link":  true,
	"living_street":  true,
	"road":           true,
	"service":        true,
	"track":          true,
}

var primaryRoadType = map[string]bool{
	"motorway":      true,
	"trunk":         true,
	"primary":       true,
	"motorway_link": true,
	"trunk_link":    true,
	"primary_link":  true,
}

var unpavedSurface = map[string]bool{
	"unpaved":     true,
	"dirt":        true,
	"earth":       true,
	"ground":      true,
	"mud":         true,
	"sand":        true,
	"gravel":      true,
	"fine_gravel": true,
	"compacted":   true,
	"grass":       true,
	"pebblestone": true,
	"rock":        true,
	"woodchips":   true,
	"grass_paver": true,
	"clay":        true,
}

// ClassifyRoad maps osm highway + surface tags to a RoadClass.
func ClassifyRoad(highway, surface string) datastructure.RoadClass {
	switch {
	case highway == "track":
		return datastructure.RoadClassTrack
	case unpavedSurface[strings.ToLower(surface)]:
		return datastructure.RoadClassUnpaved
	case primaryRoadType[highway]:
		return datastructure.RoadClassPrimary
	default:
		return datastructure.RoadClassSecondary
	}
}

// wayAttributes road attributes read from osm way tags.
type wayAttributes struct {
	maxSpeed       float64
	isOneWay       bool
	reversedOneWay bool
	roadType       string
	surface        string
	name           string
}

func getWayAttributes(way *osm.Way) wayAttributes {
	attr := wayAttributes{}
	for _, tag := range way.Tags {
		switch {
		case tag.Key == "highway":
			attr.roadType = tag.Value
		case tag.Key == "oneway":
			if tag.Value == "yes" || tag.Value == "true" || tag.Value == "1" {
				attr.isOneWay = true
			} else if tag.Value == "-1" {
				attr.isOneWay = true
				attr.reversedOneWay = true
			}
		case tag.Key == "junction" && tag.Value == "roundabout":
			attr.isOneWay = true
		case tag.Key == "maxspeed":
			if speed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(tag.Value, "km/h")), 64); err == nil {
				attr.maxSpeed = speed
			}
		case tag.Key == "surface":
			attr.surface = tag.Value
		case tag.Key == "name":
			attr.name = tag.Value
		}
	}
	if attr.maxSpeed <= 0 {
		attr.maxSpeed = datastructure.RoadTypeMaxSpeed(attr.roadType)
	}
	return attr
}

// https://github.com/RoutingKit/RoutingKit/blob/master/src/osm_profile.cpp  [is_osm_way_used_by_cars()]
// tracks are kept, rural farm access mostly goes over them.
func isOsmWayRoutable(tagMap map[string]string) bool {
	highway, okHW := tagMap["highway"]
	if !okHW {
		return false
	}

	if motorcar, ok := tagMap["motorcar"]; ok && motorcar == "no" {
		return false
	}
	if motorVehicle, ok := tagMap["motor_vehicle"]; ok && motorVehicle == "no" {
		return false
	}
	if access, ok := tagMap["access"]; ok {
		if !(access == "yes" || access == "permissive" || access == "designated" ||
			access == "delivery" || access == "destination" || access == "agricultural") {
			return false
		}
	}
	if oneway, ok := tagMap["oneway"]; ok {
		if oneway == "reversible" || oneway == "alternating" {
			return false
		}
	}
	if area, ok := tagMap["area"]; ok && area == "yes" {
		return false
	}

	return ValidRoadType[highway]
}

// BuildRoadGraph turns osm ways (with WayNode Lat/Lon filled) into a RoadGraph.
// Every way node becomes a graph node so the route geometry follows the road shape.
// Ways are processed in ascending id so the same input always yields the same ids.
func BuildRoadGraph(key string, fetchedAt time.Time, ways []*osm.Way) (*datastructure.RoadGraph, error) {
	sorted := make([]*osm.Way, 0, len(ways))
	for _, w := range ways {
		if w == nil || len(w.Nodes) < 2 || !isOsmWayRoutable(w.TagMap()) {
			continue
		}
		sorted = append(sorted, w)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	nodeIdx := make(map[osm.NodeID]int32)
	nodes := make([]datastructure.RoadNode, 0)
	edges := make([]datastructure.RoadEdge, 0)

	getNode := func(wn osm.WayNode) int32 {
		if idx, ok := nodeIdx[wn.ID]; ok {
			return idx
		}
		idx := int32(len(nodes))
		nodes = append(nodes, datastructure.RoadNode{
			ID:    idx,
			OSMID: int64(wn.ID),
			Coord: datastructure.NewCoordinate(wn.Lat, wn.Lon),
		})
		nodeIdx[wn.ID] = idx
		return idx
	}

	addEdge := func(from, to int32, length float64, attr wayAttributes, wayID int64) {
		edges = append(edges, datastructure.RoadEdge{
			ID:                int32(len(edges)),
			From:              from,
			To:                to,
			LengthMeters:      length,
			TravelTimeSeconds: datastructure.TravelTimeSeconds(length, attr.maxSpeed),
			RoadClass:         ClassifyRoad(attr.roadType, attr.surface),
			Highway:           attr.roadType,
			WayID:             wayID,
			Name:              attr.name,
		})
	}

	for _, way := range sorted {
		attr := getWayAttributes(way)
		for i := 0; i+1 < len(way.Nodes); i++ {
			a, b := way.Nodes[i], way.Nodes[i+1]
			if (a.Lat == 0 && a.Lon == 0) || (b.Lat == 0 && b.Lon == 0) || a.ID == b.ID {
				// node koordinatnya tidak ada di data
				continue
			}
			from := getNode(a)
			to := getNode(b)
			length := geo.DistanceMeters(a.Lat, a.Lon, b.Lat, b.Lon)

			switch {
			case attr.isOneWay && !attr.reversedOneWay:
				addEdge(from, to, length, attr, int64(way.ID))
			case attr.isOneWay && attr.reversedOneWay:
				addEdge(to, from, length, attr, int64(way.ID))
			default:
				addEdge(from, to, length, attr, int64(way.ID))
				addEdge(to, from, length, attr, int64(way.ID))
			}
		}
	}

	if len(edges) == 0 {
		return nil, ErrEmptyRoadNetwork
	}
	return datastructure.NewRoadGraph(key, fetchedAt, nodes, edges), nil
}

// fillWayNodeCoords copies node coordinates into the ways' WayNodes.
func fillWayNodeCoords(ways []*osm.Way, coords map[osm.NodeID]datastructure.Coordinate) {
	for _, way := range ways {
		for i := range way.Nodes {
			if c, ok := coords[way.Nodes[i].ID]; ok {
				way.Nodes[i].Lat = c.Lat
				way.Nodes[i].Lon = c.Lon
			}
		}
	}
}

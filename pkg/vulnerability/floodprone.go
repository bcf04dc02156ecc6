package vulnerability

import (
	"fmt"
	"math"
	"os"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/geo"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

const minRectSide = 1e-9

type floodSegment struct {
	a, b datastructure.Coordinate
	rect rtreego.Rect
}

func (s *floodSegment) Bounds() rtreego.Rect {
	return s.rect
}

// floodArea flood zone polygon; roads running inside it are flood-prone even when they never touch a ring.
type floodArea struct {
	poly orb.Polygon
	rect rtreego.Rect
}

func (a *floodArea) Bounds() rtreego.Rect {
	return a.rect
}

func (a *floodArea) contains(c datastructure.Coordinate) bool {
	return planar.PolygonContains(a.poly, orb.Point{c.Lon, c.Lat})
}

// FloodProneTable static set of flood-prone road segments and zones, treated as policy input.
type FloodProneTable struct {
	rtree      *rtreego.Rtree
	size       int
	areas      int
	toleranceM float64
}

func segmentRect(a, b datastructure.Coordinate, padDeg float64) (rtreego.Rect, error) {
	minLat, maxLat := math.Min(a.Lat, b.Lat)-padDeg, math.Max(a.Lat, b.Lat)+padDeg
	minLon, maxLon := math.Min(a.Lon, b.Lon)-padDeg, math.Max(a.Lon, b.Lon)+padDeg
	return rtreego.NewRect(rtreego.Point{minLat, minLon},
		[]float64{math.Max(maxLat-minLat, minRectSide), math.Max(maxLon-minLon, minRectSide)})
}

// toleranceDeg upper bound of toleranceM in degrees, used only to pad search boxes.
func toleranceDeg(lat, toleranceM float64) float64 {
	dLat, dLon := geo.KmToDegrees(lat, toleranceM/1000)
	return math.Max(dLat, dLon)
}

// NewFloodProneTable lines are polylines, each consecutive pair is one segment.
func NewFloodProneTable(lines [][]datastructure.Coordinate, toleranceM float64) (*FloodProneTable, error) {
	return newFloodProneTable(lines, nil, toleranceM)
}

func newFloodProneTable(lines [][]datastructure.Coordinate, polys []orb.Polygon, toleranceM float64) (*FloodProneTable, error) {
	objs := []rtreego.Spatial{}
	for _, line := range lines {
		for i := 0; i+1 < len(line); i++ {
			rect, err := segmentRect(line[i], line[i+1], 0)
			if err != nil {
				return nil, err
			}
			objs = append(objs, &floodSegment{a: line[i], b: line[i+1], rect: rect})
		}
	}
	segments := len(objs)
	for _, poly := range polys {
		if len(poly) == 0 || len(poly[0]) < 3 {
			continue
		}
		b := poly.Bound()
		rect, err := segmentRect(datastructure.NewCoordinate(b.Min.Lat(), b.Min.Lon()),
			datastructure.NewCoordinate(b.Max.Lat(), b.Max.Lon()), 0)
		if err != nil {
			return nil, err
		}
		objs = append(objs, &floodArea{poly: poly, rect: rect})
	}
	return &FloodProneTable{
		rtree:      rtreego.NewTree(2, 25, 50, objs...),
		size:       segments,
		areas:      len(objs) - segments,
		toleranceM: toleranceM,
	}, nil
}

// ParseFloodProneGeoJSON accepts a FeatureCollection of (Multi)LineString and (Multi)Polygon features.
// Polygons contribute their ring edges and their interior.
func ParseFloodProneGeoJSON(data []byte, toleranceM float64) (*FloodProneTable, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse flood-prone geojson: %w", err)
	}
	lines := [][]datastructure.Coordinate{}
	polys := []orb.Polygon{}
	for _, f := range fc.Features {
		lines = append(lines, geometryLines(f.Geometry)...)
		switch geom := f.Geometry.(type) {
		case orb.Polygon:
			polys = append(polys, geom)
		case orb.MultiPolygon:
			polys = append(polys, geom...)
		}
	}
	return newFloodProneTable(lines, polys, toleranceM)
}

func LoadFloodProneFile(path string, toleranceM float64) (*FloodProneTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFloodProneGeoJSON(data, toleranceM)
}

func toCoords(ls []orb.Point) []datastructure.Coordinate {
	coords := make([]datastructure.Coordinate, 0, len(ls))
	for _, p := range ls {
		coords = append(coords, datastructure.NewCoordinate(p.Lat(), p.Lon()))
	}
	return coords
}

func geometryLines(g orb.Geometry) [][]datastructure.Coordinate {
	switch geom := g.(type) {
	case orb.LineString:
		return [][]datastructure.Coordinate{toCoords(geom)}
	case orb.MultiLineString:
		res := [][]datastructure.Coordinate{}
		for _, ls := range geom {
			res = append(res, toCoords(ls))
		}
		return res
	case orb.Polygon:
		res := [][]datastructure.Coordinate{}
		for _, ring := range geom {
			res = append(res, toCoords(ring))
		}
		return res
	case orb.MultiPolygon:
		res := [][]datastructure.Coordinate{}
		for _, poly := range geom {
			res = append(res, geometryLines(poly)...)
		}
		return res
	default:
		return nil
	}
}

// Size number of flood-prone segments, polygon rings included.
func (t *FloodProneTable) Size() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Areas number of flood zone polygons.
func (t *FloodProneTable) Areas() int {
	if t == nil {
		return 0
	}
	return t.areas
}

// Intersects segment a-b crosses or passes within the tolerance of a flood-prone segment,
// or has an endpoint or its midpoint inside a flood zone.
func (t *FloodProneTable) Intersects(a, b datastructure.Coordinate) bool {
	if t.Size() == 0 && t.Areas() == 0 {
		return false
	}
	pad := toleranceDeg(math.Max(math.Abs(a.Lat), math.Abs(b.Lat)), t.toleranceM)
	rect, err := segmentRect(a, b, pad)
	if err != nil {
		return false
	}
	mid := datastructure.NewCoordinate((a.Lat+b.Lat)/2, (a.Lon+b.Lon)/2)
	for _, obj := range t.rtree.SearchIntersect(rect) {
		switch f := obj.(type) {
		case *floodSegment:
			if geo.SegmentsWithinMeters(a.Lat, a.Lon, b.Lat, b.Lon, f.a.Lat, f.a.Lon, f.b.Lat, f.b.Lon, t.toleranceM) {
				return true
			}
		case *floodArea:
			if f.contains(a) || f.contains(b) || f.contains(mid) {
				return true
			}
		}
	}
	return false
}

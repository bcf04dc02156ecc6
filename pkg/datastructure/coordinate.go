package datastructure

import (
	"fmt"
	"math"
	"strconv"

	"kmend/agriroute/pkg/geo"
	"kmend/agriroute/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180 &&
		!math.IsNaN(c.Lat) && !math.IsNaN(c.Lon)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// DistanceMeters haversine distance to o.
func (c Coordinate) DistanceMeters(o Coordinate) float64 {
	return geo.DistanceMeters(c.Lat, c.Lon, o.Lat, o.Lon)
}

// BoundingBox region covering both route endpoints plus a detour margin.
// Corners are quantized outward so that nearby requests share a cache key.
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

func NewBoundingBox(a, b Coordinate, marginKm, quantumDeg float64) BoundingBox {
	refLat := math.Max(math.Abs(a.Lat), math.Abs(b.Lat))
	dLat, dLon := geo.KmToDegrees(refLat, marginKm)

	bb := BoundingBox{
		MinLat: math.Min(a.Lat, b.Lat) - dLat,
		MinLon: math.Min(a.Lon, b.Lon) - dLon,
		MaxLat: math.Max(a.Lat, b.Lat) + dLat,
		MaxLon: math.Max(a.Lon, b.Lon) + dLon,
	}
	if quantumDeg > 0 {
		bb.MinLat = util.QuantizeDown(bb.MinLat, quantumDeg)
		bb.MinLon = util.QuantizeDown(bb.MinLon, quantumDeg)
		bb.MaxLat = util.QuantizeUp(bb.MaxLat, quantumDeg)
		bb.MaxLon = util.QuantizeUp(bb.MaxLon, quantumDeg)
	}
	bb.MinLat = math.Max(bb.MinLat, -90)
	bb.MaxLat = math.Min(bb.MaxLat, 90)
	return bb
}

func formatDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Key "minLat,minLon,maxLat,maxLon".
func (bb BoundingBox) Key() string {
	return formatDeg(bb.MinLat) + "," + formatDeg(bb.MinLon) + "," + formatDeg(bb.MaxLat) + "," + formatDeg(bb.MaxLon)
}

func (bb BoundingBox) Center() Coordinate {
	lat, lon := geo.MidPoint(bb.MinLat, bb.MinLon, bb.MaxLat, bb.MaxLon)
	return NewCoordinate(lat, lon)
}

func (bb BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= bb.MinLat && c.Lat <= bb.MaxLat && c.Lon >= bb.MinLon && c.Lon <= bb.MaxLon
}

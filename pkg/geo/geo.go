package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

const earthRadiusKM = 6371.0

type Location struct {
	Latitude  float64
	Longitude float64
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func radToDeg(r float64) float64 {
	return 180.0 * r / math.Pi
}

// NewLocation stores lat/lon in radians.
func NewLocation(latDegree float64, lonDegree float64) Location {
	return Location{
		Latitude:  degreeToRadians(latDegree),
		Longitude: degreeToRadians(lonDegree),
	}
}

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func havFormula(locationOne Location, locationTwo Location) float64 {
	latitudeDiff := locationOne.Latitude - locationTwo.Latitude
	longitudeDiff := locationOne.Longitude - locationTwo.Longitude

	havLatitude := havFunction(latitudeDiff)
	havLongitude := havFunction(longitudeDiff)

	return havLatitude + math.Cos(locationOne.Latitude)*math.Cos(locationTwo.Latitude)*havLongitude
}

func archaversine(havAngle float64) float64 {
	return 2.0 * math.Asin(math.Sqrt(havAngle))
}

// HaversineDistance great-circle distance in km.
func HaversineDistance(locationOne Location, locationTwo Location) float64 {
	return earthRadiusKM * archaversine(havFormula(locationOne, locationTwo))
}

// DistanceMeters haversine distance between two lat/lon pairs, in meters.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineDistance(NewLocation(lat1, lon1), NewLocation(lat2, lon2)) * 1000
}

//	φ is latitude, λ is longitude
//
// https://www.movable-type.co.uk/scripts/latlong.html
func MidPoint(lat1, lon1 float64, lat2, lon2 float64) (float64, float64) {
	p1LatRad := degreeToRadians(lat1)
	p2LatRad := degreeToRadians(lat2)

	diffLon := degreeToRadians(lon2 - lon1)

	bx := math.Cos(p2LatRad) * math.Cos(diffLon)
	by := math.Cos(p2LatRad) * math.Sin(diffLon)

	newLon := degreeToRadians(lon1) + math.Atan2(by, math.Cos(p1LatRad)+bx)
	newLat := math.Atan2(math.Sin(p1LatRad)+math.Sin(p2LatRad), math.Sqrt((math.Cos(p1LatRad)+bx)*(math.Cos(p1LatRad)+bx)+by*by))

	return radToDeg(newLat), radToDeg(newLon)
}

// KmToDegrees converts a distance at the given latitude into lat/lon degree offsets.
func KmToDegrees(lat, km float64) (dLat, dLon float64) {
	dLat = radToDeg(km / earthRadiusKM)
	cosLat := math.Cos(degreeToRadians(lat))
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLon = dLat / cosLat
	return
}

func s2Point(lat, lon float64) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
}

// DistanceToSegmentMeters shortest distance from point p to the segment a-b on the sphere.
func DistanceToSegmentMeters(pLat, pLon, aLat, aLon, bLat, bLon float64) float64 {
	a := s2Point(aLat, aLon)
	b := s2Point(bLat, bLon)
	p := s2Point(pLat, pLon)
	if a == b {
		return p.Distance(a).Radians() * earthRadiusKM * 1000
	}
	return s2.DistanceFromSegment(p, a, b).Radians() * earthRadiusKM * 1000
}

// SegmentsWithinMeters reports whether segments a1-a2 and b1-b2 come closer than tol meters.
func SegmentsWithinMeters(a1Lat, a1Lon, a2Lat, a2Lon, b1Lat, b1Lon, b2Lat, b2Lon, tol float64) bool {
	a1, a2 := s2Point(a1Lat, a1Lon), s2Point(a2Lat, a2Lon)
	b1, b2 := s2Point(b1Lat, b1Lon), s2Point(b2Lat, b2Lon)
	if a1 != a2 && b1 != b2 && s2.CrossingSign(a1, a2, b1, b2) != s2.DoNotCross {
		return true
	}
	return DistanceToSegmentMeters(a1Lat, a1Lon, b1Lat, b1Lon, b2Lat, b2Lon) <= tol ||
		DistanceToSegmentMeters(a2Lat, a2Lon, b1Lat, b1Lon, b2Lat, b2Lon) <= tol ||
		DistanceToSegmentMeters(b1Lat, b1Lon, a1Lat, a1Lon, a2Lat, a2Lon) <= tol ||
		DistanceToSegmentMeters(b2Lat, b2Lon, a1Lat, a1Lon, a2Lat, a2Lon) <= tol
}

package service

import (
	"sort"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/util"
)

type RouteQuery struct {
	StartPoint string
	EndPoint   string
	Start      datastructure.Coordinate
	End        datastructure.Coordinate
}

// RouteSummary one route as returned to clients. Alternatives are nested one level only.
type RouteSummary struct {
	StartPoint             string
	EndPoint               string
	StartCoordinates       datastructure.Coordinate
	EndCoordinates         datastructure.Coordinate
	Geometry               []datastructure.Coordinate
	Polyline               string
	DistanceKm             float64
	EstimatedTimeMinutes   float64
	RainfallForecastMm     float64
	VulnerableRoadsAvoided int
	WeatherAlert           bool
}

type SmartRouteResult struct {
	RouteSummary
	Alternatives         []RouteSummary
	ForecastAvailable    bool
	AvoidanceApplied     bool
	AvoidanceNotPossible bool
}

// assemble engine output + forecast into the client result.
// Distance and duration are summed over the route's edges.
func (s *NavigationService) assemble(g *datastructure.RoadGraph, q RouteQuery, routes datastructure.RouteSet,
	forecast datastructure.ForecastWindow) SmartRouteResult {
	alert := s.alert(forecast)
	rainfall := 0.0
	if forecast.Available {
		rainfall = util.RoundFloat(forecast.RainfallMm, 2)
	}

	summarize := func(p datastructure.Path, avoided int) RouteSummary {
		distM, timeS := 0.0, 0.0
		for _, e := range p.Edges {
			edge := g.Edge(e)
			distM += edge.LengthMeters
			timeS += edge.TravelTimeSeconds
		}
		geometry := g.PathCoordinates(p.Nodes)
		return RouteSummary{
			StartPoint:             q.StartPoint,
			EndPoint:               q.EndPoint,
			StartCoordinates:       q.Start,
			EndCoordinates:         q.End,
			Geometry:               geometry,
			Polyline:               datastructure.RenderPath(geometry),
			DistanceKm:             distM / 1000,
			EstimatedTimeMinutes:   timeS / 60,
			RainfallForecastMm:     rainfall,
			VulnerableRoadsAvoided: avoided,
			WeatherAlert:           alert,
		}
	}

	res := SmartRouteResult{
		RouteSummary:         summarize(routes.Primary, routes.VulnerableAvoided),
		Alternatives:         make([]RouteSummary, 0, len(routes.Alternatives)),
		ForecastAvailable:    forecast.Available,
		AvoidanceApplied:     routes.AvoidanceApplied,
		AvoidanceNotPossible: routes.AvoidanceNotPossible,
	}

	type ranked struct {
		path    datastructure.Path
		avoided int
	}
	alts := make([]ranked, len(routes.Alternatives))
	for i, p := range routes.Alternatives {
		avoided := 0
		if i < len(routes.AlternativesAvoided) {
			avoided = routes.AlternativesAvoided[i]
		}
		alts[i] = ranked{path: p, avoided: avoided}
	}
	sort.SliceStable(alts, func(i, j int) bool {
		return alts[i].path.TravelTimeSeconds < alts[j].path.TravelTimeSeconds
	})
	for _, a := range alts {
		res.Alternatives = append(res.Alternatives, summarize(a.path, a.avoided))
	}
	return res
}

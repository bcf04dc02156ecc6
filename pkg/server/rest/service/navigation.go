package service

import (
	"context"
	"strings"
	"time"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/server"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=navigation.go -destination=mocks/mocks.go -package=mocks

type Geocoder interface {
	Resolve(ctx context.Context, placeText string) (datastructure.Coordinate, error)
}

type RoadGraphProvider interface {
	GraphFor(ctx context.Context, bb datastructure.BoundingBox) (*datastructure.RoadGraph, error)
}

// WeatherForecaster never fails, an unreachable provider yields an unavailable window.
type WeatherForecaster interface {
	ForecastFor(ctx context.Context, bb datastructure.BoundingBox) datastructure.ForecastWindow
}

type VulnerabilityClassifier interface {
	Classify(g *datastructure.RoadGraph) *datastructure.ClassifiedGraph
}

type RouteEngine interface {
	Route(cg *datastructure.ClassifiedGraph, start, end datastructure.Coordinate, enforceAvoidance bool) (datastructure.RouteSet, error)
}

type Settings struct {
	RainfallThresholdMm float64
	BBoxMarginKm        float64
	BBoxQuantumDeg      float64
}

type NavigationService struct {
	geocoder   Geocoder
	roads      RoadGraphProvider
	weather    WeatherForecaster
	classifier VulnerabilityClassifier
	engine     RouteEngine
	settings   Settings
	log        *zap.Logger
}

func NewNavigationService(geocoder Geocoder, roads RoadGraphProvider, weather WeatherForecaster,
	classifier VulnerabilityClassifier, engine RouteEngine, settings Settings, log *zap.Logger) *NavigationService {
	return &NavigationService{
		geocoder:   geocoder,
		roads:      roads,
		weather:    weather,
		classifier: classifier,
		engine:     engine,
		settings:   settings,
		log:        log,
	}
}

// SmartRoute weather aware route between two place names.
// Endpoints are geocoded concurrently, then the road graph and the forecast of the
// surrounding box are fetched concurrently. Any mandatory failure aborts the request.
func (s *NavigationService) SmartRoute(ctx context.Context, startPoint, endPoint string) (SmartRouteResult, error) {
	if strings.TrimSpace(startPoint) == "" {
		return SmartRouteResult{}, errBadInput("start_point")
	}
	if strings.TrimSpace(endPoint) == "" {
		return SmartRouteResult{}, errBadInput("end_point")
	}
	started := time.Now()
	log := s.log.With(zap.String("request_id", uuid.NewString()))

	var start, end datastructure.Coordinate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		start, err = s.geocoder.Resolve(gctx, startPoint)
		return err
	})
	g.Go(func() error {
		var err error
		end, err = s.geocoder.Resolve(gctx, endPoint)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Info("geocoding failed", zap.String("start_point", startPoint),
			zap.String("end_point", endPoint), zap.Error(err))
		return SmartRouteResult{}, err
	}

	bb := datastructure.NewBoundingBox(start, end, s.settings.BBoxMarginKm, s.settings.BBoxQuantumDeg)

	var (
		graph    *datastructure.RoadGraph
		forecast datastructure.ForecastWindow
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		graph, err = s.roads.GraphFor(gctx, bb)
		return err
	})
	g.Go(func() error {
		forecast = s.weather.ForecastFor(gctx, bb)
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn("road network unavailable", zap.String("bbox", bb.Key()), zap.Error(err))
		return SmartRouteResult{}, err
	}

	enforce := s.alert(forecast)
	classified := s.classifier.Classify(graph)
	routes, err := s.engine.Route(classified, start, end, enforce)
	if err != nil {
		log.Info("routing failed", zap.String("bbox", bb.Key()), zap.Error(err))
		return SmartRouteResult{}, err
	}

	res := s.assemble(graph, RouteQuery{
		StartPoint: startPoint,
		EndPoint:   endPoint,
		Start:      start,
		End:        end,
	}, routes, forecast)

	log.Info("smart route",
		zap.String("bbox", bb.Key()),
		zap.Float64("rainfall_mm", forecast.RainfallMm),
		zap.Bool("forecast_available", forecast.Available),
		zap.Bool("avoidance_applied", routes.AvoidanceApplied),
		zap.Bool("avoidance_not_possible", routes.AvoidanceNotPossible),
		zap.Int("vulnerable_edges", classified.VulnerableCount()),
		zap.Int("vulnerable_avoided", routes.VulnerableAvoided),
		zap.Int("alternatives", len(routes.Alternatives)),
		zap.Duration("took", time.Since(started)))
	return res, nil
}

// alert rainfall above threshold with a usable forecast.
func (s *NavigationService) alert(f datastructure.ForecastWindow) bool {
	return f.Available && f.RainfallMm > s.settings.RainfallThresholdMm
}

// Warmup geocodes both endpoints and loads the road graph of their box into the caches.
func (s *NavigationService) Warmup(ctx context.Context, startPoint, endPoint string) (string, error) {
	start, err := s.geocoder.Resolve(ctx, startPoint)
	if err != nil {
		return "", err
	}
	end, err := s.geocoder.Resolve(ctx, endPoint)
	if err != nil {
		return "", err
	}
	bb := datastructure.NewBoundingBox(start, end, s.settings.BBoxMarginKm, s.settings.BBoxQuantumDeg)
	if _, err := s.roads.GraphFor(ctx, bb); err != nil {
		return "", err
	}
	return bb.Key(), nil
}

// errBadInput empty place names never reach the providers.
func errBadInput(field string) error {
	return server.WrapErrorf(nil, server.ErrBadParamInput, "%s is required", field)
}

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "kmend/agriroute/docs"
	"kmend/agriroute/pkg/config"
	"kmend/agriroute/pkg/engine/routingalgorithm"
	"kmend/agriroute/pkg/geocoding"
	"kmend/agriroute/pkg/kv"
	"kmend/agriroute/pkg/logger"
	"kmend/agriroute/pkg/osmparser"
	"kmend/agriroute/pkg/roadnetwork"
	"kmend/agriroute/pkg/server/rest"
	"kmend/agriroute/pkg/server/rest/service"
	"kmend/agriroute/pkg/vulnerability"
	"kmend/agriroute/pkg/weather"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

var (
	listenAddr = flag.String("listenaddr", "", "server listen address, overrides HTTP_ADDR")
)

//	@title			agriroute API
//	@version		1.0
//	@description	weather aware route planning over openstreetmap roads

//	@contact.name	kmend agri team
//	@description 	weather aware route planning over openstreetmap roads. Flood vulnerable roads are avoided when forecast rainfall exceeds the configured threshold.

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if *listenAddr != "" {
		cfg.HTTPAddr = *listenAddr
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	kvDB, err := kv.OpenKVDB(cfg.GraphDBDir, cfg.GraphCacheTTL)
	if err != nil {
		lg.Fatal("open graph store", zap.String("dir", cfg.GraphDBDir), zap.Error(err))
	}
	defer kvDB.Close()

	resolver := geocoding.NewResolverFromConfig(cfg, lg)
	roads := roadnetwork.NewProvider(newRoadSource(cfg), kvDB, cfg.GraphCacheSize, cfg.GraphCacheTTL, cfg.RoadTimeout, lg)
	forecasts := weather.NewClient(cfg.OpenMeteoURL, weather.DefaultHorizonDays, cfg.WeatherTimeout, cfg.ForecastCacheTTL, lg)

	var floodProne *vulnerability.FloodProneTable
	if cfg.FloodProneFile != "" {
		floodProne, err = vulnerability.LoadFloodProneFile(cfg.FloodProneFile, cfg.FloodProneToleranceM)
		if err != nil {
			lg.Fatal("load flood prone table", zap.String("file", cfg.FloodProneFile), zap.Error(err))
		}
		lg.Info("flood prone table loaded", zap.Int("segments", floodProne.Size()), zap.Int("areas", floodProne.Areas()))
	}

	engine := routingalgorithm.NewRouteEngine(routingalgorithm.Options{
		Alternatives:     cfg.AlternativeRoutes,
		Penalty:          cfg.AlternativePenalty,
		MaxOverlap:       cfg.AlternativeMaxOverlap,
		MaxSnapDistanceM: cfg.MaxSnapDistanceM,
	})

	navigatorSvc := service.NewNavigationService(resolver, roads, forecasts,
		vulnerability.NewClassifier(floodProne), engine, service.Settings{
			RainfallThresholdMm: cfg.RainfallThresholdMm,
			BBoxMarginKm:        cfg.BBoxMarginKm,
			BBoxQuantumDeg:      cfg.BBoxQuantumDeg,
		}, lg)

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), //The url pointing to API definition
	))

	rest.NavigatorRouter(r, navigatorSvc, m)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("server started", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("server shutdown", zap.Error(err))
	}
}

func newRoadSource(cfg *config.Config) roadnetwork.RoadNetworkSource {
	if cfg.RoadPBFFile != "" {
		return osmparser.NewPBFSource(cfg.RoadPBFFile)
	}
	return osmparser.NewOverpassSource(cfg.OverpassURL, cfg.RoadTimeout)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	RainfallThresholdMm   float64
	AlternativeRoutes     int
	AlternativePenalty    float64
	AlternativeMaxOverlap float64
	BBoxMarginKm          float64
	BBoxQuantumDeg        float64
	MaxSnapDistanceM      float64

	GeocodeCacheTTL  time.Duration
	GeocodeCacheSize int
	GraphCacheTTL    time.Duration
	GraphCacheSize   int
	ForecastCacheTTL time.Duration

	GeocodeTimeout time.Duration
	RoadTimeout    time.Duration
	WeatherTimeout time.Duration

	NominatimURL         string
	SecondaryGeocoderURL string
	GeocodeCountryCodes  string
	LocaleLat            float64
	LocaleLon            float64
	LocaleRadiusKm       float64

	OverpassURL  string
	RoadPBFFile  string
	OpenMeteoURL string

	FloodProneFile       string
	FloodProneToleranceM float64

	GraphDBDir string

	RedisAddr string
	RedisPass string
	RedisDB   int

	CORSOrigins []string
}

// LoadConfig reads .env (if any) then the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":5000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RainfallThresholdMm:   getEnvAsFloat("RAINFALL_THRESHOLD_MM", 20),
		AlternativeRoutes:     getEnvAsInt("ALTERNATIVE_ROUTES", 3),
		AlternativePenalty:    getEnvAsFloat("ALTERNATIVE_PENALTY", 3),
		AlternativeMaxOverlap: getEnvAsFloat("ALTERNATIVE_MAX_OVERLAP", 0.7),
		BBoxMarginKm:          getEnvAsFloat("BBOX_MARGIN_KM", 5),
		BBoxQuantumDeg:        getEnvAsFloat("BBOX_QUANTUM_DEG", 0.01),
		MaxSnapDistanceM:      getEnvAsFloat("MAX_SNAP_DISTANCE_M", 2000),

		GeocodeCacheTTL:  getEnvAsDuration("GEOCODE_CACHE_TTL", 168*time.Hour),
		GeocodeCacheSize: getEnvAsInt("GEOCODE_CACHE_SIZE", 4096),
		GraphCacheTTL:    getEnvAsDuration("GRAPH_CACHE_TTL", 24*time.Hour),
		GraphCacheSize:   getEnvAsInt("GRAPH_CACHE_SIZE", 16),
		ForecastCacheTTL: getEnvAsDuration("FORECAST_CACHE_TTL", 30*time.Minute),

		GeocodeTimeout: getEnvAsDuration("GEOCODE_TIMEOUT", 10*time.Second),
		RoadTimeout:    getEnvAsDuration("ROAD_TIMEOUT", 30*time.Second),
		WeatherTimeout: getEnvAsDuration("WEATHER_TIMEOUT", 5*time.Second),

		NominatimURL:         getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		SecondaryGeocoderURL: os.Getenv("SECONDARY_GEOCODER_URL"),
		GeocodeCountryCodes:  getEnv("GEOCODE_COUNTRY_CODES", "ke"),
		LocaleLat:            getEnvAsFloat("LOCALE_LAT", 0.0236),
		LocaleLon:            getEnvAsFloat("LOCALE_LON", 37.9062),
		LocaleRadiusKm:       getEnvAsFloat("LOCALE_RADIUS_KM", 1000),

		OverpassURL:  getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		RoadPBFFile:  os.Getenv("ROAD_PBF_FILE"),
		OpenMeteoURL: getEnv("OPEN_METEO_URL", "https://api.open-meteo.com/v1/forecast"),

		FloodProneFile:       os.Getenv("FLOOD_PRONE_FILE"),
		FloodProneToleranceM: getEnvAsFloat("FLOOD_PRONE_TOLERANCE_M", 30),

		GraphDBDir: getEnv("GRAPH_DB_DIR", "agrirouteDB"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"https://*", "http://*"}),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AlternativeRoutes < 0 {
		return fmt.Errorf("ALTERNATIVE_ROUTES must be >= 0, got %d", c.AlternativeRoutes)
	}
	if c.AlternativePenalty <= 1 {
		return fmt.Errorf("ALTERNATIVE_PENALTY must be > 1, got %v", c.AlternativePenalty)
	}
	if c.AlternativeMaxOverlap <= 0 || c.AlternativeMaxOverlap > 1 {
		return fmt.Errorf("ALTERNATIVE_MAX_OVERLAP must be in (0, 1], got %v", c.AlternativeMaxOverlap)
	}
	if c.BBoxMarginKm < 0 {
		return fmt.Errorf("BBOX_MARGIN_KM must be >= 0, got %v", c.BBoxMarginKm)
	}
	if c.GeocodeCacheSize <= 0 || c.GraphCacheSize <= 0 {
		return fmt.Errorf("cache sizes must be positive")
	}
	return nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	items := strings.Split(value, ",")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items
}

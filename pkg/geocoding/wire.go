package geocoding

import (
	"context"
	"time"

	"kmend/agriroute/pkg/config"
	"kmend/agriroute/pkg/datastructure"

	"go.uber.org/zap"
)

// NewResolverFromConfig Nominatim primary, Photon secondary when configured,
// redis shared tier when configured and reachable.
func NewResolverFromConfig(cfg *config.Config, lg *zap.Logger) *Resolver {
	primary := NewNominatim(cfg.NominatimURL, cfg.GeocodeCountryCodes, cfg.GeocodeTimeout)

	var secondary Provider
	if cfg.SecondaryGeocoderURL != "" {
		secondary = NewPhoton(cfg.SecondaryGeocoderURL, cfg.GeocodeCountryCodes, cfg.GeocodeTimeout)
	}

	var shared SharedCache
	if cfg.RedisAddr != "" {
		client := NewRedisClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			lg.Warn("redis unreachable, geocode cache stays local", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			shared = NewRedisCache(client, cfg.GeocodeCacheTTL)
		}
	}

	locale := Locale{
		Center:   datastructure.NewCoordinate(cfg.LocaleLat, cfg.LocaleLon),
		RadiusKm: cfg.LocaleRadiusKm,
	}
	return NewResolver(primary, secondary, shared, locale,
		cfg.GeocodeCacheSize, cfg.GeocodeCacheTTL, cfg.GeocodeTimeout, lg)
}

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/server"

	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/uber/h3-go/v4"
	"go.uber.org/zap"
)

const (
	DefaultHorizonDays = 7
	// res 5 cells are ~250 km2, one forecast grid area.
	regionResolution = 5
)

type dailyResponse struct {
	Daily struct {
		Time             []string   `json:"time"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Client Open-Meteo daily precipitation forecast, cached per h3 region.
type Client struct {
	client      *httpclient.Client
	baseURL     string
	horizonDays int
	timeout     time.Duration
	cache       *expirable.LRU[string, datastructure.ForecastWindow]
	log         *zap.Logger
}

func NewClient(baseURL string, horizonDays int, timeout, cacheTTL time.Duration, log *zap.Logger) *Client {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &Client{
		client:      httpclient.NewClient(httpclient.WithHTTPTimeout(timeout), httpclient.WithRetryCount(0)),
		baseURL:     baseURL,
		horizonDays: horizonDays,
		timeout:     timeout,
		cache:       expirable.NewLRU[string, datastructure.ForecastWindow](1024, nil, cacheTTL),
		log:         log,
	}
}

// RegionKey h3 cell of c.
func RegionKey(c datastructure.Coordinate) string {
	return h3.LatLngToCell(h3.NewLatLng(c.Lat, c.Lon), regionResolution).String()
}

// ForecastFor rainfall at the bounding box midpoint. Never fails: provider errors
// give a forecast with Available=false.
func (c *Client) ForecastFor(ctx context.Context, bb datastructure.BoundingBox) datastructure.ForecastWindow {
	center := bb.Center()
	key := RegionKey(center)
	if fw, ok := c.cache.Get(key); ok {
		return fw
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fw, err := c.FetchForecast(callCtx, center, c.horizonDays)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = server.WrapErrorf(err, server.ErrInternalTimeout, "weather forecast timed out")
		}
		c.log.Warn("forecast unavailable, continuing without weather alert",
			zap.String("region", key),
			zap.Error(server.WrapErrorf(err, server.ErrWeatherServiceDegraded, "weather service degraded")),
			zap.NamedError("cause", err))
		return datastructure.UnavailableForecast(key, c.horizonDays)
	}

	c.cache.Add(key, fw)
	return fw
}

// FetchForecast sums daily precipitation over horizonDays at coord.
func (c *Client) FetchForecast(ctx context.Context, coord datastructure.Coordinate, horizonDays int) (datastructure.ForecastWindow, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(coord.Lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(coord.Lon, 'f', 4, 64))
	params.Set("daily", "precipitation_sum")
	params.Set("forecast_days", strconv.Itoa(horizonDays))
	params.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return datastructure.ForecastWindow{}, err
	}
	res, err := c.client.Do(req)
	if err != nil {
		if res != nil {
			res.Body.Close()
		}
		if ctx.Err() != nil {
			return datastructure.ForecastWindow{}, fmt.Errorf("open-meteo: %w", ctx.Err())
		}
		return datastructure.ForecastWindow{}, fmt.Errorf("open-meteo: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return datastructure.ForecastWindow{}, fmt.Errorf("open-meteo: unexpected status %d", res.StatusCode)
	}

	var body dailyResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return datastructure.ForecastWindow{}, fmt.Errorf("open-meteo: %w", err)
	}
	if len(body.Daily.PrecipitationSum) == 0 {
		return datastructure.ForecastWindow{}, errors.New("open-meteo: response has no daily precipitation")
	}

	total := 0.0
	for i, v := range body.Daily.PrecipitationSum {
		if i >= horizonDays {
			break
		}
		if v != nil {
			total += *v
		}
	}

	return datastructure.ForecastWindow{
		RegionKey:   RegionKey(coord),
		RainfallMm:  total,
		HorizonDays: horizonDays,
		Available:   true,
	}, nil
}

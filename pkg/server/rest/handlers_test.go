package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/server"
	"kmend/agriroute/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNavigation struct {
	calls int
	res   service.SmartRouteResult
	err   error
}

func (s *stubNavigation) SmartRoute(ctx context.Context, startPoint, endPoint string) (service.SmartRouteResult, error) {
	s.calls++
	return s.res, s.err
}

func newTestRouter(svc NavigationService) (*chi.Mux, *metrics) {
	m := NewMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(PromeHttpMiddleware(m))
	NavigatorRouter(r, svc, m)
	return r, m
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/smart-route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleResult() service.SmartRouteResult {
	a := datastructure.Coordinate{Lat: -0.0236, Lon: 37.9062}
	b := datastructure.Coordinate{Lat: -0.0300, Lon: 37.9100}
	primary := service.RouteSummary{
		StartPoint:             "Meru",
		EndPoint:               "Nanyuki",
		StartCoordinates:       a,
		EndCoordinates:         b,
		Geometry:               []datastructure.Coordinate{a, b},
		Polyline:               datastructure.RenderPath([]datastructure.Coordinate{a, b}),
		DistanceKm:             0.84,
		EstimatedTimeMinutes:   1.5,
		RainfallForecastMm:     31.2,
		VulnerableRoadsAvoided: 2,
		WeatherAlert:           true,
	}
	alt := primary
	alt.DistanceKm = 1.1
	alt.VulnerableRoadsAvoided = 1
	return service.SmartRouteResult{
		RouteSummary:      primary,
		Alternatives:      []service.RouteSummary{alt},
		ForecastAvailable: true,
		AvoidanceApplied:  true,
	}
}

func TestSmartRouteHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &stubNavigation{res: sampleResult()}
		r, m := newTestRouter(svc)

		rec := post(t, r, `{"start_point":" Meru ","end_point":"Nanyuki"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		for _, field := range []string{"start_point", "end_point", "start_coordinates", "end_coordinates",
			"route_geometry", "distance_km", "estimated_time_minutes", "rainfall_forecast",
			"vulnerable_roads_avoided", "weather_alert", "alternative_routes"} {
			assert.Contains(t, body, field)
		}
		assert.Equal(t, true, body["weather_alert"])
		assert.Equal(t, 31.2, body["rainfall_forecast"])
		assert.Equal(t, float64(2), body["vulnerable_roads_avoided"])
		start := body["start_coordinates"].(map[string]interface{})
		assert.Equal(t, -0.0236, start["lat"])

		alts := body["alternative_routes"].([]interface{})
		require.Len(t, alts, 1)
		alt := alts[0].(map[string]interface{})
		assert.NotContains(t, alt, "alternative_routes")
		assert.Equal(t, 1.1, alt["distance_km"])

		var metric dto.Metric
		require.NoError(t, m.SmartRouteCount.WithLabelValues("true", "applied").Write(&metric))
		assert.Equal(t, 1.0, metric.GetCounter().GetValue())
	})

	t.Run("no alternatives renders empty list", func(t *testing.T) {
		res := sampleResult()
		res.Alternatives = nil
		r, _ := newTestRouter(&stubNavigation{res: res})

		rec := post(t, r, `{"start_point":"Meru","end_point":"Nanyuki"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"alternative_routes":[]`)
	})

	t.Run("distance and time rounded in the response", func(t *testing.T) {
		res := sampleResult()
		res.DistanceKm = 0.843219
		res.EstimatedTimeMinutes = 1.50499
		r, _ := newTestRouter(&stubNavigation{res: res})

		rec := post(t, r, `{"start_point":"Meru","end_point":"Nanyuki"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 0.84, body["distance_km"])
		assert.Equal(t, 1.5, body["estimated_time_minutes"])
	})

	t.Run("validation", func(t *testing.T) {
		svc := &stubNavigation{}
		r, _ := newTestRouter(svc)

		rec := post(t, r, `{"start_point":"   ","end_point":"Nanyuki"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body ErrResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body.ErrValidation)

		rec = post(t, r, `not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, svc.calls)
	})
}

func TestSmartRouteHandlerErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"location not found", server.WrapErrorf(nil, server.ErrLocationNotFound, "no match for %q", "x"), http.StatusNotFound},
		{"no route", server.WrapErrorf(nil, server.ErrNoRouteFound, "disconnected"), http.StatusNotFound},
		{"invalid endpoint", server.WrapErrorf(nil, server.ErrInvalidEndpoint, "too far"), http.StatusUnprocessableEntity},
		{"road network", server.WrapErrorf(nil, server.ErrRoadNetworkUnavailable, "overpass"), http.StatusServiceUnavailable},
		{"road network timeout", server.WrapErrorf(
			server.WrapErrorf(nil, server.ErrRoadNetworkUnavailable, "overpass"),
			server.ErrInternalTimeout, "timed out"), http.StatusGatewayTimeout},
		{"bad input", server.WrapErrorf(nil, server.ErrBadParamInput, "start_point is required"), http.StatusBadRequest},
		{"uncoded", errors.New("boom"), http.StatusInternalServerError},
		{"client went away", context.Canceled, StatusClientClosedRequest},
		{"client went away mid fetch", fmt.Errorf("road graph: %w", context.Canceled), StatusClientClosedRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRouter(&stubNavigation{err: tc.err})
			rec := post(t, r, `{"start_point":"Meru","end_point":"Nanyuki"}`)
			assert.Equal(t, tc.want, rec.Code)

			var body ErrResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.StatusText)
			assert.NotEmpty(t, body.ErrorText)
		})
	}
}

func TestClientClosedRequestIsNotAServerError(t *testing.T) {
	r, m := newTestRouter(&stubNavigation{err: context.Canceled})
	rec := post(t, r, `{"start_point":"Meru","end_point":"Nanyuki"}`)
	assert.Equal(t, StatusClientClosedRequest, rec.Code)

	var closed, internal dto.Metric
	require.NoError(t, m.responseStatusCode.WithLabelValues("499", http.MethodPost, "/api/smart-route").Write(&closed))
	assert.Equal(t, 1.0, closed.GetCounter().GetValue())
	require.NoError(t, m.responseStatusCode.WithLabelValues("500", http.MethodPost, "/api/smart-route").Write(&internal))
	assert.Equal(t, 0.0, internal.GetCounter().GetValue())
}

func TestUncodedErrorIsHidden(t *testing.T) {
	r, _ := newTestRouter(&stubNavigation{err: errors.New("dial tcp 10.0.0.1: refused")})
	rec := post(t, r, `{"start_point":"Meru","end_point":"Nanyuki"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(&stubNavigation{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

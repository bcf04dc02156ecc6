package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/server"
	"kmend/agriroute/pkg/server/rest/service"
	"kmend/agriroute/pkg/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// StatusClientClosedRequest nginx convention for a request the client abandoned.
const StatusClientClosedRequest = 499

type NavigationService interface {
	SmartRoute(ctx context.Context, startPoint, endPoint string) (service.SmartRouteResult, error)
}

type NavigationHandler struct {
	svc          NavigationService
	promeMetrics *metrics
	validate     *validator.Validate
	trans        ut.Translator
}

func NavigatorRouter(r chi.Router, svc NavigationService, m *metrics) {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &NavigationHandler{svc: svc, promeMetrics: m, validate: validate, trans: trans}

	r.Group(func(r chi.Router) {
		r.Route("/api", func(r chi.Router) {
			r.Post("/smart-route", handler.smartRoute)
			r.Get("/health", handler.Health)
		})
	})
}

// SmartRouteRequest model info
//
//	@Description	request body for a weather aware route between two named places
type SmartRouteRequest struct {
	StartPoint string `json:"start_point" validate:"required,max=256"`
	EndPoint   string `json:"end_point" validate:"required,max=256"`
}

func (s *SmartRouteRequest) Bind(r *http.Request) error {
	s.StartPoint = strings.TrimSpace(s.StartPoint)
	s.EndPoint = strings.TrimSpace(s.EndPoint)
	return nil
}

// CoordinateResponse model info
//
//	@Description	WGS84 coordinate
type CoordinateResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func newCoordinateResponse(c datastructure.Coordinate) CoordinateResponse {
	return CoordinateResponse{Lat: c.Lat, Lon: c.Lon}
}

// RouteAlternativeResponse model info
//
//	@Description	alternative route, same shape as the primary route without nested alternatives
type RouteAlternativeResponse struct {
	StartPoint             string               `json:"start_point"`
	EndPoint               string               `json:"end_point"`
	StartCoordinates       CoordinateResponse   `json:"start_coordinates"`
	EndCoordinates         CoordinateResponse   `json:"end_coordinates"`
	RouteGeometry          []CoordinateResponse `json:"route_geometry"`
	RoutePolyline          string               `json:"route_polyline"`
	DistanceKm             float64              `json:"distance_km"`
	EstimatedTimeMinutes   float64              `json:"estimated_time_minutes"`
	RainfallForecast       float64              `json:"rainfall_forecast"`
	VulnerableRoadsAvoided int                  `json:"vulnerable_roads_avoided"`
	WeatherAlert           bool                 `json:"weather_alert"`
}

// SmartRouteResponse model info
//
//	@Description	weather aware route with ranked alternatives
type SmartRouteResponse struct {
	RouteAlternativeResponse
	AlternativeRoutes    []RouteAlternativeResponse `json:"alternative_routes"`
	ForecastAvailable    bool                       `json:"forecast_available"`
	AvoidanceApplied     bool                       `json:"avoidance_applied"`
	AvoidanceNotPossible bool                       `json:"avoidance_not_possible"`
}

// newRouteAlternativeResponse distance and time are rounded to 2 decimals here only; the service keeps exact sums.
func newRouteAlternativeResponse(s service.RouteSummary) RouteAlternativeResponse {
	geometry := make([]CoordinateResponse, 0, len(s.Geometry))
	for _, c := range s.Geometry {
		geometry = append(geometry, newCoordinateResponse(c))
	}
	return RouteAlternativeResponse{
		StartPoint:             s.StartPoint,
		EndPoint:               s.EndPoint,
		StartCoordinates:       newCoordinateResponse(s.StartCoordinates),
		EndCoordinates:         newCoordinateResponse(s.EndCoordinates),
		RouteGeometry:          geometry,
		RoutePolyline:          s.Polyline,
		DistanceKm:             util.RoundFloat(s.DistanceKm, 2),
		EstimatedTimeMinutes:   util.RoundFloat(s.EstimatedTimeMinutes, 2),
		RainfallForecast:       s.RainfallForecastMm,
		VulnerableRoadsAvoided: s.VulnerableRoadsAvoided,
		WeatherAlert:           s.WeatherAlert,
	}
}

func NewSmartRouteResponse(res service.SmartRouteResult) *SmartRouteResponse {
	alts := make([]RouteAlternativeResponse, 0, len(res.Alternatives))
	for _, a := range res.Alternatives {
		alts = append(alts, newRouteAlternativeResponse(a))
	}
	return &SmartRouteResponse{
		RouteAlternativeResponse: newRouteAlternativeResponse(res.RouteSummary),
		AlternativeRoutes:        alts,
		ForecastAvailable:        res.ForecastAvailable,
		AvoidanceApplied:         res.AvoidanceApplied,
		AvoidanceNotPossible:     res.AvoidanceNotPossible,
	}
}

// smartRoute
//
//	@Summary		weather aware route between two places.
//	@Description	geocodes both places, fetches the surrounding road network and a 7 day rainfall forecast. When forecast rainfall exceeds the threshold, flood vulnerable roads (unpaved, tracks, flood prone segments) are avoided where possible.
//	@Tags			navigations
//	@Param			body	body	SmartRouteRequest	true	"request body smart route"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/smart-route [post]
//	@Success		200	{object}	SmartRouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		422	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
//	@Failure		503	{object}	ErrResponse
//	@Failure		504	{object}	ErrResponse
func (h *NavigationHandler) smartRoute(w http.ResponseWriter, r *http.Request) {
	data := &SmartRouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := h.validate.Struct(*data); err != nil {
		vv := translateError(err, h.trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	res, err := h.svc.SmartRoute(r.Context(), data.StartPoint, data.EndPoint)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	avoidance := "not_needed"
	switch {
	case res.AvoidanceApplied:
		avoidance = "applied"
	case res.AvoidanceNotPossible:
		avoidance = "not_possible"
	}
	h.promeMetrics.SmartRouteCount.WithLabelValues(strconv.FormatBool(res.WeatherAlert), avoidance).Inc()

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewSmartRouteResponse(res))
}

// Health
//
//	@Summary	liveness probe.
//	@Tags		health
//	@Produce	application/json
//	@Router		/health [get]
//	@Success	200	{object}	map[string]string
func (h *NavigationHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// ErrResponse model info
//
//	@Description	model untuk error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	code := getStatusCode(err)
	switch code {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusBadRequest:
		statusText = "Bad request."
	case http.StatusUnprocessableEntity:
		statusText = "Unprocessable request."
	case http.StatusServiceUnavailable:
		statusText = "Service unavailable, try again later."
	case http.StatusGatewayTimeout:
		statusText = "Upstream timeout."
	case StatusClientClosedRequest:
		statusText = "Client closed request."
	default:
		statusText = "Error."
	}

	errorText := err.Error()
	if code == http.StatusInternalServerError {
		errorText = server.MessageInternalServerError
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: code,
		StatusText:     statusText,
		ErrorText:      errorText,
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, context.Canceled) {
		return StatusClientClosedRequest
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	}
	switch ierr.Code() {
	case server.ErrLocationNotFound, server.ErrNoRouteFound:
		return http.StatusNotFound
	case server.ErrInvalidEndpoint:
		return http.StatusUnprocessableEntity
	case server.ErrRoadNetworkUnavailable:
		return http.StatusServiceUnavailable
	case server.ErrInternalTimeout:
		return http.StatusGatewayTimeout
	case server.ErrBadParamInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}

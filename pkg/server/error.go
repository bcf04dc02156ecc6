package server

import (
	"context"
	"errors"
	"fmt"
)

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is lets errors.Is match on the error code.
func (e *Error) Is(target error) bool {
	return e.code == target
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

// Code of the outermost coded error in err's chain, ErrInternalServerError if none.
func Code(err error) error {
	var ierr *Error
	if errors.As(err, &ierr) {
		return ierr.Code()
	}
	return ErrInternalServerError
}

// IsTimeout err was caused by a deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrInternalTimeout) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
	// ErrLocationNotFound place text did not resolve to a coordinate in the service area
	ErrLocationNotFound = errors.New("location not found")
	// ErrRoadNetworkUnavailable road data could not be obtained, retryable
	ErrRoadNetworkUnavailable = errors.New("road network unavailable")
	// ErrNoRouteFound endpoints are disconnected even without avoidance
	ErrNoRouteFound = errors.New("no route found")
	// ErrInvalidEndpoint endpoint is too far from any road
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrWeatherServiceDegraded forecast unavailable, never returned to clients
	ErrWeatherServiceDegraded = errors.New("weather service degraded")
	// ErrInternalTimeout an external call ran out of time
	ErrInternalTimeout = errors.New("internal timeout")
)

var MessageInternalServerError string = "internal server error"

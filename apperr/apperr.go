package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors for the request-facing failure taxonomy. Handlers map
// these to HTTP statuses with Status(); anything unrecognized is a 500.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("not available")
)

func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

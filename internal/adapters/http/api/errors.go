package api

import (
	"errors"
	"net/http"

	service "github.com/okian/allplay/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrMissingParam = errors.New("missing query parameter")
	ErrInvalidParam = errors.New("invalid query parameter")
)

// Error codes carried in errorResponse.Code.
const (
	codeBadRequest    = "bad_request"
	codeNotFound      = "not_found"
	codeUpstream      = "upstream_error"
	codeUnavailable   = "unavailable"
	codeInternalError = "internal_error"
)

// classify maps a service error to a status code and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrMissingLeague),
		errors.Is(err, service.ErrInvalidWeek),
		errors.Is(err, service.ErrInvalidRoster):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, service.ErrRosterNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway, codeUpstream
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, codeUnavailable
	default:
		return http.StatusInternalServerError, codeInternalError
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

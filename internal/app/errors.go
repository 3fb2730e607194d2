package service

import "errors"

// Sentinel errors returned by the service. The HTTP layer maps them to
// status codes with errors.Is.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrMissingLeague  = errors.New("missing league id")
	ErrInvalidWeek    = errors.New("invalid week")
	ErrInvalidRoster  = errors.New("invalid roster id")
	ErrRosterNotFound = errors.New("roster not found for this week")
	ErrUpstream       = errors.New("league api unavailable")
)

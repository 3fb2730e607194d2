package sleeper

import "errors"

var (
	// ErrUpstream marks any failure talking to the API.
	ErrUpstream = errors.New("sleeper upstream error")
	// ErrDecode marks a response body that could not be decoded.
	ErrDecode = errors.New("sleeper response decode failed")
)

package repository

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrInvalidKey   = errors.New("cache key needs a namespace")
	ErrTypeMismatch = errors.New("cached value has unexpected type")
)

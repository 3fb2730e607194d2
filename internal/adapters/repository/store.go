// Package repository holds the response cache that sits between the HTTP
// surface and the league API.
package repository

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// SeasonWeek marks a key that spans a whole season rather than one week.
const SeasonWeek = 0

// Key identifies one cached response.
type Key struct {
	Namespace string
	League    string
	Week      int // SeasonWeek for season-wide entries
	MaxWeek   int // zero when the entry has no window
}

// String renders the key as namespace:league:week:maxWeek.
func (k Key) String() string {
	week := "season"
	if k.Week != SeasonWeek {
		week = strconv.Itoa(k.Week)
	}
	var b strings.Builder
	b.WriteString(k.Namespace)
	b.WriteByte(':')
	b.WriteString(k.League)
	b.WriteByte(':')
	b.WriteString(week)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(k.MaxWeek))
	return b.String()
}

// Store is a TTL cache for computed responses.
type Store interface {
	// Get returns the cached value for key, if present and unexpired.
	Get(ctx context.Context, key Key) (any, bool)
	// Set caches value for ttl. A non-positive ttl uses the store default.
	Set(ctx context.Context, key Key, value any, ttl time.Duration) error
	// Delete drops a single entry.
	Delete(ctx context.Context, key Key)
	// Count returns the number of entries currently held, expired or not.
	Count(ctx context.Context) int
	// Flush drops every entry.
	Flush(ctx context.Context)
}

// Lookup is a typed Get. A value of the wrong type is reported as
// ErrTypeMismatch and treated as a miss by callers.
func Lookup[T any](ctx context.Context, s Store, key Key) (T, bool, error) {
	var zero T
	v, ok := s.Get(ctx, key)
	if !ok {
		return zero, false, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, false, ErrTypeMismatch
	}
	return t, true, nil
}

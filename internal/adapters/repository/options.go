package repository

import "time"

// Option applies a configuration option to the CacheStore.
type Option func(*CacheStore)

// WithDefaultTTL sets the TTL used when Set is given a non-positive ttl.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *CacheStore) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithCleanupInterval sets how often expired entries are purged.
func WithCleanupInterval(interval time.Duration) Option {
	return func(s *CacheStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *CacheStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

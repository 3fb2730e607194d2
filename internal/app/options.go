package service

import (
	"time"

	"github.com/okian/allplay/internal/adapters/repository"
	"github.com/okian/allplay/internal/config"
	"github.com/okian/allplay/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithUpstream replaces the league API client.
func WithUpstream(u Upstream) Option {
	return func(s *Service) {
		if u != nil {
			s.upstream = u
		}
	}
}

// WithStore replaces the response cache.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithBaseURL sets the league API root used when no upstream is injected.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.baseURL = baseURL
		}
	}
}

// WithHTTPTimeout bounds each upstream request.
func WithHTTPTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.httpTimeout = d
		}
	}
}

// WithFetchConcurrency caps parallel weekly fetches.
func WithFetchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchConcurrency = n
		}
	}
}

// WithWeekLimits sets the NFL calendar length and the standings cap.
func WithWeekLimits(maxNFLWeek, maxStandingsWeek int) Option {
	return func(s *Service) {
		if maxNFLWeek > 0 && maxStandingsWeek > 0 && maxStandingsWeek <= maxNFLWeek {
			s.maxNFLWeek = maxNFLWeek
			s.maxStandingsWeek = maxStandingsWeek
		}
	}
}

// WithTTLs sets per-namespace cache lifetimes. Zero values keep defaults.
func WithTTLs(ttls config.TTLs) Option {
	return func(s *Service) {
		setIfPositive(&s.ttls.Scores, ttls.Scores)
		setIfPositive(&s.ttls.Season, ttls.Season)
		setIfPositive(&s.ttls.League, ttls.League)
		setIfPositive(&s.ttls.Players, ttls.Players)
		setIfPositive(&s.ttls.NFLState, ttls.NFLState)
	}
}

// WithCacheCleanup sets how often expired cache entries are purged.
func WithCacheCleanup(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cacheCleanup = d
		}
	}
}

// WithLeagueID sets the league used when a request names none.
func WithLeagueID(id string) Option {
	return func(s *Service) {
		s.leagueID = id
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func setIfPositive(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

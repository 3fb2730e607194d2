// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() to build a Config with defaults.
//   - Load layers defaults, an optional YAML file and ALLPLAY_* env vars.
//   - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LeagueID is used when a request does not carry ?leagueId.
	LeagueID string `koanf:"league_id"`

	// SleeperBaseURL is the league API root.
	SleeperBaseURL string `koanf:"sleeper_base_url"`

	// HTTPTimeoutMS bounds every upstream request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// FetchConcurrency bounds parallel weekly feed fetches for one season request.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// MaxStandingsWeek is the last regular-season week counted in standings.
	MaxStandingsWeek int `koanf:"max_standings_week"`

	// MaxNFLWeek is the last week of the NFL calendar.
	MaxNFLWeek int `koanf:"max_nfl_week"`

	// Cache lifetimes in seconds.
	ScoresTTLSec   int `koanf:"scores_ttl_sec"`
	SeasonTTLSec   int `koanf:"season_ttl_sec"`
	LeagueTTLSec   int `koanf:"league_ttl_sec"`
	PlayersTTLSec  int `koanf:"players_ttl_sec"`
	NFLStateTTLSec int `koanf:"nfl_state_ttl_sec"`

	// CacheCleanupSec is how often expired cache entries are purged.
	CacheCleanupSec int `koanf:"cache_cleanup_sec"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		SleeperBaseURL:   "https://api.sleeper.app",
		HTTPTimeoutMS:    10_000,
		FetchConcurrency: runtime.NumCPU() * 2,
		MaxStandingsWeek: 14,
		MaxNFLWeek:       18,
		ScoresTTLSec:     300,
		SeasonTTLSec:     43_200,
		LeagueTTLSec:     43_200,
		PlayersTTLSec:    43_200,
		NFLStateTTLSec:   60,
		CacheCleanupSec:  600,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.SleeperBaseURL) == "":
		return fmt.Errorf("%w: sleeper_base_url must not be empty", ErrInvalidConfig)
	case c.MaxNFLWeek < 1:
		return fmt.Errorf("%w: max_nfl_week must be positive", ErrInvalidConfig)
	case c.MaxStandingsWeek < 1:
		return fmt.Errorf("%w: max_standings_week must be positive", ErrInvalidConfig)
	case c.MaxStandingsWeek > c.MaxNFLWeek:
		return fmt.Errorf("%w: max_standings_week %d exceeds max_nfl_week %d", ErrInvalidConfig, c.MaxStandingsWeek, c.MaxNFLWeek)
	}
	return nil
}

// HTTPTimeout returns the upstream timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// CacheCleanup returns the cache purge interval.
func (c *Config) CacheCleanup() time.Duration {
	return seconds(c.CacheCleanupSec)
}

// TTLs groups the cache lifetimes as durations.
type TTLs struct {
	Scores   time.Duration
	Season   time.Duration
	League   time.Duration
	Players  time.Duration
	NFLState time.Duration
}

// CacheTTLs converts the *_ttl_sec settings.
func (c *Config) CacheTTLs() TTLs {
	return TTLs{
		Scores:   seconds(c.ScoresTTLSec),
		Season:   seconds(c.SeasonTTLSec),
		League:   seconds(c.LeagueTTLSec),
		Players:  seconds(c.PlayersTTLSec),
		NFLState: seconds(c.NFLStateTTLSec),
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Package service provides the read API behind the HTTP handlers: weekly
// scores, all-play season standings and the supporting league lookups.
// Every read goes through the response cache, and concurrent misses for the
// same key share one upstream load.
package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/okian/allplay/internal/adapters/fetch"
	"github.com/okian/allplay/internal/adapters/repository"
	"github.com/okian/allplay/internal/adapters/sleeper"
	"github.com/okian/allplay/internal/config"
	"github.com/okian/allplay/internal/domain/model"
	"github.com/okian/allplay/internal/domain/nflweek"
	"github.com/okian/allplay/internal/domain/normalize"
	"github.com/okian/allplay/internal/domain/standings"
	"github.com/okian/allplay/internal/domain/types"
	"github.com/okian/allplay/pkg/logger"
	"github.com/okian/allplay/pkg/metrics"
)

// Cache namespaces.
const (
	nsScores      = "scores"
	nsSeason      = "season"
	nsUsers       = "users"
	nsRosters     = "rosters"
	nsMatchups    = "matchups"
	nsPlayers     = "players"
	nsProjections = "projections"
	nsNFLState    = "nfl-state"
)

const headshotBaseURL = "https://sleepercdn.com/content/nfl/players/"

// Upstream is the league API as the service uses it.
type Upstream interface {
	fetch.WeekSource
	Users(ctx context.Context, leagueID string) ([]sleeper.User, error)
	Rosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error)
	Matchups(ctx context.Context, leagueID string, week int) ([]sleeper.Matchup, error)
	NFLState(ctx context.Context) (sleeper.State, error)
	Players(ctx context.Context) (map[string]sleeper.Player, error)
	Projections(ctx context.Context, season string, week int) (map[string]float64, error)
}

// Service implements the API dependencies for the standings dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	upstream Upstream
	store    repository.Store
	pool     *fetch.Pool
	group    singleflight.Group

	// Configuration
	baseURL          string
	httpTimeout      time.Duration
	fetchConcurrency int
	maxNFLWeek       int
	maxStandingsWeek int
	ttls             config.TTLs
	cacheCleanup     time.Duration
	leagueID         string

	// State
	started       bool
	ownsStore     bool
	startedAt     time.Time
	standingsRuns atomic.Int64

	// Logging
	logger logger.Logger
}

// New constructs a Service with the configuration defaults.
func New(opts ...Option) *Service {
	cfg := config.New()
	s := &Service{
		baseURL:          cfg.SleeperBaseURL,
		httpTimeout:      cfg.HTTPTimeout(),
		fetchConcurrency: cfg.FetchConcurrency,
		maxNFLWeek:       cfg.MaxNFLWeek,
		maxStandingsWeek: cfg.MaxStandingsWeek,
		ttls:             cfg.CacheTTLs(),
		cacheCleanup:     cfg.CacheCleanup(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.upstream == nil {
		s.upstream = sleeper.New(s.baseURL, sleeper.WithTimeout(s.httpTimeout))
	}
	if s.store == nil {
		s.store = repository.NewCacheStore(ctx,
			repository.WithDefaultTTL(s.ttls.Scores),
			repository.WithCleanupInterval(s.cacheCleanup),
		)
		s.ownsStore = true
	}
	s.pool = fetch.NewPool(s.upstream, fetch.WithConcurrency(s.fetchConcurrency))

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "standings service started",
		logger.String("league", s.leagueID),
		logger.Int("maxStandingsWeek", s.maxStandingsWeek),
		logger.Int("fetchConcurrency", s.fetchConcurrency),
	)
	return nil
}

// Stop releases background resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if s.ownsStore {
		if closer, ok := s.store.(interface{ Close() }); ok {
			closer.Close()
		}
		s.store = nil
		s.ownsStore = false
	}

	s.started = false
	s.logger.Info(context.Background(), "standings service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// league resolves the request league against the configured default.
func (s *Service) league(id string) (string, error) {
	if id = strings.TrimSpace(id); id != "" {
		return id, nil
	}
	if s.leagueID != "" {
		return s.leagueID, nil
	}
	return "", ErrMissingLeague
}

func (s *Service) checkWeek(week int) error {
	if week < 1 || week > s.maxNFLWeek {
		return fmt.Errorf("%w: %d not in 1..%d", ErrInvalidWeek, week, s.maxNFLWeek)
	}
	return nil
}

// StandingsWeek clamps a requested season window to [1, cap]. Zero selects
// the cap.
func (s *Service) StandingsWeek(maxWeek int) int {
	switch {
	case maxWeek == 0, maxWeek > s.maxStandingsWeek:
		return s.maxStandingsWeek
	case maxWeek < 1:
		return 1
	default:
		return maxWeek
	}
}

func upstreamErr(err error) error {
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

// cache returns the store of a running service. Stop may clear it while
// requests are in flight.
func (s *Service) cache() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// cached serves key from the store or loads it once for all concurrent
// callers. load reports whether its result may be cached.
func cached[T any](ctx context.Context, s *Service, key repository.Key, ttl time.Duration,
	load func(context.Context) (T, bool, error),
) (T, error) {
	store, err := s.cache()
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok, err := repository.Lookup[T](ctx, store, key)
	if err != nil {
		s.logger.Warn(ctx, "discarding cache entry", logger.String("key", key.String()), logger.Error(err))
		store.Delete(ctx, key)
	}
	if ok {
		return v, nil
	}

	res, err, _ := s.group.Do(key.String(), func() (any, error) {
		// The load is shared, so one caller going away must not fail the rest.
		lctx := context.WithoutCancel(ctx)
		v, cacheable, err := load(lctx)
		if err != nil {
			return nil, err
		}
		if cacheable {
			if err := store.Set(lctx, key, v, ttl); err != nil {
				s.logger.Warn(lctx, "cache set failed", logger.String("key", key.String()), logger.Error(err))
			}
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil //nolint:forcetypeassert // load returns T
}

// Users returns the league members.
func (s *Service) Users(ctx context.Context, leagueID string) ([]sleeper.User, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	league, err := s.league(leagueID)
	if err != nil {
		return nil, err
	}
	return s.users(ctx, league)
}

func (s *Service) users(ctx context.Context, league string) ([]sleeper.User, error) {
	key := repository.Key{Namespace: nsUsers, League: league}
	return cached(ctx, s, key, s.ttls.League, func(ctx context.Context) ([]sleeper.User, bool, error) {
		users, err := s.upstream.Users(ctx, league)
		if err != nil {
			return nil, false, upstreamErr(err)
		}
		return users, true, nil
	})
}

// Rosters returns the league rosters.
func (s *Service) Rosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	league, err := s.league(leagueID)
	if err != nil {
		return nil, err
	}
	return s.rosters(ctx, league)
}

func (s *Service) rosters(ctx context.Context, league string) ([]sleeper.Roster, error) {
	key := repository.Key{Namespace: nsRosters, League: league}
	return cached(ctx, s, key, s.ttls.League, func(ctx context.Context) ([]sleeper.Roster, bool, error) {
		rosters, err := s.upstream.Rosters(ctx, league)
		if err != nil {
			return nil, false, upstreamErr(err)
		}
		return rosters, true, nil
	})
}

// identity loads both identity feeds. On failure it returns a nil Identity,
// which resolves every roster to its fallback labels, and false.
func (s *Service) identity(ctx context.Context, league string) (*model.Identity, bool) {
	var (
		users   []sleeper.User
		rosters []sleeper.Roster
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users(gctx, league)
		return err
	})
	g.Go(func() (err error) {
		rosters, err = s.rosters(gctx, league)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn(ctx, "identity unavailable, using fallback labels",
			logger.String("league", league), logger.Error(err))
		return nil, false
	}
	return sleeper.Identity(rosters, users), true
}

func recordDropped(rep normalize.Report) {
	metrics.RecordRowsDropped("non_object", rep.NonObject)
	metrics.RecordRowsDropped("missing_roster_id", rep.MissingRosterID)
	metrics.RecordRowsDropped("duplicate", rep.Duplicates)
}

// Scores returns one week's rows with identity attached, highest first.
func (s *Service) Scores(ctx context.Context, leagueID string, week int) ([]model.ScoreRow, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	league, err := s.league(leagueID)
	if err != nil {
		return nil, err
	}
	if err := s.checkWeek(week); err != nil {
		return nil, err
	}

	key := repository.Key{Namespace: nsScores, League: league, Week: week}
	return cached(ctx, s, key, s.ttls.Scores, func(ctx context.Context) ([]model.ScoreRow, bool, error) {
		var (
			raw      []byte
			identity *model.Identity
			complete bool
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			raw, err = s.upstream.MatchupsRaw(gctx, league, week)
			return err
		})
		g.Go(func() error {
			identity, complete = s.identity(gctx, league)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, false, upstreamErr(err)
		}

		rows, rep := normalize.NormalizeWithReport(raw)
		recordDropped(rep)
		if n := rep.Dropped(); n > 0 {
			s.logger.Debug(ctx, "matchup rows dropped",
				logger.String("league", league), logger.Int("week", week), logger.Int("dropped", n))
		}
		if rep.Malformed {
			s.logger.Warn(ctx, "malformed week payload", logger.String("league", league), logger.Int("week", week))
		}
		return normalize.Enrich(rows, identity), complete, nil
	})
}

// Season computes all-play standings over weeks 1..maxWeek, clamped to the
// standings cap. Weeks that fail to fetch are skipped.
func (s *Service) Season(ctx context.Context, leagueID string, maxWeek int) (model.Standings, error) {
	if err := s.ready(); err != nil {
		return model.Standings{}, err
	}
	league, err := s.league(leagueID)
	if err != nil {
		return model.Standings{}, err
	}
	window := s.StandingsWeek(maxWeek)

	key := repository.Key{Namespace: nsSeason, League: league, Week: repository.SeasonWeek, MaxWeek: window}
	return cached(ctx, s, key, s.ttls.Season, func(ctx context.Context) (model.Standings, bool, error) {
		start := time.Now()

		var (
			weeks    []standings.Week
			identity *model.Identity
			complete bool
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			weeks, err = s.pool.Weeks(gctx, league, window)
			return err
		})
		g.Go(func() error {
			identity, complete = s.identity(gctx, league)
			return nil
		})
		if err := g.Wait(); err != nil {
			return model.Standings{}, false, upstreamErr(err)
		}

		table, rep := standings.ComputeReport(weeks, identity)
		took := time.Since(start)

		recordDropped(rep.Dropped)
		for range rep.SkippedWeeks {
			metrics.RecordWeekSkipped()
		}
		metrics.RecordStandingsComputed("season", float64(took.Microseconds())/1000.0, len(table.Rows))
		if table.UnevenParticipation {
			metrics.RecordUnevenParticipation()
			s.logger.Warn(ctx, "rosters played different numbers of weeks, games back is approximate",
				logger.String("league", league))
		}
		s.standingsRuns.Add(1)

		s.logger.Info(ctx, "season standings computed",
			logger.String("league", league),
			logger.Int("maxWeek", window),
			logger.Int("weeksCounted", table.WeeksCounted),
			logger.Int("rosters", len(table.Rows)),
			logger.Int("rowsDropped", rep.Dropped.Dropped()),
			logger.Any("skippedWeeks", rep.SkippedWeeks),
			logger.Duration("took", took),
		)

		// Partial data is served but not kept.
		for _, w := range weeks {
			if w.Raw == nil {
				complete = false
				break
			}
		}
		return table, complete, nil
	})
}

func (s *Service) nflState(ctx context.Context) (sleeper.State, error) {
	key := repository.Key{Namespace: nsNFLState}
	return cached(ctx, s, key, s.ttls.NFLState, func(ctx context.Context) (sleeper.State, bool, error) {
		st, err := s.upstream.NFLState(ctx)
		if err != nil {
			return sleeper.State{}, false, upstreamErr(err)
		}
		return st, true, nil
	})
}

// NFLWeek derives the current week from the NFL state. It never fails: when
// the state is unavailable a week-one fallback is returned.
func (s *Service) NFLWeek(ctx context.Context) types.NFLWeek {
	lim := nflweek.Limits{MaxNFLWeek: s.maxNFLWeek, MaxStandingsWeek: s.maxStandingsWeek}
	if err := s.ready(); err != nil {
		return nflweek.Fallback(lim)
	}
	st, err := s.nflState(ctx)
	if err != nil {
		s.logger.Warn(ctx, "nfl state unavailable, serving fallback week", logger.Error(err))
		return nflweek.Fallback(lim)
	}
	return nflweek.Derive(nflweek.State{Season: st.Season, SeasonType: st.SeasonType, Week: st.Week}, lim)
}

func (s *Service) matchups(ctx context.Context, league string, week int) ([]sleeper.Matchup, error) {
	key := repository.Key{Namespace: nsMatchups, League: league, Week: week}
	return cached(ctx, s, key, s.ttls.Scores, func(ctx context.Context) ([]sleeper.Matchup, bool, error) {
		ms, err := s.upstream.Matchups(ctx, league, week)
		if err != nil {
			return nil, false, upstreamErr(err)
		}
		return ms, true, nil
	})
}

func (s *Service) players(ctx context.Context) (map[string]sleeper.Player, error) {
	key := repository.Key{Namespace: nsPlayers}
	return cached(ctx, s, key, s.ttls.Players, func(ctx context.Context) (map[string]sleeper.Player, bool, error) {
		players, err := s.upstream.Players(ctx)
		if err != nil {
			return nil, false, upstreamErr(err)
		}
		return players, true, nil
	})
}

// Lineup returns the starters of one roster for one week.
func (s *Service) Lineup(ctx context.Context, leagueID string, week, rosterID int) (types.Lineup, error) {
	if err := s.ready(); err != nil {
		return types.Lineup{}, err
	}
	league, err := s.league(leagueID)
	if err != nil {
		return types.Lineup{}, err
	}
	if err := s.checkWeek(week); err != nil {
		return types.Lineup{}, err
	}
	if rosterID < 1 {
		return types.Lineup{}, fmt.Errorf("%w: %d", ErrInvalidRoster, rosterID)
	}

	var (
		players  map[string]sleeper.Player
		matchups []sleeper.Matchup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		players, err = s.players(gctx)
		return err
	})
	g.Go(func() (err error) {
		matchups, err = s.matchups(gctx, league, week)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.Lineup{}, err
	}

	idx := -1
	for i := range matchups {
		if matchups[i].RosterID == rosterID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.Lineup{}, fmt.Errorf("%w: roster %d week %d", ErrRosterNotFound, rosterID, week)
	}
	row := matchups[idx]

	lineup := types.Lineup{
		RosterID: rosterID,
		Week:     week,
		Total:    row.Points,
		Starters: make([]types.Starter, 0, len(row.Starters)),
	}
	for _, pid := range row.Starters {
		lineup.Starters = append(lineup.Starters, starter(pid, players[pid], row.PlayersPoints[pid]))
	}
	return lineup, nil
}

func starter(pid string, p sleeper.Player, points float64) types.Starter {
	name := strings.TrimSpace(p.FullName)
	if name == "" {
		if p.FirstName != "" && p.LastName != "" {
			name = p.FirstName + " " + p.LastName
		} else {
			name = "Unknown"
		}
	}
	st := types.Starter{
		ID:       pid,
		Name:     name,
		Position: p.Position,
		Team:     p.Team,
		Points:   points,
	}
	if p.PlayerID != "" {
		h := headshotBaseURL + p.PlayerID + ".jpg"
		st.Headshot = &h
	}
	return st
}

// Projections sums each roster's starters' projected PPR points for week.
// Rosters keep their order in the week's matchups.
func (s *Service) Projections(ctx context.Context, leagueID string, week int) ([]types.Projection, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	league, err := s.league(leagueID)
	if err != nil {
		return nil, err
	}
	if err := s.checkWeek(week); err != nil {
		return nil, err
	}

	st, err := s.nflState(ctx)
	if err != nil {
		return nil, err
	}

	var (
		matchups []sleeper.Matchup
		proj     map[string]float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		matchups, err = s.matchups(gctx, league, week)
		return err
	})
	g.Go(func() error {
		key := repository.Key{Namespace: nsProjections, League: st.Season, Week: week}
		p, err := cached(gctx, s, key, s.ttls.Scores, func(ctx context.Context) (map[string]float64, bool, error) {
			p, err := s.upstream.Projections(ctx, st.Season, week)
			if err != nil {
				return nil, false, upstreamErr(err)
			}
			return p, true, nil
		})
		proj = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]types.Projection, 0, len(matchups))
	index := make(map[int]int, len(matchups))
	for _, m := range matchups {
		total := 0.0
		for _, pid := range m.Starters {
			total += proj[pid]
		}
		if i, ok := index[m.RosterID]; ok {
			out[i].ProjectedPoints += total
			continue
		}
		index[m.RosterID] = len(out)
		out = append(out, types.Projection{RosterID: m.RosterID, ProjectedPoints: total})
	}
	for i := range out {
		out[i].ProjectedPoints = math.Round(out[i].ProjectedPoints*100) / 100
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		Started:          s.started,
		LeagueID:         s.leagueID,
		MaxStandingsWeek: s.maxStandingsWeek,
		StandingsRuns:    s.standingsRuns.Load(),
	}
	if s.started {
		ctx := context.Background()
		stats.CacheEntries = s.store.Count(ctx)
		ps := s.pool.Stats()
		stats.WeeksFetched = ps.WeeksFetched
		stats.WeeksFailed = ps.WeeksFailed
		stats.Uptime = time.Since(s.startedAt).Round(time.Second).String()
		metrics.UpdateCacheEntries(stats.CacheEntries)
	}
	return stats
}

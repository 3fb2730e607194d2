// Package fetch pulls a run of weekly matchup feeds with bounded concurrency.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/allplay/internal/domain/standings"
	"github.com/okian/allplay/pkg/logger"
	"github.com/okian/allplay/pkg/metrics"
)

const defaultConcurrencyMultiplier = 2 // multiplier for runtime.NumCPU()

// WeekSource returns one week's raw matchup payload.
type WeekSource interface {
	MatchupsRaw(ctx context.Context, leagueID string, week int) ([]byte, error)
}

// Stats is a snapshot of pool activity since creation.
type Stats struct {
	WeeksFetched int64
	WeeksFailed  int64
}

// Pool fetches weeks concurrently. A Pool is safe for concurrent use.
type Pool struct {
	source      WeekSource
	concurrency int
	name        string

	fetched atomic.Int64
	failed  atomic.Int64

	logger logger.Logger
}

// NewPool creates a pool reading from source.
func NewPool(source WeekSource, opts ...Option) *Pool {
	p := &Pool{
		source:      source,
		concurrency: runtime.NumCPU() * defaultConcurrencyMultiplier,
		name:        "fetch",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	return p
}

// Weeks fetches weeks 1..maxWeek. A week that fails to fetch is logged and
// returned with an empty payload so the run continues. The result is ordered
// by week number. Only context cancellation aborts the run.
func (p *Pool) Weeks(ctx context.Context, leagueID string, maxWeek int) ([]standings.Week, error) {
	if maxWeek < 1 {
		return nil, nil
	}

	out := make([]standings.Week, maxWeek)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	start := time.Now()
	for week := 1; week <= maxWeek; week++ {
		g.Go(func() error {
			out[week-1] = standings.Week{Number: week}
			if err := gctx.Err(); err != nil {
				return err
			}

			metrics.AddFetchInFlight(1)
			raw, err := p.source.MatchupsRaw(gctx, leagueID, week)
			metrics.AddFetchInFlight(-1)

			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					if ctxErr := gctx.Err(); ctxErr != nil {
						return ctxErr
					}
				}
				p.failed.Add(1)
				p.logger.Warn(gctx, "week fetch failed, skipping",
					logger.String("league", leagueID),
					logger.Int("week", week),
					logger.Error(err))
				return nil
			}

			p.fetched.Add(1)
			out[week-1].Raw = raw
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch weeks for league %s: %w", leagueID, err)
	}

	p.logger.Debug(ctx, "weeks fetched",
		logger.String("league", leagueID),
		logger.Int("weeks", maxWeek),
		logger.Duration("took", time.Since(start)))
	return out, nil
}

// Stats returns the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		WeeksFetched: p.fetched.Load(),
		WeeksFailed:  p.failed.Load(),
	}
}

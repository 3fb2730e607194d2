// Command fake-sleeper serves a deterministic synthetic league over
// Sleeper-compatible routes. With -check it also verifies a running
// standings service against that league.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/okian/allplay/internal/fakeleague"
	"github.com/okian/allplay/pkg/logger"
)

// Default configuration constants.
const (
	defaultAddr        = ":9090"
	defaultTimeout     = 30 * time.Second
	defaultMaxWeek     = 14
	readHeaderTimeout  = 5 * time.Second
	shutdownTimeout    = 10 * time.Second
	checkStartupWaitMS = 200
)

func main() {
	d := fakeleague.DefaultConfig()
	var (
		addr      = flag.String("addr", defaultAddr, "Listen address")
		leagueID  = flag.String("league", d.LeagueID, "League id to serve")
		season    = flag.String("season", d.Season, "Season reported by the NFL state route")
		rosters   = flag.Int("rosters", d.Rosters, "Number of rosters")
		played    = flag.Int("weeks", d.PlayedWeeks, "Number of weeks with scores")
		current   = flag.Int("current", 0, "Current NFL week (default: weeks+1)")
		starters  = flag.Int("starters", d.Starters, "Starters per roster")
		seed      = flag.Int64("seed", d.Seed, "Random seed")
		failWeeks = flag.String("fail", "", "Comma-separated weeks whose matchups answer 500")
		check     = flag.String("check", "", "Base URL of a standings service to verify, e.g. http://localhost:9080")
		maxWeek   = flag.Int("max-week", defaultMaxWeek, "Standings window used by -check")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP timeout used by -check")
		format    = flag.String("log-format", "text", "Log format: text or json")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}
	log := logger.Get().Named("fake-sleeper")

	fails, err := parseWeeks(*failWeeks)
	if err != nil {
		os.Stderr.WriteString("invalid -fail: " + err.Error() + "\n")
		os.Exit(2)
	}

	league := fakeleague.Generate(fakeleague.Config{
		LeagueID:    *leagueID,
		Season:      *season,
		Rosters:     *rosters,
		PlayedWeeks: *played,
		CurrentWeek: *current,
		Starters:    *starters,
		Seed:        *seed,
		FailWeeks:   fails,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           league.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "serving synthetic league",
			logger.String("addr", *addr),
			logger.String("league", league.Config.LeagueID),
			logger.Int("rosters", league.Config.Rosters),
			logger.Int("weeks", league.Config.PlayedWeeks))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "listener failed", logger.Error(err))
			stop()
		}
	}()

	if *check != "" {
		// Give the listener a moment before the service calls back into it.
		time.Sleep(checkStartupWaitMS * time.Millisecond)
		client := &http.Client{Timeout: *timeout}
		if err := league.Check(ctx, client, strings.TrimRight(*check, "/"), *maxWeek); err != nil {
			log.Error(ctx, "check failed", logger.Error(err))
			shutdown(srv)
			os.Exit(1)
		}
		shutdown(srv)
		return
	}

	<-ctx.Done()
	shutdown(srv)
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func parseWeeks(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		w, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

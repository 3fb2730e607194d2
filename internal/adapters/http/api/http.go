// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/okian/allplay/internal/adapters/sleeper"
	"github.com/okian/allplay/internal/domain/model"
	"github.com/okian/allplay/internal/domain/types"
)

// UnevenHeader is set on season responses to "true" when rosters played a
// different number of weeks, in which case games back is approximate.
const UnevenHeader = "X-Allplay-Uneven-Participation"

// WeeksCountedHeader carries the number of weeks folded into a season table.
const WeeksCountedHeader = "X-Allplay-Weeks-Counted"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Scores(ctx context.Context, leagueID string, week int) ([]model.ScoreRow, error)
	Season(ctx context.Context, leagueID string, maxWeek int) (model.Standings, error)
	Users(ctx context.Context, leagueID string) ([]sleeper.User, error)
	Rosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error)
	NFLWeek(ctx context.Context) types.NFLWeek
	Lineup(ctx context.Context, leagueID string, week, rosterID int) (types.Lineup, error)
	Projections(ctx context.Context, leagueID string, week int) ([]types.Projection, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	standingsHandler *StandingsHandler
	leagueHandler    *LeagueHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		standingsHandler: NewStandingsHandler(deps),
		leagueHandler:    NewLeagueHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /metrics", "metrics", s.healthHandler.HandleMetrics)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("GET /api/scores", "scores", s.standingsHandler.HandleScores)
	route("GET /api/season", "season", s.standingsHandler.HandleSeason)

	route("GET /api/users", "users", s.leagueHandler.HandleUsers)
	route("GET /api/rosters", "rosters", s.leagueHandler.HandleRosters)
	route("GET /api/nfl-week", "nfl-week", s.leagueHandler.HandleNFLWeek)
	route("GET /api/lineup", "lineup", s.leagueHandler.HandleLineup)
	route("GET /api/projections", "projections", s.leagueHandler.HandleProjections)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeStandings emits the table as a bare JSON array; the flags travel in
// headers.
func writeStandings(w http.ResponseWriter, table model.Standings) {
	rows := table.Rows
	if rows == nil {
		rows = []model.StandingsRow{}
	}
	w.Header().Set(UnevenHeader, strconv.FormatBool(table.UnevenParticipation))
	w.Header().Set(WeeksCountedHeader, strconv.Itoa(table.WeeksCounted))
	writeJSON(w, http.StatusOK, rows)
}

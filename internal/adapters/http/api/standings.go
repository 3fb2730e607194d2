package api

import (
	"fmt"
	"net/http"
)

// StandingsHandler serves weekly scores and season standings.
type StandingsHandler struct {
	deps Dependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps Dependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleScores handles GET /api/scores?leagueId&week requests.
func (h *StandingsHandler) HandleScores(w http.ResponseWriter, r *http.Request) {
	week, err := requiredInt(r, paramWeek)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rows, err := h.deps.Scores(r.Context(), leagueParam(r), week)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleSeason handles GET /api/season?leagueId&maxWeek requests. week is
// accepted as an alias for maxWeek; without either the standings cap is used.
func (h *StandingsHandler) HandleSeason(w http.ResponseWriter, r *http.Request) {
	maxWeek, _, err := intParam(r, paramMaxWeek, paramWeek)
	if err != nil {
		writeServiceError(w, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	table, err := h.deps.Season(r.Context(), leagueParam(r), maxWeek)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeStandings(w, table)
}

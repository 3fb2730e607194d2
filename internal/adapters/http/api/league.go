package api

import (
	"net/http"
)

// LeagueHandler serves the league lookups the dashboard renders around the
// standings.
type LeagueHandler struct {
	deps Dependencies
}

// NewLeagueHandler creates a new league handler.
func NewLeagueHandler(deps Dependencies) *LeagueHandler {
	return &LeagueHandler{deps: deps}
}

// HandleUsers handles GET /api/users requests.
func (h *LeagueHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.deps.Users(r.Context(), leagueParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleRosters handles GET /api/rosters requests.
func (h *LeagueHandler) HandleRosters(w http.ResponseWriter, r *http.Request) {
	rosters, err := h.deps.Rosters(r.Context(), leagueParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rosters)
}

// HandleNFLWeek handles GET /api/nfl-week requests. It always answers 200.
func (h *LeagueHandler) HandleNFLWeek(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.NFLWeek(r.Context()))
}

// HandleLineup handles GET /api/lineup?week&rosterId requests.
func (h *LeagueHandler) HandleLineup(w http.ResponseWriter, r *http.Request) {
	week, err := requiredInt(r, paramWeek)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rosterID, err := requiredInt(r, paramRosterID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	lineup, err := h.deps.Lineup(r.Context(), leagueParam(r), week, rosterID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lineup)
}

// HandleProjections handles GET /api/projections?week requests.
func (h *LeagueHandler) HandleProjections(w http.ResponseWriter, r *http.Request) {
	week, err := requiredInt(r, paramWeek)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	proj, err := h.deps.Projections(r.Context(), leagueParam(r), week)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

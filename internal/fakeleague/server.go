package fakeleague

import (
	"net/http"
	"slices"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/okian/allplay/internal/adapters/sleeper"
)

// Handler serves l over the subset of Sleeper routes the service reads.
func (l *League) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/league/{league}/users", l.leagueRoute(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, l.Users)
	}))
	mux.HandleFunc("GET /v1/league/{league}/rosters", l.leagueRoute(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, l.Rosters)
	}))
	mux.HandleFunc("GET /v1/league/{league}/matchups/{week}", l.leagueRoute(l.handleMatchups))
	mux.HandleFunc("GET /v1/state/nfl", l.handleState)
	mux.HandleFunc("GET /v1/players/nfl", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, l.Players)
	})
	mux.HandleFunc("GET /projections/nfl/{season}/{week}", l.handleProjections)
	return mux
}

func (l *League) leagueRoute(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("league") != l.Config.LeagueID {
			// Sleeper answers unknown leagues with a null body.
			writeJSON(w, http.StatusNotFound, nil)
			return
		}
		next(w, r)
	}
}

func (l *League) handleMatchups(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil {
		http.Error(w, "invalid week", http.StatusBadRequest)
		return
	}
	if slices.Contains(l.Config.FailWeeks, week) {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	entries, ok := l.Matchups[week]
	if !ok {
		entries = []sleeper.Matchup{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (l *League) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sleeper.State{
		Season:     l.Config.Season,
		SeasonType: "regular",
		Week:       l.Config.CurrentWeek,
		Leg:        l.Config.CurrentWeek,
	})
}

type projectionStats struct {
	PtsPPR float64 `json:"pts_ppr"`
}

type projectionRow struct {
	PlayerID string          `json:"player_id"`
	Stats    projectionStats `json:"stats"`
}

func (l *League) handleProjections(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil || r.PathValue("season") != l.Config.Season {
		writeJSON(w, http.StatusOK, []projectionRow{})
		return
	}
	proj := l.Projections[week]
	ids := make([]string, 0, len(proj))
	for id := range proj {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	rows := make([]projectionRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, projectionRow{PlayerID: id, Stats: projectionStats{PtsPPR: proj[id]}})
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

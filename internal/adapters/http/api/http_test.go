package api_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/okian/allplay/internal/adapters/http/api"
	"github.com/okian/allplay/internal/adapters/sleeper"
	service "github.com/okian/allplay/internal/app"
	"github.com/okian/allplay/internal/domain/model"
	"github.com/okian/allplay/internal/domain/types"
	"github.com/okian/allplay/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

type call struct {
	league   string
	week     int
	maxWeek  int
	rosterID int
}

// mockDependencies records the arguments of the last call.
type mockDependencies struct {
	last call
	err  error

	scores  []model.ScoreRow
	season  model.Standings
	lineup  types.Lineup
	proj    []types.Projection
	nflWeek types.NFLWeek
}

func (m *mockDependencies) Scores(_ context.Context, league string, week int) ([]model.ScoreRow, error) {
	m.last = call{league: league, week: week}
	return m.scores, m.err
}

func (m *mockDependencies) Season(_ context.Context, league string, maxWeek int) (model.Standings, error) {
	m.last = call{league: league, maxWeek: maxWeek}
	return m.season, m.err
}

func (m *mockDependencies) Users(_ context.Context, league string) ([]sleeper.User, error) {
	m.last = call{league: league}
	return []sleeper.User{{UserID: "u1", DisplayName: "alice"}}, m.err
}

func (m *mockDependencies) Rosters(_ context.Context, league string) ([]sleeper.Roster, error) {
	m.last = call{league: league}
	return []sleeper.Roster{{RosterID: 1, OwnerID: "u1"}}, m.err
}

func (m *mockDependencies) NFLWeek(context.Context) types.NFLWeek {
	return m.nflWeek
}

func (m *mockDependencies) Lineup(_ context.Context, league string, week, rosterID int) (types.Lineup, error) {
	m.last = call{league: league, week: week, rosterID: rosterID}
	return m.lineup, m.err
}

func (m *mockDependencies) Projections(_ context.Context, league string, week int) ([]types.Projection, error) {
	m.last = call{league: league, week: week}
	return m.proj, m.err
}

type mockStatsProvider struct {
	stats types.Stats
}

func (m *mockStatsProvider) GetStats() types.Stats {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStatsProvider{stats: types.Stats{Started: true, LeagueID: "L1"}}).
		Register(context.Background(), mux)
	return mux
}

func serve(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("Then the health endpoint answers ok", func() {
			w := serve(mux, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then the metrics endpoint exposes the registry", func() {
			serve(mux, http.MethodGet, "/healthz")
			w := serve(mux, http.MethodGet, "/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "allplay_standings_http_requests_total")
		})

		Convey("Then the stats endpoint serves the snapshot", func() {
			w := serve(mux, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats types.Stats
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats.Started, ShouldBeTrue)
			So(stats.LeagueID, ShouldEqual, "L1")
		})

		Convey("Then other methods are refused", func() {
			w := serve(mux, http.MethodPost, "/api/season")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("Then every response carries a request id", func() {
			w := serve(mux, http.MethodGet, "/healthz")
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
		})
	})

	Convey("Given a nil mux", t, func() {
		server := api.NewServer(&mockDependencies{}, &mockStatsProvider{})
		So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestScoresHandler(t *testing.T) {
	Convey("Given the scores endpoint", t, func() {
		mgr := "bob"
		deps := &mockDependencies{scores: []model.ScoreRow{
			{RosterID: 2, Points: 120.25, Display: model.Display{TeamName: "Bees", ManagerName: &mgr}},
			{RosterID: 1, Points: 99.5, Display: model.Display{TeamName: "Roster 1"}},
		}}
		mux := newMux(deps)

		Convey("When a week and league are given", func() {
			w := serve(mux, http.MethodGet, "/api/scores?leagueId=L9&week=3")

			Convey("Then rows are served as given", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.last, ShouldResemble, call{league: "L9", week: 3})
				var rows []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0]["roster_id"], ShouldEqual, 2.0)
				So(rows[0]["points"], ShouldEqual, 120.25)
				So(rows[0]["custom_team_name"], ShouldEqual, "Bees")
				So(rows[0]["manager_name"], ShouldEqual, "bob")
				So(rows[1]["manager_name"], ShouldBeNil)
			})
		})

		Convey("When the week is missing", func() {
			w := serve(mux, http.MethodGet, "/api/scores")

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the week is not a number", func() {
			w := serve(mux, http.MethodGet, "/api/scores?week=three")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSeasonHandler(t *testing.T) {
	Convey("Given the season endpoint", t, func() {
		deps := &mockDependencies{season: model.Standings{
			Rows: []model.StandingsRow{
				{RosterID: 2, Rank: 1, SeasonTotals: model.SeasonTotals{TotalPoints: 185, TotalWins: 2, TotalLosses: 1}},
				{RosterID: 1, Rank: 2, GamesBack: 0.5, SeasonTotals: model.SeasonTotals{TotalPoints: 180, TotalWins: 2, TotalLosses: 2}},
			},
			WeeksCounted:        2,
			UnevenParticipation: true,
		}}
		mux := newMux(deps)

		Convey("When no window is given", func() {
			w := serve(mux, http.MethodGet, "/api/season")

			Convey("Then the service default is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.last, ShouldResemble, call{})
			})

			Convey("Then the table is a bare array with flags in headers", func() {
				var rows []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0]["rank"], ShouldEqual, 1.0)
				So(rows[0]["totalWins"], ShouldEqual, 2.0)
				So(rows[1]["gamesBack"], ShouldEqual, 0.5)
				So(w.Header().Get(api.UnevenHeader), ShouldEqual, "true")
				So(w.Header().Get(api.WeeksCountedHeader), ShouldEqual, "2")
			})
		})

		Convey("When maxWeek is given", func() {
			serve(mux, http.MethodGet, "/api/season?maxWeek=9&leagueId=L2")
			So(deps.last, ShouldResemble, call{league: "L2", maxWeek: 9})
		})

		Convey("When only the week alias is given", func() {
			serve(mux, http.MethodGet, "/api/season?week=6")
			So(deps.last.maxWeek, ShouldEqual, 6)
		})

		Convey("When both are given", func() {
			serve(mux, http.MethodGet, "/api/season?week=6&maxWeek=4")
			So(deps.last.maxWeek, ShouldEqual, 4)
		})

		Convey("When the window is not a number", func() {
			w := serve(mux, http.MethodGet, "/api/season?maxWeek=x")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the table is empty", func() {
			deps.season = model.Standings{}
			w := serve(mux, http.MethodGet, "/api/season")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			So(w.Header().Get(api.UnevenHeader), ShouldEqual, "false")
		})
	})
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrMissingLeague, http.StatusBadRequest, "bad_request"},
		{fmt.Errorf("%w: 40", service.ErrInvalidWeek), http.StatusBadRequest, "bad_request"},
		{service.ErrInvalidRoster, http.StatusBadRequest, "bad_request"},
		{service.ErrRosterNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("%w: %w", service.ErrUpstream, sleeper.ErrUpstream), http.StatusBadGateway, "upstream_error"},
		{service.ErrNotStarted, http.StatusServiceUnavailable, "unavailable"},
		{fmt.Errorf("surprise"), http.StatusInternalServerError, "internal_error"},
	}

	Convey("Given service errors", t, func() {
		for _, tc := range cases {
			Convey(fmt.Sprintf("When the service fails with %q", tc.err), func() {
				deps := &mockDependencies{err: tc.err}
				w := serve(newMux(deps), http.MethodGet, "/api/lineup?week=1&rosterId=1")

				Convey("Then the status and code match", func() {
					So(w.Code, ShouldEqual, tc.status)
					body := decodeError(w)
					So(body["code"], ShouldEqual, tc.code)
					So(body["message"], ShouldEqual, tc.err.Error())
				})
			})
		}
	})
}

func TestLeagueHandlers(t *testing.T) {
	Convey("Given the league endpoints", t, func() {
		one := 1
		deps := &mockDependencies{
			lineup:  types.Lineup{RosterID: 4, Week: 2, Total: 101.5, Starters: []types.Starter{{ID: "p1", Name: "Josh Allen", Position: "QB"}}},
			proj:    []types.Projection{{RosterID: 4, ProjectedPoints: 110.25}},
			nflWeek: types.NFLWeek{Season: "2025", CurrentWeek: 1, RawWeek: &one, WeeksArrayStandings: []int{1}},
		}
		mux := newMux(deps)

		Convey("When reading users and rosters", func() {
			w := serve(mux, http.MethodGet, "/api/users?leagueId=L3")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"display_name":"alice"`)
			So(deps.last.league, ShouldEqual, "L3")

			w = serve(mux, http.MethodGet, "/api/rosters")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"roster_id":1`)
		})

		Convey("When reading the NFL week", func() {
			w := serve(mux, http.MethodGet, "/api/nfl-week")

			Convey("Then the derived week is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got types.NFLWeek
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.Season, ShouldEqual, "2025")
				So(got.PriorWeek, ShouldBeNil)
				So(*got.RawWeek, ShouldEqual, 1)
				So(w.Body.String(), ShouldContainSubstring, `"priorWeek":null`)
			})
		})

		Convey("When reading a lineup", func() {
			w := serve(mux, http.MethodGet, "/api/lineup?week=2&rosterId=4")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.last, ShouldResemble, call{week: 2, rosterID: 4})
			So(w.Body.String(), ShouldContainSubstring, `"pos":"QB"`)
		})

		Convey("When the lineup roster is missing", func() {
			w := serve(mux, http.MethodGet, "/api/lineup?week=2")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["message"], ShouldContainSubstring, "rosterId")
		})

		Convey("When reading projections", func() {
			w := serve(mux, http.MethodGet, "/api/projections?week=5")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.last.week, ShouldEqual, 5)
			So(w.Body.String(), ShouldContainSubstring, `"projected_points":110.25`)
		})

		Convey("When projections have no week", func() {
			w := serve(mux, http.MethodGet, "/api/projections")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

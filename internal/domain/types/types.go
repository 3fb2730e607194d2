// Package types contains the response payloads shared by the service and
// HTTP layers.
package types

// NFLWeek describes where the NFL calendar currently is and which weeks the
// dashboard may offer.
type NFLWeek struct {
	Season                    string `json:"season"`
	SeasonType                string `json:"season_type"`
	RawWeek                   *int   `json:"rawWeek"`
	CurrentWeek               int    `json:"currentWeek"`
	PriorWeek                 *int   `json:"priorWeek"`
	CappedMaxWeekForStandings int    `json:"cappedMaxWeekForStandings"`
	CappedPriorForStandings   *int   `json:"cappedPriorForStandings"`
	WeeksArrayAll             []int  `json:"weeksArrayAll"`
	WeeksArrayStandings       []int  `json:"weeksArrayStandings"`
}

// Starter is one started player in a roster's weekly lineup.
type Starter struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position string  `json:"pos"`
	Team     string  `json:"team"`
	Points   float64 `json:"points"`
	Headshot *string `json:"headshot"`
}

// Lineup is a roster's starters for one week.
type Lineup struct {
	RosterID int       `json:"roster_id"`
	Week     int       `json:"week"`
	Total    float64   `json:"total"`
	Starters []Starter `json:"starters"`
}

// Projection is a roster's projected PPR total for one week.
type Projection struct {
	RosterID        int     `json:"roster_id"`
	ProjectedPoints float64 `json:"projected_points"`
}

// Stats is the snapshot served at /stats.
type Stats struct {
	Started          bool   `json:"started"`
	LeagueID         string `json:"league_id,omitempty"`
	MaxStandingsWeek int    `json:"max_standings_week"`
	CacheEntries     int    `json:"cache_entries"`
	StandingsRuns    int64  `json:"standings_runs"`
	WeeksFetched     int64  `json:"weeks_fetched"`
	WeeksFailed      int64  `json:"weeks_failed"`
	Uptime           string `json:"uptime"`
}

// Package model contains domain models passed between layers.
package model

// WeeklyScoreRow is one roster's score for one week after normalization.
type WeeklyScoreRow struct {
	RosterID int     `json:"roster_id"`
	Points   float64 `json:"points"`
}

// ScoreRow is a weekly row with identity attached, as served by /api/scores.
type ScoreRow struct {
	RosterID int     `json:"roster_id"`
	Points   float64 `json:"points"`
	Display
}

// SeasonTotals accumulates one roster across the weeks of a run.
type SeasonTotals struct {
	TotalPoints float64 `json:"totalPoints"`
	TotalWins   int     `json:"totalWins"`
	TotalLosses int     `json:"totalLosses"`
	HighWeeks   int     `json:"highWeeks"`
	LowWeeks    int     `json:"lowWeeks"`
	WeeksPlayed int     `json:"weeksPlayed"`
}

// StandingsRow is one ranked line of the season table.
type StandingsRow struct {
	Rank     int `json:"rank"`
	RosterID int `json:"roster_id"`
	Display
	SeasonTotals
	GamesBack float64 `json:"gamesBack"`
}

// Standings is the output of one aggregation run.
type Standings struct {
	Rows []StandingsRow
	// WeeksCounted is the number of non-empty weeks folded in.
	WeeksCounted int
	// UnevenParticipation is set when rosters played different numbers of
	// weeks; games-back is then only approximate.
	UnevenParticipation bool
}

package sleeper

import "fmt"

// User is a league member as returned by /league/{id}/users.
type User struct {
	UserID      string       `json:"user_id"`
	Username    string       `json:"username"`
	DisplayName string       `json:"display_name"`
	Avatar      string       `json:"avatar"`
	Metadata    UserMetadata `json:"metadata"`
}

// UserMetadata holds the owner-editable profile fields.
type UserMetadata struct {
	TeamName     string `json:"team_name"`
	TeamNickname string `json:"team_nickname"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
}

// Roster is a team slot in the league.
type Roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	Players  []string       `json:"players"`
	Starters []string       `json:"starters"`
	Metadata RosterMetadata `json:"metadata"`
	Settings RosterSettings `json:"settings"`
}

// RosterMetadata holds roster-level overrides.
type RosterMetadata struct {
	TeamName string `json:"team_name"`
}

// RosterSettings contains head-to-head record data.
type RosterSettings struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
	FPTS   int `json:"fpts"`
}

// Matchup is one roster's weekly matchup entry.
type Matchup struct {
	RosterID      int                `json:"roster_id"`
	MatchupID     *int               `json:"matchup_id"`
	Points        float64            `json:"points"`
	Starters      []string           `json:"starters"`
	Players       []string           `json:"players"`
	PlayersPoints map[string]float64 `json:"players_points"`
}

// Player is an entry of the NFL players map.
type Player struct {
	PlayerID  string `json:"player_id"`
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Team      string `json:"team"`
}

// State is the NFL calendar state.
type State struct {
	Season     string `json:"season"`
	SeasonType string `json:"season_type"`
	Week       int    `json:"week"`
	Leg        int    `json:"leg"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sleeper %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Unwrap lets callers match every API error with errors.Is(err, ErrUpstream).
func (e *APIError) Unwrap() error {
	return ErrUpstream
}

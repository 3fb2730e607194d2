// Package fakeleague builds a deterministic synthetic league and serves it
// over Sleeper-compatible routes for integration tests and local runs.
package fakeleague

// Config describes the league to generate.
type Config struct {
	LeagueID    string
	Season      string
	Rosters     int   // number of teams
	PlayedWeeks int   // weeks with scores; later weeks return an empty list
	CurrentWeek int   // week reported by the NFL state route
	Starters    int   // starters per roster
	Seed        int64 // same seed, same league
	FailWeeks   []int // weeks whose matchups route answers 500
}

// Default configuration constants.
const (
	DefaultLeagueID    = "fake-league"
	DefaultSeason      = "2025"
	DefaultRosters     = 12
	DefaultPlayedWeeks = 10
	DefaultStarters    = 9
	DefaultSeed        = 42
)

// DefaultConfig returns a twelve-team league ten weeks into the season.
func DefaultConfig() Config {
	return Config{
		LeagueID:    DefaultLeagueID,
		Season:      DefaultSeason,
		Rosters:     DefaultRosters,
		PlayedWeeks: DefaultPlayedWeeks,
		CurrentWeek: DefaultPlayedWeeks + 1,
		Starters:    DefaultStarters,
		Seed:        DefaultSeed,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.LeagueID == "" {
		c.LeagueID = d.LeagueID
	}
	if c.Season == "" {
		c.Season = d.Season
	}
	if c.Rosters < 1 {
		c.Rosters = d.Rosters
	}
	if c.PlayedWeeks < 0 {
		c.PlayedWeeks = 0
	}
	if c.CurrentWeek < 1 {
		c.CurrentWeek = c.PlayedWeeks + 1
	}
	if c.Starters < 1 {
		c.Starters = d.Starters
	}
	return c
}

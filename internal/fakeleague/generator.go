package fakeleague

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/allplay/internal/adapters/sleeper"
)

// ownerNamespace seeds the name-based owner UUIDs.
var ownerNamespace = uuid.MustParse("6f1c2b7e-3d7a-4c55-9a0e-2f4b8e1d9c11") //nolint:gochecknoglobals // fixed namespace

var positions = []string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "K", "DEF"} //nolint:gochecknoglobals // lineup template

var teams = []string{"KC", "BUF", "PHI", "SF", "DAL", "DET", "MIA", "BAL", "CIN", "GB", "LAR", "SEA"} //nolint:gochecknoglobals // NFL abbreviations

// Constants for point generation.
const (
	pointsBase   = 4.0
	pointsSpread = 22.0
	projSpread   = 6.0
)

// League is a generated league.
type League struct {
	Config      Config
	Users       []sleeper.User
	Rosters     []sleeper.Roster
	Players     map[string]sleeper.Player
	Matchups    map[int][]sleeper.Matchup // week -> entries
	Projections map[int]map[string]float64
}

// OwnerID returns the stable owner id of roster n (1-based).
func OwnerID(leagueID string, n int) string {
	return uuid.NewSHA1(ownerNamespace, []byte(leagueID+"/owner/"+strconv.Itoa(n))).String()
}

// Generate builds a league from cfg. The same cfg always yields the same league.
func Generate(cfg Config) *League {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic fixtures

	l := &League{
		Config:      cfg,
		Players:     make(map[string]sleeper.Player),
		Matchups:    make(map[int][]sleeper.Matchup),
		Projections: make(map[int]map[string]float64),
	}

	lineups := make([][]string, cfg.Rosters)
	for n := 1; n <= cfg.Rosters; n++ {
		owner := OwnerID(cfg.LeagueID, n)
		u := sleeper.User{
			UserID:      owner,
			Username:    fmt.Sprintf("manager%d", n),
			DisplayName: fmt.Sprintf("Manager %d", n),
			Avatar:      fmt.Sprintf("avatar%02d", n),
		}
		// Vary identity completeness so every fallback path is exercised.
		switch n % 4 {
		case 0:
			u.Metadata = sleeper.UserMetadata{TeamName: fmt.Sprintf("Team %d", n), TeamNickname: fmt.Sprintf("Coach %d", n)}
		case 1:
			u.Metadata = sleeper.UserMetadata{FirstName: "Pat", LastName: fmt.Sprintf("Number%d", n)}
		case 2:
			u.Avatar = ""
		}
		l.Users = append(l.Users, u)

		starters := make([]string, cfg.Starters)
		for s := range starters {
			pid := fmt.Sprintf("%d%02d", n, s)
			pos := positions[s%len(positions)]
			p := sleeper.Player{
				PlayerID:  pid,
				FirstName: "Player",
				LastName:  pid,
				Position:  pos,
				Team:      teams[(n+s)%len(teams)],
			}
			if s%3 == 0 {
				p.FullName = "Player " + pid
			}
			l.Players[pid] = p
			starters[s] = pid
		}
		lineups[n-1] = starters

		r := sleeper.Roster{RosterID: n, OwnerID: owner, Starters: starters, Players: starters}
		if n%5 == 0 {
			r.Metadata.TeamName = fmt.Sprintf("Roster Override %d", n)
		}
		l.Rosters = append(l.Rosters, r)
	}

	for week := 1; week <= cfg.PlayedWeeks; week++ {
		entries := make([]sleeper.Matchup, 0, cfg.Rosters)
		proj := make(map[string]float64)
		for n := 1; n <= cfg.Rosters; n++ {
			matchupID := (n + 1) / 2
			m := sleeper.Matchup{
				RosterID:      n,
				MatchupID:     &matchupID,
				Starters:      lineups[n-1],
				Players:       lineups[n-1],
				PlayersPoints: make(map[string]float64, len(lineups[n-1])),
			}
			total := 0.0
			for _, pid := range lineups[n-1] {
				pts := round2(pointsBase + rng.Float64()*pointsSpread)
				m.PlayersPoints[pid] = pts
				total += pts
				proj[pid] = round2(pts + (rng.Float64()-0.5)*projSpread)
			}
			m.Points = round2(total)
			entries = append(entries, m)
		}
		l.Matchups[week] = entries
		l.Projections[week] = proj
	}

	return l
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

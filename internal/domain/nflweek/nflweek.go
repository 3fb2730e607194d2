// Package nflweek derives the current and prior NFL weeks from the league
// calendar state.
package nflweek

import (
	"strings"

	"github.com/okian/allplay/internal/domain/types"
)

// State is the subset of the NFL calendar state the derivation needs.
// A zero Week means the upstream did not report one.
type State struct {
	Season     string
	SeasonType string
	Week       int
}

// Limits bounds the derived weeks.
type Limits struct {
	MaxNFLWeek       int
	MaxStandingsWeek int
}

// Derive builds the week payload from s.
func Derive(s State, lim Limits) types.NFLWeek {
	seasonType := strings.TrimSpace(s.SeasonType)
	if seasonType == "" {
		seasonType = "off"
	}

	raw := s.Week
	if raw == 0 {
		raw = 1
	}
	current := clamp(raw, 1, lim.MaxNFLWeek)
	capped := min(current, lim.MaxStandingsWeek)

	return types.NFLWeek{
		Season:                    s.Season,
		SeasonType:                seasonType,
		RawWeek:                   &raw,
		CurrentWeek:               current,
		PriorWeek:                 prior(current),
		CappedMaxWeekForStandings: capped,
		CappedPriorForStandings:   prior(capped),
		WeeksArrayAll:             weeks(lim.MaxNFLWeek),
		WeeksArrayStandings:       weeks(max(capped, 1)),
	}
}

// Fallback is served when the calendar state cannot be fetched.
func Fallback(lim Limits) types.NFLWeek {
	one := 1
	return types.NFLWeek{
		SeasonType:                "off",
		RawWeek:                   &one,
		CurrentWeek:               1,
		CappedMaxWeekForStandings: 1,
		WeeksArrayAll:             weeks(lim.MaxNFLWeek),
		WeeksArrayStandings:       []int{1},
	}
}

func prior(week int) *int {
	if week <= 1 {
		return nil
	}
	p := week - 1
	return &p
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}

func weeks(n int) []int {
	out := make([]int, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	return out
}

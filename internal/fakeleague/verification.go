package fakeleague

import (
	"errors"
	"fmt"
	"slices"

	"github.com/okian/allplay/internal/domain/model"
)

// ErrMismatch is returned when a served table disagrees with the league.
var ErrMismatch = errors.New("standings mismatch")

// ExpectedTotals recomputes season totals through week maxWeek by direct
// pairwise comparison, independent of the service's fold.
func (l *League) ExpectedTotals(maxWeek int) map[int]model.SeasonTotals {
	out := make(map[int]model.SeasonTotals)
	for week := 1; week <= maxWeek; week++ {
		entries := l.Matchups[week]
		if len(entries) == 0 || slices.Contains(l.Config.FailWeeks, week) {
			continue
		}
		hi, lo := entries[0].Points, entries[0].Points
		for _, e := range entries {
			hi = max(hi, e.Points)
			lo = min(lo, e.Points)
		}
		for _, e := range entries {
			t := out[e.RosterID]
			t.TotalPoints += e.Points
			t.WeeksPlayed++
			for _, o := range entries {
				switch {
				case o.Points < e.Points:
					t.TotalWins++
				case o.Points > e.Points:
					t.TotalLosses++
				}
			}
			if e.Points == hi {
				t.HighWeeks++
			}
			if e.Points == lo {
				t.LowWeeks++
			}
			out[e.RosterID] = t
		}
	}
	return out
}

// VerifyStandings checks a served table against ExpectedTotals and the
// ranking rules.
func (l *League) VerifyStandings(rows []model.StandingsRow, maxWeek int) error {
	want := l.ExpectedTotals(maxWeek)
	if len(rows) != len(want) {
		return fmt.Errorf("%w: %d rows, want %d", ErrMismatch, len(rows), len(want))
	}

	var wins, losses int
	for i, r := range rows {
		if r.Rank != i+1 {
			return fmt.Errorf("%w: row %d has rank %d", ErrMismatch, i, r.Rank)
		}
		exp, ok := want[r.RosterID]
		if !ok {
			return fmt.Errorf("%w: unexpected roster %d", ErrMismatch, r.RosterID)
		}
		got := r.SeasonTotals
		if got.TotalWins != exp.TotalWins || got.TotalLosses != exp.TotalLosses ||
			got.HighWeeks != exp.HighWeeks || got.LowWeeks != exp.LowWeeks ||
			got.WeeksPlayed != exp.WeeksPlayed {
			return fmt.Errorf("%w: roster %d totals %+v, want %+v", ErrMismatch, r.RosterID, got, exp)
		}
		if diff := got.TotalPoints - exp.TotalPoints; diff > 1e-6 || diff < -1e-6 {
			return fmt.Errorf("%w: roster %d points %.4f, want %.4f", ErrMismatch, r.RosterID, got.TotalPoints, exp.TotalPoints)
		}
		if i > 0 {
			prev := rows[i-1]
			if prev.TotalWins < r.TotalWins ||
				(prev.TotalWins == r.TotalWins && prev.TotalPoints < r.TotalPoints) {
				return fmt.Errorf("%w: rows %d and %d out of order", ErrMismatch, i-1, i)
			}
		}
		wins += got.TotalWins
		losses += got.TotalLosses
	}

	if wins != losses {
		return fmt.Errorf("%w: %d wins against %d losses", ErrMismatch, wins, losses)
	}
	if len(rows) > 0 && rows[0].GamesBack != 0 {
		return fmt.Errorf("%w: leader is %.1f games back", ErrMismatch, rows[0].GamesBack)
	}
	return nil
}

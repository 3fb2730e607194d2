// Package standings folds weekly score rows into all-play season standings.
//
// Every roster is compared against every other roster each week: a higher
// score is a win, a lower score a loss, an equal score neither. The fold is
// commutative, so week order never changes the totals.
package standings

import (
	"sort"

	"github.com/okian/allplay/internal/domain/model"
	"github.com/okian/allplay/internal/domain/normalize"
)

// Week is one raw weekly feed as delivered by the fetch layer.
type Week struct {
	Number int
	Raw    []byte
}

// Accumulator owns the per-roster totals of a single run. It is not safe
// for concurrent use; build one per computation.
type Accumulator struct {
	totals map[int]*model.SeasonTotals
	order  []int // roster ids in first-seen order
	weeks  int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{totals: make(map[int]*model.SeasonTotals)}
}

// Add folds one week. Empty weeks are ignored and report false.
func (a *Accumulator) Add(rows []model.WeeklyScoreRow) bool {
	if len(rows) == 0 {
		return false
	}
	a.weeks++

	hi, lo := rows[0].Points, rows[0].Points
	for _, r := range rows[1:] {
		if r.Points > hi {
			hi = r.Points
		}
		if r.Points < lo {
			lo = r.Points
		}
	}

	// Rank-based counting: sorting once makes wins/losses O(k log k).
	sorted := make([]float64, len(rows))
	for i, r := range rows {
		sorted[i] = r.Points
	}
	sort.Float64s(sorted)

	for _, r := range rows {
		t := a.entry(r.RosterID)
		t.TotalPoints += r.Points
		t.WeeksPlayed++

		below := sort.SearchFloat64s(sorted, r.Points)
		atOrBelow := sort.Search(len(sorted), func(i int) bool { return sorted[i] > r.Points })
		t.TotalWins += below
		t.TotalLosses += len(sorted) - atOrBelow

		if r.Points == hi {
			t.HighWeeks++
		}
		if r.Points == lo {
			t.LowWeeks++
		}
	}
	return true
}

func (a *Accumulator) entry(rosterID int) *model.SeasonTotals {
	t, ok := a.totals[rosterID]
	if !ok {
		t = &model.SeasonTotals{}
		a.totals[rosterID] = t
		a.order = append(a.order, rosterID)
	}
	return t
}

// Totals returns a copy of the running totals for rosterID.
func (a *Accumulator) Totals(rosterID int) (model.SeasonTotals, bool) {
	t, ok := a.totals[rosterID]
	if !ok {
		return model.SeasonTotals{}, false
	}
	return *t, true
}

// Standings ranks the accumulated rosters: wins desc, points desc, then
// roster id asc. Games back is measured against the rank-1 row.
func (a *Accumulator) Standings(identity *model.Identity) model.Standings {
	rows := make([]model.StandingsRow, 0, len(a.order))
	for _, id := range a.order {
		rows = append(rows, model.StandingsRow{
			RosterID:     id,
			Display:      identity.Resolve(id),
			SeasonTotals: *a.totals[id],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalWins != rows[j].TotalWins {
			return rows[i].TotalWins > rows[j].TotalWins
		}
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].RosterID < rows[j].RosterID
	})

	uneven := false
	if len(rows) > 0 {
		leader := rows[0].SeasonTotals
		for i := range rows {
			rows[i].Rank = i + 1
			rows[i].GamesBack = GamesBack(leader, rows[i].SeasonTotals)
			if rows[i].WeeksPlayed != leader.WeeksPlayed {
				uneven = true
			}
		}
	}

	return model.Standings{
		Rows:                rows,
		WeeksCounted:        a.weeks,
		UnevenParticipation: uneven,
	}
}

// GamesBack is the classic standings GB: the mean of the win deficit and
// the loss surplus relative to leader.
func GamesBack(leader, t model.SeasonTotals) float64 {
	return float64((leader.TotalWins-t.TotalWins)+(t.TotalLosses-leader.TotalLosses)) / 2
}

// Compute normalizes and folds every week, then ranks the result.
func Compute(weeks []Week, identity *model.Identity) model.Standings {
	s, _ := ComputeReport(weeks, identity)
	return s
}

// Report describes what a run left out.
type Report struct {
	SkippedWeeks []int // week numbers that contributed nothing
	Dropped      normalize.Report
}

// ComputeReport is Compute plus a summary of skipped weeks and dropped rows.
func ComputeReport(weeks []Week, identity *model.Identity) (model.Standings, Report) {
	var rep Report
	acc := NewAccumulator()
	for _, w := range weeks {
		rows, r := normalize.NormalizeWithReport(w.Raw)
		rep.Dropped.NonObject += r.NonObject
		rep.Dropped.MissingRosterID += r.MissingRosterID
		rep.Dropped.Duplicates += r.Duplicates
		if !acc.Add(rows) {
			rep.SkippedWeeks = append(rep.SkippedWeeks, w.Number)
		}
	}
	return acc.Standings(identity), rep
}

// Package normalize turns loosely shaped weekly score feeds into strict
// WeeklyScoreRow slices and attaches identity display fields.
package normalize

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/okian/allplay/internal/domain/model"
)

// Key names seen across feed versions, in lookup order.
var (
	rosterKeys = []string{"roster_id", "rosterId", "rosterID"}
	pointsKeys = []string{"points", "pts", "total_points"}
)

// Report counts what the normalizer discarded from one payload.
type Report struct {
	Malformed       bool // payload was not a list
	NonObject       int  // list elements that were not objects
	MissingRosterID int
	Duplicates      int // rows overwritten by a later row with the same roster_id
}

// Dropped is the number of rows that did not make it into the output.
func (r Report) Dropped() int {
	return r.NonObject + r.MissingRosterID + r.Duplicates
}

// Normalize parses one week's raw payload. It never fails: a payload that
// is not a JSON list yields no rows.
func Normalize(raw []byte) []model.WeeklyScoreRow {
	rows, _ := NormalizeWithReport(raw)
	return rows
}

// NormalizeWithReport is Normalize plus a count of what was dropped.
func NormalizeWithReport(raw []byte) ([]model.WeeklyScoreRow, Report) {
	var rep Report

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		rep.Malformed = true
		return nil, rep
	}
	list, ok := payload.([]any)
	if !ok {
		rep.Malformed = true
		return nil, rep
	}

	return Records(flatten(list), &rep), rep
}

// Records normalizes already-decoded records. Duplicate roster ids keep the
// position of their first occurrence and the points of their last.
func Records(records []any, rep *Report) []model.WeeklyScoreRow {
	if rep == nil {
		rep = &Report{}
	}
	rows := make([]model.WeeklyScoreRow, 0, len(records))
	index := make(map[int]int, len(records))

	for _, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			rep.NonObject++
			continue
		}
		id, ok := rosterID(obj)
		if !ok {
			rep.MissingRosterID++
			continue
		}
		pts := points(obj)
		if i, seen := index[id]; seen {
			rows[i].Points = pts
			rep.Duplicates++
			continue
		}
		index[id] = len(rows)
		rows = append(rows, model.WeeklyScoreRow{RosterID: id, Points: pts})
	}
	return rows
}

// flatten unnests arrays of arrays (rows grouped by matchup).
func flatten(list []any) []any {
	out := make([]any, 0, len(list))
	for _, v := range list {
		if inner, ok := v.([]any); ok {
			out = append(out, flatten(inner)...)
			continue
		}
		out = append(out, v)
	}
	return out
}

func lookup(obj map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func rosterID(obj map[string]any) (int, bool) {
	v, ok := lookup(obj, rosterKeys)
	if !ok {
		return 0, false
	}
	f, ok := number(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func points(obj map[string]any) float64 {
	v, ok := lookup(obj, pointsKeys)
	if !ok {
		return 0
	}
	f, ok := number(v)
	if !ok {
		return 0
	}
	return f
}

func number(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Enrich attaches display fields and orders rows by points descending.
// Ties keep their input order.
func Enrich(rows []model.WeeklyScoreRow, identity *model.Identity) []model.ScoreRow {
	out := make([]model.ScoreRow, len(rows))
	for i, r := range rows {
		out[i] = model.ScoreRow{
			RosterID: r.RosterID,
			Points:   r.Points,
			Display:  identity.Resolve(r.RosterID),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}

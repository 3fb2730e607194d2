package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Query parameter names.
const (
	paramLeagueID = "leagueId"
	paramWeek     = "week"
	paramMaxWeek  = "maxWeek"
	paramRosterID = "rosterId"
)

// leagueParam returns ?leagueId. An empty value selects the configured league.
func leagueParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get(paramLeagueID))
}

// intParam parses the first non-empty named parameter. ok is false when
// none is present.
func intParam(r *http.Request, names ...string) (n int, ok bool, err error) {
	q := r.URL.Query()
	for _, name := range names {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, true, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, v)
		}
		return n, true, nil
	}
	return 0, false, nil
}

// requiredInt is intParam for a mandatory parameter.
func requiredInt(r *http.Request, name string) (int, error) {
	n, ok, err := intParam(r, name)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %w: %s", ErrBadRequest, ErrMissingParam, name)
	}
	return n, nil
}

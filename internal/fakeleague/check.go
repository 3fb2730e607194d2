package fakeleague

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/okian/allplay/internal/domain/model"
	"github.com/okian/allplay/pkg/logger"
)

// Check asks a running standings service for the season table through
// maxWeek and verifies it against the league.
func (l *League) Check(ctx context.Context, client *http.Client, serviceURL string, maxWeek int) error {
	if client == nil {
		client = http.DefaultClient
	}
	log := logger.Get().Named("fakeleague")

	if _, err := get(ctx, client, serviceURL+"/healthz"); err != nil {
		return fmt.Errorf("service health: %w", err)
	}

	q := url.Values{}
	q.Set("leagueId", l.Config.LeagueID)
	q.Set("maxWeek", strconv.Itoa(maxWeek))
	body, err := get(ctx, client, serviceURL+"/api/season?"+q.Encode())
	if err != nil {
		return fmt.Errorf("season: %w", err)
	}

	var rows []model.StandingsRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("decode season: %w", err)
	}
	if err := l.VerifyStandings(rows, maxWeek); err != nil {
		return err
	}

	log.Info(ctx, "season standings verified",
		logger.String("league", l.Config.LeagueID),
		logger.Int("maxWeek", maxWeek),
		logger.Int("rosters", len(rows)))
	return nil
}

func get(ctx context.Context, client *http.Client, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

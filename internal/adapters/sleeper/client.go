// Package sleeper is a small read-only client for the Sleeper fantasy API.
package sleeper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/allplay/pkg/logger"
	"github.com/okian/allplay/pkg/metrics"
)

const (
	// DefaultBaseURL is the public API host. Versioned routes live under /v1.
	DefaultBaseURL = "https://api.sleeper.app"
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 512
)

// Endpoint labels used in logs and metrics.
const (
	EndpointUsers       = "users"
	EndpointRosters     = "rosters"
	EndpointMatchups    = "matchups"
	EndpointState       = "state"
	EndpointPlayers     = "players"
	EndpointProjections = "projections"
)

// projectionPositions keeps the projections payload to fantasy positions.
var projectionPositions = []string{"QB", "RB", "WR", "TE", "K", "DEF", "FLEX"} //nolint:gochecknoglobals // fixed query

// Client talks to the Sleeper API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. The HTTP client is copied so a
// shared client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client rooted at baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("sleeper")
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug(ctx, "sleeper request", logger.String("endpoint", endpoint), logger.String("url", u))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		metrics.RecordUpstreamError(endpoint, "transport")
		c.log.Warn(ctx, "sleeper request failed", logger.String("endpoint", endpoint), logger.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordUpstreamRequest(endpoint, strconv.Itoa(resp.StatusCode), latency)
	if err != nil {
		metrics.RecordUpstreamError(endpoint, "read_body")
		return nil, fmt.Errorf("%w: %s: read body: %w", ErrUpstream, endpoint, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RecordUpstreamError(endpoint, "status_"+strconv.Itoa(resp.StatusCode))
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		c.log.Warn(ctx, "sleeper returned error status",
			logger.String("endpoint", endpoint),
			logger.Int("status_code", resp.StatusCode))
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: snippet}
	}

	return body, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) error {
	body, err := c.get(ctx, endpoint, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		metrics.RecordUpstreamError(endpoint, "decode")
		return fmt.Errorf("%w: %s: %w", ErrDecode, endpoint, err)
	}
	return nil
}

// Users returns the members of a league.
func (c *Client) Users(ctx context.Context, leagueID string) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, EndpointUsers, "/v1/league/"+url.PathEscape(leagueID)+"/users", &users); err != nil {
		return nil, fmt.Errorf("failed to get users for league %s: %w", leagueID, err)
	}
	return users, nil
}

// Rosters returns the rosters of a league.
func (c *Client) Rosters(ctx context.Context, leagueID string) ([]Roster, error) {
	var rosters []Roster
	if err := c.getJSON(ctx, EndpointRosters, "/v1/league/"+url.PathEscape(leagueID)+"/rosters", &rosters); err != nil {
		return nil, fmt.Errorf("failed to get rosters for league %s: %w", leagueID, err)
	}
	return rosters, nil
}

func matchupsPath(leagueID string, week int) string {
	return "/v1/league/" + url.PathEscape(leagueID) + "/matchups/" + strconv.Itoa(week)
}

// MatchupsRaw returns the undecoded matchups body for one week. The body is
// handed to the normalizer, which tolerates shape drift.
func (c *Client) MatchupsRaw(ctx context.Context, leagueID string, week int) ([]byte, error) {
	body, err := c.get(ctx, EndpointMatchups, matchupsPath(leagueID, week))
	if err != nil {
		return nil, fmt.Errorf("failed to get matchups for league %s week %d: %w", leagueID, week, err)
	}
	return body, nil
}

// Matchups returns the typed matchups for one week.
func (c *Client) Matchups(ctx context.Context, leagueID string, week int) ([]Matchup, error) {
	var matchups []Matchup
	if err := c.getJSON(ctx, EndpointMatchups, matchupsPath(leagueID, week), &matchups); err != nil {
		return nil, fmt.Errorf("failed to get matchups for league %s week %d: %w", leagueID, week, err)
	}
	return matchups, nil
}

// NFLState returns the current NFL calendar state.
func (c *Client) NFLState(ctx context.Context) (State, error) {
	var st State
	if err := c.getJSON(ctx, EndpointState, "/v1/state/nfl", &st); err != nil {
		return State{}, fmt.Errorf("failed to get nfl state: %w", err)
	}
	return st, nil
}

// Players returns the full NFL players map keyed by player id. The payload
// is several megabytes; callers should cache it.
func (c *Client) Players(ctx context.Context) (map[string]Player, error) {
	var players map[string]Player
	if err := c.getJSON(ctx, EndpointPlayers, "/v1/players/nfl", &players); err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	return players, nil
}

// Projections returns projected PPR points keyed by player id for one
// regular-season week. The route is undocumented and has been served both
// as an object keyed by player id and as a list of entries.
func (c *Client) Projections(ctx context.Context, season string, week int) (map[string]float64, error) {
	q := url.Values{}
	q.Set("season_type", "regular")
	for _, p := range projectionPositions {
		q.Add("position[]", p)
	}
	path := "/projections/nfl/" + url.PathEscape(season) + "/" + strconv.Itoa(week) + "?" + q.Encode()

	body, err := c.get(ctx, EndpointProjections, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get projections for %s week %d: %w", season, week, err)
	}
	out, err := decodeProjections(body)
	if err != nil {
		metrics.RecordUpstreamError(EndpointProjections, "decode")
		return nil, fmt.Errorf("failed to get projections for %s week %d: %w", season, week, err)
	}
	return out, nil
}

type projectionEntry struct {
	PlayerID string          `json:"player_id"`
	PtsPPR   json.RawMessage `json:"pts_ppr"`
	Stats    *projectionStat `json:"stats"`
}

type projectionStat struct {
	PtsPPR json.RawMessage `json:"pts_ppr"`
}

// points reads pts_ppr from the entry, then from its stats. Null, missing and
// non-numeric values count as zero.
func (e projectionEntry) points() float64 {
	if f, ok := lenientNumber(e.PtsPPR); ok {
		return f
	}
	if e.Stats != nil {
		if f, ok := lenientNumber(e.Stats.PtsPPR); ok {
			return f
		}
	}
	return 0
}

// lenientNumber parses a JSON number or numeric string.
func lenientNumber(raw []byte) (float64, bool) {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return 0, false
	}
	if v[0] == '"' {
		unq, err := strconv.Unquote(string(v))
		if err != nil {
			return 0, false
		}
		v = []byte(strings.TrimSpace(unq))
	}
	f, err := strconv.ParseFloat(string(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func decodeProjections(body []byte) (map[string]float64, error) {
	trimmed := bytes.TrimSpace(body)
	out := make(map[string]float64)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, nil
	}

	if trimmed[0] == '[' {
		var list []projectionEntry
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		for _, e := range list {
			if e.PlayerID != "" {
				out[e.PlayerID] = e.points()
			}
		}
		return out, nil
	}

	var byID map[string]projectionEntry
	if err := json.Unmarshal(trimmed, &byID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	for id, e := range byID {
		out[id] = e.points()
	}
	return out, nil
}

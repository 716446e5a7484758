// Package fifa is a client for the FIFA competition API: the calendar match
// list, per-match timelines, and player alias lookups. Timeline fetches are
// conditional: the client replays cached ETag validation tokens and reports
// unchanged resources as ErrNotModified instead of re-transferring them.
package fifa

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/sling"
	"github.com/mbichoffe/worldcup-notifier/internal/logger"
)

const (
	DefaultBaseURL = "https://api.fifa.com/api/v1/"
	UserAgent      = "worldcup-notifier/1.0 (github.com/mbichoffe/worldcup-notifier)"
	Timeout        = 10 * time.Second

	// 2018 World Cup
	DefaultCompetitionID = 17
	DefaultSeasonID      = 254645
)

// ErrNotModified reports that a conditionally fetched resource has not
// changed since the cached validation token was issued. Callers must treat
// it as "no new data", not as a failure.
var ErrNotModified = errors.New("fifa: not modified")

// ErrCachePersist reports that a fresh validation token could not be stored
// durably. Unlike a fetch failure this is a persistence problem: the state
// file is unwritable, so callers should abort rather than retry other
// matches against the same store.
var ErrCachePersist = errors.New("fifa: persisting etag cache failed")

// ETagCache stores validation tokens per request URL. Set is expected to
// persist the token durably before returning.
type ETagCache interface {
	Get(url string) (string, bool)
	Set(url, token string) error
}

// Client calls the FIFA API.
type Client struct {
	baseURL       string
	competitionID int
	seasonID      int
	locale        string
	httpClient    *http.Client
	etags         ETagCache
	aliases       map[string]string // per-invocation memo of player id -> alias
}

// NewClient creates a Client for one competition season. cache may be nil,
// which disables conditional fetching.
func NewClient(baseURL string, competitionID, seasonID int, locale string, cache ETagCache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if competitionID == 0 {
		competitionID = DefaultCompetitionID
	}
	if seasonID == 0 {
		seasonID = DefaultSeasonID
	}
	return &Client{
		baseURL:       baseURL,
		competitionID: competitionID,
		seasonID:      seasonID,
		locale:        locale,
		httpClient: &http.Client{
			Timeout: Timeout,
		},
		etags:   cache,
		aliases: make(map[string]string),
	}
}

// SetTimeout overrides the fixed per-request deadline.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

type matchListParams struct {
	Competition int    `url:"idCompetition"`
	Season      int    `url:"idSeason"`
	Count       int    `url:"count"`
	Language    string `url:"language"`
}

type localeParams struct {
	Language string `url:"language"`
}

type matchListResponse struct {
	Results []Match `json:"Results"`
}

type timelineResponse struct {
	Events []TimelineEvent `json:"Event"`
}

type playerResponse struct {
	Alias []LocalizedName `json:"Alias"`
}

// Matches fetches the full calendar match list. The list is always fetched
// without cache validation so that live-status transitions are never masked
// by a stale token.
func (c *Client) Matches() ([]Match, error) {
	req, err := sling.New().Base(c.baseURL).Get("calendar/matches").
		QueryStruct(matchListParams{
			Competition: c.competitionID,
			Season:      c.seasonID,
			Count:       500,
			Language:    c.locale,
		}).Request()
	if err != nil {
		return nil, fmt.Errorf("building match list request: %w", err)
	}

	body, err := c.fetch(req, false)
	if err != nil {
		return nil, err
	}

	var resp matchListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing match list: %w", err)
	}
	return resp.Results, nil
}

// Timeline fetches the event timeline of one match, cache-aware. A cache hit
// returns ErrNotModified.
func (c *Client) Timeline(stageID, matchID string) ([]TimelineEvent, error) {
	path := fmt.Sprintf("timelines/%d/%d/%s/%s", c.competitionID, c.seasonID, stageID, matchID)
	req, err := sling.New().Base(c.baseURL).Get(path).
		QueryStruct(localeParams{Language: c.locale}).Request()
	if err != nil {
		return nil, fmt.Errorf("building timeline request: %w", err)
	}

	body, err := c.fetch(req, true)
	if err != nil {
		return nil, err
	}

	var resp timelineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing timeline: %w", err)
	}
	return resp.Events, nil
}

// PlayerAlias resolves a player id to a display name. Results are memoized
// for the lifetime of the client; one invocation never fetches the same
// player twice.
func (c *Client) PlayerAlias(playerID string) (string, error) {
	if alias, ok := c.aliases[playerID]; ok {
		return alias, nil
	}

	req, err := sling.New().Base(c.baseURL).Get("players/" + playerID).Request()
	if err != nil {
		return "", fmt.Errorf("building player request: %w", err)
	}

	body, err := c.fetch(req, false)
	if err != nil {
		return "", err
	}

	var resp playerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing player %s: %w", playerID, err)
	}
	if len(resp.Alias) == 0 || resp.Alias[0].Description == "" {
		return "", fmt.Errorf("player %s has no alias", playerID)
	}

	alias := resp.Alias[0].Description
	c.aliases[playerID] = alias
	return alias, nil
}

// fetch performs the request. When useCache is set and a validation token is
// cached for the URL, the request carries If-None-Match and a 304 response
// yields ErrNotModified. A fresh ETag on a 2xx response is cached and
// persisted before the body is returned, so a crash right after costs at
// most one redundant fetch next run.
func (c *Client) fetch(req *http.Request, useCache bool) ([]byte, error) {
	req.Header.Set("User-Agent", UserAgent)

	url := req.URL.String()
	if useCache && c.etags != nil {
		if token, ok := c.etags.Get(url); ok {
			req.Header.Set("If-None-Match", token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil, ErrNotModified
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	if useCache && c.etags != nil {
		if token := resp.Header.Get("ETag"); token != "" {
			if err := c.etags.Set(url, token); err != nil {
				return nil, fmt.Errorf("%w for %s: %w", ErrCachePersist, url, err)
			}
		}
	}

	logger.RecordTiming("fifa.fetch", time.Since(start))

	return body, nil
}

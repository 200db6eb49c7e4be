package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rajeshuchil/contesthub/internal/sources"
)

// Config controls how the codeforces client reaches the upstream API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client fetches contests from the codeforces REST API.
type Client struct {
	baseURL    string
	httpClient httpDoer
	now        func() time.Time
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient constructs a codeforces client with the provided configuration.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	var client httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
		now:        time.Now,
	}
}

// Name implements sources.Adapter.
func (c *Client) Name() string { return SourceName }

// Fetch retrieves the contest list, excluding gym contests and contests that
// finished before the cutoff window.
func (c *Client) Fetch(ctx context.Context) ([]sources.Raw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contest.list?gym=false", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("codeforces: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("codeforces: api status %q: %s", payload.Status, payload.Comment)
	}

	cutoff := c.now().Add(-endedCutoff)
	records := make([]sources.Raw, 0, len(payload.Result))
	for _, contest := range payload.Result {
		end := time.Unix(contest.StartTimeSeconds, 0).Add(time.Duration(contest.DurationSeconds) * time.Second)
		if end.Before(cutoff) {
			continue
		}
		records = append(records, contest)
	}
	return records, nil
}

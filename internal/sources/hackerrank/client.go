package hackerrank

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

const (
	// SourceName tags hackerrank records for the normalizer registry.
	SourceName  = "hackerrank"
	displayName = "HackerRank"

	defaultBaseURL     = "https://www.hackerrank.com/rest"
	defaultHTTPTimeout = 10 * time.Second
)

// Contest is the source-native hackerrank contest record.
type Contest struct {
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	EpochStartTime int64  `json:"epoch_starttime"`
	EpochEndTime   int64  `json:"epoch_endtime"`
}

type listResponse struct {
	Models []Contest `json:"models"`
}

// Config controls how the hackerrank client reaches the upstream API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client fetches upcoming contests from the hackerrank REST API.
type Client struct {
	baseURL    string
	httpClient httpDoer
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient constructs a hackerrank client with the provided configuration.
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
	}
}

// Name implements sources.Adapter.
func (c *Client) Name() string { return SourceName }

// Fetch retrieves upcoming contests. The endpoint only returns contests that
// have not ended, so no recency filtering is needed.
func (c *Client) Fetch(ctx context.Context) ([]sources.Raw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contests/upcoming", nil)
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
		return nil, fmt.Errorf("hackerrank: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	records := make([]sources.Raw, 0, len(payload.Models))
	for _, contest := range payload.Models {
		records = append(records, contest)
	}
	return records, nil
}

package codechef

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
	// SourceName tags codechef records for the normalizer registry.
	SourceName  = "codechef"
	displayName = "CodeChef"

	defaultBaseURL     = "https://www.codechef.com/api"
	defaultHTTPTimeout = 15 * time.Second
)

// Contest is the source-native codechef contest record.
type Contest struct {
	ContestCode         string `json:"contest_code"`
	ContestName         string `json:"contest_name"`
	ContestStartDateISO string `json:"contest_start_date_iso"`
	ContestEndDateISO   string `json:"contest_end_date_iso"`
}

type listResponse struct {
	Status          string    `json:"status"`
	PresentContests []Contest `json:"present_contests"`
	FutureContests  []Contest `json:"future_contests"`
}

// Config controls how the codechef client reaches the upstream API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client fetches contests from the codechef list API.
type Client struct {
	baseURL    string
	httpClient httpDoer
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient constructs a codechef client with the provided configuration.
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

// Fetch retrieves present and future contests. The list API already scopes
// its buckets, so no recency filtering is needed here.
func (c *Client) Fetch(ctx context.Context) ([]sources.Raw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/list/contests/all", nil)
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
		return nil, fmt.Errorf("codechef: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Status != "" && payload.Status != "success" {
		return nil, fmt.Errorf("codechef: api status %q", payload.Status)
	}

	records := make([]sources.Raw, 0, len(payload.PresentContests)+len(payload.FutureContests))
	for _, contest := range payload.PresentContests {
		records = append(records, contest)
	}
	for _, contest := range payload.FutureContests {
		records = append(records, contest)
	}
	return records, nil
}

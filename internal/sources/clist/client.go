package clist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rajeshuchil/contesthub/internal/sources"
)

const (
	// SourceName tags clist records for the normalizer registry.
	SourceName = "clist"

	defaultBaseURL     = "https://clist.by/api/v4"
	defaultHTTPTimeout = 15 * time.Second
	defaultPageLimit   = 200

	// clist returns start/end without a zone designator; values are UTC.
	timeLayout = "2006-01-02T15:04:05"
)

// Contest is the source-native clist contest record.
type Contest struct {
	ID       int64  `json:"id"`
	Event    string `json:"event"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration int64  `json:"duration"`
	Href     string `json:"href"`
	Resource string `json:"resource"`
}

type listResponse struct {
	Objects []Contest `json:"objects"`
}

// Config controls how the clist client reaches the upstream API.
// Username and APIKey are required; clist rejects unauthenticated requests.
type Config struct {
	BaseURL    string
	Username   string
	APIKey     string
	HTTPClient *http.Client
}

// Client fetches contests from the clist.by aggregated API. It serves as the
// consolidated primary source; the per-platform adapters are the fallback.
type Client struct {
	baseURL    string
	username   string
	apiKey     string
	httpClient httpDoer
	now        func() time.Time
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient constructs a clist client with the provided configuration.
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
		username:   cfg.Username,
		apiKey:     cfg.APIKey,
		httpClient: client,
		now:        time.Now,
	}
}

// Name implements sources.Adapter.
func (c *Client) Name() string { return SourceName }

// Fetch retrieves contests that end after the start of the current day.
// Returns ErrMissingCredentials when no username/key is configured, which
// triggers the per-platform fallback path without aborting the cycle.
func (c *Client) Fetch(ctx context.Context) ([]sources.Raw, error) {
	if c.username == "" || c.apiKey == "" {
		return nil, fmt.Errorf("clist: %w", sources.ErrMissingCredentials)
	}

	q := url.Values{}
	q.Set("end__gt", c.now().UTC().Truncate(24*time.Hour).Format(timeLayout))
	q.Set("order_by", "start")
	q.Set("limit", strconv.Itoa(defaultPageLimit))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contest/?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("ApiKey %s:%s", c.username, c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("clist: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	records := make([]sources.Raw, 0, len(payload.Objects))
	for _, contest := range payload.Objects {
		records = append(records, contest)
	}
	return records, nil
}

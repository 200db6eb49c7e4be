package leetcode

import (
	"bytes"
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
	// SourceName tags leetcode records for the normalizer registry.
	SourceName  = "leetcode"
	displayName = "LeetCode"

	defaultEndpoint    = "https://leetcode.com/graphql"
	defaultHTTPTimeout = 10 * time.Second

	endedCutoff = 7 * 24 * time.Hour
)

const contestsQuery = `{"query":"{ allContests { title titleSlug startTime duration } }"}`

// Contest is the source-native leetcode contest record.
type Contest struct {
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	StartTime int64  `json:"startTime"`
	Duration  int64  `json:"duration"`
}

type graphqlResponse struct {
	Data struct {
		AllContests []Contest `json:"allContests"`
	} `json:"data"`
}

// Config controls how the leetcode client reaches the GraphQL endpoint.
type Config struct {
	Endpoint   string
	HTTPClient *http.Client
}

// Client fetches contests from the leetcode GraphQL API.
type Client struct {
	endpoint   string
	httpClient httpDoer
	now        func() time.Time
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient constructs a leetcode client with the provided configuration.
func NewClient(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	var client httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: client,
		now:        time.Now,
	}
}

// Name implements sources.Adapter.
func (c *Client) Name() string { return SourceName }

// Fetch retrieves the contest list via GraphQL, excluding contests that
// finished before the cutoff window.
func (c *Client) Fetch(ctx context.Context) ([]sources.Raw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBufferString(contestsQuery))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("leetcode: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	cutoff := c.now().Add(-endedCutoff)
	records := make([]sources.Raw, 0, len(payload.Data.AllContests))
	for _, contest := range payload.Data.AllContests {
		end := time.Unix(contest.StartTime, 0).Add(time.Duration(contest.Duration) * time.Second)
		if end.Before(cutoff) {
			continue
		}
		records = append(records, contest)
	}
	return records, nil
}

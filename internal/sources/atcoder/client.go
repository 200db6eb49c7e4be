package atcoder

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rajeshuchil/contesthub/internal/sources"
)

const (
	// SourceName tags atcoder records for the normalizer registry.
	SourceName  = "atcoder"
	displayName = "AtCoder"

	defaultBaseURL     = "https://atcoder.jp"
	defaultHTTPTimeout = 15 * time.Second

	// AtCoder renders start times in JST with a numeric offset.
	startTimeLayout = "2006-01-02 15:04:05-0700"
)

// Contest is the record scraped from the atcoder contest tables.
type Contest struct {
	Slug     string
	Title    string
	StartsAt time.Time
	Duration time.Duration
}

// Config controls how the atcoder scraper reaches the contests page.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client scrapes upcoming and running contests from the atcoder contests
// page. AtCoder has no public JSON API for its contest calendar.
type Client struct {
	baseURL    string
	httpClient httpDoer
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient constructs an atcoder scraper with the provided configuration.
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

// Fetch scrapes the active and upcoming contest tables.
func (c *Client) Fetch(ctx context.Context) ([]sources.Raw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contests/?lang=en", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("atcoder: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("atcoder: parse contests page: %w", err)
	}

	var (
		records  []sources.Raw
		parseErr error
	)
	doc.Find("#contest-table-action tbody tr, #contest-table-upcoming tbody tr").Each(func(_ int, row *goquery.Selection) {
		record, err := parseRow(row)
		if err != nil {
			if parseErr == nil {
				parseErr = err
			}
			return
		}
		records = append(records, record)
	})

	// A page with rows none of which parse means the markup changed; that is
	// a fetch failure, not an empty cycle.
	if len(records) == 0 && parseErr != nil {
		return nil, fmt.Errorf("atcoder: no parsable rows: %w", parseErr)
	}
	return records, nil
}

func parseRow(row *goquery.Selection) (Contest, error) {
	cells := row.Find("td")
	if cells.Length() < 3 {
		return Contest{}, fmt.Errorf("atcoder: row has %d cells", cells.Length())
	}

	startText := strings.TrimSpace(cells.Eq(0).Find("a").Text())
	startsAt, err := time.Parse(startTimeLayout, startText)
	if err != nil {
		return Contest{}, fmt.Errorf("atcoder: bad start time %q: %w", startText, err)
	}

	link := cells.Eq(1).Find("a").Last()
	href, ok := link.Attr("href")
	if !ok {
		return Contest{}, fmt.Errorf("atcoder: contest cell missing link")
	}
	slug := strings.TrimPrefix(strings.TrimSuffix(href, "/"), "/contests/")
	if slug == "" || strings.Contains(slug, "/") {
		return Contest{}, fmt.Errorf("atcoder: unexpected contest href %q", href)
	}

	duration, err := parseDuration(strings.TrimSpace(cells.Eq(2).Text()))
	if err != nil {
		return Contest{}, err
	}

	return Contest{
		Slug:     slug,
		Title:    strings.TrimSpace(link.Text()),
		StartsAt: startsAt,
		Duration: duration,
	}, nil
}

// parseDuration handles the "HH:MM" contest length column. Long marathon
// contests can exceed 24 hours, so the hour part is unbounded.
func parseDuration(text string) (time.Duration, error) {
	parts := strings.SplitN(text, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("atcoder: bad duration %q", text)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("atcoder: bad duration %q: %w", text, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("atcoder: bad duration %q: %w", text, err)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

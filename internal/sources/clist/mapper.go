package clist

import (
	"fmt"
	"strings"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/sources"
)

// resourceNames maps clist resource hosts to the display names used by the
// per-platform adapters, so records for the same contest share a platform
// label regardless of which path fetched them.
var resourceNames = map[string]string{
	"codeforces.com":  "Codeforces",
	"leetcode.com":    "LeetCode",
	"codechef.com":    "CodeChef",
	"atcoder.jp":      "AtCoder",
	"hackerrank.com":  "HackerRank",
	"hackerearth.com": "HackerEarth",
	"topcoder.com":    "Topcoder",
}

// Normalize maps a clist record into the canonical contest shape.
func Normalize(raw sources.Raw, now time.Time) (domain.Contest, error) {
	record, ok := raw.(Contest)
	if !ok {
		return domain.Contest{}, fmt.Errorf("clist: unexpected record type %T", raw)
	}

	start, err := time.Parse(timeLayout, record.Start)
	if err != nil {
		return domain.Contest{}, fmt.Errorf("clist: contest %d: bad start %q: %w", record.ID, record.Start, err)
	}
	start = start.UTC()

	duration := record.Duration
	if duration <= 0 {
		end, err := time.Parse(timeLayout, record.End)
		if err != nil {
			return domain.Contest{}, fmt.Errorf("clist: contest %d: bad end %q: %w", record.ID, record.End, err)
		}
		duration = int64(end.UTC().Sub(start) / time.Second)
	}

	return domain.Contest{
		ID:        fmt.Sprintf("%s-%d", SourceName, record.ID),
		Platform:  platformName(record.Resource),
		Name:      record.Event,
		StartTime: start,
		Duration:  duration,
		URL:       record.Href,
		Status:    domain.CalculateStatus(start, duration, now),
	}, nil
}

func platformName(resource string) string {
	host := strings.TrimPrefix(strings.ToLower(resource), "www.")
	if name, ok := resourceNames[host]; ok {
		return name
	}
	return resource
}

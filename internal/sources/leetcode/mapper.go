package leetcode

import (
	"fmt"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/sources"
)

// Normalize maps a leetcode record into the canonical contest shape.
func Normalize(raw sources.Raw, now time.Time) (domain.Contest, error) {
	record, ok := raw.(Contest)
	if !ok {
		return domain.Contest{}, fmt.Errorf("leetcode: unexpected record type %T", raw)
	}

	start := time.Unix(record.StartTime, 0).UTC()
	return domain.Contest{
		ID:        fmt.Sprintf("%s-%s", SourceName, record.TitleSlug),
		Platform:  displayName,
		Name:      record.Title,
		StartTime: start,
		Duration:  record.Duration,
		URL:       fmt.Sprintf("https://leetcode.com/contest/%s", record.TitleSlug),
		Status:    domain.CalculateStatus(start, record.Duration, now),
	}, nil
}

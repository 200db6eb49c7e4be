package codeforces

import (
	"fmt"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/sources"
)

// Normalize maps a codeforces record into the canonical contest shape.
func Normalize(raw sources.Raw, now time.Time) (domain.Contest, error) {
	record, ok := raw.(Contest)
	if !ok {
		return domain.Contest{}, fmt.Errorf("codeforces: unexpected record type %T", raw)
	}

	start := time.Unix(record.StartTimeSeconds, 0).UTC()
	return domain.Contest{
		ID:        fmt.Sprintf("%s-%d", SourceName, record.ID),
		Platform:  displayName,
		Name:      record.Name,
		StartTime: start,
		Duration:  record.DurationSeconds,
		URL:       fmt.Sprintf("https://codeforces.com/contest/%d", record.ID),
		Status:    domain.CalculateStatus(start, record.DurationSeconds, now),
	}, nil
}

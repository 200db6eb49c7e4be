package hackerrank

import (
	"fmt"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/sources"
)

// Normalize maps a hackerrank record into the canonical contest shape.
// Duration is the difference between the epoch end and start seconds.
func Normalize(raw sources.Raw, now time.Time) (domain.Contest, error) {
	record, ok := raw.(Contest)
	if !ok {
		return domain.Contest{}, fmt.Errorf("hackerrank: unexpected record type %T", raw)
	}
	if record.EpochEndTime < record.EpochStartTime {
		return domain.Contest{}, fmt.Errorf("hackerrank: contest %s ends before it starts", record.Slug)
	}

	start := time.Unix(record.EpochStartTime, 0).UTC()
	duration := record.EpochEndTime - record.EpochStartTime
	return domain.Contest{
		ID:        fmt.Sprintf("%s-%s", SourceName, record.Slug),
		Platform:  displayName,
		Name:      record.Name,
		StartTime: start,
		Duration:  duration,
		URL:       fmt.Sprintf("https://www.hackerrank.com/contests/%s", record.Slug),
		Status:    domain.CalculateStatus(start, duration, now),
	}, nil
}

package atcoder

import (
	"fmt"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/sources"
)

// Normalize maps an atcoder record into the canonical contest shape.
func Normalize(raw sources.Raw, now time.Time) (domain.Contest, error) {
	record, ok := raw.(Contest)
	if !ok {
		return domain.Contest{}, fmt.Errorf("atcoder: unexpected record type %T", raw)
	}

	start := record.StartsAt.UTC()
	duration := int64(record.Duration / time.Second)
	return domain.Contest{
		ID:        fmt.Sprintf("%s-%s", SourceName, record.Slug),
		Platform:  displayName,
		Name:      record.Title,
		StartTime: start,
		Duration:  duration,
		URL:       fmt.Sprintf("https://atcoder.jp/contests/%s", record.Slug),
		Status:    domain.CalculateStatus(start, duration, now),
	}, nil
}

package codechef

import (
	"fmt"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/sources"
)

// Normalize maps a codechef record into the canonical contest shape.
// Duration is derived by subtracting the start instant from the end instant;
// codechef reports both as ISO timestamps rather than a length.
func Normalize(raw sources.Raw, now time.Time) (domain.Contest, error) {
	record, ok := raw.(Contest)
	if !ok {
		return domain.Contest{}, fmt.Errorf("codechef: unexpected record type %T", raw)
	}

	start, err := time.Parse(time.RFC3339, record.ContestStartDateISO)
	if err != nil {
		return domain.Contest{}, fmt.Errorf("codechef: contest %s: bad start %q: %w", record.ContestCode, record.ContestStartDateISO, err)
	}
	end, err := time.Parse(time.RFC3339, record.ContestEndDateISO)
	if err != nil {
		return domain.Contest{}, fmt.Errorf("codechef: contest %s: bad end %q: %w", record.ContestCode, record.ContestEndDateISO, err)
	}

	start = start.UTC()
	duration := int64(end.Sub(start) / time.Second)
	return domain.Contest{
		ID:        fmt.Sprintf("%s-%s", SourceName, record.ContestCode),
		Platform:  displayName,
		Name:      record.ContestName,
		StartTime: start,
		Duration:  duration,
		URL:       fmt.Sprintf("https://www.codechef.com/%s", record.ContestCode),
		Status:    domain.CalculateStatus(start, duration, now),
	}, nil
}

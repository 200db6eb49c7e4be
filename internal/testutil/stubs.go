package testutil

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/sources"
)

// StubAdapter is a test double for sources.Adapter.
type StubAdapter struct {
	Source  string
	Records []sources.Raw
	Err     error
	Calls   atomic.Int32
}

func (s *StubAdapter) Name() string { return s.Source }

func (s *StubAdapter) Fetch(ctx context.Context) ([]sources.Raw, error) {
	_ = ctx
	s.Calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Records, nil
}

// StubFetcher is a test double for aggregate.Fetcher.
type StubFetcher struct {
	Result []domain.Contest
	Err    error
	Calls  atomic.Int32
}

func (s *StubFetcher) Contests(ctx context.Context) ([]domain.Contest, error) {
	_ = ctx
	s.Calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Result, nil
}

// FixedTime is a stable reference instant for deterministic tests.
func FixedTime() time.Time {
	return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
}

// Clock returns a now func pinned to t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Contest builds a contest relative to the given base time.
func Contest(id, platform string, startOffset time.Duration, durationSeconds int64, base time.Time) domain.Contest {
	start := base.Add(startOffset)
	return domain.Contest{
		ID:        id,
		Platform:  platform,
		Name:      id,
		StartTime: start,
		Duration:  durationSeconds,
		URL:       "https://example.com/" + id,
		Status:    domain.CalculateStatus(start, durationSeconds, base),
	}
}

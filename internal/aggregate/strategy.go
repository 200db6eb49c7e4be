package aggregate

import (
	"context"
	"log/slog"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/metrics"
	"github.com/rajeshuchil/contesthub/internal/sources"
)

// Fetcher produces one full aggregation cycle's worth of contests.
// Implemented by PrimaryThenFallback and by Aggregator-backed closures.
type Fetcher interface {
	Contests(ctx context.Context) ([]domain.Contest, error)
}

// PrimaryThenFallback tries a consolidated primary source first and falls
// back to the per-platform fan-out when the primary errors, is not
// configured, or produces nothing. The policy lives here, separate from the
// adapters it orchestrates, so it can be tested with stubs.
type PrimaryThenFallback struct {
	Primary  sources.Adapter
	Registry *Registry
	Fallback *Aggregator
	Timeout  time.Duration
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
}

// Contests runs one aggregation cycle.
func (s *PrimaryThenFallback) Contests(ctx context.Context) ([]domain.Contest, error) {
	if s.Primary != nil {
		if contests, ok := s.tryPrimary(ctx); ok {
			return contests, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return s.Fallback.Aggregate(ctx, nil)
}

func (s *PrimaryThenFallback) tryPrimary(ctx context.Context) ([]domain.Contest, bool) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultAdapterTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	records, err := s.Primary.Fetch(fetchCtx)
	if s.Metrics != nil {
		s.Metrics.RecordSourceAttempt(s.Primary.Name(), time.Since(start), err)
	}
	if err != nil {
		s.logWarn("primary source failed, falling back", "source", s.Primary.Name(), "err", err)
		return nil, false
	}
	if len(records) == 0 {
		s.logWarn("primary source returned nothing, falling back", "source", s.Primary.Name())
		return nil, false
	}

	tagged := make([]Tagged, 0, len(records))
	for _, raw := range records {
		tagged = append(tagged, Tagged{Source: s.Primary.Name(), Raw: raw})
	}
	contests := s.Fallback.Finalize(tagged)
	if len(contests) == 0 {
		// Every record failed normalization; treat like an empty primary.
		return nil, false
	}
	return contests, true
}

func (s *PrimaryThenFallback) logWarn(msg string, args ...any) {
	if s.Logger != nil {
		s.Logger.Warn(msg, args...)
	}
}

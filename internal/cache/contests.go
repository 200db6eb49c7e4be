package cache

import (
	"context"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/rajeshuchil/contesthub/internal/aggregate"
	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/metrics"
)

const (
	// The cache always memoizes the complete aggregate under one key;
	// filtered views are derived in memory so the deduplicator sees every
	// cross-source overlap.
	contestsKey = "contests:all"

	// DefaultTTL is the revalidation window for the aggregate.
	DefaultTTL = 5 * time.Minute
)

// ContestCache wraps an aggregation Fetcher with a time-boxed memoized
// result. Concurrent misses share a single in-flight recomputation; contest
// statuses are recomputed on every read because a cached list may be served
// for minutes after it was computed.
type ContestCache struct {
	fetcher aggregate.Fetcher
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewContestCache constructs a ContestCache over the given fetcher and store.
func NewContestCache(fetcher aggregate.Fetcher, store Store, ttl time.Duration, logger *slog.Logger, recorder *metrics.Recorder) *ContestCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &ContestCache{
		fetcher: fetcher,
		store:   store,
		ttl:     ttl,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// Contests returns the cached aggregate, refreshing it when the window has
// elapsed. Statuses in the returned slice are always current.
func (c *ContestCache) Contests(ctx context.Context) ([]domain.Contest, error) {
	if data, ok := c.store.Get(contestsKey); ok {
		contests, err := decodeContests(data)
		if err == nil {
			c.metrics.RecordCacheHit()
			return domain.RecomputeStatuses(contests, c.now()), nil
		}
		// A corrupt entry is dropped and refetched.
		c.logWarn("cache entry decode failed", "err", err)
		c.store.Delete(contestsKey)
	}

	c.metrics.RecordCacheMiss()
	contests, err := c.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return domain.RecomputeStatuses(contests, c.now()), nil
}

// Clear drops the cached aggregate so the next read recomputes. Exposed as
// an administrative escape hatch; expiry is the primary invalidation.
func (c *ContestCache) Clear() {
	c.store.Delete(contestsKey)
	c.logInfo("contest cache cleared")
}

// refresh performs at most one concurrent aggregation, shared across all
// callers waiting on the same recomputation.
func (c *ContestCache) refresh(ctx context.Context) ([]domain.Contest, error) {
	result, err, _ := c.group.Do(contestsKey, func() (any, error) {
		start := time.Now()
		contests, err := c.fetcher.Contests(ctx)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(contests)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(contestsKey, data, c.ttl); err != nil {
			// A rejected entry turns every subsequent read into a refetch.
			c.logWarn("storing aggregate failed, cache is ineffective", "err", err, "bytes", len(data))
		}
		c.logInfo("contest cache refreshed",
			"count", len(contests),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return contests, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Contest), nil
}

func decodeContests(data []byte) ([]domain.Contest, error) {
	var contests []domain.Contest
	if err := json.Unmarshal(data, &contests); err != nil {
		return nil, err
	}
	return contests, nil
}

func (c *ContestCache) logInfo(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *ContestCache) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

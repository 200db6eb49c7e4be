package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/metrics"
	"github.com/rajeshuchil/contesthub/internal/sources"
)

// AllSources is the sentinel requesting every configured adapter.
const AllSources = "all"

const defaultAdapterTimeout = 15 * time.Second

// ErrAllSourcesFailed marks a cycle where every selected adapter errored
// and nothing was fetched. Partial failures never produce this.
var ErrAllSourcesFailed = errors.New("all sources failed")

// Aggregator fans out to the configured adapters concurrently, isolates
// per-adapter failures, normalizes the surviving records, and deduplicates
// the merged list. Partial failures degrade to fewer contests; only a cycle
// where every source errors surfaces as an error.
type Aggregator struct {
	adapters []sources.Adapter
	registry *Registry
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// NewAggregator constructs an Aggregator over the given adapters. Every
// adapter's source must already be registered in the registry.
func NewAggregator(adapters []sources.Adapter, registry *Registry, timeout time.Duration, logger *slog.Logger, recorder *metrics.Recorder) *Aggregator {
	if timeout <= 0 {
		timeout = defaultAdapterTimeout
	}
	return &Aggregator{
		adapters: adapters,
		registry: registry,
		timeout:  timeout,
		logger:   logger,
		metrics:  recorder,
	}
}

type fetchResult struct {
	source  string
	records []sources.Raw
	err     error
}

// Aggregate runs one cycle over the requested adapter subset. Names may be
// nil or contain the "all" sentinel to select every adapter. It errors on
// context cancellation or with ErrAllSourcesFailed when every selected
// adapter failed; any partial success resolves to the surviving contests.
//
// Total failure is deliberately an error, not an empty list: an empty list
// also means "no upstream has anything scheduled", and the HTTP layer needs
// the distinction to answer 500 for an outage but 200 for a quiet day.
// Callers that want the empty-list reading can errors.Is the sentinel and
// degrade.
func (a *Aggregator) Aggregate(ctx context.Context, names []string) ([]domain.Contest, error) {
	selected := a.selectAdapters(names)
	results := make(chan fetchResult, len(selected))

	var wg sync.WaitGroup
	for _, adapter := range selected {
		wg.Add(1)
		go func(adapter sources.Adapter) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			start := time.Now()
			records, err := adapter.Fetch(fetchCtx)
			if a.metrics != nil {
				a.metrics.RecordSourceAttempt(adapter.Name(), time.Since(start), err)
			}
			results <- fetchResult{source: adapter.Name(), records: records, err: err}
		}(adapter)
	}
	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tagged := make([]Tagged, 0, 64)
	var failures []error
	succeeded := 0
	for res := range results {
		if res.err != nil {
			a.logWarn("source fetch failed", "source", res.source, "err", res.err)
			failures = append(failures, fmt.Errorf("%s: %w", res.source, res.err))
			continue
		}
		succeeded++
		a.logInfo("source fetched", "source", res.source, "count", len(res.records))
		for _, raw := range res.records {
			tagged = append(tagged, Tagged{Source: res.source, Raw: raw})
		}
	}

	if succeeded == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(failures...))
	}

	return a.Finalize(tagged), nil
}

// Finalize normalizes and deduplicates tagged records. Per-record
// normalization failures are logged and dropped; they never abort the batch.
func (a *Aggregator) Finalize(records []Tagged) []domain.Contest {
	contests := make([]domain.Contest, 0, len(records))
	for _, rec := range records {
		contest, err := a.registry.Normalize(rec)
		if err != nil {
			a.logWarn("record normalization failed", "source", rec.Source, "err", err)
			if a.metrics != nil {
				a.metrics.RecordNormalizeError(rec.Source)
			}
			continue
		}
		contests = append(contests, contest)
	}
	return Dedupe(contests)
}

func (a *Aggregator) selectAdapters(names []string) []sources.Adapter {
	if len(names) == 0 {
		return a.adapters
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == AllSources {
			return a.adapters
		}
		wanted[name] = struct{}{}
	}
	selected := make([]sources.Adapter, 0, len(a.adapters))
	for _, adapter := range a.adapters {
		if _, ok := wanted[adapter.Name()]; ok {
			selected = append(selected, adapter)
		}
	}
	return selected
}

func (a *Aggregator) logInfo(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Info(msg, args...)
	}
}

func (a *Aggregator) logWarn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}

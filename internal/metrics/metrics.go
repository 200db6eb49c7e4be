package metrics

import (
	"sync"
	"time"
)

type sourceStats struct {
	calls           int
	errors          int
	normalizeErrors int
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about source calls, cache
// behavior, and webhook deliveries, mirroring everything into OpenTelemetry
// instruments when telemetry is enabled. The in-memory counters keep the
// recorder observable in tests without an exporter.
type Recorder struct {
	mu          sync.Mutex
	stats       map[string]*sourceStats
	cacheHits   int
	cacheMisses int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*sourceStats),
		otel:  otel,
	}
}

// RecordSourceAttempt increments counters for a source fetch and stores the
// last observed latency.
func (r *Recorder) RecordSourceAttempt(source string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	stats := r.ensureStats(source)
	r.mu.Lock()
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordSourceAttempt(source, duration, err)
	}
}

// RecordNormalizeError counts a record dropped during normalization.
func (r *Recorder) RecordNormalizeError(source string) {
	if r == nil {
		return
	}
	stats := r.ensureStats(source)
	r.mu.Lock()
	stats.normalizeErrors++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordNormalizeError(source)
	}
}

// RecordCacheHit counts a request served from the cached aggregate.
func (r *Recorder) RecordCacheHit() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cacheHits++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCache(true)
	}
}

// RecordCacheMiss counts a request that triggered a fresh aggregation.
func (r *Recorder) RecordCacheMiss() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cacheMisses++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCache(false)
	}
}

// RecordWebhookDelivery tracks one outbound webhook attempt.
func (r *Recorder) RecordWebhookDelivery(event string, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordWebhookDelivery(event, err)
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordRefreshCycle tracks refresher cycles and errors.
func (r *Recorder) RecordRefreshCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordRefresh(duration, err)
}

// Snapshot is a copy of the per-source counters.
type Snapshot struct {
	Calls           int
	Errors          int
	NormalizeErrors int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(source string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.stats[source]; ok && stats != nil {
		return Snapshot{
			Calls:           stats.calls,
			Errors:          stats.errors,
			NormalizeErrors: stats.normalizeErrors,
			LastCallLatency: stats.lastCallLatency,
		}
	}
	return Snapshot{}
}

// SourceCalls returns the total attempts recorded for a source.
func (r *Recorder) SourceCalls(source string) int {
	return r.Snapshot(source).Calls
}

// SourceErrors returns the total failed attempts recorded for a source.
func (r *Recorder) SourceErrors(source string) int {
	return r.Snapshot(source).Errors
}

// CacheHits returns the number of cache hits recorded.
func (r *Recorder) CacheHits() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheHits
}

// CacheMisses returns the number of cache misses recorded.
func (r *Recorder) CacheMisses() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheMisses
}

func (r *Recorder) ensureStats(source string) *sourceStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[source]
	if !ok {
		stats = &sourceStats{}
		r.stats[source] = stats
	}
	return stats
}

package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/history"
	"github.com/rajeshuchil/contesthub/internal/metrics"
)

const defaultInterval = 5 * time.Minute

// ContestSource yields the current aggregate; satisfied by the contest cache.
type ContestSource interface {
	Contests(ctx context.Context) ([]domain.Contest, error)
}

// Notifier receives contests never seen in a previous cycle; satisfied by
// the webhook dispatcher.
type Notifier interface {
	NotifyNewContests(ctx context.Context, contests []domain.Contest)
}

// SnapshotWriter persists contest snapshots to disk.
type SnapshotWriter interface {
	Write(contests []domain.Contest) (history.Snapshot, error)
	Prune() (int, error)
}

// Poller refreshes the aggregate on an interval, detects newly appeared
// contests for webhook delivery, and writes a history snapshot each cycle.
type Poller struct {
	source   ContestSource
	notifier Notifier
	writer   SnapshotWriter
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	seenMu sync.Mutex
	seen   map[string]struct{}
	seeded bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the poller has had a recent success and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults.
func New(source ContestSource, notifier Notifier, writer SnapshotWriter, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		source:   source,
		notifier: notifier,
		writer:   writer,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		done:     make(chan struct{}),
		seen:     make(map[string]struct{}),
	}
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		p.logInfo("poller started", slog.Int64("interval_ms", p.interval.Milliseconds()))
		// Initial cycle to warm the cache on boot.
		p.runCycle(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				p.logInfo("poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				p.logInfo("poller stopped")
				return
			case <-p.ticker.C:
				p.runCycle(ctx)
			}
		}
	}()
}

// Stop halts the polling loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

func (p *Poller) runCycle(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)

	contests, err := p.source.Contests(ctx)
	if p.metrics != nil {
		p.metrics.RecordRefreshCycle(time.Since(start), err)
	}
	if err != nil {
		p.logError("poller refresh failed", err)
		p.recordFailure(err, start)
		return
	}

	fresh := p.detectNew(contests)
	// The first cycle only seeds the seen set: everything is "new" on boot
	// and notifying would spam every registered webhook.
	if fresh != nil && p.notifier != nil && len(fresh) > 0 {
		p.notifier.NotifyNewContests(ctx, fresh)
	}

	if p.writer != nil {
		if snap, writeErr := p.writer.Write(contests); writeErr != nil {
			p.logError("poller snapshot write failed", writeErr)
		} else {
			p.logInfo("snapshot written", "snapshot_id", snap.ID, "count", snap.ContestCount)
		}
		if removed, pruneErr := p.writer.Prune(); pruneErr != nil {
			p.logError("poller snapshot prune failed", pruneErr)
		} else if removed > 0 {
			p.logInfo("snapshots pruned", "count", removed)
		}
	}

	p.recordSuccess(start)
	p.logInfo("poller refreshed contests",
		"count", len(contests),
		"new", len(fresh),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// detectNew returns contests whose IDs were not seen in any earlier cycle.
// Returns nil (as opposed to empty) on the seeding cycle.
func (p *Poller) detectNew(contests []domain.Contest) []domain.Contest {
	p.seenMu.Lock()
	defer p.seenMu.Unlock()

	// Keyed on an explicit flag, not len(p.seen): an empty first cycle
	// still counts as seeding exactly once.
	seeding := !p.seeded
	p.seeded = true
	var fresh []domain.Contest
	for _, c := range contests {
		if _, ok := p.seen[c.ID]; ok {
			continue
		}
		p.seen[c.ID] = struct{}{}
		if !seeding {
			fresh = append(fresh, c)
		}
	}
	if seeding {
		return nil
	}
	if fresh == nil {
		fresh = []domain.Contest{}
	}
	return fresh
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) logInfo(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Poller) logError(msg string, err error, attrs ...any) {
	if p.logger != nil {
		p.logger.Error(msg, append(attrs, "error", err)...)
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

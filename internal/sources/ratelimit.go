package sources

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// rateLimitedAdapter wraps an Adapter and enforces a minimum interval between
// upstream calls. Used for the consolidated clist source, which has a strict
// request quota.
type rateLimitedAdapter struct {
	next    Adapter
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedAdapter returns an Adapter that blocks until the interval
// elapses before delegating, to avoid exceeding upstream quotas.
func NewRateLimitedAdapter(next Adapter, interval time.Duration, logger *slog.Logger) Adapter {
	if interval <= 0 {
		interval = time.Minute
	}
	return &rateLimitedAdapter{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

func (a *rateLimitedAdapter) Name() string {
	if a.next == nil {
		return "rate-limited"
	}
	return a.next.Name()
}

func (a *rateLimitedAdapter) Fetch(ctx context.Context) ([]Raw, error) {
	if a == nil || a.next == nil {
		return nil, ErrSourceUnavailable
	}
	if err := a.limiter.Wait(ctx); err != nil {
		if a.logger != nil {
			a.logger.Warn("rate-limited fetch canceled", slog.String("source", a.Name()))
		}
		return nil, err
	}
	return a.next.Fetch(ctx)
}

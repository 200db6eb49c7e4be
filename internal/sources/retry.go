package sources

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingAdapter wraps an Adapter with retry/backoff behavior.
type retryingAdapter struct {
	inner       Adapter
	logger      *slog.Logger
	maxAttempts int
	backoffFn   backoffFunc
}

// NewRetryingAdapter wraps the given adapter with retries. If maxAttempts or
// backoff are <= 0, defaults are used.
func NewRetryingAdapter(inner Adapter, logger *slog.Logger, maxAttempts int, backoff time.Duration) Adapter {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &retryingAdapter{
		inner:       inner,
		logger:      logger,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingAdapter) Name() string {
	return r.inner.Name()
}

func (r *retryingAdapter) Fetch(ctx context.Context) ([]Raw, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		records, err := r.inner.Fetch(ctx)
		if err == nil {
			return records, nil
		}
		lastErr = err

		// Missing credentials cannot heal between attempts.
		if errors.Is(err, ErrMissingCredentials) {
			return nil, err
		}

		if attempt == r.maxAttempts {
			break
		}

		r.logWarn("source fetch retry", "attempt", attempt, "max_attempts", r.maxAttempts, "err", err)

		delay := r.backoffFn(attempt)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	r.logWarn("source fetch failed", "attempts", r.maxAttempts, "err", lastErr)
	return nil, lastErr
}

func (r *retryingAdapter) logWarn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, append(args, slog.String("source", r.inner.Name()))...)
	}
}

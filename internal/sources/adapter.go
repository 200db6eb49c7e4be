package sources

import (
	"context"
	"errors"
)

// Raw is a single source-native contest record. Each adapter returns its own
// concrete record type; the normalizer registry knows how to interpret it.
type Raw any

// Adapter defines how one upstream platform's contests are fetched.
// Fetch returns the platform's raw records or an error; an adapter must
// never convert a fetch or parse failure into an empty slice, so that
// "zero contests this cycle" stays distinguishable from "fetch failed".
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]Raw, error)
}

// ErrSourceUnavailable indicates an adapter was invoked without a usable
// upstream (nil inner adapter, closed client, and so on).
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrMissingCredentials indicates a source requires credentials that were
// not configured. It is fatal for that source's attempt only; the aggregator
// falls back to the remaining adapters.
var ErrMissingCredentials = errors.New("source credentials not configured")

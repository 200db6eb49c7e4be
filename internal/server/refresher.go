package server

import (
	"context"

	"github.com/rajeshuchil/contesthub/internal/poller"
)

// Refresher defines the minimal background refresh behavior needed by the
// server.
type Refresher interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}

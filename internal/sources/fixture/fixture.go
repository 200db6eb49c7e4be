package fixture

import (
	"context"
	"fmt"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/sources"
)

// SourceName tags fixture records for the normalizer registry.
const SourceName = "fixture"

// Contest is the fixture raw record; it is already close to canonical.
type Contest struct {
	ID       string
	Name     string
	Start    time.Time
	Duration int64
}

// Adapter returns a static set of contests useful for local runs and tests.
type Adapter struct {
	now func() time.Time
}

// New creates a fixture adapter with a real time source.
func New() *Adapter {
	return &Adapter{now: time.Now}
}

// NewAt creates a fixture adapter pinned to a fixed clock; intended for tests.
func NewAt(now func() time.Time) *Adapter {
	return &Adapter{now: now}
}

// Name implements sources.Adapter.
func (a *Adapter) Name() string { return SourceName }

// Fetch returns a deterministic set of example contests relative to now.
func (a *Adapter) Fetch(ctx context.Context) ([]sources.Raw, error) {
	_ = ctx
	base := a.now().UTC().Truncate(time.Hour)
	return []sources.Raw{
		Contest{ID: "weekly-1", Name: "Fixture Weekly 1", Start: base.Add(2 * time.Hour), Duration: 7200},
		Contest{ID: "biweekly-1", Name: "Fixture Biweekly 1", Start: base.Add(26 * time.Hour), Duration: 5400},
		Contest{ID: "marathon-1", Name: "Fixture Marathon 1", Start: base.Add(-time.Hour), Duration: 86400},
	}, nil
}

// Normalize maps a fixture record into the canonical contest shape.
func Normalize(raw sources.Raw, now time.Time) (domain.Contest, error) {
	record, ok := raw.(Contest)
	if !ok {
		return domain.Contest{}, fmt.Errorf("fixture: unexpected record type %T", raw)
	}
	return domain.Contest{
		ID:        fmt.Sprintf("%s-%s", SourceName, record.ID),
		Platform:  "Fixture",
		Name:      record.Name,
		StartTime: record.Start,
		Duration:  record.Duration,
		URL:       fmt.Sprintf("https://example.com/contests/%s", record.ID),
		Status:    domain.CalculateStatus(record.Start, record.Duration, now),
	}, nil
}

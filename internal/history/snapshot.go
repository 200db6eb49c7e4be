package history

import (
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
)

// Snapshot is a persisted, point-in-time copy of the full contest list.
// Snapshots are immutable once written.
type Snapshot struct {
	ID           string           `json:"id"`
	Timestamp    time.Time        `json:"timestamp"`
	ContestCount int              `json:"contestCount"`
	Contests     []domain.Contest `json:"contests"`
}

// IndexEntry is the lightweight per-snapshot record kept in the index so
// listings do not require opening every snapshot file.
type IndexEntry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	ContestCount int       `json:"contestCount"`
}

// Index is the append-only snapshot listing, newest first, capped at
// MaxIndexEntries.
type Index struct {
	Version   int          `json:"version"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Snapshots []IndexEntry `json:"snapshots"`
}

const (
	// MaxIndexEntries caps the index at the most recent snapshots.
	MaxIndexEntries = 100

	// DefaultRetention is how long snapshot files are kept on disk.
	DefaultRetention = 30 * 24 * time.Hour

	snapshotIDLayout = "20060102T150405.000000000Z"
)

package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/rajeshuchil/contesthub/internal/domain"
)

const indexFile = "index.json"

// Writer persists snapshots with an index and retention pruning. Files are
// written atomically (tmp + rename) so a crash never leaves a torn snapshot.
type Writer struct {
	basePath   string
	retention  time.Duration
	compressor Compressor
	now        func() time.Time
}

// NewWriter constructs a writer rooted at basePath.
func NewWriter(basePath string, retention time.Duration, compressor Compressor) *Writer {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if compressor == nil {
		compressor = NopCompressor{}
	}
	return &Writer{
		basePath:   basePath,
		retention:  retention,
		compressor: compressor,
		now:        time.Now,
	}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// Write persists a new snapshot of the contest list and returns it.
func (w *Writer) Write(contests []domain.Contest) (Snapshot, error) {
	if w == nil {
		return Snapshot{}, errors.New("history: writer not configured")
	}
	now := w.now().UTC()
	snap := Snapshot{
		ID:           now.Format(snapshotIDLayout),
		Timestamp:    now,
		ContestCount: len(contests),
		Contests:     contests,
	}

	if err := os.MkdirAll(w.snapshotsDir(), 0o755); err != nil {
		return Snapshot{}, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return Snapshot{}, err
	}
	encoded, err := w.compressor.Compress(data)
	if err != nil {
		return Snapshot{}, err
	}

	target := w.snapshotPath(snap.ID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return Snapshot{}, err
	}
	if err := os.Rename(tmp, target); err != nil {
		return Snapshot{}, err
	}

	if err := w.appendToIndex(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Prune deletes snapshots older than the retention window, from disk and
// from the index. Returns the number of snapshot files removed. The sweep
// walks the snapshots directory rather than the index: the index is capped,
// so files evicted from it would otherwise outlive retention unseen.
func (w *Writer) Prune() (int, error) {
	if w == nil {
		return 0, errors.New("history: writer not configured")
	}
	cutoff := w.now().UTC().Add(-w.retention)

	entries, err := os.ReadDir(w.snapshotsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ts, ok := w.snapshotTime(e.Name())
		if !ok || !ts.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(w.snapshotsDir(), e.Name())); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	if removed == 0 {
		return 0, nil
	}

	idx, err := w.readIndex()
	if err != nil {
		return removed, err
	}
	kept := idx.Snapshots[:0]
	for _, entry := range idx.Snapshots {
		if entry.Timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, entry)
	}
	idx.Snapshots = kept
	return removed, w.writeIndex(idx)
}

// snapshotTime recovers a snapshot's timestamp from its file name. Files
// that do not look like snapshots (tmp files, foreign data) are skipped.
func (w *Writer) snapshotTime(name string) (time.Time, bool) {
	ext := w.compressor.Ext()
	if !strings.HasSuffix(name, ext) {
		return time.Time{}, false
	}
	id := strings.TrimSuffix(name, ext)
	ts, err := time.Parse(snapshotIDLayout, id)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (w *Writer) appendToIndex(snap Snapshot) error {
	idx, err := w.readIndex()
	if err != nil {
		return err
	}
	entry := IndexEntry{ID: snap.ID, Timestamp: snap.Timestamp, ContestCount: snap.ContestCount}
	idx.Snapshots = append([]IndexEntry{entry}, idx.Snapshots...)
	if len(idx.Snapshots) > MaxIndexEntries {
		idx.Snapshots = idx.Snapshots[:MaxIndexEntries]
	}
	return w.writeIndex(idx)
}

func (w *Writer) readIndex() (Index, error) {
	data, err := os.ReadFile(filepath.Join(w.basePath, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Index{Version: 1, Snapshots: []IndexEntry{}}, nil
		}
		return Index{}, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return Index{}, fmt.Errorf("history: corrupt index: %w", err)
	}
	return idx, nil
}

func (w *Writer) writeIndex(idx Index) error {
	idx.Version = 1
	idx.UpdatedAt = w.now().UTC()
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(w.basePath, indexFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (w *Writer) snapshotsDir() string {
	return filepath.Join(w.basePath, "snapshots")
}

func (w *Writer) snapshotPath(id string) string {
	return filepath.Join(w.snapshotsDir(), id+w.compressor.Ext())
}

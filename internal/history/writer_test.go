package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/testutil"
)

func newTestWriter(t *testing.T, compressor Compressor) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()
	return NewWriter(dir, DefaultRetention, compressor), dir
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	base := testutil.FixedTime()
	contests := []domain.Contest{
		testutil.Contest("codeforces-1", "Codeforces", time.Hour, 7200, base),
		testutil.Contest("atcoder-abc400", "AtCoder", 2*time.Hour, 6000, base),
	}

	w, dir := newTestWriter(t, NopCompressor{})
	snap, err := w.Write(contests)
	require.NoError(t, err)
	require.Equal(t, 2, snap.ContestCount)

	store := NewFSStore(dir, NopCompressor{})
	loaded, err := store.Load(snap.ID)
	require.NoError(t, err)

	assert.Equal(t, snap.ID, loaded.ID)
	assert.Len(t, loaded.Contests, 2)
	assert.Equal(t, "codeforces-1", loaded.Contests[0].ID)
}

func TestWriteAndLoadZstd(t *testing.T) {
	base := testutil.FixedTime()
	contests := []domain.Contest{
		testutil.Contest("leetcode-weekly-400", "LeetCode", time.Hour, 5400, base),
	}

	zc, err := NewZstdCompressor()
	require.NoError(t, err)

	w, dir := newTestWriter(t, zc)
	snap, err := w.Write(contests)
	require.NoError(t, err)

	store := NewFSStore(dir, zc)
	loaded, err := store.Load(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "leetcode-weekly-400", loaded.Contests[0].ID)
}

func TestIndexNewestFirstAndCapped(t *testing.T) {
	w, dir := newTestWriter(t, NopCompressor{})

	now := testutil.FixedTime()
	w.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	for i := 0; i < MaxIndexEntries+5; i++ {
		_, err := w.Write(nil)
		require.NoError(t, err)
	}

	store := NewFSStore(dir, NopCompressor{})
	entries, err := store.List()
	require.NoError(t, err)

	assert.Len(t, entries, MaxIndexEntries)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].Timestamp.After(entries[i].Timestamp),
			"index must be newest first")
	}
}

func TestPruneRemovesExpiredSnapshots(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 24*time.Hour, NopCompressor{})

	old := testutil.FixedTime()
	w.now = testutil.Clock(old)
	oldSnap, err := w.Write(nil)
	require.NoError(t, err)

	recent := old.Add(48 * time.Hour)
	w.now = testutil.Clock(recent)
	recentSnap, err := w.Write(nil)
	require.NoError(t, err)

	removed, err := w.Prune()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	store := NewFSStore(dir, NopCompressor{})
	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, recentSnap.ID, entries[0].ID)

	_, err = store.Load(oldSnap.ID)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestPruneSweepsFilesEvictedFromIndex(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, time.Hour, NopCompressor{})

	now := testutil.FixedTime()
	w.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	// More writes than the index holds, so the oldest files only exist on
	// disk. The sweep must still reach them once retention passes.
	for i := 0; i < MaxIndexEntries+5; i++ {
		_, err := w.Write(nil)
		require.NoError(t, err)
	}

	now = now.Add(365 * 24 * time.Hour)
	removed, err := w.Prune()
	require.NoError(t, err)
	assert.Equal(t, MaxIndexEntries+5, removed)

	files, err := os.ReadDir(filepath.Join(dir, "snapshots"))
	require.NoError(t, err)
	assert.Empty(t, files, "every snapshot file should be gone after retention")

	store := NewFSStore(dir, NopCompressor{})
	entries, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPruneNoopWithinRetention(t *testing.T) {
	w, _ := newTestWriter(t, NopCompressor{})
	_, err := w.Write(nil)
	require.NoError(t, err)

	removed, err := w.Prune()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestLoadRejectsPathEscape(t *testing.T) {
	_, dir := newTestWriter(t, NopCompressor{})
	store := NewFSStore(dir, NopCompressor{})

	_, err := store.Load("../index")
	assert.Error(t, err)
}

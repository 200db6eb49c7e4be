package history

import (
	"errors"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// ErrSnapshotNotFound is returned when the requested snapshot does not exist.
var ErrSnapshotNotFound = errors.New("history: snapshot not found")

// Store defines how snapshots are listed and loaded.
type Store interface {
	List() ([]IndexEntry, error)
	Load(id string) (Snapshot, error)
}

// FSStore loads snapshots from the filesystem layout produced by Writer.
type FSStore struct {
	basePath   string
	compressor Compressor
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
// The compressor must match the one the Writer was configured with.
func NewFSStore(basePath string, compressor Compressor) *FSStore {
	if compressor == nil {
		compressor = NopCompressor{}
	}
	return &FSStore{basePath: basePath, compressor: compressor}
}

// List returns the index entries, newest first.
func (s *FSStore) List() ([]IndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.basePath, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []IndexEntry{}, nil
		}
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	return idx.Snapshots, nil
}

// Load reads one snapshot by ID.
func (s *FSStore) Load(id string) (Snapshot, error) {
	if id == "" {
		return Snapshot{}, ErrSnapshotNotFound
	}
	// IDs come from URLs; never let one escape the snapshots directory.
	if filepath.Base(id) != id {
		return Snapshot{}, ErrSnapshotNotFound
	}
	path := filepath.Join(s.basePath, "snapshots", id+s.compressor.Ext())
	encoded, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, err
	}
	data, err := s.compressor.Decompress(encoded)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

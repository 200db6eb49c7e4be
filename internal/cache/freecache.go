package cache

import (
	"fmt"
	"time"

	"github.com/coocood/freecache"
)

const (
	minFreecacheSize = 512 * 1024

	// DefaultStoreSize is the production freecache capacity. freecache caps
	// a single entry at 1/1024 of the total size, so this allows aggregate
	// entries up to 128 KiB, comfortably above a full multi-source cycle.
	DefaultStoreSize = 128 << 20
)

// FreecacheStore adapts freecache to the Store interface for production use:
// entries live off the regular heap, which keeps GC pressure flat when the
// aggregate is large.
type FreecacheStore struct {
	cache *freecache.Cache
}

// NewFreecacheStore constructs a store with the given capacity in bytes.
// Size it with the 1/1024 per-entry cap in mind: an undersized store
// silently rejects the aggregate and every read becomes a miss.
func NewFreecacheStore(sizeBytes int) *FreecacheStore {
	if sizeBytes < minFreecacheSize {
		sizeBytes = minFreecacheSize
	}
	return &FreecacheStore{cache: freecache.NewCache(sizeBytes)}
}

// Get returns the value for key if present and not expired.
func (s *FreecacheStore) Get(key string) ([]byte, bool) {
	val, err := s.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores value under key for ttl. Values above 1/1024 of the store size
// are rejected by freecache; the error is surfaced so the entry is never
// lost silently.
func (s *FreecacheStore) Set(key string, value []byte, ttl time.Duration) error {
	seconds := int(ttl / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	if err := s.cache.Set([]byte(key), value, seconds); err != nil {
		return fmt.Errorf("freecache: set %s (%d bytes): %w", key, len(value), err)
	}
	return nil
}

// Delete removes key.
func (s *FreecacheStore) Delete(key string) {
	s.cache.Del([]byte(key))
}

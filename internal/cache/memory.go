package cache

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// MemoryStore implements Store in-process, backed by ristretto. Suitable for
// single-instance deployments that want caching without an external store.
type MemoryStore struct {
	rc *ristretto.Cache[string, []byte]
}

// NewMemoryStore creates an in-process store. maxEntries bounds how many
// results the cache can hold (each entry has a cost of 1).
func NewMemoryStore(maxEntries int64) (*MemoryStore, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryStore{rc: rc}, nil
}

// Get retrieves the value for key. Expired entries are misses.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.rc.Get(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

// Set stores value under key with the given TTL. The write is flushed so a
// subsequent Get observes it.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.rc.SetWithTTL(key, bytes.Clone(value), 1, ttl)
	s.rc.Wait()
	return nil
}

// Close releases the ristretto cache.
func (s *MemoryStore) Close() error {
	s.rc.Close()
	return nil
}

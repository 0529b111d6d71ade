package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"genserve/internal/core"
)

// fakeStore is an in-memory Store for tests. failGets/failSets force every
// operation of that kind to error.
type fakeStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	failGets bool
	failSets bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGets {
		return nil, false, errors.New("store unreachable")
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSets {
		return errors.New("store unreachable")
	}
	s.data[key] = value
	return nil
}

func (s *fakeStore) Close() error { return nil }

func sampleResult() *core.CachedResult {
	return &core.CachedResult{
		Prompt:          "ping",
		GeneratedText:   "pong",
		TokensGenerated: 3,
		DeviceUsed:      "cuda",
		Cached:          false,
	}
}

func TestGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		g := NewGateway(newFakeStore(), nil)

		if _, ok := g.Lookup(ctx, "llm:missing"); ok {
			t.Fatal("expected miss on empty store")
		}

		g.Store(ctx, "llm:k", sampleResult(), time.Minute)
		got, ok := g.Lookup(ctx, "llm:k")
		if !ok {
			t.Fatal("expected hit after store")
		}
		if got.GeneratedText != "pong" || got.TokensGenerated != 3 || got.DeviceUsed != "cuda" {
			t.Fatalf("unexpected result: %+v", got)
		}
	})

	t.Run("ReadFailureIsMiss", func(t *testing.T) {
		store := newFakeStore()
		store.failGets = true
		g := NewGateway(store, nil)

		if _, ok := g.Lookup(ctx, "llm:k"); ok {
			t.Fatal("read failure must degrade to a miss")
		}
	})

	t.Run("WriteFailureIsSwallowed", func(t *testing.T) {
		store := newFakeStore()
		store.failSets = true
		g := NewGateway(store, nil)

		// Must not panic or surface anything.
		g.Store(ctx, "llm:k", sampleResult(), time.Minute)

		if _, ok := g.Lookup(ctx, "llm:k"); ok {
			t.Fatal("failed write must not be visible")
		}
	})

	t.Run("MalformedPayloadIsMiss", func(t *testing.T) {
		store := newFakeStore()
		store.data["llm:bad"] = []byte("not json")
		g := NewGateway(store, nil)

		if _, ok := g.Lookup(ctx, "llm:bad"); ok {
			t.Fatal("malformed payload must degrade to a miss")
		}
	})

	t.Run("NilStoreIsAlwaysMiss", func(t *testing.T) {
		g := NewGateway(nil, nil)

		if g.Available() {
			t.Fatal("nil store must report unavailable")
		}
		if _, ok := g.Lookup(ctx, "llm:k"); ok {
			t.Fatal("expected miss with nil store")
		}
		g.Store(ctx, "llm:k", sampleResult(), time.Minute) // no-op, no panic
		if err := g.Close(); err != nil {
			t.Fatalf("unexpected close error: %v", err)
		}
	})

	t.Run("StoredFlagPersistedAsWritten", func(t *testing.T) {
		store := newFakeStore()
		g := NewGateway(store, nil)

		g.Store(ctx, "llm:k", sampleResult(), time.Minute)

		var raw core.CachedResult
		if err := json.Unmarshal(store.data["llm:k"], &raw); err != nil {
			t.Fatalf("stored payload not JSON: %v", err)
		}
		if raw.Cached {
			t.Fatal("cached flag must be stored as written (false), recomputed at serve time")
		}
	})
}

package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	newStore := func(t *testing.T) *MemoryStore {
		t.Helper()
		s, err := NewMemoryStore(1000)
		if err != nil {
			t.Fatalf("NewMemoryStore: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	t.Run("GetSetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if _, ok, _ := s.Get(ctx, "llm:k"); ok {
			t.Fatal("expected miss on fresh store")
		}

		if err := s.Set(ctx, "llm:k", []byte("v1"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		v, ok, err := s.Get(ctx, "llm:k")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !ok || string(v) != "v1" {
			t.Fatalf("got (%q, %v), want (v1, true)", v, ok)
		}
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if err := s.Set(ctx, "llm:short", []byte("v"), 50*time.Millisecond); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if _, ok, _ := s.Get(ctx, "llm:short"); !ok {
			t.Fatal("expected hit before expiry")
		}

		time.Sleep(150 * time.Millisecond)
		if _, ok, _ := s.Get(ctx, "llm:short"); ok {
			t.Fatal("expected miss after TTL elapsed")
		}
	})

	t.Run("ValueIsolation", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		buf := []byte("original")
		if err := s.Set(ctx, "llm:k", buf, time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		buf[0] = 'X' // caller mutates its slice after Set

		v, ok, _ := s.Get(ctx, "llm:k")
		if !ok || string(v) != "original" {
			t.Fatalf("stored value not isolated from caller: %q", v)
		}
	})
}

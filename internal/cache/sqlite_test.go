package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStore(t *testing.T) {
	newStore := func(t *testing.T) *SQLiteStore {
		t.Helper()
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
		if err != nil {
			t.Fatalf("NewSQLiteStore: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	t.Run("GetSetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if _, ok, err := s.Get(ctx, "llm:k"); err != nil || ok {
			t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
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

	t.Run("Overwrite", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if err := s.Set(ctx, "llm:k", []byte("v1"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s.Set(ctx, "llm:k", []byte("v2"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		v, ok, _ := s.Get(ctx, "llm:k")
		if !ok || string(v) != "v2" {
			t.Fatalf("last write must win, got %q", v)
		}
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if err := s.Set(ctx, "llm:short", []byte("v"), 50*time.Millisecond); err != nil {
			t.Fatalf("Set: %v", err)
		}
		time.Sleep(100 * time.Millisecond)

		if _, ok, err := s.Get(ctx, "llm:short"); err != nil || ok {
			t.Fatalf("expected miss after expiry, got ok=%v err=%v", ok, err)
		}

		// Expired row was cleaned up; the key is reusable.
		if err := s.Set(ctx, "llm:short", []byte("fresh"), time.Minute); err != nil {
			t.Fatalf("Set after expiry: %v", err)
		}
		v, ok, _ := s.Get(ctx, "llm:short")
		if !ok || string(v) != "fresh" {
			t.Fatalf("got %q, want fresh", v)
		}
	})

	t.Run("PersistsAcrossReopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")
		ctx := context.Background()

		s1, err := NewSQLiteStore(path)
		if err != nil {
			t.Fatalf("NewSQLiteStore: %v", err)
		}
		if err := s1.Set(ctx, "llm:k", []byte("durable"), time.Hour); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s1.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}

		s2, err := NewSQLiteStore(path)
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		defer s2.Close()

		v, ok, _ := s2.Get(ctx, "llm:k")
		if !ok || string(v) != "durable" {
			t.Fatalf("entry did not survive reopen: %q", v)
		}
	})
}

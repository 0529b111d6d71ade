package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"genserve/internal/core"
	"genserve/internal/observability"
)

// Gateway is the read/write façade over a Store. Every store failure is
// absorbed here: reads degrade to misses, writes are best-effort. Callers
// must treat both operations as advisory — a cache problem never fails a
// generation request. A nil store means caching is disabled, which behaves
// identically to a store that is always unavailable.
type Gateway struct {
	store Store
	log   *slog.Logger
}

// NewGateway creates a gateway over store. store may be nil (cache-disabled
// mode). If logger is nil, slog.Default() is used.
func NewGateway(store Store, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, log: logger}
}

// Available reports whether a store is configured.
func (g *Gateway) Available() bool {
	return g != nil && g.store != nil
}

// Lookup attempts a single read of key. Store unavailability and malformed
// payloads are logged and returned as misses.
func (g *Gateway) Lookup(ctx context.Context, key string) (*core.CachedResult, bool) {
	if g.store == nil {
		return nil, false
	}

	data, ok, err := g.store.Get(ctx, key)
	if err != nil {
		g.log.Warn("cache read failed", "key", key, "error", err)
		observability.CacheMisses.Inc()
		return nil, false
	}
	if !ok {
		observability.CacheMisses.Inc()
		return nil, false
	}

	var result core.CachedResult
	if err := json.Unmarshal(data, &result); err != nil {
		g.log.Warn("cache entry malformed, treating as miss", "key", key, "error", err)
		observability.CacheMisses.Inc()
		return nil, false
	}

	observability.CacheHits.Inc()
	return &result, true
}

// Store attempts a single best-effort write of result under key with the
// given TTL. Failures are logged and swallowed.
func (g *Gateway) Store(ctx context.Context, key string, result *core.CachedResult, ttl time.Duration) {
	if g.store == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		g.log.Warn("cache marshal failed", "key", key, "error", err)
		observability.CacheWriteFailures.Inc()
		return
	}

	if err := g.store.Set(ctx, key, data, ttl); err != nil {
		g.log.Warn("cache write failed", "key", key, "error", err)
		observability.CacheWriteFailures.Inc()
	}
}

// Close closes the underlying store, if any.
func (g *Gateway) Close() error {
	if g.store == nil {
		return nil
	}
	return g.store.Close()
}

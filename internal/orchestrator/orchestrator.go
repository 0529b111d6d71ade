// Package orchestrator implements the cache-aside request flow: check the
// cache, invoke the engine on a miss, and schedule a write-behind cache
// population without delaying the response.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"genserve/internal/cache"
	"genserve/internal/core"
	"genserve/internal/engine"
	"genserve/internal/observability"
)

// writeTimeout bounds a single write-behind store attempt. The write runs on
// a detached context: the request that produced it may be long gone.
const writeTimeout = 10 * time.Second

// Config holds orchestrator dependencies and tuning.
type Config struct {
	Engine  *engine.Handle
	Cache   *cache.Gateway
	Writer  *cache.Writer
	TTL     time.Duration // cache entry lifetime; DefaultTTL when zero
	// MaxConcurrent bounds in-flight engine invocations. Zero means
	// unlimited, matching a backend that does its own serialization.
	MaxConcurrent int64
	// Classify overrides the failure classifier; defaults to
	// engine.ClassifyFailure.
	Classify engine.Classifier
	Logger   *slog.Logger
}

// Orchestrator drives one generation request from cache check to response.
// It owns no cache state: every cache operation is advisory and a cache
// failure never fails a request.
type Orchestrator struct {
	engine   *engine.Handle
	cache    *cache.Gateway
	writer   *cache.Writer
	classify engine.Classifier
	ttl      time.Duration
	gate     *semaphore.Weighted
	log      *slog.Logger
}

var _ core.Generator = (*Orchestrator)(nil)

// New creates an orchestrator from cfg.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		engine:   cfg.Engine,
		cache:    cfg.Cache,
		writer:   cfg.Writer,
		classify: cfg.Classify,
		ttl:      cfg.TTL,
		log:      cfg.Logger,
	}
	if o.classify == nil {
		o.classify = engine.ClassifyFailure
	}
	if o.ttl == 0 {
		o.ttl = cache.DefaultTTL
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	if cfg.MaxConcurrent > 0 {
		o.gate = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return o
}

// Generate handles one validated request. On a cache hit the stored result is
// returned with cached=true and processing_time measured on this request; the
// stored flags are never trusted. On a miss (or any cache failure, treated
// identically) the engine is invoked synchronously with the raw parameters,
// and on success the result is handed to the write-behind pool before the
// response is returned. Failed generations produce no cache write and no
// retry.
func (o *Orchestrator) Generate(ctx context.Context, req *core.GenerationRequest) (*core.GenerationOutcome, error) {
	start := time.Now()
	params := req.Params()
	key := cache.DeriveKey(req.Prompt, params)

	if hit, ok := o.cache.Lookup(ctx, key); ok {
		o.log.Info("serving from cache", "key", key)
		observability.RequestsTotal.WithLabelValues("cache_hit").Inc()
		return &core.GenerationOutcome{
			Prompt:          hit.Prompt,
			GeneratedText:   hit.GeneratedText,
			ProcessingTime:  time.Since(start).Seconds(),
			DeviceUsed:      hit.DeviceUsed,
			Cached:          true,
			TokensGenerated: hit.TokensGenerated,
		}, nil
	}

	if !o.engine.Ready() {
		observability.RequestsTotal.WithLabelValues("backend_unavailable").Inc()
		return nil, o.classify(engine.ErrNotReady)
	}

	if o.gate != nil {
		if err := o.gate.Acquire(ctx, 1); err != nil {
			observability.RequestsTotal.WithLabelValues("generation_failed").Inc()
			return nil, core.NewGenerationFailedError("request abandoned while waiting for engine", err)
		}
		defer o.gate.Release(1)
	}

	genStart := time.Now()
	result, err := o.engine.Generate(ctx, req.Prompt, params)
	if err != nil {
		svcErr := o.classify(err)
		o.log.Error("generation failed", "key", key, "type", svcErr.Type, "error", err)
		observability.RequestsTotal.WithLabelValues(string(svcErr.Type)).Inc()
		return nil, svcErr
	}
	observability.GenerationSeconds.Observe(time.Since(genStart).Seconds())

	outcome := &core.GenerationOutcome{
		Prompt:          req.Prompt,
		GeneratedText:   result.Text,
		ProcessingTime:  time.Since(start).Seconds(),
		DeviceUsed:      result.Device,
		Cached:          false,
		TokensGenerated: result.TokenCount,
	}

	o.scheduleWrite(key, &core.CachedResult{
		Prompt:          outcome.Prompt,
		GeneratedText:   outcome.GeneratedText,
		TokensGenerated: outcome.TokensGenerated,
		DeviceUsed:      outcome.DeviceUsed,
		Cached:          false,
	})

	o.log.Info("generated response",
		"key", key,
		"tokens", outcome.TokensGenerated,
		"duration", time.Since(genStart),
	)
	observability.RequestsTotal.WithLabelValues("generated").Inc()
	return outcome, nil
}

// scheduleWrite hands the cache population to the write-behind pool. The
// response path never waits for it; a full queue drops the write.
func (o *Orchestrator) scheduleWrite(key string, result *core.CachedResult) {
	if !o.cache.Available() || o.writer == nil {
		return
	}
	ok := o.writer.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		o.cache.Store(ctx, key, result, o.ttl)
	})
	if !ok {
		o.log.Warn("write-behind queue full, dropping cache write", "key", key)
		observability.CacheWritesDropped.Inc()
	}
}

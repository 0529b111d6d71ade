// Package main is the entry point for the generation service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genserve/config"
	"genserve/internal/cache"
	"genserve/internal/engine"
	"genserve/internal/logging"
	"genserve/internal/orchestrator"
	"genserve/internal/server"
	"genserve/internal/version"
)

const engineRecheckInterval = 5 * time.Second

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logging.Format, os.Stdout)
	slog.SetDefault(logger)

	slog.Info("starting genserve",
		"version", version.Version,
		"commit", version.Commit,
		"build_date", version.Date,
	)

	// Engine handle: starts not ready, flipped after a successful
	// availability check against the inference runner.
	remote := engine.NewRemote(cfg.Engine.URL, cfg.Engine.Timeout)
	handle := engine.NewHandle(remote, cfg.Engine.ModelName)
	initEngine(handle, remote, cfg.Engine.URL)

	store := newStore(cfg.Cache)
	gateway := cache.NewGateway(store, logger)
	defer func() {
		if err := gateway.Close(); err != nil {
			slog.Warn("failed to close cache", "error", err)
		}
	}()

	var writer *cache.Writer
	if gateway.Available() {
		writer = cache.NewWriter(cfg.Cache.WriteWorkers, cfg.Cache.WriteQueue)
	}

	orch := orchestrator.New(orchestrator.Config{
		Engine:        handle,
		Cache:         gateway,
		Writer:        writer,
		TTL:           cfg.Cache.TTL,
		MaxConcurrent: cfg.Engine.MaxConcurrent,
		Logger:        logger,
	})

	handler := server.NewHandler(orch, handle, gateway.Available())
	srv := server.New(handler, &server.Config{
		MetricsEnabled: cfg.Server.MetricsEnabled,
		BodyLimit:      cfg.Server.BodyLimit,
		Logger:         logger,
	})

	go func() {
		addr := ":" + cfg.Server.Port
		slog.Info("http server listening", "addr", addr)
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}

	// Drain queued cache writes after the server stops producing new ones.
	if writer != nil {
		writer.Close()
	}
}

// initEngine checks runner availability once; if the runner is not up yet the
// service starts anyway, serves 503s, and keeps rechecking in the background.
func initEngine(handle *engine.Handle, remote *engine.Remote, url string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if status, err := remote.Check(ctx); err == nil {
		handle.SetDevice(status.Device)
		handle.SetReady(true)
		slog.Info("engine ready", "url", url, "model", status.Model, "device", status.Device)
		return
	}

	slog.Warn("engine not available, will keep checking", "url", url)
	go func() {
		ticker := time.NewTicker(engineRecheckInterval)
		defer ticker.Stop()
		for range ticker.C {
			status, err := remote.Check(context.Background())
			if err != nil {
				continue
			}
			handle.SetDevice(status.Device)
			handle.SetReady(true)
			slog.Info("engine ready", "url", url, "model", status.Model, "device", status.Device)
			return
		}
	}()
}

// newStore builds the configured cache backend. Any construction failure
// degrades to cache-disabled mode: caching is an optimization, never a
// startup requirement.
func newStore(cfg config.CacheConfig) cache.Store {
	var (
		store cache.Store
		err   error
	)
	switch cfg.Backend {
	case config.BackendRedis:
		store, err = cache.NewRedisStore(cfg.URL)
	case config.BackendMemory:
		store, err = cache.NewMemoryStore(cfg.MaxEntries)
	case config.BackendSQLite:
		store, err = cache.NewSQLiteStore(cfg.SQLitePath)
	default:
		slog.Info("caching disabled")
		return nil
	}
	if err != nil {
		slog.Warn("cache not available, running without cache", "backend", cfg.Backend, "error", err)
		return nil
	}
	slog.Info("cache enabled", "backend", cfg.Backend, "ttl", cfg.TTL)
	return store
}

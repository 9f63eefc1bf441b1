package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/brandscan/analyzer"
	"github.com/use-agent/brandscan/api"
	"github.com/use-agent/brandscan/cache"
	"github.com/use-agent/brandscan/config"
	"github.com/use-agent/brandscan/llm"
	"github.com/use-agent/brandscan/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("brandscan server starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"enhancer", cfg.Enhancer.Provider,
		"enhancerKey", cfg.Enhancer.APIKey != "",
	)

	// ── 3. Build the pipeline ───────────────────────────────────────
	var enhancer *llm.Enhancer
	if cfg.Enhancer.Enabled {
		enhancer = llm.NewEnhancer(cfg.Enhancer, nil)
		if !enhancer.HasKey() {
			slog.Warn("no enhancement API key configured; descriptions will be annotated")
		}
	}
	az := analyzer.New(scraper.NewFetcher(cfg.Fetch), enhancer, cfg.Enhancer.Enabled)

	// ── 4. Cache ────────────────────────────────────────────────────
	cc := cache.New(cfg.Cache.MaxEntries)
	defer cc.Close()

	// ── 5. Router + HTTP server ─────────────────────────────────────
	router := api.NewRouter(az, cfg, cc, time.Now())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// In-flight requests may still be waiting on the courtesy delay plus a
	// page fetch and an enhancement call.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Fetch.DelayMax+cfg.Fetch.Timeout+cfg.Enhancer.Timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("brandscan server stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

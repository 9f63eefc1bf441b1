// Command brandscan analyzes one web page and prints a single JSON line:
//
//	{"brandName": "...", "description": "..."}  or  {"error": "..."}
//
// Diagnostics go to stderr so stdout stays machine-readable.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/use-agent/brandscan/analyzer"
	"github.com/use-agent/brandscan/config"
	"github.com/use-agent/brandscan/llm"
	"github.com/use-agent/brandscan/models"
	"github.com/use-agent/brandscan/scraper"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation. It returns 0 whenever a result line was
// written, including error-shaped results.
func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	initLogger(cfg.Log, stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result models.ScrapeResult
	if len(args) == 0 {
		result = models.NewErrorResult(models.ErrMissingArgument())
	} else {
		result = newAnalyzer(cfg).Analyze(ctx, args[0])
	}

	if err := result.WriteLine(stdout); err != nil {
		slog.Error("failed to write result", "error", err)
		return 1
	}
	return 0
}

func newAnalyzer(cfg *config.Config) *analyzer.Analyzer {
	var enhancer *llm.Enhancer
	if cfg.Enhancer.Enabled {
		enhancer = llm.NewEnhancer(cfg.Enhancer, nil)
	}
	return analyzer.New(scraper.NewFetcher(cfg.Fetch), enhancer, cfg.Enhancer.Enabled)
}

// initLogger configures slog based on the LogConfig, writing to w.
func initLogger(cfg config.LogConfig, w io.Writer) {
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
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

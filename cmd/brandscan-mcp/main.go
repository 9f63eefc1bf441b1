package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/brandscan/analyzer"
	"github.com/use-agent/brandscan/config"
	"github.com/use-agent/brandscan/llm"
	"github.com/use-agent/brandscan/scraper"
)

func main() {
	cfg := config.Load()

	// stdout carries the MCP stdio transport; logs must go elsewhere.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	var enhancer *llm.Enhancer
	if cfg.Enhancer.Enabled {
		enhancer = llm.NewEnhancer(cfg.Enhancer, nil)
	}
	az := analyzer.New(scraper.NewFetcher(cfg.Fetch), enhancer, cfg.Enhancer.Enabled)

	s := server.NewMCPServer(
		"brandscan",
		"0.1.0",
		server.WithToolCapabilities(false),
	)
	s.AddTool(analyzeTool(), handleAnalyze(az))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func analyzeTool() mcp.Tool {
	return mcp.NewTool("analyze_website",
		mcp.WithDescription("Fetch a single web page and return its brand name and a short description. The description can be rewritten by a text-generation service when one is configured."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to analyze"),
		),
		mcp.WithBoolean("enhance",
			mcp.Description("Rewrite the description with the configured text-generation service (default: true)"),
		),
	)
}

func handleAnalyze(az *analyzer.Analyzer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		enhance := request.GetBool("enhance", true)

		result := az.Analyze(ctx, url, analyzer.Options{SkipEnhance: !enhance})

		out, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		if result.Failed() {
			return mcp.NewToolResultError(string(out)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

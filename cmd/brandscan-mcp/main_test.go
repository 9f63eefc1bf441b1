package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/brandscan/analyzer"
	"github.com/use-agent/brandscan/config"
	"github.com/use-agent/brandscan/scraper"
)

func callTool(t *testing.T, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	az := analyzer.New(scraper.NewFetcher(config.FetchConfig{Timeout: 2 * time.Second}), nil, false)

	var req mcp.CallToolRequest
	req.Params.Name = "analyze_website"
	req.Params.Arguments = args

	res, err := handleAnalyze(az)(context.Background(), req)
	require.NoError(t, err)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestHandleAnalyze_Success(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<title>Acme</title><p>Anvils.</p>`))
	}))
	defer page.Close()

	res := callTool(t, map[string]any{"url": page.URL})
	assert.False(t, res.IsError)

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, "Acme", out["brandName"])
	assert.Equal(t, "Anvils.", out["description"])
}

func TestHandleAnalyze_MissingURL(t *testing.T) {
	res := callTool(t, map[string]any{})
	assert.True(t, res.IsError)
	assert.Equal(t, "url is required", resultText(t, res))
}

func TestHandleAnalyze_FetchError(t *testing.T) {
	page := httptest.NewServer(http.NotFoundHandler())
	defer page.Close()

	res := callTool(t, map[string]any{"url": page.URL})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "404")
}

func TestAnalyzeTool_Schema(t *testing.T) {
	tool := analyzeTool()
	assert.Equal(t, "analyze_website", tool.Name)
	assert.Contains(t, tool.InputSchema.Required, "url")
}

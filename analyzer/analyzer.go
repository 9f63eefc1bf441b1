// Package analyzer runs the fetch → extract → enhance sequence for one URL.
package analyzer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/brandscan/extractor"
	"github.com/use-agent/brandscan/llm"
	"github.com/use-agent/brandscan/models"
)

// PageFetcher retrieves one page. *scraper.Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*models.FetchedDocument, error)
}

// Analyzer composes the pipeline steps. Steps run strictly in sequence.
type Analyzer struct {
	fetcher  PageFetcher
	enhancer *llm.Enhancer
	enhance  bool
}

// New creates an Analyzer. A nil enhancer or enhance=false skips the
// rewrite step and returns the extracted description as-is.
func New(fetcher PageFetcher, enhancer *llm.Enhancer, enhance bool) *Analyzer {
	return &Analyzer{fetcher: fetcher, enhancer: enhancer, enhance: enhance && enhancer != nil}
}

// Options tweak a single Analyze call.
type Options struct {
	// SkipEnhance disables the rewrite step for this call only.
	SkipEnhance bool
}

// Analyze produces exactly one result for url. Fetch and extraction
// failures become an error-shaped result; enhancement failures never do.
func (a *Analyzer) Analyze(ctx context.Context, url string, opts ...Options) models.ScrapeResult {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}

	url = strings.TrimSpace(url)
	if url == "" {
		return models.NewErrorResult(models.ErrMissingArgument())
	}

	totalStart := time.Now()

	// ── 1. Fetch ────────────────────────────────────────────────────
	doc, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		se := models.AsScrapeError(err)
		slog.Warn("analyze: fetch failed", "url", url, "code", se.Code, "error", err)
		return models.NewErrorResult(se)
	}
	navigationMs := time.Since(totalStart).Milliseconds()

	// ── 2. Extract ──────────────────────────────────────────────────
	extracted, err := extractor.Extract(doc)
	if err != nil {
		slog.Warn("analyze: extraction failed", "url", url, "error", err)
		return models.NewErrorResult(err)
	}

	// ── 3. Enhance ──────────────────────────────────────────────────
	description := extracted.Description
	enhanceMs := int64(0)
	if a.enhance && !opt.SkipEnhance {
		enhanceStart := time.Now()
		description = a.enhancer.Enhance(ctx, description).Text
		enhanceMs = time.Since(enhanceStart).Milliseconds()
	}

	slog.Info("analyze: done",
		"url", url,
		"brandSource", extracted.BrandSource,
		"descriptionSource", extracted.DescriptionSource,
		"navigationMs", navigationMs,
		"enhanceMs", enhanceMs,
		"totalMs", time.Since(totalStart).Milliseconds(),
	)

	return models.NewResult(extracted.BrandName, description)
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/use-agent/brandscan/config"
	"github.com/use-agent/brandscan/models"
)

// Annotations appended to the original description when enhancement degrades.
const (
	AnnotationNoKey       = " (AI enhancement unavailable: API key not configured)"
	AnnotationCallFailed  = " (AI enhancement failed: service call error)"
	AnnotationParseFailed = " (AI enhancement failed: unreadable service response)"
)

// Enhancement is the outcome of one Enhance call. Text is always usable.
// Code is empty on success and holds an ENHANCE_* code when degraded.
type Enhancement struct {
	Text     string
	Enhanced bool
	Code     string
}

// Enhancer rewrites descriptions through a Provider. It never fails: every
// error path returns the original text with an annotation.
type Enhancer struct {
	provider Provider
	apiKey   string
}

// NewEnhancer builds an Enhancer from configuration. The credential comes
// from cfg.APIKey only; an empty key selects degraded mode.
func NewEnhancer(cfg config.EnhancerConfig, httpClient *http.Client) *Enhancer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var p Provider
	switch cfg.Provider {
	case config.ProviderOpenAI:
		p = NewOpenAI(httpClient, cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		p = NewGemini(httpClient, cfg.APIKey, cfg.Model, cfg.BaseURL)
	}
	return NewEnhancerWithProvider(p, cfg.APIKey)
}

// NewEnhancerWithProvider wires an explicit provider.
func NewEnhancerWithProvider(p Provider, apiKey string) *Enhancer {
	return &Enhancer{provider: p, apiKey: apiKey}
}

// HasKey reports whether a credential is configured.
func (e *Enhancer) HasKey() bool {
	return e.apiKey != ""
}

// ProviderName returns the configured provider name.
func (e *Enhancer) ProviderName() string {
	return e.provider.Name()
}

// Enhance returns an improved description, or the original plus an
// annotation when no key is configured or the call fails.
func (e *Enhancer) Enhance(ctx context.Context, description string) Enhancement {
	if !e.HasKey() {
		return degraded(description, models.ErrCodeEnhanceNoKey)
	}

	text, err := e.provider.Generate(ctx, buildPrompt(description))
	if err != nil {
		code := models.ErrCodeEnhanceNetwork
		var se *models.ScrapeError
		if errors.As(err, &se) {
			code = se.Code
		}
		slog.Warn("enhancer: falling back to original description",
			"provider", e.provider.Name(),
			"code", code,
			"error", err,
		)
		return degraded(description, code)
	}

	return Enhancement{Text: strings.TrimSpace(text), Enhanced: true}
}

func degraded(description, code string) Enhancement {
	annotation := AnnotationCallFailed
	switch code {
	case models.ErrCodeEnhanceNoKey:
		annotation = AnnotationNoKey
	case models.ErrCodeEnhanceParse:
		annotation = AnnotationParseFailed
	}
	return Enhancement{Text: description + annotation, Code: code}
}

// buildPrompt embeds the description in the fixed rewrite instruction.
func buildPrompt(description string) string {
	return fmt.Sprintf(`You are a copywriter. Improve the following website description so it reads clearly and professionally.

Rules:
- Keep the original meaning and any brand names.
- Use at most three sentences.
- Return ONLY the improved description, no quotes or preamble.

Description:
%s`, description)
}

package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/brandscan/config"
	"github.com/use-agent/brandscan/models"
)

const original = "We sell anvils."

func geminiConfig(baseURL, key string) config.EnhancerConfig {
	return config.EnhancerConfig{
		Enabled:  true,
		Provider: config.ProviderGemini,
		APIKey:   key,
		Model:    "gemini-1.5-flash",
		BaseURL:  baseURL,
		Timeout:  2 * time.Second,
	}
}

func TestEnhance_NoKeyNeverCallsService(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	got := NewEnhancer(geminiConfig(srv.URL, ""), nil).Enhance(context.Background(), original)

	assert.Equal(t, original+AnnotationNoKey, got.Text)
	assert.Equal(t, models.ErrCodeEnhanceNoKey, got.Code)
	assert.False(t, got.Enhanced)
	assert.Zero(t, hits.Load())
}

func TestEnhance_GeminiSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  Acme forges premium anvils.\n"}]}}]}`))
	}))
	defer srv.Close()

	got := NewEnhancer(geminiConfig(srv.URL, "secret"), nil).Enhance(context.Background(), original)

	assert.True(t, got.Enhanced)
	assert.Empty(t, got.Code)
	assert.Equal(t, "Acme forges premium anvils.", got.Text)
	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)

	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 1)
	require.NotNil(t, gotReq.Contents[0].Parts[0].Text)
	assert.Contains(t, *gotReq.Contents[0].Parts[0].Text, original)
}

func TestEnhance_GeminiDegrades(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantText string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, models.ErrCodeEnhanceStatus, original + AnnotationCallFailed},
		{"forbidden", http.StatusForbidden, `denied`, models.ErrCodeEnhanceStatus, original + AnnotationCallFailed},
		{"not json", http.StatusOK, `<html>oops</html>`, models.ErrCodeEnhanceParse, original + AnnotationParseFailed},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, models.ErrCodeEnhanceParse, original + AnnotationParseFailed},
		{"no content", http.StatusOK, `{"candidates":[{}]}`, models.ErrCodeEnhanceParse, original + AnnotationParseFailed},
		{"no parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`, models.ErrCodeEnhanceParse, original + AnnotationParseFailed},
		{"no text", http.StatusOK, `{"candidates":[{"content":{"parts":[{}]}}]}`, models.ErrCodeEnhanceParse, original + AnnotationParseFailed},
		{"blank text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, models.ErrCodeEnhanceParse, original + AnnotationParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got := NewEnhancer(geminiConfig(srv.URL, "secret"), nil).Enhance(context.Background(), original)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantText, got.Text)
			assert.False(t, got.Enhanced)
		})
	}
}

func TestEnhance_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	got := NewEnhancer(geminiConfig(base, "secret"), nil).Enhance(context.Background(), original)

	assert.Equal(t, models.ErrCodeEnhanceNetwork, got.Code)
	assert.Equal(t, original+AnnotationCallFailed, got.Text)
}

func TestEnhance_OpenAI(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`{"choices":[{"message":{"content":"Anvils, perfected."}}]}`))
	}))
	defer srv.Close()

	cfg := config.EnhancerConfig{Provider: config.ProviderOpenAI, APIKey: "sk-1", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1/"}
	e := NewEnhancer(cfg, nil)
	got := e.Enhance(context.Background(), original)

	assert.Equal(t, "openai", e.ProviderName())
	assert.Equal(t, "Anvils, perfected.", got.Text)
	assert.Equal(t, "Bearer sk-1", gotAuth)
	assert.Equal(t, "/v1/chat/completions", gotPath)
}

func TestEnhance_OpenAIMissingMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":null}]}`))
	}))
	defer srv.Close()

	cfg := config.EnhancerConfig{Provider: config.ProviderOpenAI, APIKey: "sk-1", BaseURL: srv.URL}
	got := NewEnhancer(cfg, nil).Enhance(context.Background(), original)

	assert.Equal(t, models.ErrCodeEnhanceParse, got.Code)
	assert.Equal(t, original+AnnotationParseFailed, got.Text)
}

func TestGeminiResponse_Text(t *testing.T) {
	text := "hello"
	tests := []struct {
		name    string
		resp    geminiResponse
		wantErr error
	}{
		{"no candidates", geminiResponse{}, ErrNoCandidates},
		{"nil content", geminiResponse{Candidates: []geminiCandidate{{}}}, ErrNoContent},
		{"no parts", geminiResponse{Candidates: []geminiCandidate{{Content: &geminiContent{}}}}, ErrNoParts},
		{"nil text", geminiResponse{Candidates: []geminiCandidate{{Content: &geminiContent{Parts: []geminiPart{{}}}}}}, ErrNoText},
		{"ok", geminiResponse{Candidates: []geminiCandidate{{Content: &geminiContent{Parts: []geminiPart{{Text: &text}}}}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.resp.text()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, text, got)
		})
	}
}

type stubProvider struct {
	text string
	err  error
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) Generate(context.Context, string) (string, error) { return s.text, s.err }

func TestEnhance_UntypedProviderErrorIsCallFailure(t *testing.T) {
	e := NewEnhancerWithProvider(stubProvider{err: io.ErrUnexpectedEOF}, "key")
	got := e.Enhance(context.Background(), original)

	assert.Equal(t, models.ErrCodeEnhanceNetwork, got.Code)
	assert.Equal(t, original+AnnotationCallFailed, got.Text)
}

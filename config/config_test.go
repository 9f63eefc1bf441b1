package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("BRANDSCAN_LLM_PROVIDER", "")

	cfg := Load()

	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Fetch.DelayEnabled)
	assert.Equal(t, 2*time.Second, cfg.Fetch.DelayMin)
	assert.Equal(t, 5*time.Second, cfg.Fetch.DelayMax)
	assert.Equal(t, DefaultUserAgents, cfg.Fetch.UserAgents)
	assert.Equal(t, ProviderGemini, cfg.Enhancer.Provider)
	assert.Empty(t, cfg.Enhancer.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.Enhancer.Model)
}

func TestLoad_OpenAIProvider(t *testing.T) {
	t.Setenv("BRANDSCAN_LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "g-test")

	cfg := Load()

	assert.Equal(t, ProviderOpenAI, cfg.Enhancer.Provider)
	assert.Equal(t, "sk-test", cfg.Enhancer.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Enhancer.BaseURL)
}

func TestLoad_UnknownProviderFallsBackToGemini(t *testing.T) {
	t.Setenv("BRANDSCAN_LLM_PROVIDER", "llama")
	t.Setenv("GEMINI_API_KEY", "g-test")

	cfg := Load()

	assert.Equal(t, ProviderGemini, cfg.Enhancer.Provider)
	assert.Equal(t, "g-test", cfg.Enhancer.APIKey)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("BS_TEST_DUR", "250ms")
	t.Setenv("BS_TEST_BAD_DUR", "soon")
	t.Setenv("BS_TEST_SLICE", " a, ,b ,c")

	assert.Equal(t, 250*time.Millisecond, envDurationOr("BS_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, envDurationOr("BS_TEST_BAD_DUR", time.Second))

	got := envSliceOr("BS_TEST_SLICE", nil)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

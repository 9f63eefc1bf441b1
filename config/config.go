package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Fetch     FetchConfig
	Enhancer  EnhancerConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// FetchConfig controls the outbound page request.
type FetchConfig struct {
	// Timeout bounds the whole page request, including reading the body.
	Timeout time.Duration // default: 10s

	// DelayEnabled toggles the pseudo-random wait before the request.
	DelayEnabled bool // default: true

	// DelayMin and DelayMax bound the pre-request wait.
	DelayMin time.Duration // default: 2s
	DelayMax time.Duration // default: 5s

	// RotateUserAgent picks a User-Agent from UserAgents per request.
	// When false the first entry is always used.
	RotateUserAgent bool // default: true

	// UserAgents is the pool of browser User-Agent strings.
	UserAgents []string

	// TLSFingerprint dials HTTPS with a Chrome ClientHello (utls).
	TLSFingerprint bool // default: false

	// Proxy is an optional http(s) proxy URL for the page request.
	Proxy string

	// MaxBodyBytes caps how much of the response body is read.
	MaxBodyBytes int64 // default: 10 MiB
}

// EnhancerConfig controls the description rewriting service.
type EnhancerConfig struct {
	// Enabled toggles the enhancement step entirely.
	Enabled bool // default: true

	// Provider selects the API dialect: "gemini" or "openai".
	Provider string // default: "gemini"

	// APIKey is the service credential. Empty means degraded mode.
	APIKey string

	// Model is the model name sent to the provider.
	Model string

	// BaseURL is the provider API root.
	BaseURL string

	// Timeout bounds a single enhancement call.
	Timeout time.Duration // default: 30s
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig controls API key authentication for server mode.
type AuthConfig struct {
	Enabled bool // default: false
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 // default: 2
	Burst             int     // default: 5
}

// CacheConfig controls the analyze response cache.
type CacheConfig struct {
	MaxEntries int // default: 500
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// DefaultUserAgents is the built-in desktop browser pool.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:132.0) Gecko/20100101 Firefox/132.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	provider := strings.ToLower(envOr("BRANDSCAN_LLM_PROVIDER", ProviderGemini))

	return &Config{
		Fetch: FetchConfig{
			Timeout:         envDurationOr("BRANDSCAN_FETCH_TIMEOUT", 10*time.Second),
			DelayEnabled:    envBoolOr("BRANDSCAN_DELAY", true),
			DelayMin:        envDurationOr("BRANDSCAN_DELAY_MIN", 2*time.Second),
			DelayMax:        envDurationOr("BRANDSCAN_DELAY_MAX", 5*time.Second),
			RotateUserAgent: envBoolOr("BRANDSCAN_ROTATE_UA", true),
			UserAgents:      envSliceOr("BRANDSCAN_USER_AGENTS", DefaultUserAgents),
			TLSFingerprint:  envBoolOr("BRANDSCAN_TLS_FINGERPRINT", false),
			Proxy:           os.Getenv("BRANDSCAN_PROXY"),
			MaxBodyBytes:    int64(envIntOr("BRANDSCAN_MAX_BODY_BYTES", 10<<20)),
		},
		Enhancer: loadEnhancer(provider),
		Server: ServerConfig{
			Host: envOr("BRANDSCAN_HOST", "0.0.0.0"),
			Port: envIntOr("BRANDSCAN_PORT", 8080),
			Mode: envOr("BRANDSCAN_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("BRANDSCAN_AUTH_ENABLED", false),
			APIKeys: envSliceOr("BRANDSCAN_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("BRANDSCAN_RATE_RPS", 2.0),
			Burst:             envIntOr("BRANDSCAN_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("BRANDSCAN_CACHE_MAX_ENTRIES", 500),
		},
		Log: LogConfig{
			Level:  envOr("BRANDSCAN_LOG_LEVEL", "info"),
			Format: envOr("BRANDSCAN_LOG_FORMAT", "json"),
		},
	}
}

// loadEnhancer resolves provider-specific defaults. The credential variable
// depends on the provider so that an OpenAI key never leaks into Gemini calls.
func loadEnhancer(provider string) EnhancerConfig {
	cfg := EnhancerConfig{
		Enabled:  envBoolOr("BRANDSCAN_ENHANCE", true),
		Provider: provider,
		Timeout:  envDurationOr("BRANDSCAN_LLM_TIMEOUT", 30*time.Second),
	}

	switch provider {
	case ProviderOpenAI:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.Model = envOr("BRANDSCAN_LLM_MODEL", "gpt-4o-mini")
		cfg.BaseURL = envOr("BRANDSCAN_LLM_BASE_URL", "https://api.openai.com/v1")
	default:
		cfg.Provider = ProviderGemini
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		cfg.Model = envOr("BRANDSCAN_LLM_MODEL", "gemini-1.5-flash")
		cfg.BaseURL = envOr("BRANDSCAN_LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	}

	return cfg
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

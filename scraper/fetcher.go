package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/use-agent/brandscan/config"
	"github.com/use-agent/brandscan/models"
)

// Fetcher retrieves a single page with browser-like headers. It never retries.
type Fetcher struct {
	cfg    config.FetchConfig
	client *http.Client
	agents *userAgentPool

	// sleep waits for d or until ctx is done. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher creates a Fetcher from the fetch configuration.
func NewFetcher(cfg config.FetchConfig) *Fetcher {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10 << 20
	}
	return &Fetcher{
		cfg:    cfg,
		client: newHTTPClient(cfg),
		agents: newUserAgentPool(cfg.UserAgents, cfg.RotateUserAgent),
		sleep:  sleepContext,
	}
}

// Fetch performs one GET against targetURL.
//
// Failures are returned as *models.ScrapeError:
//   - INVALID_INPUT     the URL is not an absolute http(s) URL
//   - NETWORK_ERROR     DNS, connection or timeout failure
//   - HTTP_STATUS_ERROR the server answered with a status >= 400
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*models.FetchedDocument, error) {
	if err := validateURL(targetURL); err != nil {
		return nil, err
	}

	if f.cfg.DelayEnabled {
		d := f.delay()
		slog.Debug("fetch: courtesy delay", "url", targetURL, "delay", d)
		if err := f.sleep(ctx, d); err != nil {
			return nil, models.NewNetworkError(targetURL, err)
		}
	}

	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, fmt.Sprintf("invalid URL %q", targetURL), err)
	}
	req.Header.Set("User-Agent", f.agents.pick())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, models.NewNetworkError(targetURL, unwrapURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, models.NewHTTPStatusError(resp.StatusCode, reasonPhrase(resp), targetURL)
	}

	body, err := readBody(resp, f.cfg.MaxBodyBytes)
	if err != nil {
		return nil, models.NewNetworkError(targetURL, err)
	}

	slog.Debug("fetch: page retrieved",
		"url", targetURL,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	return &models.FetchedDocument{
		URL:        targetURL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       body,
	}, nil
}

// delay returns a pseudo-random duration in [DelayMin, DelayMax].
func (f *Fetcher) delay() time.Duration {
	lo, hi := f.cfg.DelayMin, f.cfg.DelayMax
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi <= 0 {
		return 0
	}
	if lo < 0 {
		lo = 0
	}
	return lo + time.Duration(rand.Int64N(int64(hi-lo)+1))
}

// readBody reads at most limit bytes and decodes them to UTF-8 using the
// Content-Type header and any <meta charset> in the first kilobyte.
func readBody(resp *http.Response, limit int64) (string, error) {
	r, err := charset.NewReader(io.LimitReader(resp.Body, limit), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode charset: %w", err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(b), nil
}

// reasonPhrase extracts the reason from a status line like "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func validateURL(targetURL string) error {
	u, err := url.Parse(targetURL)
	if err != nil {
		return models.NewScrapeError(models.ErrCodeInvalidInput, fmt.Sprintf("invalid URL %q: %v", targetURL, err), err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("invalid URL %q: no http(s) scheme or host", targetURL), nil)
	}
	return nil
}

// unwrapURLError drops the *url.Error envelope, which only repeats the
// method and URL already present in the message.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/use-agent/brandscan/models"
)

// Provider generates text for a prompt. Errors are *models.ScrapeError with
// one of the ENHANCE_NETWORK, ENHANCE_STATUS or ENHANCE_PARSE codes.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Lookup failures while walking a provider response.
var (
	ErrNoCandidates = errors.New("response has no candidates")
	ErrNoContent    = errors.New("candidate has no content")
	ErrNoParts      = errors.New("content has no parts")
	ErrNoText       = errors.New("part has no text")
	ErrNoChoices    = errors.New("response has no choices")
	ErrNoMessage    = errors.New("choice has no message content")
)

// postJSON sends payload to endpoint and returns the raw response body.
// Transport failures map to ENHANCE_NETWORK, non-2xx statuses to
// ENHANCE_STATUS.
func postJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, payload any) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeEnhanceNetwork, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeEnhanceNetwork, "enhancement request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeEnhanceNetwork, "failed to read enhancement response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// apiErrorResponse covers the error envelope shared by both dialects.
type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func classifyStatus(statusCode int, body []byte) *models.ScrapeError {
	msg := http.StatusText(statusCode)
	var errResp apiErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}
	return models.NewScrapeError(models.ErrCodeEnhanceStatus, fmt.Sprintf("enhancement API returned %d: %s", statusCode, msg), nil)
}

func parseError(message string, err error) *models.ScrapeError {
	return models.NewScrapeError(models.ErrCodeEnhanceParse, message, err)
}

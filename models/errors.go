package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used in results, API responses and internal error handling.
const (
	ErrCodeNetwork         = "NETWORK_ERROR"
	ErrCodeHTTPStatus      = "HTTP_STATUS_ERROR"
	ErrCodeMissingArgument = "MISSING_ARGUMENT"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeExtraction      = "EXTRACTION_FAILED"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInternal        = "INTERNAL_ERROR"

	// Enhancement failures never reach the caller as errors; the codes are
	// used to pick the annotation and in log records.
	ErrCodeEnhanceNoKey   = "ENHANCE_NO_KEY"
	ErrCodeEnhanceNetwork = "ENHANCE_NETWORK"
	ErrCodeEnhanceStatus  = "ENHANCE_STATUS"
	ErrCodeEnhanceParse   = "ENHANCE_PARSE"
)

// MissingArgumentMessage is the fixed message emitted when no URL is given.
// The wording is consumed by existing callers and must not change.
const MissingArgumentMessage = "No URL provided. Usage: python scraper.py <url>"

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// HTTPStatusError reports a non-success status from the target page.
type HTTPStatusError struct {
	StatusCode int
	Reason     string
	URL        string
}

func (e *HTTPStatusError) Error() string {
	kind := "Client"
	if e.StatusCode >= 500 {
		kind = "Server"
	}
	return fmt.Sprintf("%d %s Error: %s for url: %s", e.StatusCode, kind, e.Reason, e.URL)
}

// NewHTTPStatusError wraps a status failure in a ScrapeError whose message
// embeds the status code and reason phrase.
func NewHTTPStatusError(statusCode int, reason, url string) *ScrapeError {
	if reason == "" {
		reason = http.StatusText(statusCode)
	}
	statusErr := &HTTPStatusError{StatusCode: statusCode, Reason: reason, URL: url}
	return NewScrapeError(ErrCodeHTTPStatus, statusErr.Error(), statusErr)
}

// NewNetworkError wraps a transport-level failure reaching the target page.
func NewNetworkError(url string, err error) *ScrapeError {
	return NewScrapeError(ErrCodeNetwork, fmt.Sprintf("network error fetching %s: %v", url, err), err)
}

// ErrMissingArgument returns the error for an invocation without a URL.
func ErrMissingArgument() *ScrapeError {
	return NewScrapeError(ErrCodeMissingArgument, MissingArgumentMessage, nil)
}

// AsScrapeError converts any error into a ScrapeError, preserving the code of
// a wrapped ScrapeError when one is present.
func AsScrapeError(err error) *ScrapeError {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se
	}
	return NewScrapeError(ErrCodeInternal, err.Error(), err)
}

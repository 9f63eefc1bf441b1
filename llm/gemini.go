package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// Gemini calls the generateContent endpoint of the Generative Language API.
type Gemini struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// NewGemini creates a Gemini provider. Pass a nil client to use a default one.
func NewGemini(httpClient *http.Client, apiKey, model, baseURL string) *Gemini {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Gemini{httpClient: httpClient, apiKey: apiKey, model: model, baseURL: baseURL}
}

func (g *Gemini) Name() string { return "gemini" }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text *string `json:"text,omitempty"`
}

// Generate sends prompt as a single user turn and returns the first part's text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: &prompt}}}},
	}

	endpoint := strings.TrimRight(g.baseURL, "/") + "/models/" + url.PathEscape(g.model) + ":generateContent"
	body, err := postJSON(ctx, g.httpClient, endpoint, map[string]string{"x-goog-api-key": g.apiKey}, reqBody)
	if err != nil {
		return "", err
	}

	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", parseError("failed to decode Gemini response", err)
	}

	text, err := resp.text()
	if err != nil {
		return "", parseError("unexpected Gemini response shape", err)
	}
	return text, nil
}

// text walks candidates[0].content.parts[0].text, reporting the first
// missing link.
func (r *geminiResponse) text() (string, error) {
	candidate, ok := first(r.Candidates)
	if !ok {
		return "", ErrNoCandidates
	}
	if candidate.Content == nil {
		return "", ErrNoContent
	}
	part, ok := first(candidate.Content.Parts)
	if !ok {
		return "", ErrNoParts
	}
	if part.Text == nil || strings.TrimSpace(*part.Text) == "" {
		return "", ErrNoText
	}
	return *part.Text, nil
}

func first[T any](items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[0], true
}

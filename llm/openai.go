package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// OpenAI is a lightweight OpenAI-compatible chat completions provider.
// Any compatible API (DeepSeek, Groq, Azure, a local proxy) works via BaseURL.
type OpenAI struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// NewOpenAI creates an OpenAI-compatible provider. Pass a nil client to use a
// default one.
func NewOpenAI(httpClient *http.Client, apiKey, model, baseURL string) *OpenAI {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenAI{httpClient: httpClient, apiKey: apiKey, model: model, baseURL: baseURL}
}

func (o *OpenAI) Name() string { return "openai" }

// chatRequest is the OpenAI chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the minimal chat completion response we need.
type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       o.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	}

	endpoint := strings.TrimRight(o.baseURL, "/") + "/chat/completions"
	body, err := postJSON(ctx, o.httpClient, endpoint, map[string]string{"Authorization": "Bearer " + o.apiKey}, reqBody)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", parseError("failed to decode chat completion response", err)
	}

	if len(resp.Choices) == 0 {
		return "", parseError("unexpected chat completion shape", ErrNoChoices)
	}
	msg := resp.Choices[0].Message
	if msg == nil || msg.Content == nil || strings.TrimSpace(*msg.Content) == "" {
		return "", parseError("unexpected chat completion shape", ErrNoMessage)
	}
	return *msg.Content, nil
}

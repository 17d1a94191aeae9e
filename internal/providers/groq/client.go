package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stockmeta/internal/domain"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"
	defaultTimeout = 30 * time.Second
)

// Options controls how the Groq chat client is configured. The API key
// is intentionally absent: it belongs to the caller and arrives per
// call through Complete.
type Options struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Client speaks the OpenAI-compatible chat-completions dialect exposed
// by Groq. It is a text-only backend: image input is not part of its
// contract and callers must not expect visual grounding.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient constructs a Groq client with sane defaults.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	return &Client{baseURL: baseURL, model: model, httpClient: client}
}

// Model returns the configured chat model identifier.
func (c *Client) Model() string {
	return c.model
}

// Complete issues one chat completion and returns the raw message
// content. An empty API key fails with domain.ErrMissingCredential
// before any network attempt.
func (c *Client) Complete(ctx context.Context, apiKey, system, user string) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", domain.ErrMissingCredential
	}
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &chatFormat{Type: "json_object"},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.ProviderError{Provider: "groq", Message: err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &domain.ProviderError{Provider: "groq", Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &domain.ProviderError{Provider: "groq", Message: fmt.Sprintf("decode response: %v", err)}
	}
	if len(out.Choices) == 0 {
		return "", &domain.ProviderError{Provider: "groq", Message: "no choices in response"}
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", &domain.ProviderError{Provider: "groq", Message: "empty message content"}
	}
	return content, nil
}

func readErrorMessage(body io.Reader) string {
	data, _ := io.ReadAll(body)
	var apiErr chatErrorResponse
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	if msg := strings.TrimSpace(string(data)); msg != "" {
		return msg
	}
	return "request failed"
}

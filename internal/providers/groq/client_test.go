package groq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"stockmeta/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newFakeClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	return NewClient(Options{
		BaseURL:    "http://groq.test/openai/v1",
		HTTPClient: &http.Client{Transport: rt},
	})
}

func TestCompleteSendsChatRequest(t *testing.T) {
	t.Parallel()
	var captured chatRequest
	var auth string
	client := newFakeClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/openai/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"{\"title\":\"x\"}"}}]}`), nil
	})

	got, err := client.Complete(context.Background(), "gsk_secret", "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != `{"title":"x"}` {
		t.Fatalf("content = %q", got)
	}
	if auth != "Bearer gsk_secret" {
		t.Fatalf("Authorization = %q", auth)
	}
	if captured.Model != defaultModel {
		t.Fatalf("model = %q, want %q", captured.Model, defaultModel)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Fatalf("messages = %+v", captured.Messages)
	}
	if captured.Messages[0].Content != "system prompt" || captured.Messages[1].Content != "user prompt" {
		t.Fatalf("message contents = %+v", captured.Messages)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Fatalf("response_format = %+v, want json_object", captured.ResponseFormat)
	}
}

func TestCompleteEmptyKeySkipsNetwork(t *testing.T) {
	t.Parallel()
	var calls atomic.Int64
	client := newFakeClient(t, func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(http.StatusOK, `{}`), nil
	})

	for _, key := range []string{"", "   "} {
		_, err := client.Complete(context.Background(), key, "s", "u")
		if !errors.Is(err, domain.ErrMissingCredential) {
			t.Fatalf("key %q: err = %v, want ErrMissingCredential", key, err)
		}
	}
	if calls.Load() != 0 {
		t.Fatalf("network calls = %d, want 0", calls.Load())
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	t.Parallel()
	client := newFakeClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"error":{"message":"Invalid API Key"}}`), nil
	})

	_, err := client.Complete(context.Background(), "gsk_bad", "s", "u")
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if provErr.Provider != "groq" || provErr.Status != http.StatusUnauthorized {
		t.Fatalf("provider error = %+v", provErr)
	}
	if provErr.Message != "Invalid API Key" {
		t.Fatalf("message = %q, want upstream message verbatim", provErr.Message)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"no choices":    `{"choices":[]}`,
		"empty content": `{"choices":[{"message":{"content":"  "}}]}`,
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			client := newFakeClient(t, func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, body), nil
			})
			_, err := client.Complete(context.Background(), "gsk_key", "s", "u")
			var provErr *domain.ProviderError
			if !errors.As(err, &provErr) {
				t.Fatalf("err = %v, want ProviderError", err)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()
	client := NewClient(Options{})
	if client.baseURL != defaultBaseURL {
		t.Fatalf("baseURL = %q", client.baseURL)
	}
	if client.Model() != defaultModel {
		t.Fatalf("model = %q", client.Model())
	}
	if client.httpClient == nil || client.httpClient.Timeout != defaultTimeout {
		t.Fatalf("httpClient not defaulted")
	}
}

package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

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
		APIKey:     "server-key",
		BaseURL:    "http://gemini.test/v1beta",
		HTTPClient: &http.Client{Transport: rt},
		Logger:     zerolog.Nop(),
	})
}

func textResponse(text string) string {
	body, _ := json.Marshal(geminiGenerateContentResponse{
		Candidates: []geminiCandidate{{Content: geminiContent{Parts: []geminiPart{{Text: text}}}}},
	})
	return string(body)
}

func TestGenerateMetadataSendsPromptAndImage(t *testing.T) {
	t.Parallel()
	var captured geminiGenerateContentRequest
	var apiKey string
	client := newFakeClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1beta/models/gemini-2.5-flash:generateContent" {
			t.Errorf("path = %q", r.URL.Path)
		}
		apiKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		return jsonResponse(http.StatusOK, textResponse(`{"title":"x"}`)), nil
	})

	image := &domain.InlineImage{MIME: "image/png", Data: []byte{1, 2, 3}}
	got, err := client.GenerateMetadata(context.Background(), "describe this", image)
	if err != nil {
		t.Fatalf("GenerateMetadata: %v", err)
	}
	if got != `{"title":"x"}` {
		t.Fatalf("text = %q", got)
	}
	if apiKey != "server-key" {
		t.Fatalf("x-goog-api-key = %q", apiKey)
	}
	if len(captured.Contents) != 1 || len(captured.Contents[0].Parts) != 2 {
		t.Fatalf("contents = %+v, want one content with text and image parts", captured.Contents)
	}
	if captured.Contents[0].Parts[0].Text != "describe this" {
		t.Fatalf("text part = %q", captured.Contents[0].Parts[0].Text)
	}
	inline := captured.Contents[0].Parts[1].InlineData
	if inline == nil || inline.MimeType != "image/png" {
		t.Fatalf("inline part = %+v", inline)
	}
	if inline.Data != base64.StdEncoding.EncodeToString(image.Data) {
		t.Fatalf("inline data = %q, want base64 of raw bytes", inline.Data)
	}
	cfg := captured.GenerationConfig
	if cfg == nil {
		t.Fatal("generationConfig missing")
	}
	if cfg.Temperature != metadataTemperature {
		t.Fatalf("temperature = %v, want %v", cfg.Temperature, metadataTemperature)
	}
	if cfg.ResponseMimeType != "application/json" || cfg.ResponseSchema == nil {
		t.Fatalf("generationConfig = %+v, want structured JSON output", cfg)
	}
}

func TestGenerateMetadataTextOnly(t *testing.T) {
	t.Parallel()
	var captured geminiGenerateContentRequest
	client := newFakeClient(t, func(r *http.Request) (*http.Response, error) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		return jsonResponse(http.StatusOK, textResponse("{}")), nil
	})

	if _, err := client.GenerateMetadata(context.Background(), "video prompt", nil); err != nil {
		t.Fatalf("GenerateMetadata: %v", err)
	}
	if len(captured.Contents[0].Parts) != 1 {
		t.Fatalf("parts = %+v, want text only when no image is supplied", captured.Contents[0].Parts)
	}
}

func TestGenerateMetadataUpstreamError(t *testing.T) {
	t.Parallel()
	client := newFakeClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{"error":{"code":429,"message":"Resource has been exhausted"}}`), nil
	})

	_, err := client.GenerateMetadata(context.Background(), "p", nil)
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if provErr.Provider != "gemini" || provErr.Status != http.StatusTooManyRequests {
		t.Fatalf("provider error = %+v", provErr)
	}
	if provErr.Message != "Resource has been exhausted" {
		t.Fatalf("message = %q", provErr.Message)
	}
}

func TestGenerateMetadataNoTextPart(t *testing.T) {
	t.Parallel()
	client := newFakeClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`), nil
	})

	_, err := client.GenerateMetadata(context.Background(), "p", nil)
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
}

func TestEditImageReturnsDataURI(t *testing.T) {
	t.Parallel()
	edited := base64.StdEncoding.EncodeToString([]byte("edited-bytes"))
	var captured geminiGenerateContentRequest
	client := newFakeClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1beta/models/gemini-2.5-flash-image:generateContent" {
			t.Errorf("path = %q, want edit model endpoint", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		body, _ := json.Marshal(geminiGenerateContentResponse{
			Candidates: []geminiCandidate{{Content: geminiContent{Parts: []geminiPart{
				{Text: "here you go"},
				{InlineData: &geminiInlineData{MimeType: "image/webp", Data: edited}},
			}}}},
		})
		return jsonResponse(http.StatusOK, string(body)), nil
	})

	uri, err := client.EditImage(context.Background(),
		domain.InlineImage{MIME: "image/jpeg", Data: []byte{9, 9}}, "remove the watermark")
	if err != nil {
		t.Fatalf("EditImage: %v", err)
	}
	if want := "data:image/webp;base64," + edited; uri != want {
		t.Fatalf("uri = %q, want %q", uri, want)
	}
	parts := captured.Contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil || parts[1].Text != "remove the watermark" {
		t.Fatalf("parts = %+v, want image first then instruction", parts)
	}
}

func TestEditImageNoImagePart(t *testing.T) {
	t.Parallel()
	client := newFakeClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, textResponse("I cannot edit this image.")), nil
	})

	_, err := client.EditImage(context.Background(), domain.InlineImage{MIME: "image/png", Data: []byte{1}}, "edit")
	if !errors.Is(err, domain.ErrNoImageReturned) {
		t.Fatalf("err = %v, want ErrNoImageReturned", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()
	client := NewClient(Options{})
	if client.baseURL != defaultBaseURL {
		t.Fatalf("baseURL = %q", client.baseURL)
	}
	if client.model != defaultModel || client.editModel != defaultEditModel {
		t.Fatalf("models = %q / %q", client.model, client.editModel)
	}
}

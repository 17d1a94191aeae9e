package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stockmeta/internal/domain"
)

const (
	defaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel     = "gemini-2.5-flash"
	defaultEditModel = "gemini-2.5-flash-image"
	defaultTimeout   = 60 * time.Second

	// metadataTemperature keeps sampling low so output stays literal
	// and factual rather than creative.
	metadataTemperature = 0.2
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	EditModel  string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client is a thin facade over the Gemini generateContent API. It
// returns raw model text and inline image parts; all schema
// enforcement happens in the caller.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	editModel  string
	httpClient *http.Client
	logger     zerolog.Logger
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiSchema struct {
	Type       string                  `json:"type"`
	Properties map[string]geminiSchema `json:"properties,omitempty"`
	Required   []string                `json:"required,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64       `json:"temperature,omitempty"`
	CandidateCount   int           `json:"candidateCount,omitempty"`
	ResponseMimeType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// metadataSchema mirrors the Metadata shape. Only the three universal
// fields are required; tag and category fields depend on marketplace.
var metadataSchema = &geminiSchema{
	Type: "OBJECT",
	Properties: map[string]geminiSchema{
		"title":       {Type: "STRING"},
		"description": {Type: "STRING"},
		"keywords":    {Type: "STRING"},
		"mainTag":     {Type: "STRING"},
		"category1":   {Type: "STRING"},
		"category2":   {Type: "STRING"},
	},
	Required: []string{"title", "description", "keywords"},
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; one with a sensible timeout is created.
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
	editModel := strings.TrimSpace(opts.EditModel)
	if editModel == "" {
		editModel = defaultEditModel
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		editModel:  editModel,
		httpClient: client,
		logger:     opts.Logger,
	}
}

// Model returns the configured generation model identifier.
func (c *Client) Model() string {
	return c.model
}

// GenerateMetadata sends the prompt, and for static images the inlined
// bytes, to the vision model and returns the raw response text.
func (c *Client) GenerateMetadata(ctx context.Context, prompt string, image *domain.InlineImage) (string, error) {
	parts := []geminiPart{{Text: prompt}}
	if image != nil && len(image.Data) > 0 {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: inlineMIME(image.MIME),
			Data:     base64.StdEncoding.EncodeToString(image.Data),
		}})
	}
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      metadataTemperature,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
			ResponseSchema:   metadataSchema,
		},
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, c.model, payload, &response); err != nil {
		return "", err
	}
	text := firstText(response)
	if text == "" {
		return "", &domain.ProviderError{Provider: "gemini", Message: "no text part in response"}
	}
	c.logger.Debug().
		Str("model", c.model).
		Bool("image_attached", image != nil).
		Msg("genai: metadata generated")
	return text, nil
}

// EditImage sends the image bytes plus a free-text edit instruction and
// returns the first returned image encoded as a displayable data URI.
func (c *Client) EditImage(ctx context.Context, image domain.InlineImage, instruction string) (string, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{
					MimeType: inlineMIME(image.MIME),
					Data:     base64.StdEncoding.EncodeToString(image.Data),
				}},
				{Text: instruction},
			},
		}},
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, c.editModel, payload, &response); err != nil {
		return "", err
	}
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			mime := part.InlineData.MimeType
			if mime == "" {
				mime = "image/png"
			}
			c.logger.Debug().Str("model", c.editModel).Msg("genai: edited image returned")
			return fmt.Sprintf("data:%s;base64,%s", mime, part.InlineData.Data), nil
		}
	}
	return "", domain.ErrNoImageReturned
}

func (c *Client) invoke(ctx context.Context, model string, payload any, out any) error {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.ProviderError{Provider: "gemini", Message: err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return &domain.ProviderError{Provider: "gemini", Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ProviderError{Provider: "gemini", Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	data, _ := io.ReadAll(body)
	var apiErr geminiErrorResponse
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	if msg := strings.TrimSpace(string(data)); msg != "" {
		return msg
	}
	return "request failed"
}

func firstText(resp geminiGenerateContentResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

func inlineMIME(mime string) string {
	mime = strings.TrimSpace(mime)
	if mime == "" {
		return "image/jpeg"
	}
	return mime
}

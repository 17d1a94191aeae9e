package metagen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"stockmeta/internal/domain"
)

// VisionModel is the multimodal engine contract. Implementations send
// the prompt plus optional inlined image bytes and return the
// provider's raw JSON text without interpreting it.
type VisionModel interface {
	GenerateMetadata(ctx context.Context, prompt string, image *domain.InlineImage) (string, error)
}

// ChatModel is the text-only engine contract. The API key is supplied
// per call because the caller owns credential storage. Implementations
// must fail with domain.ErrMissingCredential before any network
// attempt when the key is empty.
type ChatModel interface {
	Complete(ctx context.Context, apiKey, system, user string) (string, error)
}

// Options configures the generation service.
type Options struct {
	Vision VisionModel
	Chat   ChatModel
	Logger zerolog.Logger
}

// Service is the generation orchestrator: it builds the prompt, selects
// the engine, invokes it, and normalizes the response. Each call is
// independent and stateless with respect to other assets; the caller
// decides how many calls run concurrently.
type Service struct {
	vision VisionModel
	chat   ChatModel
	logger zerolog.Logger
}

// NewService wires the orchestrator with its two engine adapters.
func NewService(opts Options) *Service {
	return &Service{
		vision: opts.Vision,
		chat:   opts.Chat,
		logger: opts.Logger,
	}
}

// Generate produces fully-conformant metadata for one asset, or an
// error. There is no partial-success return: the result either
// satisfies every schema invariant or the call failed.
func (s *Service) Generate(ctx context.Context, asset domain.AssetView, mp domain.Marketplace, engine domain.EngineContext) (domain.Metadata, error) {
	prompt := BuildPrompt(asset, mp)

	var (
		raw string
		err error
	)
	switch engine.Engine {
	case domain.EngineGroq:
		key := strings.TrimSpace(engine.Credential)
		if len(key) < domain.MinChatCredentialLen {
			return domain.Metadata{}, domain.ErrMissingCredential
		}
		if s.chat == nil {
			return domain.Metadata{}, fmt.Errorf("chat engine not configured")
		}
		raw, err = s.chat.Complete(ctx, key, systemInstruction, prompt)
	case domain.EngineGemini:
		if s.vision == nil {
			return domain.Metadata{}, fmt.Errorf("vision engine not configured")
		}
		raw, err = s.vision.GenerateMetadata(ctx, prompt, inlineImage(asset))
	default:
		return domain.Metadata{}, fmt.Errorf("unknown engine %q", engine.Engine)
	}
	if err != nil {
		s.logger.Warn().Err(err).
			Str("engine", string(engine.Engine)).
			Str("filename", asset.Filename).
			Msg("metagen: provider call failed")
		return domain.Metadata{}, err
	}

	payload, err := parseObject(raw)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("engine", string(engine.Engine)).
			Str("filename", asset.Filename).
			Msg("metagen: response not parseable")
		return domain.Metadata{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return Normalize(payload, mp), nil
}

// inlineImage returns the image payload to attach, or nil. Only static
// images are inlined; the chat engine ignores it and video assets are
// described from filename context alone.
func inlineImage(asset domain.AssetView) *domain.InlineImage {
	if asset.Kind == domain.MediaKindVideo || len(asset.Data) == 0 {
		return nil
	}
	return &domain.InlineImage{MIME: asset.MIME, Data: asset.Data}
}

// parseObject decodes the provider text into a string-indexable JSON
// object, tolerating code fences and stray prose around the payload.
func parseObject(raw string) (map[string]any, error) {
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty payload")
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

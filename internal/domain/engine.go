package domain

import "strings"

// Engine names the backing model provider used for metadata generation.
type Engine string

const (
	// EngineGemini is the multimodal vision engine. It needs no
	// caller-supplied credential; the server is pre-authorized.
	EngineGemini Engine = "gemini"
	// EngineGroq is the text-only chat engine. It requires a
	// caller-supplied API key and ignores image input by contract.
	EngineGroq Engine = "groq"
)

// MinChatCredentialLen is the minimum plausible length for a chat
// engine API key. Anything shorter is rejected before a network call.
const MinChatCredentialLen = 8

// EngineContext carries the selected engine and, for the chat engine,
// the caller-supplied credential. The core never stores credentials;
// the caller owns persistence and passes values per call.
type EngineContext struct {
	Engine     Engine
	Credential string
}

// ParseEngine maps free-form input onto a known engine, defaulting to
// the vision engine.
func ParseEngine(value string) Engine {
	if Engine(strings.ToLower(strings.TrimSpace(value))) == EngineGroq {
		return EngineGroq
	}
	return EngineGemini
}

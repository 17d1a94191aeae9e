package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned when the chat engine is selected
	// without a usable API key. It is reported before any network call.
	ErrMissingCredential = errors.New("chat engine api key missing or too short")
	// ErrMalformedResponse is returned when the provider's text cannot
	// be parsed as a JSON object.
	ErrMalformedResponse = errors.New("provider returned malformed response")
	// ErrNoImageReturned is returned when an edit call succeeds but the
	// response contains no inline image part.
	ErrNoImageReturned = errors.New("provider returned no image")
	// ErrAssetNotFound is returned by repositories for unknown asset ids.
	ErrAssetNotFound = errors.New("asset not found")
)

// ProviderError reports a failed provider call. The upstream message is
// surfaced verbatim to the caller; the core never retries.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

package metagen

import (
	"strings"

	"stockmeta/internal/domain"
)

const (
	fallbackTitle       = "Untitled Stock Asset"
	fallbackDescription = "High quality commercial stock asset for creative projects."
	fallbackMainTag     = "graphic"
	keywordPadSuffix    = "_concept"
)

// Normalize enforces the metadata schema over whatever the provider
// returned. It is total: absent, empty, or wrong-typed fields take the
// fallback path for that field, and the result always satisfies the
// length and count invariants. The provider is never trusted.
func Normalize(raw map[string]any, mp domain.Marketplace) domain.Metadata {
	meta := domain.Metadata{
		Title:       truncate(stringField(raw, "title", fallbackTitle), domain.TitleMaxLen),
		Description: truncate(stringField(raw, "description", fallbackDescription), domain.DescriptionMaxLen),
	}

	tokens := keywordTokens(stringField(raw, "keywords", ""))
	meta.Keywords = strings.Join(padKeywords(tokens), ", ")

	first := ""
	if len(tokens) > 0 {
		first = tokens[0]
	}
	if mp == domain.MarketplaceFreepik {
		meta.MainTag = coalesce(stringField(raw, "mainTag", ""), first, fallbackMainTag)
	} else {
		meta.MainTag = coalesce(stringField(raw, "mainTag", ""), first)
	}

	if mp == domain.MarketplaceShutterstock {
		meta.Category1 = pickCategory(stringField(raw, "category1", ""), 0)
		meta.Category2 = pickCategory(stringField(raw, "category2", ""), 1)
	}
	return meta
}

// stringField reads a string-typed field from the raw object. Any
// missing or non-string value yields the fallback.
func stringField(raw map[string]any, key, fallback string) string {
	if raw == nil {
		return fallback
	}
	value, ok := raw[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// truncate hard-cuts a string to at most limit characters. The cut is
// by character, not by word.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// keywordTokens splits a comma-delimited keyword string into trimmed,
// lower-cased, non-empty tokens.
func keywordTokens(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// padKeywords brings the token list to exactly KeywordCount entries.
// Overflow is truncated, never re-ranked. Shortfall is padded by
// cycling through the existing tokens in order and appending each with
// a "_concept" suffix until the count is reached. An empty input stays
// empty; there is no token to cycle from.
func padKeywords(tokens []string) []string {
	if len(tokens) == 0 {
		return tokens
	}
	if len(tokens) >= domain.KeywordCount {
		return tokens[:domain.KeywordCount]
	}
	padded := make([]string, len(tokens), domain.KeywordCount)
	copy(padded, tokens)
	for i := 0; len(padded) < domain.KeywordCount; i++ {
		padded = append(padded, tokens[i%len(tokens)]+keywordPadSuffix)
	}
	return padded
}

// pickCategory accepts the provider's category only when it is a
// literal member of the fixed set; otherwise it substitutes the entry
// at the positional default index.
func pickCategory(value string, defaultIndex int) string {
	if domain.IsShutterstockCategory(value) {
		return value
	}
	return domain.ShutterstockCategories[defaultIndex]
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

package metagen

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stockmeta/internal/domain"
)

// systemInstruction is the system turn sent to chat-style engines.
const systemInstruction = "You are a stock content metadata expert. Respond with raw JSON only, no markdown and no surrounding prose."

var mediaKindLabels = map[domain.MediaKind]string{
	domain.MediaKindPhoto:  "photograph",
	domain.MediaKindVector: "vector illustration",
	domain.MediaKindVideo:  "video footage",
}

var marketplaceLabels = map[domain.Marketplace]string{
	domain.MarketplaceShutterstock: "Shutterstock",
	domain.MarketplaceFreepik:      "Freepik",
	domain.MarketplaceAdobeStock:   "Adobe Stock",
	domain.MarketplaceGeneral:      "a general stock marketplace",
}

// BuildPrompt produces the instruction text the model must follow for
// one asset and one target marketplace. Pure function of its inputs.
func BuildPrompt(asset domain.AssetView, mp domain.Marketplace) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Analyze this stock %s for the %s marketplace. Filename: %q.",
		kindLabel(asset.Kind), marketplaceLabel(mp), asset.Filename)
	if hint := humanizeFilename(asset.Filename); hint != "" {
		fmt.Fprintf(sb, " Subject hint from filename: %q.", hint)
	}
	sb.WriteString(" Requirements:")
	fmt.Fprintf(sb, " 1. Title: literal and descriptive, state exactly what is depicted, no subjective adjectives, at most %d characters.", domain.TitleMaxLen)
	fmt.Fprintf(sb, " 2. Description: written for buyers searching the marketplace, at most %d characters.", domain.DescriptionMaxLen)
	fmt.Fprintf(sb, " 3. Keywords: exactly %d comma-separated single keywords ordered from main subject, then environment, then style, then mood, then technical terms. No duplicates, no generic filler words.", domain.KeywordCount)
	switch mp {
	case domain.MarketplaceFreepik:
		sb.WriteString(" 4. mainTag: one extremely specific tag that captures the single most important subject.")
	case domain.MarketplaceShutterstock:
		fmt.Fprintf(sb, " 4. category1 and category2: exactly two categories chosen verbatim from this list: %s.",
			strings.Join(domain.ShutterstockCategories, ", "))
	}
	sb.WriteString(` Respond with a single JSON object of this exact shape and nothing else: {"title":string,"description":string,"keywords":string,"mainTag":string,"category1":string,"category2":string}. The keywords field is one comma-separated string.`)
	return sb.String()
}

func kindLabel(kind domain.MediaKind) string {
	if label, ok := mediaKindLabels[kind]; ok {
		return label
	}
	return "asset"
}

func marketplaceLabel(mp domain.Marketplace) string {
	if label, ok := marketplaceLabels[mp]; ok {
		return label
	}
	return string(mp)
}

var filenameSeparators = strings.NewReplacer("-", " ", "_", " ", ".", " ")

// humanizeFilename turns "forest-lake_sunrise.jpg" into "Forest Lake
// Sunrise" so the model gets a readable subject hint.
func humanizeFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.TrimSpace(filenameSeparators.Replace(base))
	if base == "" {
		return ""
	}
	return cases.Title(language.Und).String(strings.Join(strings.Fields(base), " "))
}

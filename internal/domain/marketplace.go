package domain

import "strings"

// Marketplace identifies the stock-content platform whose field and
// category conventions shape prompts and CSV output.
type Marketplace string

const (
	MarketplaceShutterstock Marketplace = "shutterstock"
	MarketplaceFreepik      Marketplace = "freepik"
	MarketplaceAdobeStock   Marketplace = "adobestock"
	MarketplaceGeneral      Marketplace = "general"
)

// DefaultMarketplace is used when a request does not name a target.
const DefaultMarketplace = MarketplaceShutterstock

// ShutterstockCategories is the fixed ordered category vocabulary for
// the dual-category marketplace. Order matters: the first two entries
// double as positional defaults when the provider suggests a category
// outside the set.
var ShutterstockCategories = []string{
	"Abstract",
	"Animals/Wildlife",
	"Arts",
	"Backgrounds/Textures",
	"Beauty/Fashion",
	"Buildings/Landmarks",
	"Business/Finance",
	"Celebrities",
	"Education",
	"Editorial",
	"Food and drink",
	"Healthcare/Medical",
	"Holidays",
	"Industrial",
	"Interiors",
	"Miscellaneous",
	"Nature",
	"Objects",
	"Parks/Outdoor",
	"People",
	"Religion",
	"Science",
	"Signs/Symbols",
	"Sports/Recreation",
	"Technology",
	"Transportation",
	"Vintage",
}

var shutterstockCategorySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ShutterstockCategories))
	for _, c := range ShutterstockCategories {
		set[c] = struct{}{}
	}
	return set
}()

// IsShutterstockCategory reports whether name is a literal member of
// the fixed category set. Matching is exact; the normalizer substitutes
// positional defaults rather than fuzzy-matching provider output.
func IsShutterstockCategory(name string) bool {
	_, ok := shutterstockCategorySet[name]
	return ok
}

// ParseMarketplace maps free-form input onto a known marketplace,
// defaulting when the value is empty or unrecognized.
func ParseMarketplace(value string) Marketplace {
	switch Marketplace(strings.ToLower(strings.TrimSpace(value))) {
	case MarketplaceShutterstock:
		return MarketplaceShutterstock
	case MarketplaceFreepik:
		return MarketplaceFreepik
	case MarketplaceAdobeStock:
		return MarketplaceAdobeStock
	case MarketplaceGeneral:
		return MarketplaceGeneral
	default:
		return DefaultMarketplace
	}
}

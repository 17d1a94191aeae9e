package domain

import "strings"

const (
	// TitleMaxLen is the hard character cap applied to normalized titles.
	TitleMaxLen = 120
	// DescriptionMaxLen is the hard character cap applied to normalized descriptions.
	DescriptionMaxLen = 200
	// KeywordCount is the exact number of keywords every normalized record carries.
	KeywordCount = 49
)

// Metadata is the marketplace-ready record generated for an asset.
// Keywords is a ", "-joined list. MainTag is only populated for
// single-tag marketplaces (or as a soft value elsewhere); Category1 and
// Category2 are set for the dual-category marketplace only and stay
// empty for everything else.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	MainTag     string `json:"mainTag,omitempty"`
	Category1   string `json:"category1,omitempty"`
	Category2   string `json:"category2,omitempty"`
}

// KeywordList splits the joined keyword field back into tokens.
func (m Metadata) KeywordList() []string {
	if strings.TrimSpace(m.Keywords) == "" {
		return nil
	}
	parts := strings.Split(m.Keywords, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsZero reports whether no metadata has been generated yet.
func (m Metadata) IsZero() bool {
	return m.Title == "" && m.Description == "" && m.Keywords == "" &&
		m.MainTag == "" && m.Category1 == "" && m.Category2 == ""
}

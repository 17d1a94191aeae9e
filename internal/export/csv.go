package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"stockmeta/internal/domain"
)

// Row is one exported asset: the filename plus its generated metadata.
type Row struct {
	Filename string
	Kind     domain.MediaKind
	Meta     domain.Metadata
}

// Header returns the CSV column set for the marketplace.
func Header(mp domain.Marketplace) []string {
	switch mp {
	case domain.MarketplaceShutterstock:
		return []string{"Filename", "Description", "Keywords", "Categories", "Editorial", "Mature Content", "Illustration"}
	case domain.MarketplaceFreepik:
		return []string{"Filename", "Title", "Description", "Keywords", "Main Tag"}
	case domain.MarketplaceAdobeStock:
		return []string{"Filename", "Title", "Keywords", "Category"}
	default:
		return []string{"Filename", "Title", "Description", "Keywords"}
	}
}

// Record renders one row in the marketplace's column order.
func Record(mp domain.Marketplace, row Row) []string {
	m := row.Meta
	switch mp {
	case domain.MarketplaceShutterstock:
		categories := m.Category1
		if m.Category2 != "" {
			categories = fmt.Sprintf("%s, %s", m.Category1, m.Category2)
		}
		illustration := "no"
		if row.Kind == domain.MediaKindVector {
			illustration = "yes"
		}
		return []string{row.Filename, m.Description, m.Keywords, categories, "no", "no", illustration}
	case domain.MarketplaceFreepik:
		return []string{row.Filename, m.Title, m.Description, m.Keywords, m.MainTag}
	case domain.MarketplaceAdobeStock:
		return []string{row.Filename, m.Title, m.Keywords, m.Category1}
	default:
		return []string{row.Filename, m.Title, m.Description, m.Keywords}
	}
}

// WriteCSV renders the marketplace CSV for the given rows. Cells are
// escaped per RFC 4180 by the writer.
func WriteCSV(w io.Writer, mp domain.Marketplace, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(mp)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(Record(mp, row)); err != nil {
			return fmt.Errorf("write row %q: %w", row.Filename, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename returns the suggested download name for the marketplace CSV.
func Filename(mp domain.Marketplace) string {
	return strings.ToLower(string(mp)) + "-metadata.csv"
}

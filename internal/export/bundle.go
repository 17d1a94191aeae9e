package export

import (
	"bytes"

	"stockmeta/internal/domain"
	"stockmeta/pkg/zip"
)

// BundleFile pairs an export row with the asset's binary content.
type BundleFile struct {
	Row  Row
	Data []byte
}

// Bundle packs the marketplace CSV together with the asset files into
// a single zip for download.
func Bundle(mp domain.Marketplace, files []BundleFile) ([]byte, error) {
	rows := make([]Row, len(files))
	for i, f := range files {
		rows[i] = f.Row
	}
	var csvBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, mp, rows); err != nil {
		return nil, err
	}
	entries := make([]zip.Entry, 0, len(files)+1)
	entries = append(entries, zip.Entry{Name: Filename(mp), Data: csvBuf.Bytes()})
	for _, f := range files {
		if len(f.Data) == 0 {
			continue
		}
		entries = append(entries, zip.Entry{Name: f.Row.Filename, Data: f.Data})
	}
	return zip.Archive(entries)
}

package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Entry is one file to place in the archive.
type Entry struct {
	Name string
	Data []byte
}

// Archive packs the entries into an in-memory zip. Entry names are used
// verbatim; callers are responsible for uniqueness.
func Archive(entries []Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("create %q: %w", entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("write %q: %w", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

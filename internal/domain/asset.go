package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// MediaKind enumerates the media types the pipeline understands.
type MediaKind string

const (
	MediaKindPhoto  MediaKind = "photo"
	MediaKindVector MediaKind = "vector"
	MediaKindVideo  MediaKind = "video"
)

// GenerationStatus tracks where an asset sits in the metadata pipeline.
type GenerationStatus string

const (
	StatusIdle    GenerationStatus = "idle"
	StatusPending GenerationStatus = "pending"
	StatusSuccess GenerationStatus = "success"
	StatusError   GenerationStatus = "error"
	StatusEditing GenerationStatus = "editing"
)

// Asset is one user-submitted media file tracked through the pipeline.
// The binary content lives in the file store; StorageKey points at it.
type Asset struct {
	ID         string
	Filename   string
	MIME       string
	Kind       MediaKind
	StorageKey string
	Bytes      int64
	Status     GenerationStatus
	Metadata   Metadata
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AssetView is the read-only slice of an asset the generation core
// receives. The core never mutates asset state; it returns a fresh
// Metadata value and leaves ownership with the caller.
type AssetView struct {
	Filename string
	MIME     string
	Kind     MediaKind
	Data     []byte
}

// InlineImage carries raw image bytes for model calls that accept
// inlined binary input.
type InlineImage struct {
	MIME string
	Data []byte
}

// View projects the asset into the form the generation core consumes.
func (a Asset) View(data []byte) AssetView {
	return AssetView{
		Filename: a.Filename,
		MIME:     a.MIME,
		Kind:     a.Kind,
		Data:     data,
	}
}

var vectorExtensions = map[string]struct{}{
	".svg": {},
	".eps": {},
	".ai":  {},
	".cdr": {},
}

// DetectKind classifies a file by MIME type first and extension second.
func DetectKind(filename, mime string) MediaKind {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if strings.HasPrefix(mime, "video/") {
		return MediaKindVideo
	}
	if mime == "image/svg+xml" || mime == "application/postscript" || mime == "application/illustrator" {
		return MediaKindVector
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := vectorExtensions[ext]; ok {
		return MediaKindVector
	}
	switch ext {
	case ".mp4", ".mov", ".webm", ".avi", ".mkv":
		return MediaKindVideo
	}
	return MediaKindPhoto
}

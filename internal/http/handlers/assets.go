package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"stockmeta/internal/domain"
)

// maxUploadBytes caps a single asset upload.
const maxUploadBytes = 50 << 20

type uploadRequest struct {
	Filename string `json:"filename"`
	MIME     string `json:"mime"`
	Data     string `json:"data"`
}

type assetResponse struct {
	ID        string                  `json:"id"`
	Filename  string                  `json:"filename"`
	MIME      string                  `json:"mime"`
	Kind      domain.MediaKind        `json:"kind"`
	Status    domain.GenerationStatus `json:"status"`
	Metadata  *domain.Metadata        `json:"metadata,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

func toAssetResponse(a domain.Asset) assetResponse {
	resp := assetResponse{
		ID:        a.ID,
		Filename:  a.Filename,
		MIME:      a.MIME,
		Kind:      a.Kind,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
	if !a.Metadata.IsZero() {
		meta := a.Metadata
		resp.Metadata = &meta
	}
	return resp
}

// UploadAsset registers one media file: JSON body with base64 content.
func (a *App) UploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	var req uploadRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	filename := sanitizeFilename(req.Filename)
	if filename == "" {
		a.writeError(w, http.StatusBadRequest, "filename is required")
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil || len(data) == 0 {
		a.writeError(w, http.StatusBadRequest, "data must be non-empty base64")
		return
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("uploads/%s/%s", id, filename)
	key, err := a.Files.Write(r.Context(), storageKey, data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: store upload")
		a.writeError(w, http.StatusInternalServerError, "failed to store asset")
		return
	}

	asset := domain.Asset{
		ID:         id,
		Filename:   filename,
		MIME:       req.MIME,
		Kind:       domain.DetectKind(filename, req.MIME),
		StorageKey: key,
		Bytes:      int64(len(data)),
		Status:     domain.StatusIdle,
	}
	if _, err := a.Assets.Insert(r.Context(), asset); err != nil {
		a.Logger.Error().Err(err).Msg("handlers: insert asset")
		a.writeError(w, http.StatusInternalServerError, "failed to register asset")
		return
	}
	a.writeJSON(w, http.StatusCreated, toAssetResponse(asset))
}

// ListAssets returns every registered asset with its current status.
func (a *App) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := a.Assets.List(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: list assets")
		a.writeError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}
	out := make([]assetResponse, len(assets))
	for i, asset := range assets {
		out[i] = toAssetResponse(asset)
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"assets": out})
}

// DeleteAsset removes an asset registration. The stored file is left
// for the retention sweep; only the row disappears.
func (a *App) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := a.Assets.Get(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			a.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		a.writeError(w, http.StatusInternalServerError, "failed to load asset")
		return
	}
	if err := a.Assets.Delete(r.Context(), id); err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to delete asset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return path.Base(strings.ReplaceAll(name, "\\", "/"))
}

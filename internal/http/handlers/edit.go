package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"stockmeta/internal/domain"
)

type editRequest struct {
	Instruction string `json:"instruction"`
}

// EditAsset sends a static image plus a free-text instruction to the
// multimodal model and returns the edited image as a data URI. The
// stored original is untouched.
func (a *App) EditAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	asset, err := a.Assets.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			a.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		a.writeError(w, http.StatusInternalServerError, "failed to load asset")
		return
	}
	if asset.Kind == domain.MediaKindVideo {
		a.writeError(w, http.StatusUnprocessableEntity, "video assets cannot be edited")
		return
	}

	var req editRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Instruction) == "" {
		a.writeError(w, http.StatusBadRequest, "instruction is required")
		return
	}

	data, err := a.Files.Read(r.Context(), asset.StorageKey)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to read asset content")
		return
	}

	prior := asset.Status
	if err := a.Assets.SetStatus(r.Context(), id, domain.StatusEditing); err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}
	defer func() {
		_ = a.Assets.SetStatus(r.Context(), id, prior)
	}()

	uri, err := a.Editor.EditImage(r.Context(), domain.InlineImage{MIME: asset.MIME, Data: data}, req.Instruction)
	if err != nil {
		a.Logger.Warn().Err(err).Str("asset_id", id).Msg("handlers: image edit failed")
		a.writeError(w, statusForError(err), err.Error())
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"image": uri})
}

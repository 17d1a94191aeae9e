package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stockmeta/internal/domain"
	"stockmeta/internal/middleware"
)

type generateRequest struct {
	Marketplace string `json:"marketplace"`
}

// GenerateMetadata runs the generation pipeline for one asset: load
// bytes, load engine settings, call the orchestrator, persist the
// normalized metadata. Failures mark only this asset; concurrent
// requests for other assets are unaffected.
func (a *App) GenerateMetadata(w http.ResponseWriter, r *http.Request) {
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

	var req generateRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	mp := resolveMarketplace(r, req.Marketplace)

	engine, err := a.Settings.Load(r.Context())
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to load engine settings")
		return
	}

	data, err := a.Files.Read(r.Context(), asset.StorageKey)
	if err != nil {
		a.Logger.Error().Err(err).Str("asset_id", id).Msg("handlers: read asset bytes")
		a.writeError(w, http.StatusInternalServerError, "failed to read asset content")
		return
	}

	if err := a.Assets.SetStatus(r.Context(), id, domain.StatusPending); err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	meta, err := a.Generator.Generate(r.Context(), asset.View(data), mp, engine)
	if err != nil {
		_ = a.Assets.SetStatus(r.Context(), id, domain.StatusError)
		a.Logger.Warn().Err(err).Str("asset_id", id).Str("marketplace", string(mp)).Msg("handlers: generation failed")
		a.writeError(w, statusForError(err), err.Error())
		return
	}

	if err := a.Assets.SaveMetadata(r.Context(), id, meta); err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to persist metadata")
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{
		"id":          id,
		"marketplace": mp,
		"metadata":    meta,
	})
}

// resolveMarketplace picks the explicit marketplace when given, and the
// request region's default otherwise.
func resolveMarketplace(r *http.Request, value string) domain.Marketplace {
	if value != "" {
		return domain.ParseMarketplace(value)
	}
	if q := r.URL.Query().Get("marketplace"); q != "" {
		return domain.ParseMarketplace(q)
	}
	return middleware.DefaultMarketplaceFor(middleware.CountryFromContext(r.Context()))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNoImageReturned):
		return http.StatusBadGateway
	case domain.IsProviderError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

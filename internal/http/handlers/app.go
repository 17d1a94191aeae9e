package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"stockmeta/internal/adapter/repo"
	"stockmeta/internal/domain"
	"stockmeta/internal/storage"
)

// MetadataGenerator is the slice of the generation orchestrator the
// handlers need.
type MetadataGenerator interface {
	Generate(ctx context.Context, asset domain.AssetView, mp domain.Marketplace, engine domain.EngineContext) (domain.Metadata, error)
}

// ImageEditor applies a free-text edit instruction to a static image
// and returns a displayable data URI.
type ImageEditor interface {
	EditImage(ctx context.Context, image domain.InlineImage, instruction string) (string, error)
}

// App is the handler container holding every dependency the HTTP
// surface needs.
type App struct {
	Logger    zerolog.Logger
	Assets    *repo.AssetRepository
	Settings  *repo.SettingsRepository
	Files     *storage.FileStore
	Generator MetadataGenerator
	Editor    ImageEditor
}

// NewApp wires the handler container.
func NewApp(logger zerolog.Logger, assets *repo.AssetRepository, settings *repo.SettingsRepository, files *storage.FileStore, generator MetadataGenerator, editor ImageEditor) *App {
	return &App{
		Logger:    logger,
		Assets:    assets,
		Settings:  settings,
		Files:     files,
		Generator: generator,
		Editor:    editor,
	}
}

func (a *App) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) writeError(w http.ResponseWriter, code int, message string) {
	a.writeJSON(w, code, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v any) error {
	defer func() {
		_ = r.Body.Close()
	}()
	return json.NewDecoder(r.Body).Decode(v)
}

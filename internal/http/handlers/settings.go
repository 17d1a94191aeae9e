package handlers

import (
	"net/http"
	"strings"

	"stockmeta/internal/domain"
)

type settingsRequest struct {
	Engine     string `json:"engine"`
	ChatAPIKey string `json:"chat_api_key"`
}

type settingsResponse struct {
	Engine     domain.Engine `json:"engine"`
	ChatKeySet bool          `json:"chat_key_set"`
}

// GetEngineSettings returns the persisted engine selection. The stored
// credential is write-only and surfaces as a boolean.
func (a *App) GetEngineSettings(w http.ResponseWriter, r *http.Request) {
	ec, err := a.Settings.Load(r.Context())
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	a.writeJSON(w, http.StatusOK, settingsResponse{
		Engine:     ec.Engine,
		ChatKeySet: strings.TrimSpace(ec.Credential) != "",
	})
}

// PutEngineSettings upserts the engine selection and, when supplied,
// the chat engine API key.
func (a *App) PutEngineSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	engine := domain.ParseEngine(req.Engine)
	key := strings.TrimSpace(req.ChatAPIKey)
	if engine == domain.EngineGroq && key != "" && len(key) < domain.MinChatCredentialLen {
		a.writeError(w, http.StatusUnprocessableEntity, "chat api key is implausibly short")
		return
	}
	if err := a.Settings.Save(r.Context(), domain.EngineContext{Engine: engine, Credential: key}); err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	ec, err := a.Settings.Load(r.Context())
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	a.writeJSON(w, http.StatusOK, settingsResponse{
		Engine:     ec.Engine,
		ChatKeySet: strings.TrimSpace(ec.Credential) != "",
	})
}

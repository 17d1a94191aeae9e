package repo

import (
	"context"
	"fmt"

	"stockmeta/internal/domain"
	"stockmeta/internal/infra"
	"stockmeta/internal/sqlinline"
)

// SettingsRepository is the persisted-state store for the engine
// selection and the chat engine credential. The generation core never
// reads it; handlers load values here and pass them in as parameters.
type SettingsRepository struct {
	sql infra.SQLExecutor
}

// NewSettingsRepository constructs a new settings repository instance.
func NewSettingsRepository(sql infra.SQLExecutor) *SettingsRepository {
	return &SettingsRepository{sql: sql}
}

// Load returns the stored engine context. When nothing has been saved
// yet it returns the vision engine default with no credential.
func (r *SettingsRepository) Load(ctx context.Context) (domain.EngineContext, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectEngineSettings)
	var engine, key string
	if err := row.Scan(&engine, &key); err != nil {
		if infra.IsNoRows(err) {
			return domain.EngineContext{Engine: domain.EngineGemini}, nil
		}
		return domain.EngineContext{}, fmt.Errorf("load engine settings: %w", err)
	}
	return domain.EngineContext{Engine: domain.ParseEngine(engine), Credential: key}, nil
}

// Save upserts the engine selection. An empty credential leaves any
// previously stored key untouched so clients can update the engine
// without resubmitting the secret.
func (r *SettingsRepository) Save(ctx context.Context, ec domain.EngineContext) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QUpsertEngineSettings, string(ec.Engine), ec.Credential); err != nil {
		return fmt.Errorf("save engine settings: %w", err)
	}
	return nil
}

package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"stockmeta/internal/domain"
	"stockmeta/internal/infra"
	"stockmeta/internal/sqlinline"
)

// AssetRepository persists assets and their generated metadata.
type AssetRepository struct {
	sql infra.SQLExecutor
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(sql infra.SQLExecutor) *AssetRepository {
	return &AssetRepository{sql: sql}
}

// Insert stores a freshly uploaded asset and returns its id.
func (r *AssetRepository) Insert(ctx context.Context, asset domain.Asset) (string, error) {
	id := asset.ID
	if id == "" {
		id = uuid.NewString()
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertAsset,
		id, asset.Filename, asset.MIME, string(asset.Kind), asset.StorageKey, asset.Bytes)
	var inserted string
	if err := row.Scan(&inserted); err != nil {
		return "", fmt.Errorf("insert asset: %w", err)
	}
	return inserted, nil
}

// Get returns the asset with the given id, or domain.ErrAssetNotFound.
func (r *AssetRepository) Get(ctx context.Context, id string) (domain.Asset, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAssetByID, id)
	asset, err := scanAsset(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return domain.Asset{}, domain.ErrAssetNotFound
		}
		return domain.Asset{}, fmt.Errorf("select asset: %w", err)
	}
	return asset, nil
}

// List returns all assets in upload order.
func (r *AssetRepository) List(ctx context.Context) ([]domain.Asset, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAssets)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

// SetStatus transitions the asset's generation status.
func (r *AssetRepository) SetStatus(ctx context.Context, id string, status domain.GenerationStatus) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QUpdateAssetStatus, id, string(status)); err != nil {
		return fmt.Errorf("update asset status: %w", err)
	}
	return nil
}

// SaveMetadata stores the generated metadata and marks the asset
// successful in one statement.
func (r *AssetRepository) SaveMetadata(ctx context.Context, id string, meta domain.Metadata) error {
	_, err := r.sql.Exec(ctx, sqlinline.QSaveAssetMetadata,
		id, meta.Title, meta.Description, meta.Keywords, meta.MainTag, meta.Category1, meta.Category2)
	if err != nil {
		return fmt.Errorf("save asset metadata: %w", err)
	}
	return nil
}

// Delete removes the asset row.
func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QDeleteAsset, id); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (domain.Asset, error) {
	var a domain.Asset
	var kind, status string
	err := row.Scan(
		&a.ID, &a.Filename, &a.MIME, &kind, &a.StorageKey, &a.Bytes, &status,
		&a.Metadata.Title, &a.Metadata.Description, &a.Metadata.Keywords,
		&a.Metadata.MainTag, &a.Metadata.Category1, &a.Metadata.Category2,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Asset{}, err
	}
	a.Kind = domain.MediaKind(kind)
	a.Status = domain.GenerationStatus(status)
	return a, nil
}

package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stockmeta/internal/domain"
	"stockmeta/internal/sqlinline"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

// testSQL is an in-memory SQLExecutor that dispatches on the inline
// query constants the repositories use.
type testSQL struct {
	assets    []domain.Asset
	engine    string
	chatKey   string
	statusLog []string
}

func (s *testSQL) findAsset(id string) (int, bool) {
	for i, a := range s.assets {
		if a.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *testSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	switch query {
	case sqlinline.QUpdateAssetStatus:
		id, status := args[0].(string), args[1].(string)
		s.statusLog = append(s.statusLog, status)
		if i, ok := s.findAsset(id); ok {
			s.assets[i].Status = domain.GenerationStatus(status)
		}
		return pgconn.CommandTag{}, nil
	case sqlinline.QSaveAssetMetadata:
		id := args[0].(string)
		if i, ok := s.findAsset(id); ok {
			s.assets[i].Metadata = domain.Metadata{
				Title:       args[1].(string),
				Description: args[2].(string),
				Keywords:    args[3].(string),
				MainTag:     args[4].(string),
				Category1:   args[5].(string),
				Category2:   args[6].(string),
			}
			s.assets[i].Status = domain.StatusSuccess
		}
		s.statusLog = append(s.statusLog, string(domain.StatusSuccess))
		return pgconn.CommandTag{}, nil
	case sqlinline.QDeleteAsset:
		id := args[0].(string)
		if i, ok := s.findAsset(id); ok {
			s.assets = append(s.assets[:i], s.assets[i+1:]...)
		}
		return pgconn.CommandTag{}, nil
	case sqlinline.QUpsertEngineSettings:
		s.engine = args[0].(string)
		if key := args[1].(string); key != "" {
			s.chatKey = key
		}
		return pgconn.CommandTag{}, nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", query)
}

func (s *testSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	switch query {
	case sqlinline.QInsertAsset:
		asset := domain.Asset{
			ID:         args[0].(string),
			Filename:   args[1].(string),
			MIME:       args[2].(string),
			Kind:       domain.MediaKind(args[3].(string)),
			StorageKey: args[4].(string),
			Bytes:      args[5].(int64),
			Status:     domain.StatusIdle,
			CreatedAt:  time.Now().UTC(),
			UpdatedAt:  time.Now().UTC(),
		}
		s.assets = append(s.assets, asset)
		return simpleRow{scan: func(dest ...any) error {
			*(dest[0].(*string)) = asset.ID
			return nil
		}}
	case sqlinline.QSelectAssetByID:
		i, ok := s.findAsset(args[0].(string))
		if !ok {
			return simpleRow{}
		}
		asset := s.assets[i]
		return simpleRow{scan: func(dest ...any) error {
			return scanAssetInto(asset, dest)
		}}
	case sqlinline.QSelectEngineSettings:
		if s.engine == "" {
			return simpleRow{}
		}
		return simpleRow{scan: func(dest ...any) error {
			*(dest[0].(*string)) = s.engine
			*(dest[1].(*string)) = s.chatKey
			return nil
		}}
	}
	return simpleRow{scan: func(...any) error {
		return fmt.Errorf("unexpected query_row: %s", query)
	}}
}

func (s *testSQL) Query(_ context.Context, query string, _ ...any) (pgx.Rows, error) {
	if query != sqlinline.QListAssets {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	return &assetRowsIterator{rows: append([]domain.Asset(nil), s.assets...)}, nil
}

type assetRowsIterator struct {
	testRowsBase
	rows []domain.Asset
	idx  int
}

func (it *assetRowsIterator) Next() bool {
	if it.idx >= len(it.rows) {
		return false
	}
	it.idx++
	return true
}

func (it *assetRowsIterator) Scan(dest ...any) error {
	if it.idx == 0 || it.idx > len(it.rows) {
		return pgx.ErrNoRows
	}
	return scanAssetInto(it.rows[it.idx-1], dest)
}

func (it *assetRowsIterator) Err() error { return nil }

func (it *assetRowsIterator) Close() {}

// scanAssetInto writes an asset into the repository's scan targets in
// column order.
func scanAssetInto(a domain.Asset, dest []any) error {
	if len(dest) != 15 {
		return fmt.Errorf("unexpected scan args: %d", len(dest))
	}
	*(dest[0].(*string)) = a.ID
	*(dest[1].(*string)) = a.Filename
	*(dest[2].(*string)) = a.MIME
	*(dest[3].(*string)) = string(a.Kind)
	*(dest[4].(*string)) = a.StorageKey
	*(dest[5].(*int64)) = a.Bytes
	*(dest[6].(*string)) = string(a.Status)
	*(dest[7].(*string)) = a.Metadata.Title
	*(dest[8].(*string)) = a.Metadata.Description
	*(dest[9].(*string)) = a.Metadata.Keywords
	*(dest[10].(*string)) = a.Metadata.MainTag
	*(dest[11].(*string)) = a.Metadata.Category1
	*(dest[12].(*string)) = a.Metadata.Category2
	*(dest[13].(*time.Time)) = a.CreatedAt
	*(dest[14].(*time.Time)) = a.UpdatedAt
	return nil
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"stockmeta/internal/domain"
	"stockmeta/internal/export"
	"stockmeta/internal/middleware"
)

// ExportCSV streams the marketplace CSV for every asset that has
// generated metadata.
func (a *App) ExportCSV(w http.ResponseWriter, r *http.Request) {
	mp := exportMarketplace(r)
	rows, _, err := a.exportRows(r, mp, false)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to collect assets")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(mp)))
	if err := export.WriteCSV(w, mp, rows); err != nil {
		a.Logger.Error().Err(err).Msg("handlers: write csv")
	}
}

// ExportBundle streams a zip holding the marketplace CSV next to the
// asset files themselves, ready for a bulk upload.
func (a *App) ExportBundle(w http.ResponseWriter, r *http.Request) {
	mp := exportMarketplace(r)
	_, files, err := a.exportRows(r, mp, true)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to collect assets")
		return
	}
	blob, err := export.Bundle(mp, files)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: build bundle")
		a.writeError(w, http.StatusInternalServerError, "failed to build bundle")
		return
	}
	name := strings.TrimSuffix(export.Filename(mp), ".csv") + ".zip"
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(blob)
}

func (a *App) exportRows(r *http.Request, mp domain.Marketplace, withData bool) ([]export.Row, []export.BundleFile, error) {
	assets, err := a.Assets.List(r.Context())
	if err != nil {
		return nil, nil, err
	}
	var rows []export.Row
	var files []export.BundleFile
	for _, asset := range assets {
		if asset.Status != domain.StatusSuccess || asset.Metadata.IsZero() {
			continue
		}
		row := export.Row{Filename: asset.Filename, Kind: asset.Kind, Meta: asset.Metadata}
		rows = append(rows, row)
		if !withData {
			continue
		}
		data, err := a.Files.Read(r.Context(), asset.StorageKey)
		if err != nil {
			a.Logger.Warn().Err(err).Str("asset_id", asset.ID).Msg("handlers: skip unreadable asset in bundle")
			data = nil
		}
		files = append(files, export.BundleFile{Row: row, Data: data})
	}
	return rows, files, nil
}

func exportMarketplace(r *http.Request) domain.Marketplace {
	if q := r.URL.Query().Get("marketplace"); q != "" {
		return domain.ParseMarketplace(q)
	}
	return middleware.DefaultMarketplaceFor(middleware.CountryFromContext(r.Context()))
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"stockmeta/internal/domain"
	"stockmeta/internal/middleware"
)

func TestGenerateMetadataSuccess(t *testing.T) {
	sql := &testSQL{engine: "groq", chatKey: "gsk_0123456789"}
	app, files := newTestApp(t, sql)
	seedAsset(t, sql, files, "a1", domain.MediaKindPhoto, domain.StatusIdle)

	var gotMP domain.Marketplace
	var gotEngine domain.EngineContext
	var gotData string
	app.Generator = &fakeGenerator{fn: func(_ context.Context, asset domain.AssetView, mp domain.Marketplace, engine domain.EngineContext) (domain.Metadata, error) {
		gotMP, gotEngine, gotData = mp, engine, string(asset.Data)
		return domain.Metadata{Title: "t", Description: "d", Keywords: "k", MainTag: "tag"}, nil
	}}

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/v1/assets/a1/generate",
		strings.NewReader(`{"marketplace":"freepik"}`)), "id", "a1")
	rr := httptest.NewRecorder()
	app.GenerateMetadata(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if gotMP != domain.MarketplaceFreepik {
		t.Fatalf("marketplace = %q", gotMP)
	}
	if gotEngine.Engine != domain.EngineGroq || gotEngine.Credential != "gsk_0123456789" {
		t.Fatalf("engine = %+v, want stored settings passed through", gotEngine)
	}
	if gotData != "bytes-a1" {
		t.Fatalf("asset data = %q", gotData)
	}
	if want := []string{"pending", "success"}; !reflect.DeepEqual(sql.statusLog, want) {
		t.Fatalf("status transitions = %v, want %v", sql.statusLog, want)
	}
	if sql.assets[0].Metadata.Title != "t" {
		t.Fatalf("persisted metadata = %+v", sql.assets[0].Metadata)
	}

	var payload struct {
		Metadata domain.Metadata `json:"metadata"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Metadata.MainTag != "tag" {
		t.Fatalf("response metadata = %+v", payload.Metadata)
	}
}

func TestGenerateMetadataNotFound(t *testing.T) {
	app, _ := newTestApp(t, &testSQL{})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/v1/assets/nope/generate", nil), "id", "nope")
	rr := httptest.NewRecorder()
	app.GenerateMetadata(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestGenerateMetadataFailureMarksAsset(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing credential", domain.ErrMissingCredential, http.StatusUnprocessableEntity},
		{"malformed response", domain.ErrMalformedResponse, http.StatusBadGateway},
		{"provider error", &domain.ProviderError{Provider: "gemini", Status: 500, Message: "boom"}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sql := &testSQL{engine: "gemini"}
			app, files := newTestApp(t, sql)
			seedAsset(t, sql, files, "a1", domain.MediaKindPhoto, domain.StatusIdle)
			app.Generator = &fakeGenerator{fn: func(context.Context, domain.AssetView, domain.Marketplace, domain.EngineContext) (domain.Metadata, error) {
				return domain.Metadata{}, tc.err
			}}

			req := withURLParam(httptest.NewRequest(http.MethodPost, "/v1/assets/a1/generate", nil), "id", "a1")
			rr := httptest.NewRecorder()
			app.GenerateMetadata(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
			if want := []string{"pending", "error"}; !reflect.DeepEqual(sql.statusLog, want) {
				t.Fatalf("status transitions = %v, want %v", sql.statusLog, want)
			}
		})
	}
}

func TestGenerateMetadataRegionDefault(t *testing.T) {
	sql := &testSQL{engine: "gemini"}
	app, files := newTestApp(t, sql)
	seedAsset(t, sql, files, "a1", domain.MediaKindPhoto, domain.StatusIdle)

	var gotMP domain.Marketplace
	app.Generator = &fakeGenerator{fn: func(_ context.Context, _ domain.AssetView, mp domain.Marketplace, _ domain.EngineContext) (domain.Metadata, error) {
		gotMP = mp
		return domain.Metadata{Title: "t", Description: "d", Keywords: "k"}, nil
	}}

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/v1/assets/a1/generate", nil), "id", "a1")
	req = req.WithContext(context.WithValue(req.Context(), middleware.CountryKey, "ES"))
	app.GenerateMetadata(httptest.NewRecorder(), req)
	if gotMP != domain.MarketplaceFreepik {
		t.Fatalf("marketplace = %q, want the region default", gotMP)
	}

	req = withURLParam(httptest.NewRequest(http.MethodPost, "/v1/assets/a1/generate?marketplace=adobestock", nil), "id", "a1")
	req = req.WithContext(context.WithValue(req.Context(), middleware.CountryKey, "ES"))
	app.GenerateMetadata(httptest.NewRecorder(), req)
	if gotMP != domain.MarketplaceAdobeStock {
		t.Fatalf("marketplace = %q, want the explicit query value", gotMP)
	}
}

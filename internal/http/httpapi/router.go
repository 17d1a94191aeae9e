package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"stockmeta/internal/http/handlers"
	"stockmeta/internal/middleware"
)

// Options bundles the router's optional collaborators.
type Options struct {
	Logger          zerolog.Logger
	CORSOrigins     []string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
}

// NewRouter assembles the chi router with the standard middleware chain.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.Region(opts.CountryLookup),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/assets", func(r chi.Router) {
		r.Post("/", app.UploadAsset)
		r.Get("/", app.ListAssets)
		r.Delete("/{id}", app.DeleteAsset)
		r.Post("/{id}/generate", app.GenerateMetadata)
		r.Post("/{id}/edit", app.EditAsset)
	})

	r.Get("/v1/export", app.ExportCSV)
	r.Get("/v1/export/bundle", app.ExportBundle)

	r.Route("/v1/settings", func(r chi.Router) {
		r.Get("/engine", app.GetEngineSettings)
		r.Put("/engine", app.PutEngineSettings)
	})

	return r
}

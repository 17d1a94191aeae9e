package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stockmeta/internal/adapter/repo"
	"stockmeta/internal/http/handlers"
	"stockmeta/internal/http/httpapi"
	"stockmeta/internal/infra"
	"stockmeta/internal/infra/geoip"
	"stockmeta/internal/metagen"
	"stockmeta/internal/middleware"
	"stockmeta/internal/providers/genai"
	"stockmeta/internal/providers/groq"
	"stockmeta/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	runner := infra.NewSQLRunner(dbpool, logger)

	files, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open file store")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	gemini := genai.NewClient(genai.Options{
		APIKey:    cfg.GeminiAPIKey,
		BaseURL:   cfg.GeminiBaseURL,
		Model:     cfg.GeminiModel,
		EditModel: cfg.GeminiEditModel,
		Logger:    logger,
	})
	chat := groq.NewClient(groq.Options{
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.GroqModel,
	})
	service := metagen.NewService(metagen.Options{
		Vision: gemini,
		Chat:   chat,
		Logger: logger,
	})

	app := handlers.NewApp(
		logger,
		repo.NewAssetRepository(runner),
		repo.NewSettingsRepository(runner),
		files,
		service,
		gemini,
	)

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		CORSOrigins:     cfg.CORSOrigins,
		CountryLookup:   lookup,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

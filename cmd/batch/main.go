package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"stockmeta/internal/domain"
	"stockmeta/internal/export"
	"stockmeta/internal/infra"
	"stockmeta/internal/metagen"
	"stockmeta/internal/providers/genai"
	"stockmeta/internal/providers/groq"
)

var mediaExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {}, ".gif": {},
	".svg": {}, ".eps": {}, ".ai": {},
	".mp4": {}, ".mov": {}, ".webm": {},
}

func main() {
	_ = godotenv.Load()

	dir := flag.String("dir", ".", "directory of media files to process")
	marketplace := flag.String("marketplace", string(domain.DefaultMarketplace), "target marketplace: shutterstock, freepik, adobestock, general")
	engine := flag.String("engine", string(domain.EngineGemini), "generation engine: gemini or groq")
	out := flag.String("out", "", "output CSV path (stdout when empty)")
	concurrency := flag.Int("concurrency", 4, "max in-flight generation calls")
	flag.Parse()

	logger := infra.NewLogger(os.Getenv("APP_ENV"))

	gemini := genai.NewClient(genai.Options{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Logger: logger,
	})
	chat := groq.NewClient(groq.Options{})
	service := metagen.NewService(metagen.Options{
		Vision: gemini,
		Chat:   chat,
		Logger: logger,
	})

	mp := domain.ParseMarketplace(*marketplace)
	ec := domain.EngineContext{
		Engine:     domain.ParseEngine(*engine),
		Credential: os.Getenv("GROQ_API_KEY"),
	}

	paths, err := collectMediaFiles(*dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("batch: scan directory")
	}
	if len(paths) == 0 {
		logger.Fatal().Str("dir", *dir).Msg("batch: no media files found")
	}

	// The generation core is concurrency-free; the fan-out and its
	// ceiling live here, in the caller.
	rows := make([]export.Row, len(paths))
	failed := make([]bool, len(paths))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			row, err := generateOne(ctx, service, path, mp, ec)
			if err != nil {
				logger.Error().Err(err).Str("file", path).Msg("batch: generation failed")
				failed[i] = true
				return nil
			}
			rows[i] = row
			logger.Info().Str("file", path).Msg("batch: metadata generated")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("batch: aborted")
	}

	ok := rows[:0:0]
	for i, row := range rows {
		if !failed[i] {
			ok = append(ok, row)
		}
	}

	dest := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Fatal().Err(err).Msg("batch: create output")
		}
		defer func() {
			_ = f.Close()
		}()
		dest = f
	}
	if err := export.WriteCSV(dest, mp, ok); err != nil {
		logger.Fatal().Err(err).Msg("batch: write csv")
	}
	logger.Info().Int("total", len(paths)).Int("exported", len(ok)).Msg("batch: done")
}

func generateOne(ctx context.Context, service *metagen.Service, path string, mp domain.Marketplace, ec domain.EngineContext) (export.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return export.Row{}, fmt.Errorf("read file: %w", err)
	}
	filename := filepath.Base(path)
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	kind := domain.DetectKind(filename, mimeType)
	asset := domain.AssetView{
		Filename: filename,
		MIME:     mimeType,
		Kind:     kind,
		Data:     data,
	}
	meta, err := service.Generate(ctx, asset, mp, ec)
	if err != nil {
		return export.Row{}, err
	}
	return export.Row{Filename: filename, Kind: kind, Meta: meta}, nil
}

func collectMediaFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := mediaExtensions[ext]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

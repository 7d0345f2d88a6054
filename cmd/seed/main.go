package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"bayan-ai-be/internal/config"
	"bayan-ai-be/internal/mapper"
	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/internal/repository/contract"
	"bayan-ai-be/internal/repository/implementation"
	"bayan-ai-be/pkg/database"
	"bayan-ai-be/pkg/embedding"

	"golang.org/x/sync/errgroup"
)

func main() {
	file := flag.String("file", "data/juz30.json", "verse dataset (JSON)")
	workers := flag.Int("workers", 4, "concurrent embedding requests")
	flag.Parse()

	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.ParseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Error: Failed to open dataset: %v", err)
	}
	defer f.Close()

	verseMapper := mapper.NewVerseMapper()
	ds, err := loadDataset(f, verseMapper)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	sysLogger.Info("Seed", "Dataset loaded", map[string]interface{}{
		"verses":     len(ds.Items),
		"categories": len(ds.Categories),
		"skipped":    ds.Skipped,
	})

	embedder, err := embedding.NewEmbeddingProvider(embedding.FactoryConfig{
		Provider:   cfg.Ai.EmbeddingProvider,
		Model:      cfg.Ai.EmbeddingModel,
		BaseURL:    embeddingBaseURL(cfg),
		APIKey:     cfg.Ai.OpenAIKey,
		Dimensions: cfg.Ai.EmbeddingDimensions,
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	repo := implementation.NewVerseRepository(db)
	ctx := context.Background()

	if err := repo.EnsureCategories(ctx, ds.Categories); err != nil {
		if errors.Is(err, contract.ErrNotMigrated) {
			log.Fatal("Error: tables are missing, run cmd/migrate first")
		}
		log.Fatalf("Error: Failed to seed categories: %v", err)
	}

	var done atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)

	for _, item := range ds.Items {
		g.Go(func() error {
			if err := seedVerse(gCtx, repo, embedder, verseMapper, item, cfg); err != nil {
				return err
			}
			if n := done.Add(1); n%50 == 0 {
				sysLogger.Info("Seed", "Progress", map[string]interface{}{"done": n, "total": len(ds.Items)})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Error: Seeding stopped: %v", err)
	}

	sysLogger.Info("Seed", "Seeding completed", map[string]interface{}{"verses": done.Load()})
}

func seedVerse(
	ctx context.Context,
	repo *implementation.VerseRepositoryImpl,
	embedder embedding.EmbeddingProvider,
	verseMapper *mapper.VerseMapper,
	item seedItem,
	cfg *config.Config,
) error {
	embedCtx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Embed)
	defer cancel()

	res, err := embedder.Generate(embedCtx, item.Record.Translation, embedding.TaskRetrievalDocument)
	if err != nil {
		return fmt.Errorf("embed %s:%d: %w", item.Record.Surah, item.Record.Verse, err)
	}

	v, err := verseMapper.ToModel(item.Record, res.Embedding.Values, item.Row)
	if err != nil {
		return err
	}
	return repo.Upsert(ctx, v, item.CategoryIDs)
}

func embeddingBaseURL(cfg *config.Config) string {
	if cfg.Ai.EmbeddingProvider == "openai" {
		return cfg.Ai.OpenAIBaseURL
	}
	return cfg.Ai.OllamaBaseURL
}

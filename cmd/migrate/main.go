package main

import (
	"log"

	"bayan-ai-be/internal/config"
	"bayan-ai-be/internal/model"
	"bayan-ai-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.ParseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Extensions and AutoMigrate...")
	if err := database.Migrate(db, &model.Verse{}, &model.Category{}, &model.VerseCategory{}); err != nil {
		log.Fatalf("Error: Migration failed: %v", err)
	}

	log.Println("Step 2: Vector index...")
	if err := database.CreateVectorIndex(db, "verses", "embedding"); err != nil {
		log.Printf("Warn: Failed to create vector index: %v", err)
	}

	log.Println("✅ Success: Database migration completed.")
}

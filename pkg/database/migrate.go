package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate enables pgvector and creates or updates the given tables. The vector
// type must exist before AutoMigrate sees a vector(...) column.
func Migrate(db *gorm.DB, models ...interface{}) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// CreateVectorIndex adds an HNSW cosine index on table.column when missing
func CreateVectorIndex(db *gorm.DB, table, column string) error {
	stmt := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS idx_%s_%s_hnsw ON %s USING hnsw (%s vector_cosine_ops)",
		table, column, table, column,
	)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create vector index on %s.%s: %w", table, column, err)
	}
	return nil
}

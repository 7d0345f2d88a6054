package contract

import (
	"context"
	"errors"

	"bayan-ai-be/pkg/store"
)

// ErrNotMigrated is returned when the verse tables do not exist yet
var ErrNotMigrated = errors.New("verse tables are missing, run migrations first")

type VerseRepository interface {
	// SearchSimilar returns at most limit verses whose cosine similarity to
	// embedding is >= threshold. Order is not guaranteed.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, threshold float64) ([]store.VerseRecord, error)
	FindByCategory(ctx context.Context, categoryID int) ([]store.VerseRecord, error)
	// FindByRef returns nil, nil when the verse does not exist
	FindByRef(ctx context.Context, surah string, verse int) (*store.VerseRecord, error)
	Count(ctx context.Context) (int64, error)
}

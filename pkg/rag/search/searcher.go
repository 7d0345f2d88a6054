package search

import (
	"context"
	"fmt"
	"time"

	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/internal/repository/contract"
	"bayan-ai-be/pkg/lexical"
	"bayan-ai-be/pkg/store"
)

// Searcher runs the merged category + vector retrieval
type Searcher struct {
	repo   contract.VerseRepository
	logger logger.ILogger
	config Config
}

// Config encapsulates search parameters
type Config struct {
	Timeout       time.Duration
	WorldlyFilter bool
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		Timeout:       15 * time.Second,
		WorldlyFilter: true,
	}
}

// Query is one merged search request. Text is the user's own wording, never
// the enriched topic: it drives category detection and the worldly guard.
type Query struct {
	Embedding []float32
	Text      string
	Limit     int
	Threshold float64
}

func NewSearcher(repo contract.VerseRepository, log logger.ILogger, cfg Config) *Searcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Searcher{repo: repo, logger: log, config: cfg}
}

// Search returns the deduplicated, sorted union of category and vector hits.
func (s *Searcher) Search(ctx context.Context, q Query) ([]store.VerseRecord, error) {
	var categoryHits []store.VerseRecord
	if cat, ok := lexical.DetectCategory(q.Text); ok {
		hits, err := s.byCategory(ctx, cat.ID)
		if err != nil {
			return nil, err
		}
		categoryHits = hits
		s.logger.Debug("Search", "Category match", map[string]interface{}{
			"category": cat.Name,
			"hits":     len(hits),
		})
	}

	vectorHits, err := s.similar(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.config.WorldlyFilter && lexical.MentionsWorldly(q.Text) {
		before := len(vectorHits)
		vectorHits = ExcludeAfterlifeOnly(vectorHits)
		s.logger.Debug("Search", "Worldly filter applied", map[string]interface{}{
			"before": before,
			"after":  len(vectorHits),
		})
	}

	merged := Merge(categoryHits, vectorHits)
	s.logger.Debug("Search", "Merged results", map[string]interface{}{
		"category": len(categoryHits),
		"vector":   len(vectorHits),
		"merged":   len(merged),
		"limit":    q.Limit,
	})
	return merged, nil
}

// FetchFull looks a verse up by reference. Misses and errors return nil so the
// caller falls back to the record it already holds.
func (s *Searcher) FetchFull(ctx context.Context, surah string, verse int) *store.VerseRecord {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	rec, err := s.repo.FindByRef(ctx, surah, verse)
	if err != nil {
		s.logger.Warn("Search", "Full verse lookup failed", map[string]interface{}{
			"surah": surah,
			"verse": verse,
			"error": err.Error(),
		})
		return nil
	}
	return rec
}

func (s *Searcher) byCategory(ctx context.Context, categoryID int) ([]store.VerseRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	hits, err := s.repo.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("category search %d: %w", categoryID, err)
	}
	for i := range hits {
		hits[i].Score = store.CategorySentinelScore
	}
	return hits, nil
}

func (s *Searcher) similar(ctx context.Context, q Query) ([]store.VerseRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	hits, err := s.repo.SearchSimilar(ctx, q.Embedding, q.Limit, q.Threshold)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return hits, nil
}

// ExcludeAfterlifeOnly drops hits that talk about the afterlife without any
// worldly-behaviour wording.
func ExcludeAfterlifeOnly(records []store.VerseRecord) []store.VerseRecord {
	out := records[:0:0]
	for _, r := range records {
		if lexical.AfterlifeOnly(r.SearchText()) {
			continue
		}
		out = append(out, r)
	}
	return out
}

package implementation

import (
	"context"
	"errors"
	"fmt"

	"bayan-ai-be/internal/mapper"
	"bayan-ai-be/internal/model"
	"bayan-ai-be/internal/repository/contract"
	"bayan-ai-be/pkg/store"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUndefinedTable = "42P01"

// Every column except the embedding itself
const verseColumns = "verses.id, verses.surah, verses.verse, verses.arabic, verses.translation, " +
	"verses.categories, verses.tafsir_tahlili, verses.tafsir_wajiz, verses.tafsir_hamka, " +
	"verses.created_at, verses.updated_at"

type VerseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VerseMapper
}

func NewVerseRepository(db *gorm.DB) *VerseRepositoryImpl {
	return &VerseRepositoryImpl{
		db:     db,
		mapper: mapper.NewVerseMapper(),
	}
}

var _ contract.VerseRepository = (*VerseRepositoryImpl)(nil)

func (r *VerseRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, threshold float64) ([]store.VerseRecord, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity
	type result struct {
		model.Verse
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("verses").
		Select(verseColumns+", 1 - (embedding <=> ?) AS similarity", queryVector).
		Where("embedding IS NOT NULL").
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, translate(err)
	}

	records := make([]store.VerseRecord, len(results))
	for i := range results {
		records[i] = r.mapper.ToRecord(&results[i].Verse, results[i].Similarity)
	}
	return records, nil
}

func (r *VerseRepositoryImpl) FindByCategory(ctx context.Context, categoryID int) ([]store.VerseRecord, error) {
	var verses []*model.Verse
	err := r.db.WithContext(ctx).
		Select(verseColumns).
		Joins("JOIN verse_categories vc ON vc.verse_id = verses.id").
		Where("vc.category_id = ?", categoryID).
		Order("verses.surah ASC, verses.verse ASC").
		Find(&verses).Error
	if err != nil {
		return nil, translate(err)
	}

	records := make([]store.VerseRecord, len(verses))
	for i, v := range verses {
		records[i] = r.mapper.ToRecord(v, 0)
	}
	return records, nil
}

func (r *VerseRepositoryImpl) FindByRef(ctx context.Context, surah string, verse int) (*store.VerseRecord, error) {
	var v model.Verse
	err := r.db.WithContext(ctx).
		Select(verseColumns).
		Where("UPPER(TRIM(surah)) = ? AND verse = ?", store.NormalizeSurah(surah), verse).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translate(err)
	}
	rec := r.mapper.ToRecord(&v, 0)
	return &rec, nil
}

func (r *VerseRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Verse{}).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}

// Upsert writes a verse keyed by (surah, verse) and replaces its category links.
func (r *VerseRepositoryImpl) Upsert(ctx context.Context, v *model.Verse, categoryIDs []int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "surah"}, {Name: "verse"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"arabic", "translation", "categories", "tafsir_tahlili",
				"tafsir_wajiz", "tafsir_hamka", "source", "embedding", "updated_at",
			}),
		}).Create(v).Error
		if err != nil {
			return fmt.Errorf("upsert verse %s:%d: %w", v.Surah, v.VerseNumber, translate(err))
		}

		// Make sure Id refers to the stored row
		if err := tx.Select("id").Where("surah = ? AND verse = ?", v.Surah, v.VerseNumber).First(v).Error; err != nil {
			return fmt.Errorf("reload verse %s:%d: %w", v.Surah, v.VerseNumber, err)
		}

		if err := tx.Where("verse_id = ?", v.Id).Delete(&model.VerseCategory{}).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		links := make([]model.VerseCategory, len(categoryIDs))
		for i, id := range categoryIDs {
			links[i] = model.VerseCategory{VerseId: v.Id, CategoryId: id}
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
}

// EnsureCategories inserts the given categories, leaving existing ones alone
func (r *VerseRepositoryImpl) EnsureCategories(ctx context.Context, categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&categories).Error
	return translate(err)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("%w: %s", contract.ErrNotMigrated, pgErr.Message)
	}
	return err
}

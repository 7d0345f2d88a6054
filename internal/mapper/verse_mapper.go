package mapper

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"bayan-ai-be/internal/model"
	"bayan-ai-be/pkg/store"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Alternate spellings seen across the verse data sources, in lookup order
var (
	idKeys          = []string{"id", "verse_id", "ayat_id"}
	surahKeys       = []string{"nama_surat", "surah", "surat", "Surat"}
	verseKeys       = []string{"ayat_ke", "ayat", "AyatKe", "ayatKe", "ayat_ke_int", "verse"}
	arabicKeys      = []string{"arab_ayat", "ayat_arab", "Ayat", "arab", "arabic"}
	translationKeys = []string{"terjemahan", "Terjemahan", "translation"}
	categoryKeys    = []string{"kategori", "Kategori", "categories"}
	tahliliKeys     = []string{"tafsir_tahlili", "tafsir_kemenag_tahlili"}
	wajizKeys       = []string{"tafsir_wajiz", "tafsir_kemenag_wajiz"}
	hamkaKeys       = []string{"tafsir_hamka", "tafsir_buya_hamka"}
	scoreKeys       = []string{"score", "similarity"}
)

type VerseMapper struct{}

func NewVerseMapper() *VerseMapper {
	return &VerseMapper{}
}

// FromRow builds a record from a loosely keyed row. ok is false when the row
// has neither an id nor a surah.
func (m *VerseMapper) FromRow(row map[string]interface{}) (store.VerseRecord, bool) {
	rec := store.VerseRecord{
		ID:          strings.TrimSpace(asString(first(row, idKeys))),
		Surah:       strings.TrimSpace(asString(first(row, surahKeys))),
		Verse:       asInt(first(row, verseKeys)),
		Arabic:      strings.TrimSpace(asString(first(row, arabicKeys))),
		Translation: strings.TrimSpace(asString(first(row, translationKeys))),
		Categories:  asStrings(first(row, categoryKeys)),
		Tahlili:     strings.TrimSpace(asString(first(row, tahliliKeys))),
		Wajiz:       strings.TrimSpace(asString(first(row, wajizKeys))),
		Hamka:       strings.TrimSpace(asString(first(row, hamkaKeys))),
		Score:       asFloat(first(row, scoreKeys)),
	}
	if rec.ID == "" && rec.Surah == "" {
		return store.VerseRecord{}, false
	}
	return rec, true
}

// FromRows maps every usable row and reports how many were skipped
func (m *VerseMapper) FromRows(rows []map[string]interface{}) ([]store.VerseRecord, int) {
	out := make([]store.VerseRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		rec, ok := m.FromRow(row)
		if !ok {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, skipped
}

func (m *VerseMapper) ToRecord(v *model.Verse, score float64) store.VerseRecord {
	if v == nil {
		return store.VerseRecord{}
	}
	return store.VerseRecord{
		ID:          v.Id.String(),
		Surah:       v.Surah,
		Verse:       v.VerseNumber,
		Arabic:      v.Arabic,
		Translation: v.Translation,
		Categories:  append([]string(nil), v.Categories...),
		Tahlili:     v.Tahlili,
		Wajiz:       v.Wajiz,
		Hamka:       v.Hamka,
		Score:       score,
	}
}

// ToModel prepares a record for storage. The record ID is not carried over;
// rows are keyed by (surah, verse).
func (m *VerseMapper) ToModel(r store.VerseRecord, embedding []float32, source map[string]interface{}) (*model.Verse, error) {
	v := &model.Verse{
		Surah:       store.NormalizeSurah(r.Surah),
		VerseNumber: r.Verse,
		Arabic:      r.Arabic,
		Translation: r.Translation,
		Categories:  datatypes.NewJSONSlice(r.Categories),
		Tahlili:     r.Tahlili,
		Wajiz:       r.Wajiz,
		Hamka:       r.Hamka,
	}
	if len(embedding) > 0 {
		vec := pgvector.NewVector(embedding)
		v.Embedding = &vec
	}
	if source != nil {
		raw, err := json.Marshal(source)
		if err != nil {
			return nil, fmt.Errorf("marshal source row: %w", err)
		}
		v.Source = datatypes.JSON(raw)
	}
	return v, nil
}

func first(row map[string]interface{}, keys []string) interface{} {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// asInt parses verse numbers; anything unparseable is 0
func asInt(v interface{}) int {
	switch t := v.(type) {
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float32:
		return int(t)
	case float64:
		if math.IsNaN(t) {
			return 0
		}
		return int(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return 0
			}
			return int(f)
		}
		return int(n)
	case string, []byte:
		s := strings.TrimSpace(asString(t))
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string, []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(asString(t)), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

// asStrings accepts a list, a JSON array in text or a comma separated string
func asStrings(v interface{}) []string {
	var raw []string
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		raw = t
	case []interface{}:
		for _, item := range t {
			raw = append(raw, asString(item))
		}
	case []byte:
		return asStrings(string(t))
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "[") {
			var list []string
			if err := json.Unmarshal([]byte(s), &list); err == nil {
				raw = list
				break
			}
		}
		raw = strings.Split(s, ",")
	default:
		raw = []string{asString(t)}
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

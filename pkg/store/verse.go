package store

import (
	"fmt"
	"strings"
)

// Source identifies one commentary (tafsir) collection attached to a verse
type Source string

const (
	SourceTahlili Source = "kemenag_tahlili"
	SourceWajiz   Source = "kemenag_wajiz"
	SourceHamka   Source = "hamka"
)

// Focus restricts rendering to the listed commentaries. Empty means all.
type Focus []Source

// Includes reports whether the commentary should be rendered under this focus
func (f Focus) Includes(s Source) bool {
	if len(f) == 0 {
		return true
	}
	for _, v := range f {
		if v == s {
			return true
		}
	}
	return false
}

// CategorySentinelScore is assigned to exact category matches so they always
// outrank cosine similarity scores (bounded by 1.0).
const CategorySentinelScore = 3.0

// VerseRecord is one verse with its translation, categories and commentaries
type VerseRecord struct {
	ID          string   `json:"id,omitempty"`
	Surah       string   `json:"surah"`
	Verse       int      `json:"verse"`
	Arabic      string   `json:"arabic,omitempty"`
	Translation string   `json:"translation,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Tahlili     string   `json:"tafsir_tahlili,omitempty"`
	Wajiz       string   `json:"tafsir_wajiz,omitempty"`
	Hamka       string   `json:"tafsir_hamka,omitempty"`
	Score       float64  `json:"score"`
}

// Key returns the identity used for deduplication.
// An explicit ID wins, otherwise (SURAH, verse).
func (r VerseRecord) Key() string {
	if id := strings.TrimSpace(r.ID); id != "" {
		return "id:" + id
	}
	return fmt.Sprintf("ref:%s:%d", NormalizeSurah(r.Surah), r.Verse)
}

// Displayable reports whether the record carries enough identity to be rendered
func (r VerseRecord) Displayable() bool {
	return strings.TrimSpace(r.Surah) != "" && r.Verse > 0
}

// HasCommentary reports whether at least one tafsir text is present
func (r VerseRecord) HasCommentary() bool {
	return r.Tahlili != "" || r.Wajiz != "" || r.Hamka != ""
}

// Commentary returns the text for a given source
func (r VerseRecord) Commentary(s Source) string {
	switch s {
	case SourceTahlili:
		return r.Tahlili
	case SourceWajiz:
		return r.Wajiz
	case SourceHamka:
		return r.Hamka
	}
	return ""
}

// SearchText concatenates translation and all commentaries, lower-cased
func (r VerseRecord) SearchText() string {
	return strings.ToLower(r.Translation + r.Tahlili + r.Wajiz + r.Hamka)
}

// NormalizeSurah upper-cases and trims a surah name for identity comparison
func NormalizeSurah(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

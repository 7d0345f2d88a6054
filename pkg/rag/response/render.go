package response

import (
	"context"
	"fmt"
	"strings"

	"bayan-ai-be/pkg/store"
)

const blockSeparator = "\n\n---\n\n"

// FullFetcher looks a verse up by reference; nil when unknown
type FullFetcher interface {
	FetchFull(ctx context.Context, surah string, verse int) *store.VerseRecord
}

// Renderer turns records into the chat markdown blocks
type Renderer struct {
	fetcher FullFetcher
}

func NewRenderer(fetcher FullFetcher) *Renderer {
	return &Renderer{fetcher: fetcher}
}

// Render formats every displayable record. Records without any commentary are
// completed from the repository first; a failed lookup keeps the cached copy.
func (r *Renderer) Render(ctx context.Context, records []store.VerseRecord, focus store.Focus) string {
	blocks := make([]string, 0, len(records))
	for _, rec := range records {
		if !rec.Displayable() {
			continue
		}
		if !rec.HasCommentary() && r.fetcher != nil {
			if full := r.fetcher.FetchFull(ctx, rec.Surah, rec.Verse); full != nil {
				rec = mergeFull(rec, *full)
			}
		}
		blocks = append(blocks, FormatVerse(rec, focus))
	}
	if len(blocks) == 0 {
		return MsgNothingToRender
	}
	return strings.Join(blocks, blockSeparator)
}

// FormatVerse renders one record, keeping only the focused commentaries
func FormatVerse(rec store.VerseRecord, focus store.Focus) string {
	lines := []string{fmt.Sprintf("📖 **Surat %s ayat %d**", strings.TrimSpace(rec.Surah), rec.Verse)}

	if arabic := strings.TrimSpace(rec.Arabic); arabic != "" {
		lines = append(lines, arabic)
	}

	translation := strings.TrimSpace(rec.Translation)
	if translation == "" {
		translation = "Tidak tersedia"
	}
	lines = append(lines, "**Artinya:** "+translation)

	if cats := cleanCategories(rec.Categories); len(cats) > 0 {
		lines = append(lines, "**Kategori:** "+strings.Join(cats, ", "))
	}

	for _, section := range commentarySections {
		text := strings.TrimSpace(rec.Commentary(section.source))
		if text == "" || !focus.Includes(section.source) {
			continue
		}
		lines = append(lines, "\n"+section.title, text)
	}

	return strings.Join(lines, "\n")
}

var commentarySections = []struct {
	source store.Source
	title  string
}{
	{store.SourceTahlili, "**Tafsir Kemenag (Tahlili):**"},
	{store.SourceWajiz, "**Tafsir Kemenag (Wajiz):**"},
	{store.SourceHamka, "**Tafsir Buya Hamka:**"},
}

func cleanCategories(cats []string) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// mergeFull fills empty fields of the cached record from the full one. The
// cached score and identity are kept.
func mergeFull(cached, full store.VerseRecord) store.VerseRecord {
	if cached.Arabic == "" {
		cached.Arabic = full.Arabic
	}
	if cached.Translation == "" {
		cached.Translation = full.Translation
	}
	if len(cached.Categories) == 0 {
		cached.Categories = full.Categories
	}
	cached.Tahlili = full.Tahlili
	cached.Wajiz = full.Wajiz
	cached.Hamka = full.Hamka
	return cached
}

package search

import (
	"sort"

	"bayan-ai-be/pkg/store"
)

// Dedupe drops records whose identity key was already seen. The first
// occurrence wins and relative order is preserved.
func Dedupe(records []store.VerseRecord) []store.VerseRecord {
	out := make([]store.VerseRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		key := r.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// SortRecords orders by score desc, then surah asc, then verse asc.
func SortRecords(records []store.VerseRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if sa, sb := store.NormalizeSurah(a.Surah), store.NormalizeSurah(b.Surah); sa != sb {
			return sa < sb
		}
		return a.Verse < b.Verse
	})
}

// Merge concatenates category and vector hits, dedupes and sorts them.
// Category hits come first so they win identity clashes.
func Merge(category, vector []store.VerseRecord) []store.VerseRecord {
	all := make([]store.VerseRecord, 0, len(category)+len(vector))
	all = append(all, category...)
	all = append(all, vector...)
	merged := Dedupe(all)
	SortRecords(merged)
	return merged
}

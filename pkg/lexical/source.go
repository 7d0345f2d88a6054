package lexical

import (
	"strings"

	"bayan-ai-be/pkg/store"
)

var sourceAliases = []struct {
	token    SourceToken
	keywords []string
}{
	{SourceTahlili, []string{"tahlili", "kemenag tahlili", "tafsir tahlili"}},
	{SourceWajiz, []string{"wajiz", "kemenag wajiz", "tafsir wajiz"}},
	{SourceHamka, []string{"hamka", "buya hamka", "tafsir hamka"}},
	{SourceAll, []string{"semua", "lengkap", "full", "all"}},
}

// DetectSourceFilter returns the commentary filters named in text.
// No match means {all}.
func DetectSourceFilter(text string) SourceSet {
	lower := normalize(text)
	set := SourceSet{}
	for _, a := range sourceAliases {
		if containsAny(lower, a.keywords) {
			set[a.token] = true
		}
	}
	if len(set) == 0 {
		set[SourceAll] = true
	}
	return set
}

// DetectFocus picks a single commentary focus with hamka > wajiz > tahlili
// precedence. Nil when the text names none.
func DetectFocus(text string) store.Focus {
	lower := normalize(text)
	switch {
	case strings.Contains(lower, "hamka"):
		return store.Focus{store.SourceHamka}
	case strings.Contains(lower, "wajiz"):
		return store.Focus{store.SourceWajiz}
	case strings.Contains(lower, "tahlili"):
		return store.Focus{store.SourceTahlili}
	}
	return nil
}

// FocusFromSources converts a detected source set into a render focus.
// {all} or an empty set yields no restriction.
func FocusFromSources(set SourceSet) store.Focus {
	if len(set) == 0 || set.Has(SourceAll) {
		return nil
	}
	var f store.Focus
	if set.Has(SourceTahlili) {
		f = append(f, store.SourceTahlili)
	}
	if set.Has(SourceWajiz) {
		f = append(f, store.SourceWajiz)
	}
	if set.Has(SourceHamka) {
		f = append(f, store.SourceHamka)
	}
	return f
}

// ParseSource maps a planner "source" field to a focus
func ParseSource(source string) store.Focus {
	switch normalize(source) {
	case "hamka", "buya_hamka", "tafsir_hamka":
		return store.Focus{store.SourceHamka}
	case "wajiz", "kemenag_wajiz", "tafsir_wajiz":
		return store.Focus{store.SourceWajiz}
	case "tahlili", "kemenag_tahlili", "tafsir_tahlili":
		return store.Focus{store.SourceTahlili}
	}
	return nil
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func contains(text, sub string) bool {
	return strings.Contains(text, sub)
}

package lexical

import (
	"regexp"
	"sort"
	"strconv"
	"unicode/utf8"
)

var digitPattern = regexp.MustCompile(`\b(\d{1,4})\b`)

var numberWords = longestFirstNumbers([]numberWord{
	{"nol", 0}, {"satu", 1}, {"dua", 2}, {"tiga", 3}, {"empat", 4}, {"lima", 5},
	{"enam", 6}, {"tujuh", 7}, {"delapan", 8}, {"sembilan", 9}, {"sepuluh", 10},
	{"sebelas", 11}, {"dua belas", 12}, {"tiga belas", 13}, {"empat belas", 14},
	{"lima belas", 15}, {"enam belas", 16}, {"tujuh belas", 17}, {"delapan belas", 18},
	{"sembilan belas", 19}, {"dua puluh", 20}, {"tiga puluh", 30}, {"empat puluh", 40},
	{"lima puluh", 50}, {"seratus", 100},
})

type numberWord struct {
	phrase string
	value  int
}

func longestFirstNumbers(words []numberWord) []numberWord {
	sort.SliceStable(words, func(i, j int) bool {
		return utf8.RuneCountInString(words[i].phrase) > utf8.RuneCountInString(words[j].phrase)
	})
	return words
}

// quantityPatterns express "add N", "continue N", "N more" requests, in
// priority order.
var quantityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`tambah(?:kan)?\s+(\d+)`),
	regexp.MustCompile(`lanjut(?:kan)?\s+(\d+)`),
	regexp.MustCompile(`tambahin\s+(\d+)`),
	regexp.MustCompile(`(\d+)\s+(?:lagi|ayat)`),
	regexp.MustCompile(`minta\s+(\d+)`),
	regexp.MustCompile(`kasih\s+(\d+)`),
	regexp.MustCompile(`load\s+(\d+)`),
	regexp.MustCompile(`show\s+(\d+)`),
	regexp.MustCompile(`(?:next|berikutnya)\s+(\d+)`),
}

// DefaultMoreCount is used when a "more" request names no quantity
const DefaultMoreCount = 5

// ExtractNumber finds the first 1-4 digit number, or failing that the longest
// Indonesian number phrase. ok is false when neither is present.
func ExtractNumber(text string) (n int, ok bool) {
	lower := normalize(text)
	if m := digitPattern.FindStringSubmatch(lower); m != nil {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return v, true
	}
	for _, w := range numberWords {
		if contains(lower, w.phrase) {
			return w.value, true
		}
	}
	return 0, false
}

// ExtractQuantity scans the "more"-style phrase patterns and returns the
// captured count, or 0.
func ExtractQuantity(text string) int {
	lower := normalize(text)
	for _, p := range quantityPatterns {
		m := p.FindStringSubmatch(lower)
		if len(m) < 2 {
			continue
		}
		if v, err := strconv.Atoi(m[1]); err == nil {
			return v
		}
	}
	return 0
}

// MoreCount resolves how many extra items a "more" request asks for:
// phrase pattern, then any number, then def.
func MoreCount(text string, def int) int {
	if n := ExtractQuantity(text); n > 0 {
		return n
	}
	if n, ok := ExtractNumber(text); ok && n > 0 {
		return n
	}
	return def
}

package intent

import (
	"context"
	"regexp"
	"strings"

	"bayan-ai-be/pkg/lexical"
	"bayan-ai-be/pkg/store"
)

var (
	moreTriggers     = []string{"tambah", "lagi", "next", "berikan lagi", "lanjut 5", "lanjutkan 5"}
	continueTriggers = []string{"lanjutkan", "lanjut", "continue", "teruskan"}

	moreNumberPattern = regexp.MustCompile(`lanjut(?:kan)?\s+\d+`)
	detailPattern     = regexp.MustCompile(`(?:jelaskan|jelasin|detail|tafsir)\s+ayat\s+(?:ke\s*-?\s*)?(\d{1,3})\b`)
)

// KeywordRouter is the deterministic router. It never fails.
type KeywordRouter struct{}

func NewKeywordRouter() *KeywordRouter {
	return &KeywordRouter{}
}

func (r *KeywordRouter) Route(_ context.Context, text string, _ *store.SessionState) (Decision, error) {
	return Classify(text), nil
}

// Classify applies the keyword rules: focus, then MORE, DETAIL, CONTINUE,
// otherwise NEW.
func Classify(text string) Decision {
	lower := strings.ToLower(strings.TrimSpace(text))
	focus := lexical.DetectFocus(lower)

	if hasAny(lower, moreTriggers) || moreNumberPattern.MatchString(lower) {
		return More{Count: lexical.MoreCount(lower, lexical.DefaultMoreCount), Focus: focus}
	}
	if m := detailPattern.FindStringSubmatch(lower); m != nil {
		n, _ := lexical.ExtractNumber(m[1])
		return Detail{Index: n, Focus: focus}
	}
	if hasAny(lower, continueTriggers) {
		return Continue{Focus: focus}
	}
	return New{Focus: focus}
}

func hasAny(text string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

package lexical

// Category is a fixed thematic tag with a stable database identifier
type Category struct {
	Name string
	ID   int
}

// Known category identifiers
const (
	CategoryHisabID = 12
	CategoryMizanID = 13
)

var categoryGroups = []struct {
	category Category
	keywords []string
}{
	{Category{Name: "yaum al-mizan", ID: CategoryMizanID}, []string{
		"mizan", "yaumul mizan", "yaum al-mizan", "timbangan", "penimbangan", "ثقلت", "خفت",
	}},
	{Category{Name: "yaum al-hisab", ID: CategoryHisabID}, []string{
		"hisab", "yaumul hisab", "yaum al-hisab", "perhitungan amal", "حساب",
	}},
}

// DetectCategory picks the keyword group with the most hits. Ties go to the
// group declared first.
func DetectCategory(text string) (Category, bool) {
	lower := normalize(text)
	var (
		best     Category
		bestHits int
	)
	for _, g := range categoryGroups {
		hits := 0
		for _, kw := range g.keywords {
			if contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = g.category, hits
		}
	}
	return best, bestHits > 0
}

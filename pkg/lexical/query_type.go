package lexical

var queryTypeKeywords = []struct {
	kind     QueryType
	keywords []string
}{
	{QueryComparative, []string{
		"beda", "bedanya", "perbedaan", "berbeda dengan",
		"vs", "versus", "dibanding", "dibandingkan dengan",
		"mana yang", "lebih", " atau ", "apa bedanya",
	}},
	{QueryProcess, []string{
		"urutan", "proses", "tahapan", "langkah-langkah",
		"mulai dari", "sampai", "hingga", "dari awal",
		"setelah", "kemudian", "lalu", "berikutnya",
		"pertama", "kedua", "ketiga", "terakhir",
	}},
	{QueryDefinition, []string{
		"apa itu", "apa sih", "apakah itu",
		"jelaskan apa", "jelasin apa",
		"maksud dari", "arti dari", "makna dari", "definisi",
	}},
	{QueryCategory, []string{
		"apa saja", "apa aja", "ada apa saja",
		"sebutkan", "tuliskan", "tampilkan",
		"perintah apa", "larangan apa", "perilaku apa",
		"yang dilarang", "yang diperintahkan",
	}},
	{QueryGeneral, []string{
		"ceritain", "cerita tentang", "kasih tau tentang",
		"jelaskan tentang", "jelasin tentang",
		"apa yang ada di", "konten", "isi",
	}},
}

// ClassifyQueryType returns the first query type whose keyword table matches,
// defaulting to specific.
func ClassifyQueryType(text string) QueryType {
	lower := normalize(text)
	for _, q := range queryTypeKeywords {
		if containsAny(lower, q.keywords) {
			return q.kind
		}
	}
	return QuerySpecific
}

// Search limits
const (
	DefaultSearchLimit = 20
	BroadSearchLimit   = 100
	ProcessSearchLimit = 50
)

var (
	limitComparison = []string{"beda", "perbedaan", "vs", "dibanding", "atau"}
	limitExhaustive = []string{"semua", "seluruh", "lengkap", "keseluruhan"}
	limitProcess    = []string{"urutan", "proses", "tahapan"}
	limitDefinition = []string{"apa itu", "jelaskan tentang", "maksud dari"}
)

// SmartSearchLimit widens the vector candidate pool for broad phrasings.
func SmartSearchLimit(text string, def int) int {
	lower := normalize(text)
	switch {
	case containsAny(lower, limitComparison):
		return BroadSearchLimit
	case containsAny(lower, limitExhaustive):
		return BroadSearchLimit
	case containsAny(lower, limitProcess):
		return ProcessSearchLimit
	case containsAny(lower, limitDefinition):
		return BroadSearchLimit
	}
	if def <= 0 {
		return DefaultSearchLimit
	}
	return def
}

// Initial window sizes
const (
	DefaultShowCount    = 10
	DefinitionShowCount = 5
	ComparisonShowCount = 8
)

var (
	countShowAll    = []string{"semua", "seluruh", "lengkap", "keseluruhan", "full"}
	countDefinition = []string{"apa itu", "jelaskan tentang", "maksud dari", "apa maksud", "apa artinya"}
	countComparison = []string{"beda", "perbedaan", "vs", "dibanding", "bandingkan"}
)

// SmartCount decides how many of the available results the first window shows.
func SmartCount(text string, available, def int) int {
	if available <= 0 {
		return 0
	}
	if def <= 0 {
		def = DefaultShowCount
	}
	lower := normalize(text)
	if n := ExtractQuantity(lower); n > 0 {
		return min(n, available)
	}
	switch {
	case containsAny(lower, countShowAll):
		return available
	case containsAny(lower, countDefinition):
		return min(DefinitionShowCount, available)
	case containsAny(lower, countComparison):
		return min(ComparisonShowCount, available)
	}
	return min(def, available)
}

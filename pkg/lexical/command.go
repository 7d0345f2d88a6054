package lexical

import "strings"

var continueWords = map[string]bool{
	"lanjut": true,
	"next":   true,
	"tambah": true,
	"lebih":  true,
}

// IsContinueCommand reports whether text is a bare continuation command
func IsContinueCommand(text string) bool {
	lower := normalize(text)
	return strings.HasPrefix(lower, "lanjut") || continueWords[lower]
}

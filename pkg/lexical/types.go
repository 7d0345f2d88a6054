// Package lexical holds the keyword-driven text analysis used before routing
// and retrieval. Every function is pure and deterministic.
package lexical

import (
	"sort"
	"unicode/utf8"
)

// SourceToken names a commentary filter requested in free text
type SourceToken string

const (
	SourceAll     SourceToken = "all"
	SourceTahlili SourceToken = "tahlili"
	SourceWajiz   SourceToken = "wajiz"
	SourceHamka   SourceToken = "hamka"
)

// SourceSet is the set of commentary filters detected in a message
type SourceSet map[SourceToken]bool

// Has reports whether the token is in the set
func (s SourceSet) Has(t SourceToken) bool {
	return s[t]
}

// QueryType is the coarse shape of a question
type QueryType string

const (
	QueryComparative QueryType = "comparative"
	QueryProcess     QueryType = "process"
	QueryDefinition  QueryType = "definition"
	QueryCategory    QueryType = "category"
	QueryGeneral     QueryType = "general"
	QuerySpecific    QueryType = "specific"
)

// alias is one entry of a phrase table: a lower-case phrase and what it maps to
type alias struct {
	phrase string
	value  string
}

// longestFirst returns a copy of the table ordered by phrase length, longest
// first. Equal lengths keep declaration order.
func longestFirst(table []alias) []alias {
	out := make([]alias, len(table))
	copy(out, table)
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i].phrase) > utf8.RuneCountInString(out[j].phrase)
	})
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && contains(text, k) {
			return true
		}
	}
	return false
}

package lexical

var (
	afterlifeTerms      = []string{"kiamat", "akhirat"}
	worldlyBehaviorTerm = []string{"dunia", "dilarang", "maksiat", "tamak", "kikir", "ghibah"}
)

// MentionsWorldly reports whether the question is framed around worldly life
func MentionsWorldly(text string) bool {
	return contains(normalize(text), "dunia")
}

// AfterlifeOnly reports whether a passage talks about the afterlife without
// any worldly-behaviour keyword. content must already be lower-case.
func AfterlifeOnly(content string) bool {
	return containsAny(content, afterlifeTerms) && !containsAny(content, worldlyBehaviorTerm)
}

package intent

import (
	"bayan-ai-be/pkg/lexical"
	"bayan-ai-be/pkg/store"
)

// Resolve applies the cross-turn rules to a routed decision:
// MORE, CONTINUE and DETAIL inherit the stored focus when they carry none,
// MORE without a count recomputes it from text, and MORE on a session with no
// stored embedding is turned into NEW.
func Resolve(d Decision, text string, st *store.SessionState) Decision {
	switch v := d.(type) {
	case More:
		if !st.HasEmbedding() {
			return New{Focus: v.Focus}
		}
		if v.Count <= 0 {
			v.Count = lexical.MoreCount(text, lexical.DefaultMoreCount)
		}
		v.Focus = inherit(v.Focus, st)
		return v
	case Continue:
		v.Focus = inherit(v.Focus, st)
		return v
	case Detail:
		v.Focus = inherit(v.Focus, st)
		return v
	case nil:
		return New{}
	}
	return d
}

func inherit(f store.Focus, st *store.SessionState) store.Focus {
	if len(f) > 0 {
		return f
	}
	return st.LastFocus
}

package intent

import (
	"context"

	"bayan-ai-be/pkg/lexical"
	"bayan-ai-be/pkg/store"
)

// CommandGate fronts another router for the "lanjut" pagination style. Bare
// continuation commands ("lanjut", "lanjut 5", "next") become Continue without
// consulting the wrapped router, and every decision keeps all commentary
// sources the message names ("tahlili dan hamka").
type CommandGate struct {
	next Router
}

func NewCommandGate(next Router) *CommandGate {
	return &CommandGate{next: next}
}

func (g *CommandGate) Route(ctx context.Context, text string, st *store.SessionState) (Decision, error) {
	focus := lexical.FocusFromSources(lexical.DetectSourceFilter(text))
	if lexical.IsContinueCommand(text) {
		return Continue{Focus: focus}, nil
	}

	d, err := g.next.Route(ctx, text, st)
	if err != nil {
		return nil, err
	}
	if len(focus) > len(FocusOf(d)) {
		d = withFocus(d, focus)
	}
	return d, nil
}

func withFocus(d Decision, f store.Focus) Decision {
	switch v := d.(type) {
	case New:
		v.Focus = f
		return v
	case More:
		v.Focus = f
		return v
	case Continue:
		v.Focus = f
		return v
	case Detail:
		v.Focus = f
		return v
	}
	return d
}

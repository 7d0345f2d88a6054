// Package intent turns a user message into a routing Decision.
package intent

import "bayan-ai-be/pkg/store"

// Action names the branch a decision selects
type Action string

const (
	ActionNew      Action = "NEW"
	ActionMore     Action = "MORE"
	ActionContinue Action = "CONTINUE"
	ActionDetail   Action = "DETAIL"
	ActionClarify  Action = "CLARIFY"
)

// Decision is one of New, More, Continue, Detail or Clarify.
type Decision interface {
	Action() Action
	isDecision()
}

// New starts a fresh search
type New struct {
	Focus store.Focus
}

// More grows the result window by Count items
type More struct {
	Count int
	Focus store.Focus
}

// Continue replays or advances the current result list
type Continue struct {
	Focus store.Focus
}

// Detail shows one item of the last result list. Index is 1-based; 0 means
// the user did not name one.
type Detail struct {
	Index int
	Focus store.Focus
}

// Clarify asks the user to rephrase. An empty Message uses the default prompt.
type Clarify struct {
	Message string
}

func (New) Action() Action      { return ActionNew }
func (More) Action() Action     { return ActionMore }
func (Continue) Action() Action { return ActionContinue }
func (Detail) Action() Action   { return ActionDetail }
func (Clarify) Action() Action  { return ActionClarify }

func (New) isDecision()      {}
func (More) isDecision()     {}
func (Continue) isDecision() {}
func (Detail) isDecision()   {}
func (Clarify) isDecision()  {}

// FocusOf returns the focus carried by a decision, nil for Clarify
func FocusOf(d Decision) store.Focus {
	switch v := d.(type) {
	case New:
		return v.Focus
	case More:
		return v.Focus
	case Continue:
		return v.Focus
	case Detail:
		return v.Focus
	}
	return nil
}

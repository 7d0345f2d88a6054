package state

import (
	"errors"
	"strings"

	"bayan-ai-be/pkg/store"
)

// ErrExhausted is returned when every cached result has already been shown
var ErrExhausted = errors.New("all results already shown")

// Mode selects the pagination policy for a deployment
type Mode string

const (
	// ModeShown re-runs the merged search at a growing limit on every MORE
	ModeShown Mode = "shown"
	// ModeCursor walks forward through the frozen result list of the last NEW turn
	ModeCursor Mode = "cursor"
)

// ParseMode maps a config value to a Mode. Anything unknown is ModeShown.
func ParseMode(v string) Mode {
	if strings.EqualFold(strings.TrimSpace(v), string(ModeCursor)) {
		return ModeCursor
	}
	return ModeShown
}

// Window is a half-open range [Start, End) over the cached results
type Window struct {
	Start int
	End   int
}

// Len is the number of items in the window
func (w Window) Len() int {
	return w.End - w.Start
}

// Empty reports whether the window selects nothing
func (w Window) Empty() bool {
	return w.Len() <= 0
}

// Slice returns the records covered by the window, clamped to the slice.
func (w Window) Slice(records []store.VerseRecord) []store.VerseRecord {
	start, end := clamp(w.Start, len(records)), clamp(w.End, len(records))
	if start >= end {
		return nil
	}
	return records[start:end]
}

// NextShown advances the shown counter by step. A non-positive step uses the
// default page size. The end never moves backwards and never passes total.
func NextShown(shown, total, step int) (Window, error) {
	if step <= 0 {
		step = store.DefaultPageSize
	}
	return advance(shown, total, step)
}

// NextCursor advances the cursor by step. A non-positive step takes every
// remaining item.
func NextCursor(cursor, total, step int) (Window, error) {
	if step <= 0 {
		step = total - cursor
	}
	return advance(cursor, total, step)
}

// Remaining is how many items are left after pos
func Remaining(pos, total int) int {
	if pos >= total {
		return 0
	}
	return total - clamp(pos, total)
}

func advance(pos, total, step int) (Window, error) {
	pos = clamp(pos, total)
	if pos >= total {
		return Window{Start: pos, End: pos}, ErrExhausted
	}
	return Window{Start: pos, End: min(total, pos+step)}, nil
}

func clamp(v, upper int) int {
	if v < 0 {
		return 0
	}
	if v > upper {
		return upper
	}
	return v
}

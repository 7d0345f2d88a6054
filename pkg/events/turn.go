package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TypeTurnCompleted is published once per processed chat turn
const TypeTurnCompleted = "chat.turn"

// TurnCompleted describes one processed user utterance
type TurnCompleted struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Action    string    `json:"action"`
	Rendered  int       `json:"rendered"`
	Failure   string    `json:"failure,omitempty"`
	Shown     int       `json:"shown"`
	Total     int       `json:"total"`
	Duration  int64     `json:"duration_ms"`
	At        time.Time `json:"at"`
}

// NewTurnCompleted stamps a turn event with a fresh id
func NewTurnCompleted(sessionID, text, action string, at time.Time) TurnCompleted {
	return TurnCompleted{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Text:      text,
		Action:    action,
		At:        at,
	}
}

func (t TurnCompleted) EventType() string {
	return TypeTurnCompleted
}

func (t TurnCompleted) Payload() map[string]interface{} {
	p := map[string]interface{}{
		"id":          t.ID,
		"session_id":  t.SessionID,
		"text":        t.Text,
		"action":      t.Action,
		"rendered":    t.Rendered,
		"shown":       t.Shown,
		"total":       t.Total,
		"duration_ms": t.Duration,
		"at":          t.At.Format(time.RFC3339Nano),
	}
	if t.Failure != "" {
		p["failure"] = t.Failure
	}
	return p
}

func (t TurnCompleted) Timestamp() time.Time {
	return t.At
}

func (t TurnCompleted) String() string {
	return fmt.Sprintf("session=%s action=%s rendered=%d shown=%d/%d", t.SessionID, t.Action, t.Rendered, t.Shown, t.Total)
}

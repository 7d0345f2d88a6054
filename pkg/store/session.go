package store

import "time"

// Session defaults
const (
	DefaultPageSize       = 5
	DefaultLastLimit      = 5
	DefaultScoreThreshold = 0.70

	maxHistory = 50
)

// Turn is one processed user utterance
type Turn struct {
	Text   string    `json:"text"`
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

// SessionState is the per-conversation retrieval state kept in memory.
// LastResults is the ordered superset every pagination window is sliced from;
// Shown and Cursor never exceed its length.
type SessionState struct {
	ID string `json:"id"`

	History []Turn `json:"history"`

	LastQueryText      string        `json:"last_query_text"`
	LastUserText       string        `json:"last_user_text"`
	LastQueryEmbedding []float32     `json:"-"`
	LastResults        []VerseRecord `json:"last_results"`

	Shown     int `json:"shown"`
	Cursor    int `json:"cursor"`
	PageSize  int `json:"page_size"`
	LastLimit int `json:"last_limit"`

	LastFocus      Focus   `json:"last_focus"`
	ActiveTopic    string  `json:"active_topic"`
	ScoreThreshold float64 `json:"score_threshold"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewSessionState returns a state initialised with the documented defaults
func NewSessionState(id string) *SessionState {
	return &SessionState{
		ID:             id,
		History:        []Turn{},
		LastResults:    []VerseRecord{},
		PageSize:       DefaultPageSize,
		LastLimit:      DefaultLastLimit,
		LastFocus:      Focus{},
		ScoreThreshold: DefaultScoreThreshold,
	}
}

// HasContext reports whether a previous search left results to paginate
func (s *SessionState) HasContext() bool {
	return len(s.LastResults) > 0
}

// HasEmbedding reports whether a previous NEW turn stored its query vector
func (s *SessionState) HasEmbedding() bool {
	return len(s.LastQueryEmbedding) > 0
}

// Total is the size of the cached result list
func (s *SessionState) Total() int {
	return len(s.LastResults)
}

// UserQuery is the raw wording of the last NEW search, which re-queries must
// reuse so category detection and filtering match the first run.
func (s *SessionState) UserQuery() string {
	if s.LastUserText != "" {
		return s.LastUserText
	}
	return s.LastQueryText
}

// Topic returns the active topic, falling back to the last query text
func (s *SessionState) Topic() string {
	if s.ActiveTopic != "" {
		return s.ActiveTopic
	}
	return s.LastQueryText
}

// ReplaceResults installs a fresh result list and resets both counters to the
// size of the first window.
func (s *SessionState) ReplaceResults(results []VerseRecord, firstWindow int) {
	if firstWindow > len(results) {
		firstWindow = len(results)
	}
	if firstWindow < 0 {
		firstWindow = 0
	}
	s.LastResults = results
	s.Shown = firstWindow
	s.Cursor = firstWindow
}

// Record appends a turn to the session history
func (s *SessionState) Record(text, action string, at time.Time) {
	s.History = append(s.History, Turn{Text: text, Action: action, At: at})
	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
	s.UpdatedAt = at
}

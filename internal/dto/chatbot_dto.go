package dto

import "time"

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
}

type SendChatRequest struct {
	SessionId string `json:"session_id" validate:"required,max=128"`
	Message   string `json:"message" validate:"required,max=2000"`
}

type SendChatResponse struct {
	SessionId string `json:"session_id"`
	Reply     string `json:"reply"`
}

type TurnResponse struct {
	Text   string    `json:"text"`
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

// SessionResponse summarises the retrieval state of one conversation
type SessionResponse struct {
	SessionId   string         `json:"session_id"`
	ActiveTopic string         `json:"active_topic"`
	Shown       int            `json:"shown"`
	Cursor      int            `json:"cursor"`
	Total       int            `json:"total"`
	Focus       []string       `json:"focus"`
	History     []TurnResponse `json:"history"`
	UpdatedAt   *time.Time     `json:"updated_at"`
}

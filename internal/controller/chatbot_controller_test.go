package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"bayan-ai-be/internal/dto"
	"bayan-ai-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatbotService struct {
	turns  []string
	resets []string
}

func (f *fakeChatbotService) CreateSession(context.Context) (*dto.CreateSessionResponse, error) {
	return &dto.CreateSessionResponse{SessionId: "abc"}, nil
}

func (f *fakeChatbotService) HandleTurn(_ context.Context, text string, sessionID string) string {
	f.turns = append(f.turns, sessionID+":"+text)
	return "balasan untuk " + text
}

func (f *fakeChatbotService) GetSession(_ context.Context, sessionID string) (*dto.SessionResponse, error) {
	return &dto.SessionResponse{SessionId: sessionID, Shown: 2, Total: 9}, nil
}

func (f *fakeChatbotService) ResetSession(_ context.Context, sessionID string) error {
	f.resets = append(f.resets, sessionID)
	return nil
}

func newTestApp(svc *fakeChatbotService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewChatbotController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func decode[T any](t *testing.T, body io.Reader) serverutils.BaseResponse[T] {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	var res serverutils.BaseResponse[T]
	require.NoError(t, json.Unmarshal(raw, &res))
	return res
}

func TestSendChat(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		wantMsg string
	}{
		{"valid", `{"session_id":"s1","message":"apa itu sabar"}`, 200, "Success send chat"},
		{"missing message", `{"session_id":"s1"}`, 400, "Validation failed"},
		{"missing session", `{"message":"halo"}`, 400, "Validation failed"},
		{"malformed", `{"session_id":`, 400, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeChatbotService{}
			req := httptest.NewRequest("POST", "/api/chat/v1", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := newTestApp(svc).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			res := decode[dto.SendChatResponse](t, resp.Body)
			assert.Equal(t, tt.wantMsg, res.Message)
			if tt.status == 200 {
				assert.Equal(t, "balasan untuk apa itu sabar", res.Data.Reply)
				assert.Equal(t, []string{"s1:apa itu sabar"}, svc.turns)
			} else {
				assert.Empty(t, svc.turns)
			}
		})
	}
}

func TestSessionRoutes(t *testing.T) {
	svc := &fakeChatbotService{}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/chat/v1/session", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "abc", decode[dto.CreateSessionResponse](t, resp.Body).Data.SessionId)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/chat/v1/session/abc", nil))
	require.NoError(t, err)
	got := decode[dto.SessionResponse](t, resp.Body).Data
	assert.Equal(t, "abc", got.SessionId)
	assert.Equal(t, 9, got.Total)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/chat/v1/session/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []string{"abc"}, svc.resets)
}

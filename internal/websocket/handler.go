package websocket

import (
	"context"

	"bayan-ai-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Handler exposes the chat over websocket at /ws/chat/:session_id
type Handler struct {
	hub    *Hub
	turns  TurnHandler
	logger logger.ILogger
}

func NewHandler(hub *Hub, turns TurnHandler, log logger.ILogger) *Handler {
	return &Handler{hub: hub, turns: turns, logger: log}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	ws := r.Group("/ws")
	ws.Use(func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/chat/:session_id", websocket.New(h.serve))
}

func (h *Handler) serve(c *websocket.Conn) {
	sessionID := c.Params("session_id")
	if sessionID == "" {
		c.Close()
		return
	}
	h.logger.Debug("WebSocket", "Connection opened", map[string]interface{}{"session_id": sessionID})
	ServeWs(h.hub, c, sessionID, h.turns)
}

// ServeWs runs one connection until the peer goes away
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, turns TurnHandler) {
	client := &Client{
		Hub:       hub,
		Conn:      c,
		SessionID: sessionID,
		Send:      make(chan []byte, 16),
		turns:     turns,
	}
	hub.Register(client)

	go client.writePump()
	client.readPump(context.Background())
}

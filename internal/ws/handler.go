package ws

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Akki1725/socially/internal/auth"
)

// UpgradeMiddleware rejects plain HTTP requests on the WebSocket route.
func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Handler authenticates the connection from its token query parameter and
// parks it in the hub until the peer disconnects.
func (h *Hub) Handler(validator *auth.Validator) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		token := conn.Query("token")
		if token == "" {
			_ = conn.Close()
			return
		}
		userID, err := validator.Validate(token)
		if err != nil {
			h.log.Warnw("ws auth failed", "err", err)
			_ = conn.Close()
			return
		}

		client := NewClient(conn, userID)
		h.Register(client)
		go client.writePump()
		client.readPump()
		h.Unregister(client)
	}
}

package routes

import (
	"github.com/anjiri1684/fee_collect/session"
	ws "github.com/anjiri1684/fee_collect/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// FeedRoutes exposes the live payment feed over a session-guarded
// websocket.
func FeedRoutes(app *fiber.App, hub *ws.Hub, codec *session.Codec) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		claims, err := codec.Decode(c.Cookies(session.CookieName))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals("userID", claims.UserID)
		return c.Next()
	})

	app.Get("/ws/feed", websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(uuid.UUID)
		client := &ws.Client{UserID: userID, Conn: conn}

		hub.Register <- client
		defer func() {
			hub.Unregister <- client
			conn.Close()
		}()

		// The feed is write-only; reads just detect the disconnect.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/campusgrid/campus-chat/internal/handlers"
	"github.com/campusgrid/campus-chat/internal/realtime"
)

// Namespaces are the four realtime surfaces mounted under /ws.
type Namespaces struct {
	Announcement *realtime.Namespace
	Dropbox      *realtime.Namespace
	Community    *realtime.Namespace
	Classroom    *realtime.Namespace
}

func Register(app *fiber.App, verifier realtime.TokenVerifier, history *handlers.HistoryHandler, ns Namespaces) {
	api := app.Group("/api/v1")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	api.Get("/conversations/:id/messages", handlers.JWTAuth(verifier), history.Messages)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	mount := func(path string, n *realtime.Namespace) {
		app.Get(path, websocket.New(func(conn *websocket.Conn) {
			n.Handle(conn)
		}))
	}
	mount("/ws/announcement", ns.Announcement)
	mount("/ws/dropbox", ns.Dropbox)
	mount("/ws/community", ns.Community)
	mount("/ws/classroom", ns.Classroom)
}

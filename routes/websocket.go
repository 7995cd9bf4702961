package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/cindypham04/engrave/handlers"
)

func SetupWebSocketRoutes(app *fiber.App, wsHandler *handlers.WSHandler) {
	ws := app.Group("/ws")

	ws.Use("/file/:file_id", wsHandler.WebSocketUpgrade)
	ws.Get("/file/:file_id", websocket.New(wsHandler.HandleLifecycleEvents))
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cindypham04/engrave/handlers"
)

func RegisterChatRoutes(app *fiber.App, chatHandler *handlers.ChatHandler) {
	chats := app.Group("api/chat")
	chats.Post("/ask", chatHandler.Ask)
	chats.Post("/threads", chatHandler.CreateThread)
	chats.Post("/standalone", chatHandler.CreateStandaloneChat)
	chats.Get("/threads", chatHandler.ListThreads)
	chats.Get("/thread/:thread_id", chatHandler.ThreadMessages)
	chats.Get("/thread/by-annotation/:annotation_id", chatHandler.ThreadByAnnotation)
}

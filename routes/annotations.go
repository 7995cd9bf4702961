package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cindypham04/engrave/handlers"
)

func RegisterAnnotationRoutes(app *fiber.App, handler *handlers.AnnotationHandler) {
	annotations := app.Group("api/annotations")
	annotations.Post("/", handler.Create)
	annotations.Get("/:annotation_id", handler.Get)
	annotations.Delete("/:annotation_id", handler.Delete)
}

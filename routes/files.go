package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cindypham04/engrave/handlers"
)

func RegisterFileRoutes(app *fiber.App, handler *handlers.FileHandler, annotationHandler *handlers.AnnotationHandler) {
	files := app.Group("api/files")
	files.Post("/upload", handler.RequestUpload)
	files.Get("/", handler.List)
	files.Get("/:file_id/state", handler.State)
	files.Get("/:file_id/annotations", annotationHandler.ListByFile)
	files.Delete("/:file_id", handler.Delete)

	folders := app.Group("api/folders")
	folders.Post("/", handler.CreateFolder)
	folders.Get("/", handler.ListFolders)
}

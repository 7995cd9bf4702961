package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/services"
)

type AnnotationHandler struct {
	annotationService *services.AnnotationService
}

func NewAnnotationHandler(annotationService *services.AnnotationService) *AnnotationHandler {
	return &AnnotationHandler{annotationService: annotationService}
}

func (h *AnnotationHandler) Create(c *fiber.Ctx) error {
	var req models.CreateAnnotationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.FileID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "file_id required"})
	}

	a, err := h.annotationService.Create(c.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidAnchor) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(models.CreateAnnotationResponse{AnnotationID: a.ID})
}

func (h *AnnotationHandler) Get(c *fiber.Ctx) error {
	annotationID := c.Params("annotation_id")

	a, err := h.annotationService.Get(c.Context(), annotationID)
	if err != nil {
		if errors.Is(err, services.ErrAnnotationNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Annotation not found"})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(a)
}

func (h *AnnotationHandler) Delete(c *fiber.Ctx) error {
	annotationID := c.Params("annotation_id")

	if err := h.annotationService.Delete(c.Context(), annotationID); err != nil {
		if errors.Is(err, services.ErrAnnotationNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Annotation not found"})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(models.DeleteResponse{Success: true})
}

func (h *AnnotationHandler) ListByFile(c *fiber.Ctx) error {
	fileID := c.Params("file_id")

	annotations, err := h.annotationService.ListByFile(c.Context(), fileID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"annotations": annotations})
}

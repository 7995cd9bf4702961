package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/services"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	var req models.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Question == "" {
		return c.Status(400).JSON(fiber.Map{"error": "question required"})
	}

	res, err := h.chatService.Ask(c.Context(), req)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(res)
}

func (h *ChatHandler) CreateThread(c *fiber.Ctx) error {
	var req models.CreateThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.FileID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "file_id required"})
	}

	thread, err := h.chatService.CreateThread(c.Context(), req)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(thread)
}

func (h *ChatHandler) CreateStandaloneChat(c *fiber.Ctx) error {
	var req models.CreateStandaloneChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := h.chatService.CreateStandaloneChat(c.Context(), req)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(res)
}

func (h *ChatHandler) ThreadMessages(c *fiber.Ctx) error {
	threadID := c.Params("thread_id")

	msgs, err := h.chatService.ThreadMessages(c.Context(), threadID)
	if err != nil {
		if errors.Is(err, services.ErrThreadNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Thread not found"})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	out := models.ThreadMessages{Messages: make([]models.ChatMessage, 0, len(msgs))}
	for _, m := range msgs {
		out.Messages = append(out.Messages, *m)
	}
	return c.JSON(out)
}

func (h *ChatHandler) ListThreads(c *fiber.Ctx) error {
	fileID := c.Query("file_id")
	if fileID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "file_id required"})
	}

	threads, err := h.chatService.ListThreads(c.Context(), fileID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	out := models.ThreadList{Threads: make([]models.ChatThread, 0, len(threads))}
	for _, t := range threads {
		out.Threads = append(out.Threads, *t)
	}
	return c.JSON(out)
}

func (h *ChatHandler) ThreadByAnnotation(c *fiber.Ctx) error {
	annotationID := c.Params("annotation_id")

	thread, err := h.chatService.ThreadByAnnotation(c.Context(), annotationID)
	if err != nil {
		if errors.Is(err, services.ErrThreadNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Thread not found"})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(thread)
}

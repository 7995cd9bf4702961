package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cindypham04/engrave/services"
)

type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

func (h *FileHandler) RequestUpload(c *fiber.Ctx) error {
	var req struct {
		FileName    string `json:"file_name"`
		FileSize    int64  `json:"file_size"`
		ContentType string `json:"content_type"`
		Title       string `json:"title"`
		FolderID    string `json:"folder_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	if req.FileSize > 50*1024*1024 {
		return c.Status(400).JSON(fiber.Map{"error": "File too large"})
	}
	if req.ContentType != "application/pdf" {
		return c.Status(400).JSON(fiber.Map{"error": "Only PDF files allowed"})
	}

	res, err := h.fileService.RequestPDFUpload(c.Context(), req.FileName, req.Title, req.FolderID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate presigned URL"})
	}
	return c.JSON(res)
}

func (h *FileHandler) State(c *fiber.Ctx) error {
	fileID := c.Params("file_id")

	state, err := h.fileService.FileState(c.Context(), fileID)
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "File not found"})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(state)
}

func (h *FileHandler) Delete(c *fiber.Ctx) error {
	fileID := c.Params("file_id")

	if err := h.fileService.DeleteFile(c.Context(), fileID); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "File not found"})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *FileHandler) List(c *fiber.Ctx) error {
	folderID := c.Query("folder_id")

	files, err := h.fileService.ListFiles(c.Context(), folderID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"files": files})
}

func (h *FileHandler) CreateFolder(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		ParentID string `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name required"})
	}

	folder, err := h.fileService.CreateFolder(c.Context(), req.Name, req.ParentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(folder)
}

func (h *FileHandler) ListFolders(c *fiber.Ctx) error {
	parentID := c.Query("parent_id")

	folders, err := h.fileService.ListFolders(c.Context(), parentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"folders": folders})
}

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/middleware"
	"alfredoptarigan/interview-builder/internal/models"
	"alfredoptarigan/interview-builder/internal/services"
)

type UploadHandler struct {
	documentService services.DocumentService
	importService   services.ImportService
	worker          services.Worker
	maxFileSize     int64
	log             *zap.Logger
}

func NewUploadHandler(
	documentService services.DocumentService,
	importService services.ImportService,
	worker services.Worker,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		documentService: documentService,
		importService:   importService,
		worker:          worker,
		maxFileSize:     maxFileSize,
		log:             log,
	}
}

// HandleUploadDocument handles POST /documents
func (h *UploadHandler) HandleUploadDocument(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	doc, err := h.documentService.Upload(c.UserContext(), file, middleware.UserID(c), middleware.OrganizationID(c))
	if err != nil {
		h.log.Error("document upload failed", zap.String("file", file.Filename), zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.DocumentResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
		PageCount:    doc.PageCount,
		Text:         doc.ExtractedText,
	})
}

// HandleUploadRoster handles POST /imports
func (h *UploadHandler) HandleUploadRoster(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	imp, err := h.importService.CreateImport(c.UserContext(), file, middleware.UserID(c), middleware.OrganizationID(c))
	if err != nil {
		h.log.Error("roster upload failed", zap.String("file", file.Filename), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save roster: %v", err),
		})
	}

	h.worker.EnqueueJob(imp.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.ImportResponse{
		ID:     imp.ID.String(),
		Status: string(imp.Status),
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-builder/internal/models"
	"alfredoptarigan/interview-builder/internal/services"
)

type ResultHandler struct {
	documentService services.DocumentService
	importService   services.ImportService
}

func NewResultHandler(documentService services.DocumentService, importService services.ImportService) *ResultHandler {
	return &ResultHandler{
		documentService: documentService,
		importService:   importService,
	}
}

// HandleGetImport handles GET /imports/:id
func (h *ResultHandler) HandleGetImport(c *fiber.Ctx) error {
	importID, ok := parseUUIDParam(c, "id")
	if !ok {
		return invalidID(c, "import")
	}

	imp, err := h.importService.GetImport(importID)
	if err != nil {
		return errorResponse(c, err)
	}

	if !canView(c, imp.UserID, imp.OrganizationID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Import not found",
		})
	}

	response := models.ImportResultResponse{
		ID:            imp.ID.String(),
		Status:        string(imp.Status),
		FileName:      imp.OriginalName,
		TotalRows:     imp.TotalRows,
		ProcessedRows: imp.ProcessedRows,
		FailedRows:    imp.FailedRows,
	}

	if imp.Status == models.ImportCompleted {
		response.Candidates = make([]models.Candidate, 0, len(imp.Candidates))
		for _, c := range imp.Candidates {
			response.Candidates = append(response.Candidates, c.ToCandidate())
		}
	}

	if imp.Status == models.ImportFailed && imp.ErrorMessage != "" {
		response.ErrorMessage = &imp.ErrorMessage
	}

	return c.JSON(response)
}

// HandleGetDocument handles GET /documents/:id
func (h *ResultHandler) HandleGetDocument(c *fiber.Ctx) error {
	docID, ok := parseUUIDParam(c, "id")
	if !ok {
		return invalidID(c, "document")
	}

	doc, err := h.documentService.GetDocument(docID)
	if err != nil {
		return errorResponse(c, err)
	}

	if !canView(c, doc.UserID, doc.OrganizationID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	}

	return c.JSON(models.DocumentResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
		PageCount:    doc.PageCount,
		Text:         doc.ExtractedText,
	})
}

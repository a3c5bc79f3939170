package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/services"
)

type ParsePDFHandler struct {
	parser      services.PDFParserService
	maxFileSize int64
	log         *zap.Logger
}

func NewParsePDFHandler(parser services.PDFParserService, maxFileSize int64, log *zap.Logger) *ParsePDFHandler {
	return &ParsePDFHandler{
		parser:      parser,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// HandleParsePDF handles POST /api/parse-pdf. The PDF arrives either as the
// multipart field "file" or as a raw application/pdf body.
func (h *ParsePDFHandler) HandleParsePDF(c *fiber.Ctx) error {
	data, err := h.readPDF(c)
	if err != nil || len(data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "No file provided",
		})
	}

	if int64(len(data)) > h.maxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"success": false,
			"error":   "File too large",
		})
	}

	text, err := h.parser.ExtractText(data)
	if err != nil {
		h.log.Error("failed to parse PDF", zap.Int("bytes", len(data)), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to parse PDF",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"text":    text,
	})
}

func (h *ParsePDFHandler) readPDF(c *fiber.Ctx) ([]byte, error) {
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	if strings.HasPrefix(contentType, "application/pdf") || strings.HasPrefix(contentType, "application/octet-stream") {
		return c.Body(), nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}

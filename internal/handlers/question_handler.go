package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/models"
	"alfredoptarigan/interview-builder/internal/services"
)

type QuestionHandler struct {
	generator services.QuestionGenerator
	log       *zap.Logger
}

func NewQuestionHandler(generator services.QuestionGenerator, log *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		generator: generator,
		log:       log,
	}
}

// HandleGenerateQuestions handles POST /api/generate-interview-questions
func (h *QuestionHandler) HandleGenerateQuestions(c *fiber.Ctx) error {
	var req models.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	if strings.TrimSpace(req.Objective) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "objective is required",
		})
	}

	response, err := h.generator.GenerateQuestions(c.UserContext(), &req)
	if err != nil {
		h.log.Error("question generation failed", zap.String("name", req.Name), zap.Error(err))
		return c.Status(generationStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(models.GenerateQuestionsResponse{Response: response})
}

// generationStatus treats every non-validation failure as an upstream error.
func generationStatus(err error) int {
	if status := errorStatus(err); status != fiber.StatusInternalServerError {
		return status
	}
	return fiber.StatusBadGateway
}

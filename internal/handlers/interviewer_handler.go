package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-builder/internal/services"
)

type InterviewerHandler struct {
	interviewerService services.InterviewerService
}

func NewInterviewerHandler(interviewerService services.InterviewerService) *InterviewerHandler {
	return &InterviewerHandler{interviewerService: interviewerService}
}

// HandleList handles GET /interviewers
func (h *InterviewerHandler) HandleList(c *fiber.Ctx) error {
	interviewers, err := h.interviewerService.List()
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"interviewers": interviewers,
	})
}

// HandleGet handles GET /interviewers/:id
func (h *InterviewerHandler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interviewer ID",
		})
	}

	interviewer, err := h.interviewerService.Get(int64(id))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(interviewer)
}

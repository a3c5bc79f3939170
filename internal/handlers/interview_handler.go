package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/middleware"
	"alfredoptarigan/interview-builder/internal/models"
	"alfredoptarigan/interview-builder/internal/repositories"
	"alfredoptarigan/interview-builder/internal/services"
)

type InterviewHandler struct {
	interviewRepo repositories.InterviewRepository
	log           *zap.Logger
}

func NewInterviewHandler(interviewRepo repositories.InterviewRepository, log *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviewRepo: interviewRepo,
		log:           log,
	}
}

// HandleCreate handles POST /interviews with a finished interview.
func (h *InterviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.InterviewBase
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Objective = strings.TrimSpace(req.Objective)

	if req.Name == "" || req.Objective == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name and objective are required",
		})
	}

	if req.InterviewerID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "interviewer_id is required",
		})
	}

	if len(req.Questions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at least one question is required",
		})
	}

	for i := range req.Questions {
		req.Questions[i].Question = strings.TrimSpace(req.Questions[i].Question)
		if req.Questions[i].Question == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "questions must not be empty",
			})
		}
		if req.Questions[i].ID == "" {
			req.Questions[i].ID = uuid.New().String()
		}
		if req.Questions[i].FollowUpCount < 1 {
			req.Questions[i].FollowUpCount = 1
		}
	}

	count, err := services.NormalizeCount(strconv.Itoa(req.QuestionCount), services.MaxQuestionCount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "question_count " + err.Error(),
		})
	}
	req.QuestionCount = count

	duration, err := services.NormalizeCount(req.TimeDuration, services.MaxDuration)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "time_duration " + err.Error(),
		})
	}
	req.TimeDuration = strconv.Itoa(duration)

	req.UserID = middleware.UserID(c)
	req.OrganizationID = middleware.OrganizationID(c)
	req.ResponseCount = 0

	interview := &models.Interview{
		ID:            uuid.New(),
		InterviewBase: req,
	}
	for i, candidate := range req.Candidates {
		interview.Interviewees = append(interview.Interviewees, models.IntervieweeFromCandidate(candidate, i))
	}

	if err := h.interviewRepo.Create(interview); err != nil {
		h.log.Error("failed to create interview", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create interview",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(interview)
}

// HandleGet handles GET /interviews/:id
func (h *InterviewHandler) HandleGet(c *fiber.Ctx) error {
	interviewID, ok := parseUUIDParam(c, "id")
	if !ok {
		return invalidID(c, "interview")
	}

	interview, err := h.interviewRepo.FindByID(interviewID)
	if err != nil {
		return errorResponse(c, err)
	}

	if !canView(c, interview.UserID, interview.OrganizationID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}

	return c.JSON(interview)
}

// HandleList handles GET /interviews
func (h *InterviewHandler) HandleList(c *fiber.Ctx) error {
	interviews, err := h.interviewRepo.ListByOrganization(middleware.OrganizationID(c), middleware.UserID(c))
	if err != nil {
		h.log.Error("failed to list interviews", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list interviews",
		})
	}

	return c.JSON(fiber.Map{
		"interviews": interviews,
	})
}

// canView reports whether the caller's organization (or, without one, the
// caller) owns a record.
func canView(c *fiber.Ctx, ownerUserID, ownerOrgID string) bool {
	return models.VisibleTo(ownerUserID, ownerOrgID, middleware.UserID(c), middleware.OrganizationID(c))
}

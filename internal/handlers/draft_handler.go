package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/middleware"
	"alfredoptarigan/interview-builder/internal/models"
	"alfredoptarigan/interview-builder/internal/services"
)

// DraftHandler exposes the create-interview wizard under /drafts.
type DraftHandler struct {
	wizard services.WizardService
	log    *zap.Logger
}

func NewDraftHandler(wizard services.WizardService, log *zap.Logger) *DraftHandler {
	return &DraftHandler{
		wizard: wizard,
		log:    log,
	}
}

// ownedDraftID parses :id and checks the draft belongs to the caller. On
// failure the response has already been written and ok is false.
func (h *DraftHandler) ownedDraftID(c *fiber.Ctx) (id uuid.UUID, ok bool, err error) {
	id, valid := parseUUIDParam(c, "id")
	if !valid {
		return uuid.Nil, false, invalidID(c, "draft")
	}

	draft, err := h.wizard.Get(c.UserContext(), id)
	if err != nil {
		return uuid.Nil, false, errorResponse(c, err)
	}

	if draft.UserID != middleware.UserID(c) {
		return uuid.Nil, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Draft not found",
		})
	}

	return id, true, nil
}

// HandleOpen handles POST /drafts
func (h *DraftHandler) HandleOpen(c *fiber.Ctx) error {
	draft, err := h.wizard.Open(c.UserContext(), middleware.UserID(c), middleware.OrganizationID(c))
	if err != nil {
		h.log.Error("failed to open draft", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(draft)
}

// HandleGet handles GET /drafts/:id
func (h *DraftHandler) HandleGet(c *fiber.Ctx) error {
	id, ok, err := h.ownedDraftID(c)
	if !ok {
		return err
	}

	draft, err := h.wizard.Get(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(draft)
}

// HandleClose handles DELETE /drafts/:id
func (h *DraftHandler) HandleClose(c *fiber.Ctx) error {
	id, ok, err := h.ownedDraftID(c)
	if !ok {
		return err
	}

	if err := h.wizard.Close(c.UserContext(), id); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAttachDocument handles PUT /drafts/:id/document
func (h *DraftHandler) HandleAttachDocument(c *fiber.Ctx) error {
	id, ok, err := h.ownedDraftID(c)
	if !ok {
		return err
	}

	var req models.AttachDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return invalidID(c, "document")
	}

	draft, err := h.wizard.AttachDocument(c.UserContext(), id, documentID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(draft)
}

// HandleAttachRoster handles PUT /drafts/:id/roster
func (h *DraftHandler) HandleAttachRoster(c *fiber.Ctx) error {
	id, ok, err := h.ownedDraftID(c)
	if !ok {
		return err
	}

	var req models.AttachRosterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	importID, err := uuid.Parse(req.ImportID)
	if err != nil {
		return invalidID(c, "import")
	}

	draft, err := h.wizard.AttachRoster(c.UserContext(), id, importID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(draft)
}

// HandleSubmit handles POST /drafts/:id/submit
func (h *DraftHandler) HandleSubmit(c *fiber.Ctx) error {
	id, ok, err := h.ownedDraftID(c)
	if !ok {
		return err
	}

	var req models.SubmitDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	draft, err := h.wizard.Submit(c.UserContext(), id, req)
	if err != nil {
		if errors.Is(err, services.ErrGenerationFailed) && draft != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": err.Error(),
				"draft": draft,
			})
		}
		return errorResponse(c, err)
	}

	return c.JSON(draft)
}

// HandleBack handles POST /drafts/:id/back
func (h *DraftHandler) HandleBack(c *fiber.Ctx) error {
	id, ok, err := h.ownedDraftID(c)
	if !ok {
		return err
	}

	draft, err := h.wizard.Back(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(draft)
}

// HandleUpdateQuestions handles PUT /drafts/:id/questions
func (h *DraftHandler) HandleUpdateQuestions(c *fiber.Ctx) error {
	id, ok, err := h.ownedDraftID(c)
	if !ok {
		return err
	}

	var req models.UpdateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	draft, err := h.wizard.UpdateQuestions(c.UserContext(), id, req.Questions)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(draft)
}

// HandleSave handles POST /drafts/:id/save
func (h *DraftHandler) HandleSave(c *fiber.Ctx) error {
	id, ok, err := h.ownedDraftID(c)
	if !ok {
		return err
	}

	interview, err := h.wizard.Save(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(interview)
}

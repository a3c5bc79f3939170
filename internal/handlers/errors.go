package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-builder/internal/repositories"
	"alfredoptarigan/interview-builder/internal/services"
)

// errorStatus maps service and repository errors to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, services.ErrDraftNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidDetails),
		errors.Is(err, services.ErrNotPDF),
		errors.Is(err, services.ErrEmptyPDF),
		errors.Is(err, services.ErrUnsupportedRoster):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrAlreadySubmitted),
		errors.Is(err, services.ErrWrongStage),
		errors.Is(err, services.ErrImportNotReady):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrGenerationFailed), errors.Is(err, services.ErrInvalidLLMResponse):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// parseUUIDParam reads a uuid route parameter; ok is false when it is
// malformed.
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func invalidID(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid " + what + " ID format",
	})
}

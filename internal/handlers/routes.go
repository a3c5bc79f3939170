package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	ParsePDF    *ParsePDFHandler
	Upload      *UploadHandler
	Result      *ResultHandler
	Question    *QuestionHandler
	Interview   *InterviewHandler
	Interviewer *InterviewerHandler
	Draft       *DraftHandler
}

// RegisterRoutes mounts every endpoint. auth guards everything except the
// health check.
func RegisterRoutes(app *fiber.App, h Handlers, auth fiber.Handler) {
	api := app.Group("/api")

	api.Get("/v1/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Use(auth)

	api.Post("/parse-pdf", h.ParsePDF.HandleParsePDF)
	api.Post("/generate-interview-questions", h.Question.HandleGenerateQuestions)

	v1 := api.Group("/v1")

	v1.Post("/documents", h.Upload.HandleUploadDocument)
	v1.Get("/documents/:id", h.Result.HandleGetDocument)

	v1.Post("/imports", h.Upload.HandleUploadRoster)
	v1.Get("/imports/:id", h.Result.HandleGetImport)

	v1.Get("/interviewers", h.Interviewer.HandleList)
	v1.Get("/interviewers/:id", h.Interviewer.HandleGet)

	v1.Post("/interviews", h.Interview.HandleCreate)
	v1.Get("/interviews", h.Interview.HandleList)
	v1.Get("/interviews/:id", h.Interview.HandleGet)

	drafts := v1.Group("/drafts")
	drafts.Post("/", h.Draft.HandleOpen)
	drafts.Get("/:id", h.Draft.HandleGet)
	drafts.Delete("/:id", h.Draft.HandleClose)
	drafts.Put("/:id/document", h.Draft.HandleAttachDocument)
	drafts.Put("/:id/roster", h.Draft.HandleAttachRoster)
	drafts.Post("/:id/submit", h.Draft.HandleSubmit)
	drafts.Post("/:id/back", h.Draft.HandleBack)
	drafts.Put("/:id/questions", h.Draft.HandleUpdateQuestions)
	drafts.Post("/:id/save", h.Draft.HandleSave)
}

// ErrorHandler renders errors that escape a handler, including those from
// middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/models"
	"alfredoptarigan/interview-builder/internal/repositories"
)

var (
	ErrAlreadySubmitted = errors.New("draft already submitted")
	ErrWrongStage       = errors.New("operation not allowed at this stage")
	ErrImportNotReady   = errors.New("candidate import is not completed")
	ErrGenerationFailed = errors.New("question generation failed")
)

// WizardService drives the create-interview flow: details, optional job
// description and roster, then generated or manual questions.
type WizardService interface {
	Open(ctx context.Context, userID, organizationID string) (*models.Draft, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	Close(ctx context.Context, id uuid.UUID) error
	AttachDocument(ctx context.Context, id, documentID uuid.UUID) (*models.Draft, error)
	AttachRoster(ctx context.Context, id, importID uuid.UUID) (*models.Draft, error)
	// Submit builds the interview data. On a generation failure the draft
	// is returned to the details stage together with an error wrapping
	// ErrGenerationFailed.
	Submit(ctx context.Context, id uuid.UUID, req models.SubmitDraftRequest) (*models.Draft, error)
	Back(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	UpdateQuestions(ctx context.Context, id uuid.UUID, questions []models.Question) (*models.Draft, error)
	Save(ctx context.Context, id uuid.UUID) (*models.Interview, error)
}

type wizardService struct {
	store         DraftStore
	docRepo       repositories.DocumentRepository
	importRepo    repositories.CandidateImportRepository
	interviewRepo repositories.InterviewRepository
	builder       InterviewBuilder
	log           *zap.Logger
}

func NewWizardService(
	store DraftStore,
	docRepo repositories.DocumentRepository,
	importRepo repositories.CandidateImportRepository,
	interviewRepo repositories.InterviewRepository,
	builder InterviewBuilder,
	log *zap.Logger,
) WizardService {
	return &wizardService{
		store:         store,
		docRepo:       docRepo,
		importRepo:    importRepo,
		interviewRepo: interviewRepo,
		builder:       builder,
		log:           log,
	}
}

// Open implements WizardService.
func (w *wizardService) Open(ctx context.Context, userID, organizationID string) (*models.Draft, error) {
	draft := models.NewDraft(userID, organizationID)
	if err := w.store.Create(ctx, draft); err != nil {
		return nil, err
	}

	w.log.Debug("draft opened", zap.String("draft_id", draft.ID.String()))
	return draft, nil
}

// Get implements WizardService.
func (w *wizardService) Get(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	return w.store.Get(ctx, id)
}

// Close implements WizardService.
func (w *wizardService) Close(ctx context.Context, id uuid.UUID) error {
	return w.store.Delete(ctx, id)
}

func requireStage(draft *models.Draft, stage models.DraftStage) error {
	if draft.Stage != stage {
		return fmt.Errorf("%w: draft is at %s, expected %s", ErrWrongStage, draft.Stage, stage)
	}
	return nil
}

// AttachDocument implements WizardService.
func (w *wizardService) AttachDocument(ctx context.Context, id, documentID uuid.UUID) (*models.Draft, error) {
	doc, err := w.docRepo.FindByID(documentID)
	if err != nil {
		return nil, err
	}

	return w.store.Update(ctx, id, func(d *models.Draft) error {
		if err := requireStage(d, models.StageDetails); err != nil {
			return err
		}
		if !models.VisibleTo(doc.UserID, doc.OrganizationID, d.UserID, d.OrganizationID) {
			return fmt.Errorf("document %s: %w", documentID, repositories.ErrNotFound)
		}
		d.IsJDUploaded = true
		d.JDFileName = doc.OriginalFileName
		d.DocumentID = doc.ID.String()
		d.DocumentContext = doc.ExtractedText
		return nil
	})
}

// AttachRoster implements WizardService.
func (w *wizardService) AttachRoster(ctx context.Context, id, importID uuid.UUID) (*models.Draft, error) {
	imp, err := w.importRepo.FindByID(importID)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(imp.Candidates))
	for _, c := range imp.Candidates {
		candidates = append(candidates, c.ToCandidate())
	}

	return w.store.Update(ctx, id, func(d *models.Draft) error {
		if err := requireStage(d, models.StageDetails); err != nil {
			return err
		}
		if !models.VisibleTo(imp.UserID, imp.OrganizationID, d.UserID, d.OrganizationID) {
			return fmt.Errorf("candidate import %s: %w", importID, repositories.ErrNotFound)
		}
		if imp.Status != models.ImportCompleted {
			return fmt.Errorf("%w: import %s is %s", ErrImportNotReady, importID, imp.Status)
		}
		d.IsCSVUploaded = true
		d.CSVFileName = imp.OriginalName
		d.ImportID = imp.ID.String()
		d.Candidates = candidates
		d.Interview.CSVFile = imp.OriginalName
		return nil
	})
}

// Submit implements WizardService.
func (w *wizardService) Submit(ctx context.Context, id uuid.UUID, req models.SubmitDraftRequest) (*models.Draft, error) {
	if req.Mode != models.SubmitGenerate && req.Mode != models.SubmitManual {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidDetails, req.Mode)
	}

	details, err := ValidateDetails(req.Details)
	if err != nil {
		return nil, err
	}

	// Latch the draft before the slow part so a second submit is rejected.
	draft, err := w.store.Update(ctx, id, func(d *models.Draft) error {
		if d.Clicked {
			return ErrAlreadySubmitted
		}
		if err := requireStage(d, models.StageDetails); err != nil {
			return err
		}
		formDetails := req.Details
		d.Details = &formDetails
		d.Clicked = true
		d.Stage = models.StageLoading
		d.Error = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	input := GenerationInput{
		DocumentID:      draft.DocumentID,
		DocumentContext: draft.DocumentContext,
		Candidates:      draft.Candidates,
	}

	var built models.InterviewBase
	if req.Mode == models.SubmitManual {
		built = w.builder.BuildManual(draft.Interview, details, input)
	} else {
		built, err = w.builder.BuildGenerated(ctx, draft.Interview, details, input)
		if err != nil {
			w.log.Error("question generation failed", zap.String("draft_id", id.String()), zap.Error(err))
			return w.failSubmit(ctx, id, err)
		}
	}

	return w.store.Update(ctx, id, func(d *models.Draft) error {
		d.Interview = built
		d.Stage = models.StageQuestions
		return nil
	})
}

// failSubmit returns the draft to the details stage with the latch released.
// The background context lets the reset land even when the request was
// cancelled mid-generation.
func (w *wizardService) failSubmit(ctx context.Context, id uuid.UUID, cause error) (*models.Draft, error) {
	draft, err := w.store.Update(context.WithoutCancel(ctx), id, func(d *models.Draft) error {
		d.Stage = models.StageDetails
		d.Clicked = false
		d.Error = cause.Error()
		return nil
	})
	if err != nil {
		w.log.Error("failed to reset draft", zap.String("draft_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, cause)
	}

	return draft, fmt.Errorf("%w: %v", ErrGenerationFailed, cause)
}

// Back implements WizardService.
func (w *wizardService) Back(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	return w.store.Update(ctx, id, func(d *models.Draft) error {
		switch d.Stage {
		case models.StageLoading:
			return fmt.Errorf("%w: questions are still being generated", ErrWrongStage)
		case models.StageSaving:
			return fmt.Errorf("%w: interview is being saved", ErrWrongStage)
		}
		d.Stage = models.StageDetails
		d.Clicked = false
		return nil
	})
}

// UpdateQuestions implements WizardService.
func (w *wizardService) UpdateQuestions(ctx context.Context, id uuid.UUID, questions []models.Question) (*models.Draft, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: at least one question is required", ErrInvalidDetails)
	}

	normalized := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			q.ID = uuid.New().String()
		}
		if q.FollowUpCount < 1 {
			q.FollowUpCount = defaultFollowUpCount
		}
		normalized = append(normalized, q)
	}

	return w.store.Update(ctx, id, func(d *models.Draft) error {
		if err := requireStage(d, models.StageQuestions); err != nil {
			return err
		}
		d.Interview.Questions = normalized
		return nil
	})
}

// Save implements WizardService.
func (w *wizardService) Save(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	// Claim the draft so only one save can create the interview.
	draft, err := w.store.Update(ctx, id, func(d *models.Draft) error {
		if d.Stage == models.StageSaving {
			return ErrAlreadySubmitted
		}
		if err := requireStage(d, models.StageQuestions); err != nil {
			return err
		}
		for i, q := range d.Interview.Questions {
			if strings.TrimSpace(q.Question) == "" {
				return fmt.Errorf("%w: question %d is empty", ErrInvalidDetails, i+1)
			}
		}
		d.Stage = models.StageSaving
		return nil
	})
	if err != nil {
		return nil, err
	}

	interview := &models.Interview{
		ID:            uuid.New(),
		InterviewBase: draft.Interview,
	}
	interview.UserID = draft.UserID
	interview.OrganizationID = draft.OrganizationID
	for i, c := range draft.Candidates {
		interview.Interviewees = append(interview.Interviewees, models.IntervieweeFromCandidate(c, i))
	}

	if err := w.interviewRepo.Create(interview); err != nil {
		w.releaseSave(ctx, id)
		return nil, fmt.Errorf("failed to save interview: %w", err)
	}

	if err := w.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrDraftNotFound) {
		w.log.Warn("failed to discard saved draft", zap.String("draft_id", id.String()), zap.Error(err))
	}

	w.log.Info("interview saved",
		zap.String("interview_id", interview.ID.String()),
		zap.Int("questions", len(interview.Questions)),
		zap.Int("interviewees", len(interview.Interviewees)))
	return interview, nil
}

// releaseSave puts a claimed draft back to the questions stage so the save
// can be retried.
func (w *wizardService) releaseSave(ctx context.Context, id uuid.UUID) {
	_, err := w.store.Update(context.WithoutCancel(ctx), id, func(d *models.Draft) error {
		if d.Stage == models.StageSaving {
			d.Stage = models.StageQuestions
		}
		return nil
	})
	if err != nil {
		w.log.Warn("failed to release draft after save error", zap.String("draft_id", id.String()), zap.Error(err))
	}
}

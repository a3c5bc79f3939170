package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/models"
	"alfredoptarigan/interview-builder/internal/repositories"
)

// ImportProcessor runs one queued candidate import to completion.
type ImportProcessor interface {
	ProcessImport(ctx context.Context, id uuid.UUID) error
}

type ImportService interface {
	ImportProcessor
	// CreateImport stores the roster file and records a queued import.
	CreateImport(ctx context.Context, file *multipart.FileHeader, userID, organizationID string) (*models.CandidateImport, error)
	GetImport(id uuid.UUID) (*models.CandidateImport, error)
}

type importService struct {
	importRepo repositories.CandidateImportRepository
	storage    StorageService
	processor  ResumeProcessor
	log        *zap.Logger
}

func NewImportService(
	importRepo repositories.CandidateImportRepository,
	storage StorageService,
	processor ResumeProcessor,
	log *zap.Logger,
) ImportService {
	return &importService{
		importRepo: importRepo,
		storage:    storage,
		processor:  processor,
		log:        log,
	}
}

// CreateImport implements ImportService.
func (s *importService) CreateImport(ctx context.Context, file *multipart.FileHeader, userID, organizationID string) (*models.CandidateImport, error) {
	storedName, _, err := s.storage.SaveFile(ctx, file, "roster")
	if err != nil {
		return nil, err
	}

	imp := &models.CandidateImport{
		ID:             uuid.New(),
		OriginalName:   file.Filename,
		StoredName:     storedName,
		Status:         models.ImportQueued,
		UserID:         userID,
		OrganizationID: organizationID,
	}
	if err := s.importRepo.Create(imp); err != nil {
		if delErr := s.storage.DeleteFile(ctx, storedName); delErr != nil {
			s.log.Warn("failed to remove orphaned roster file", zap.String("file", storedName), zap.Error(delErr))
		}
		return nil, err
	}

	return imp, nil
}

// GetImport implements ImportService.
func (s *importService) GetImport(id uuid.UUID) (*models.CandidateImport, error) {
	return s.importRepo.FindByID(id)
}

// ProcessImport implements ImportProcessor. Failures are recorded on the
// import as well as returned.
func (s *importService) ProcessImport(ctx context.Context, id uuid.UUID) error {
	claimed, err := s.importRepo.MarkProcessing(id)
	if err != nil {
		return err
	}
	if !claimed {
		s.log.Debug("import already taken", zap.String("import_id", id.String()))
		return nil
	}

	imp, err := s.importRepo.FindByID(id)
	if err != nil {
		return s.fail(ctx, id, fmt.Errorf("failed to load import: %w", err))
	}

	data, err := s.storage.ReadFile(ctx, imp.StoredName)
	if err != nil {
		return s.fail(ctx, id, fmt.Errorf("failed to read roster: %w", err))
	}

	entries, err := ParseRoster(imp.StoredName, data)
	if err != nil {
		return s.fail(ctx, id, fmt.Errorf("failed to parse roster: %w", err))
	}

	s.log.Info("processing roster",
		zap.String("import_id", id.String()),
		zap.String("file", imp.OriginalName),
		zap.Int("rows", len(entries)))

	candidates := s.processor.ProcessCandidates(ctx, entries)
	if ctx.Err() != nil {
		return s.fail(ctx, id, ctx.Err())
	}

	rows := make([]models.Interviewee, 0, len(candidates))
	for i, c := range candidates {
		rows = append(rows, models.IntervieweeFromCandidate(c, i))
	}

	failed := CountFailed(candidates)
	if err := s.importRepo.Complete(id, rows, failed); err != nil {
		return s.fail(ctx, id, err)
	}

	s.log.Info("roster processed",
		zap.String("import_id", id.String()),
		zap.Int("candidates", len(rows)),
		zap.Int("failed", failed))
	return nil
}

// fail records cause on the import. An import interrupted by shutdown is
// requeued instead so the next worker picks it up again.
func (s *importService) fail(ctx context.Context, id uuid.UUID, cause error) error {
	if ctx.Err() != nil {
		if err := s.importRepo.Requeue(id); err != nil {
			s.log.Error("failed to requeue import", zap.String("import_id", id.String()), zap.Error(err))
		}
		s.log.Info("import interrupted, requeued", zap.String("import_id", id.String()))
		return fmt.Errorf("import %s interrupted: %w", id, ctx.Err())
	}
	if err := s.importRepo.UpdateError(id, cause.Error()); err != nil {
		s.log.Error("failed to record import error", zap.String("import_id", id.String()), zap.Error(err))
	}
	return cause
}

package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-builder/internal/models"
)

type CandidateImportRepository interface {
	Create(imp *models.CandidateImport) error
	FindByID(id uuid.UUID) (*models.CandidateImport, error)
	// MarkProcessing moves a queued import to processing. It reports false
	// when the import was not queued, so each import is processed once.
	MarkProcessing(id uuid.UUID) (bool, error)
	// Requeue hands a processing import back to the queue.
	Requeue(id uuid.UUID) error
	Complete(id uuid.UUID, candidates []models.Interviewee, failed int) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.CandidateImport, error)
}

type candidateImportRepository struct {
	db *gorm.DB
}

func NewCandidateImportRepository(db *gorm.DB) CandidateImportRepository {
	return &candidateImportRepository{db: db}
}

func (r *candidateImportRepository) Create(imp *models.CandidateImport) error {
	if err := r.db.Omit("Candidates").Create(imp).Error; err != nil {
		return fmt.Errorf("failed to create candidate import: %w", err)
	}
	return nil
}

func (r *candidateImportRepository) FindByID(id uuid.UUID) (*models.CandidateImport, error) {
	var imp models.CandidateImport
	err := r.db.
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&imp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("candidate import %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find candidate import: %w", err)
	}
	return &imp, nil
}

func (r *candidateImportRepository) MarkProcessing(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.CandidateImport{}).
		Where("id = ? AND status = ?", id, models.ImportQueued).
		Updates(map[string]interface{}{
			"status":     models.ImportProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to update status: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *candidateImportRepository) Requeue(id uuid.UUID) error {
	result := r.db.Model(&models.CandidateImport{}).
		Where("id = ? AND status = ?", id, models.ImportProcessing).
		Updates(map[string]interface{}{
			"status":     models.ImportQueued,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to requeue import: %w", result.Error)
	}

	return nil
}

// Complete stores the processed candidates and marks the import completed.
func (r *candidateImportRepository) Complete(id uuid.UUID, candidates []models.Interviewee, failed int) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("import_id = ?", id).Delete(&models.Interviewee{}).Error; err != nil {
			return err
		}

		if len(candidates) > 0 {
			for i := range candidates {
				candidates[i].ImportID = &id
			}
			if err := tx.Create(&candidates).Error; err != nil {
				return err
			}
		}

		result := tx.Model(&models.CandidateImport{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":         models.ImportCompleted,
				"total_rows":     len(candidates),
				"processed_rows": len(candidates) - failed,
				"failed_rows":    failed,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("candidate import %s: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to complete candidate import: %w", err)
	}

	return nil
}

func (r *candidateImportRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.CandidateImport{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.ImportFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate import %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *candidateImportRepository) FindPendingJobs(limit int) ([]models.CandidateImport, error) {
	var imports []models.CandidateImport
	err := r.db.
		Where("status = ?", models.ImportQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&imports).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return imports, nil
}

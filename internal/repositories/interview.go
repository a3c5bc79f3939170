package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-builder/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByID(id uuid.UUID) (*models.Interview, error)
	ListByOrganization(organizationID, userID string) ([]models.Interview, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

// Create stores the interview together with its interviewees.
func (r *interviewRepository) Create(interview *models.Interview) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Interviewees").Create(interview).Error; err != nil {
			return err
		}

		if len(interview.Interviewees) == 0 {
			return nil
		}

		for i := range interview.Interviewees {
			interview.Interviewees[i].InterviewID = &interview.ID
		}

		return tx.Create(&interview.Interviewees).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}

	return nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	err := r.db.
		Preload("Interviewees", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&interview).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("interview %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}

	return &interview, nil
}

// ListByOrganization returns the organization's interviews, newest first.
// Without an organization the user's own interviews are returned.
func (r *interviewRepository) ListByOrganization(organizationID, userID string) ([]models.Interview, error) {
	query := r.db.Order("created_at DESC")
	if organizationID != "" {
		query = query.Where("organization_id = ?", organizationID)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	var interviews []models.Interview
	if err := query.Find(&interviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}

	return interviews, nil
}

package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/interview-builder/internal/models"
)

type InterviewerRepository interface {
	Upsert(interviewers []models.Interviewer) error
	FindAll() ([]models.Interviewer, error)
	FindByID(id int64) (*models.Interviewer, error)
}

type interviewerRepository struct {
	db *gorm.DB
}

func NewInterviewerRepository(db *gorm.DB) InterviewerRepository {
	return &interviewerRepository{db: db}
}

func (r *interviewerRepository) Upsert(interviewers []models.Interviewer) error {
	if len(interviewers) == 0 {
		return nil
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "image", "description", "audio",
			"empathy", "exploration", "rapport", "speed", "updated_at",
		}),
	}).Create(&interviewers).Error
	if err != nil {
		return fmt.Errorf("failed to upsert interviewers: %w", err)
	}

	return nil
}

func (r *interviewerRepository) FindAll() ([]models.Interviewer, error) {
	var interviewers []models.Interviewer
	if err := r.db.Order("id ASC").Find(&interviewers).Error; err != nil {
		return nil, fmt.Errorf("failed to list interviewers: %w", err)
	}
	return interviewers, nil
}

func (r *interviewerRepository) FindByID(id int64) (*models.Interviewer, error) {
	var interviewer models.Interviewer
	if err := r.db.Where("id = ?", id).First(&interviewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("interviewer %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interviewer: %w", err)
	}
	return &interviewer, nil
}

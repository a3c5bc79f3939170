package services

import (
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/models"
	"alfredoptarigan/interview-builder/internal/repositories"
)

type InterviewerService interface {
	// Seed upserts the persona catalogue loaded at startup.
	Seed(interviewers []models.Interviewer) error
	List() ([]models.Interviewer, error)
	Get(id int64) (*models.Interviewer, error)
}

type interviewerService struct {
	repo repositories.InterviewerRepository
	log  *zap.Logger
}

func NewInterviewerService(repo repositories.InterviewerRepository, log *zap.Logger) InterviewerService {
	return &interviewerService{repo: repo, log: log}
}

func (s *interviewerService) Seed(interviewers []models.Interviewer) error {
	if err := s.repo.Upsert(interviewers); err != nil {
		return err
	}
	s.log.Info("interviewers seeded", zap.Int("count", len(interviewers)))
	return nil
}

func (s *interviewerService) List() ([]models.Interviewer, error) {
	return s.repo.FindAll()
}

func (s *interviewerService) Get(id int64) (*models.Interviewer, error) {
	return s.repo.FindByID(id)
}

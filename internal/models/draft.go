package models

import (
	"time"

	"github.com/google/uuid"
)

type DraftStage string

const (
	StageDetails   DraftStage = "details"
	StageLoading   DraftStage = "loading"
	StageQuestions DraftStage = "questions"
	StageSaving    DraftStage = "saving"
)

// Draft is an interview being put together in the create-interview wizard.
// It lives in the draft store until it is saved or closed.
type Draft struct {
	ID             uuid.UUID         `json:"id"`
	UserID         string            `json:"user_id"`
	OrganizationID string            `json:"organization_id"`
	Stage          DraftStage        `json:"stage"`
	Interview      InterviewBase     `json:"interview"`
	Details        *InterviewDetails `json:"details,omitempty"`

	IsJDUploaded    bool   `json:"is_jd_uploaded"`
	JDFileName      string `json:"jd_file_name"`
	DocumentID      string `json:"document_id,omitempty"`
	DocumentContext string `json:"document_context"`

	IsCSVUploaded bool        `json:"is_csv_uploaded"`
	CSVFileName   string      `json:"csv_file_name"`
	ImportID      string      `json:"import_id,omitempty"`
	Candidates    []Candidate `json:"candidates"`

	// Clicked is set once a submit has started and cleared by going back or
	// by a failed generation.
	Clicked bool   `json:"clicked"`
	Error   string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDraft returns a draft at the details stage with an empty interview.
func NewDraft(userID, organizationID string) *Draft {
	now := time.Now().UTC()
	return &Draft{
		ID:             uuid.New(),
		UserID:         userID,
		OrganizationID: organizationID,
		Stage:          StageDetails,
		Interview:      NewEmptyInterviewBase(),
		Candidates:     []Candidate{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

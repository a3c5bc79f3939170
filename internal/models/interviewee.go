package models

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is one roster row after resume processing. The JSON keys match
// the payload the question generator receives as "users".
type Candidate struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	ResumeLink string `json:"resumeLink"`
	ResumeText string `json:"resumeText"`
	Error      string `json:"error,omitempty"`
}

type Interviewee struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewID *uuid.UUID `gorm:"type:uuid;index" json:"interview_id,omitempty"`
	ImportID    *uuid.UUID `gorm:"type:uuid;index" json:"import_id,omitempty"`
	Position    int        `json:"position"`
	Name        string     `gorm:"type:text" json:"name"`
	Email       string     `gorm:"type:text" json:"email"`
	ResumeLink  string     `gorm:"type:text" json:"resume_link"`
	ResumeText  string     `gorm:"type:text" json:"resume_text"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
	CreatedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Interviewee) TableName() string {
	return "interviewees"
}

func (i Interviewee) ToCandidate() Candidate {
	return Candidate{
		Name:       i.Name,
		Email:      i.Email,
		ResumeLink: i.ResumeLink,
		ResumeText: i.ResumeText,
		Error:      i.Error,
	}
}

func IntervieweeFromCandidate(c Candidate, position int) Interviewee {
	return Interviewee{
		ID:         uuid.New(),
		Position:   position,
		Name:       c.Name,
		Email:      c.Email,
		ResumeLink: c.ResumeLink,
		ResumeText: c.ResumeText,
		Error:      c.Error,
	}
}

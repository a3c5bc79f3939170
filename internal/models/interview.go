package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is a single interview question. FollowUpCount is how many
// follow-ups the interviewer may ask.
type Question struct {
	ID            string `json:"id"`
	Question      string `json:"question"`
	FollowUpCount int    `json:"follow_up_count"`
}

// InterviewBase is the editable interview definition carried through the
// create-interview flow.
type InterviewBase struct {
	UserID         string      `gorm:"type:text;index" json:"user_id"`
	OrganizationID string      `gorm:"type:text;index" json:"organization_id"`
	Name           string      `gorm:"type:text" json:"name"`
	InterviewerID  int64       `json:"interviewer_id"`
	Objective      string      `gorm:"type:text" json:"objective"`
	QuestionCount  int         `json:"question_count"`
	TimeDuration   string      `gorm:"type:text" json:"time_duration"`
	IsAnonymous    bool        `gorm:"not null;default:false" json:"is_anonymous"`
	Questions      []Question  `gorm:"type:jsonb;serializer:json" json:"questions"`
	Description    string      `gorm:"type:text" json:"description"`
	ResponseCount  int64       `gorm:"not null;default:0" json:"response_count"`
	CSVFile        string      `gorm:"type:text" json:"csv_file"`
	Candidates     []Candidate `gorm:"-" json:"candidates,omitempty"`
}

// NewEmptyInterviewBase returns the blank interview a new draft starts from.
func NewEmptyInterviewBase() InterviewBase {
	return InterviewBase{
		Questions: []Question{},
	}
}

type Interview struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewBase
	Interviewees []Interviewee `gorm:"foreignKey:InterviewID" json:"interviewees,omitempty"`
	CreatedAt    time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Interview) TableName() string {
	return "interviews"
}

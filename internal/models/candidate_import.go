package models

import (
	"time"

	"github.com/google/uuid"
)

type ImportStatus string

const (
	ImportQueued     ImportStatus = "queued"
	ImportProcessing ImportStatus = "processing"
	ImportCompleted  ImportStatus = "completed"
	ImportFailed     ImportStatus = "failed"
)

// CandidateImport tracks one uploaded roster file through the worker.
type CandidateImport struct {
	ID             uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OriginalName   string        `gorm:"type:text" json:"file_name"`
	StoredName     string        `gorm:"type:text" json:"-"`
	Status         ImportStatus  `gorm:"not null;default:'queued'" json:"status"`
	TotalRows      int           `json:"total_rows"`
	ProcessedRows  int           `json:"processed_rows"`
	FailedRows     int           `json:"failed_rows"`
	ErrorMessage   string        `gorm:"type:text" json:"error_message,omitempty"`
	UserID         string        `gorm:"type:text" json:"user_id"`
	OrganizationID string        `gorm:"type:text" json:"organization_id"`
	Candidates     []Interviewee `gorm:"foreignKey:ImportID" json:"-"`
	CreatedAt      time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CandidateImport) TableName() string {
	return "candidate_imports"
}

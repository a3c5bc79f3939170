package models

import "time"

// Interviewer is an interviewer persona a user picks for an interview.
type Interviewer struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id" yaml:"id"`
	Name        string    `gorm:"type:text;not null" json:"name" yaml:"name"`
	Image       string    `gorm:"type:text" json:"image" yaml:"image"`
	Description string    `gorm:"type:text" json:"description" yaml:"description"`
	Audio       string    `gorm:"type:text" json:"audio" yaml:"audio"`
	Empathy     int       `json:"empathy" yaml:"empathy"`
	Exploration int       `json:"exploration" yaml:"exploration"`
	Rapport     int       `json:"rapport" yaml:"rapport"`
	Speed       int       `json:"speed" yaml:"speed"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at" yaml:"-"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at" yaml:"-"`
}

func (Interviewer) TableName() string {
	return "interviewers"
}

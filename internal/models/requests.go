package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FormNumber is a numeric form value that arrives either as a JSON string
// ("5", "") or as a JSON number (5). It is kept as the raw string so that an
// empty field can be told apart from zero.
type FormNumber string

func (n *FormNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = FormNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*n = FormNumber(num.String())
	return nil
}

type DocumentResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
	PageCount    int    `json:"page_count"`
	Text         string `json:"text"`
}

type ImportResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ImportResultResponse struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	FileName      string      `json:"file_name"`
	TotalRows     int         `json:"total_rows"`
	ProcessedRows int         `json:"processed_rows"`
	FailedRows    int         `json:"failed_rows"`
	Candidates    []Candidate `json:"candidates,omitempty"`
	ErrorMessage  *string     `json:"error_message,omitempty"`
}

// GenerateQuestionsRequest is the body of POST /api/generate-interview-questions.
type GenerateQuestionsRequest struct {
	Name      string      `json:"name"`
	Objective string      `json:"objective"`
	Number    FormNumber  `json:"number"`
	Context   string      `json:"context"`
	Users     []Candidate `json:"users"`
	// DocumentID lets the generator retrieve indexed chunks instead of
	// relying on Context alone.
	DocumentID string `json:"document_id,omitempty"`
}

// GenerateQuestionsResponse wraps the generated JSON document as a string.
type GenerateQuestionsResponse struct {
	Response string `json:"response"`
}

type GeneratedQuestion struct {
	Question string `json:"question"`
}

type GeneratedQuestions struct {
	Questions   []GeneratedQuestion `json:"questions"`
	Description string              `json:"description"`
}

// InterviewDetails is what the details form collects.
type InterviewDetails struct {
	Name          string     `json:"name"`
	Objective     string     `json:"objective"`
	InterviewerID int64      `json:"interviewer_id"`
	IsAnonymous   bool       `json:"is_anonymous"`
	QuestionCount FormNumber `json:"question_count"`
	TimeDuration  FormNumber `json:"time_duration"`
}

type SubmitMode string

const (
	SubmitGenerate SubmitMode = "generate"
	SubmitManual   SubmitMode = "manual"
)

type SubmitDraftRequest struct {
	Mode    SubmitMode       `json:"mode"`
	Details InterviewDetails `json:"details"`
}

type AttachDocumentRequest struct {
	DocumentID string `json:"document_id"`
}

type AttachRosterRequest struct {
	ImportID string `json:"import_id"`
}

type UpdateQuestionsRequest struct {
	Questions []Question `json:"questions"`
}

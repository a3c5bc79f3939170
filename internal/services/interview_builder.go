package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/interview-builder/internal/models"
)

const (
	MaxQuestionCount = 5
	MaxDuration      = 10

	defaultFollowUpCount = 1
)

var (
	ErrInvalidDetails = errors.New("invalid interview details")

	errMissingValue   = errors.New("is required")
	errNotPositiveInt = errors.New("must be a positive integer")
)

// NormalizeCount parses a positive integer form value and clamps it to max.
func NormalizeCount(value string, max int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errMissingValue
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, errNotPositiveInt
	}
	if n > max {
		n = max
	}

	return n, nil
}

// ValidatedDetails is the details form after trimming and clamping.
type ValidatedDetails struct {
	Name          string
	Objective     string
	InterviewerID int64
	IsAnonymous   bool
	QuestionCount int
	Duration      int
}

// ValidateDetails checks that every required field of the details form is
// filled in. All returned errors wrap ErrInvalidDetails.
func ValidateDetails(d models.InterviewDetails) (*ValidatedDetails, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name %w", ErrInvalidDetails, errMissingValue)
	}

	objective := strings.TrimSpace(d.Objective)
	if objective == "" {
		return nil, fmt.Errorf("%w: objective %w", ErrInvalidDetails, errMissingValue)
	}

	if d.InterviewerID == 0 {
		return nil, fmt.Errorf("%w: interviewer %w", ErrInvalidDetails, errMissingValue)
	}

	count, err := NormalizeCount(string(d.QuestionCount), MaxQuestionCount)
	if err != nil {
		return nil, fmt.Errorf("%w: question count %w", ErrInvalidDetails, err)
	}

	duration, err := NormalizeCount(string(d.TimeDuration), MaxDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: duration %w", ErrInvalidDetails, err)
	}

	return &ValidatedDetails{
		Name:          name,
		Objective:     objective,
		InterviewerID: d.InterviewerID,
		IsAnonymous:   d.IsAnonymous,
		QuestionCount: count,
		Duration:      duration,
	}, nil
}

// GenerationInput is what the wizard has collected besides the form.
type GenerationInput struct {
	DocumentID      string
	DocumentContext string
	Candidates      []models.Candidate
}

type InterviewBuilder interface {
	// BuildGenerated fills base from the details and LLM generated questions.
	BuildGenerated(ctx context.Context, base models.InterviewBase, details *ValidatedDetails, input GenerationInput) (models.InterviewBase, error)
	// BuildManual fills base from the details with a single blank question.
	BuildManual(base models.InterviewBase, details *ValidatedDetails, input GenerationInput) models.InterviewBase
}

type interviewBuilder struct {
	generator QuestionGenerator
}

func NewInterviewBuilder(generator QuestionGenerator) InterviewBuilder {
	return &interviewBuilder{generator: generator}
}

// BuildGenerated implements InterviewBuilder.
func (b *interviewBuilder) BuildGenerated(ctx context.Context, base models.InterviewBase, details *ValidatedDetails, input GenerationInput) (models.InterviewBase, error) {
	response, err := b.generator.GenerateQuestions(ctx, &models.GenerateQuestionsRequest{
		Name:       details.Name,
		Objective:  details.Objective,
		Number:     models.FormNumber(strconv.Itoa(details.QuestionCount)),
		Context:    input.DocumentContext,
		Users:      input.Candidates,
		DocumentID: input.DocumentID,
	})
	if err != nil {
		return base, fmt.Errorf("failed to generate questions: %w", err)
	}

	generated, err := ParseGeneratedQuestions(response)
	if err != nil {
		return base, err
	}

	questions := make([]models.Question, 0, len(generated.Questions))
	for _, q := range generated.Questions {
		questions = append(questions, newQuestion(strings.TrimSpace(q.Question)))
	}

	out := applyDetails(base, details, input)
	out.Questions = questions
	out.Description = generated.Description
	return out, nil
}

// BuildManual implements InterviewBuilder.
func (b *interviewBuilder) BuildManual(base models.InterviewBase, details *ValidatedDetails, input GenerationInput) models.InterviewBase {
	out := applyDetails(base, details, input)
	out.Questions = []models.Question{newQuestion("")}
	out.Description = ""
	return out
}

func applyDetails(base models.InterviewBase, details *ValidatedDetails, input GenerationInput) models.InterviewBase {
	base.Name = details.Name
	base.Objective = details.Objective
	base.InterviewerID = details.InterviewerID
	base.QuestionCount = details.QuestionCount
	base.TimeDuration = strconv.Itoa(details.Duration)
	base.IsAnonymous = details.IsAnonymous
	if len(input.Candidates) > 0 {
		base.Candidates = input.Candidates
	}
	return base
}

func newQuestion(text string) models.Question {
	return models.Question{
		ID:            uuid.New().String(),
		Question:      text,
		FollowUpCount: defaultFollowUpCount,
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/models"
)

var ErrInvalidLLMResponse = errors.New("invalid question generation response")

const (
	questionTemperature = 0.7
	retrievalChunkLimit = 6
)

// QuestionGenerator produces interview questions and a description. The
// result is the JSON document {"questions":[{"question"}],"description"}.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req *models.GenerateQuestionsRequest) (string, error)
}

type QuestionGeneratorConfig struct {
	MaxRetries      int
	InitialDelay    time.Duration
	MaxContextChars int
}

type questionGenerator struct {
	llm           LLMService
	indexer       DocumentIndexer
	promptBuilder *PromptBuilder
	cfg           QuestionGeneratorConfig
	log           *zap.Logger
}

// NewQuestionGenerator builds a generator. indexer may be nil, in which case
// long contexts are truncated instead of retrieved.
func NewQuestionGenerator(llm LLMService, indexer DocumentIndexer, cfg QuestionGeneratorConfig, log *zap.Logger) QuestionGenerator {
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = 12000
	}
	return &questionGenerator{
		llm:           llm,
		indexer:       indexer,
		promptBuilder: NewPromptBuilder(),
		cfg:           cfg,
		log:           log,
	}
}

// GenerateQuestions implements QuestionGenerator.
func (g *questionGenerator) GenerateQuestions(ctx context.Context, req *models.GenerateQuestionsRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	objective := strings.TrimSpace(req.Objective)

	count, err := NormalizeCount(string(req.Number), MaxQuestionCount)
	if err != nil {
		return "", fmt.Errorf("%w: question count %w", ErrInvalidDetails, err)
	}

	documentContext := g.resolveContext(ctx, req, name, objective)
	prompt := g.promptBuilder.BuildQuestionsPrompt(name, objective, count, documentContext, req.Users)

	g.log.Debug("generating interview questions",
		zap.String("name", name),
		zap.Int("count", count),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("candidates", len(req.Users)))

	return GenerateWithRetry(ctx, g.log, g.cfg.MaxRetries, g.cfg.InitialDelay, func(ctx context.Context) (string, error) {
		response, err := g.llm.GenerateJSON(ctx, prompt, questionTemperature)
		if err != nil {
			return "", err
		}

		generated, err := ParseGeneratedQuestions(response)
		if err != nil {
			return "", err
		}
		if len(generated.Questions) > count {
			generated.Questions = generated.Questions[:count]
		}

		out, err := json.Marshal(generated)
		if err != nil {
			return "", fmt.Errorf("failed to encode questions: %w", err)
		}
		return string(out), nil
	})
}

// resolveContext returns the document context to quote in the prompt. Long
// contexts are replaced by the most relevant indexed chunks when possible.
func (g *questionGenerator) resolveContext(ctx context.Context, req *models.GenerateQuestionsRequest, name, objective string) string {
	text := strings.TrimSpace(req.Context)
	if utf8.RuneCountInString(text) <= g.cfg.MaxContextChars {
		return text
	}

	if g.indexer != nil && req.DocumentID != "" {
		query := g.promptBuilder.BuildRetrievalQuery(name, objective)
		retrieved, err := g.indexer.RetrieveContext(ctx, req.DocumentID, query, retrievalChunkLimit)
		if err != nil {
			g.log.Warn("context retrieval failed, truncating instead",
				zap.String("document_id", req.DocumentID),
				zap.Error(err))
		} else if retrieved != "" {
			return retrieved
		}
	}

	return truncateRunes(text, g.cfg.MaxContextChars)
}

// ParseGeneratedQuestions decodes a model response, tolerating markdown
// fences, and drops blank questions.
func ParseGeneratedQuestions(response string) (*models.GeneratedQuestions, error) {
	var generated models.GeneratedQuestions
	if err := json.Unmarshal([]byte(extractJSON(response)), &generated); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLLMResponse, err)
	}

	questions := make([]models.GeneratedQuestion, 0, len(generated.Questions))
	for _, q := range generated.Questions {
		if text := strings.TrimSpace(q.Question); text != "" {
			questions = append(questions, models.GeneratedQuestion{Question: text})
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidLLMResponse)
	}

	generated.Questions = questions
	generated.Description = strings.TrimSpace(generated.Description)
	return &generated, nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

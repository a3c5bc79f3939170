package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// LLMService is the language model backend used for question generation and
// document embeddings.
type LLMService interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	// GenerateJSON asks the model for a single JSON object.
	GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingDimensions is the vector size every provider is asked for so the
// Qdrant collection works with either.
const EmbeddingDimensions = 768

// maxEmbeddingChars keeps embedding input under the provider token limits.
const maxEmbeddingChars = 40000

func truncateForEmbedding(text string) string {
	if len(text) <= maxEmbeddingChars {
		return text
	}

	cut := maxEmbeddingChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// NewLLMService builds the provider named by provider ("gemini" or "openai").
func NewLLMService(ctx context.Context, provider, geminiKey, geminiModel, openAIKey, openAIModel string, log *zap.Logger) (LLMService, error) {
	switch provider {
	case "gemini", "":
		return NewGeminiService(ctx, geminiKey, geminiModel, log)
	case "openai":
		return NewOpenAIService(openAIKey, openAIModel, log)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

// GenerateWithRetry calls generate up to maxRetries times, doubling the wait
// between attempts starting from initialDelay.
func GenerateWithRetry(ctx context.Context, log *zap.Logger, maxRetries int, initialDelay time.Duration, generate func(context.Context) (string, error)) (string, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	delay := initialDelay

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := generate(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if attempt == maxRetries {
			break
		}

		log.Warn("llm attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

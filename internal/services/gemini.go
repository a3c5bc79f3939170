package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	log        *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, log *zap.Logger) (LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &geminiService{
		client:     client,
		modelName:  modelName,
		embedModel: "text-embedding-004",
		log:        log,
	}, nil
}

// GenerateEmbedding implements LLMService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(truncateForEmbedding(text)), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements LLMService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return g.generate(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	})
}

// GenerateJSON implements LLMService.
func (g *geminiService) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	return g.generate(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  4096,
		ResponseMIMEType: "application/json",
	})
}

func (g *geminiService) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		g.log.Error("gemini api error", zap.Error(err))
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		// Fall back to raw candidate parts when the SDK helper finds no text
		var textParts []string
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part != nil && part.Text != "" {
					textParts = append(textParts, part.Text)
				}
			}
		}

		if len(textParts) > 0 {
			g.log.Warn("using candidate parts as gemini response text")
			return strings.Join(textParts, "\n"), nil
		}

		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

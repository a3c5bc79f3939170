package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
	"go.uber.org/zap"
)

type openAIService struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

func NewOpenAIService(apiKey, model string, log *zap.Logger) (LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is not configured")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	if model == "" {
		model = "gpt-4o-mini"
	}

	return &openAIService{
		client: &client,
		model:  model,
		log:    log,
	}, nil
}

// GenerateText implements LLMService.
func (o *openAIService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return o.complete(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(o.model),
		Temperature: openai.Float(float64(temperature)),
	})
}

// GenerateJSON implements LLMService.
func (o *openAIService) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	return o.complete(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are an expert in coming up with follow up questions to uncover deeper insights. Return ONLY valid JSON."),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(o.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(float64(temperature)),
	})
}

func (o *openAIService) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		o.log.Error("openai api error", zap.Error(err))
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("no response from openai")
	}

	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return content, nil
}

// GenerateEmbedding implements LLMService.
func (o *openAIService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(truncateForEmbedding(text)),
		},
		Model:      openai.EmbeddingModelTextEmbedding3Small,
		Dimensions: openai.Int(EmbeddingDimensions),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	values := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		values[i] = float32(v)
	}

	return values, nil
}

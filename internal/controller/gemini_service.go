package controller

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiService генерирует описание продукта через Gemini.
// Модель отвечает строго JSON по схеме контейнера листингов
type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

// NewGeminiService создает клиента Gemini.
// fields — имена полей одного листинга (схема строится динамически,
// как и контейнер {"listings": [...]})
func NewGeminiService(ctx context.Context, apiKey, modelName string, fields []string, logger *zap.Logger) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = listingsContainerSchema(fields)

	return &GeminiService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// listingsContainerSchema собирает схему {"listings": [{field: string, ...}]}
func listingsContainerSchema(fields []string) *genai.Schema {
	props := make(map[string]*genai.Schema, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f] = &genai.Schema{Type: genai.TypeString}
		required = append(required, f)
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"listings": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: props,
					Required:   required,
				},
			},
		},
		Required: []string{"listings"},
	}
}

// Generate отправляет промпт и возвращает текст первого кандидата
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned empty response")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("gemini returned non-text part")
	}

	s.logger.Debug("gemini responded", zap.Int("length", len(text)))
	return string(text), nil
}

// Close закрывает соединение с API
func (s *GeminiService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// BuildPrompt собирает промпт из системного сообщения и извлеченного текста
func BuildPrompt(systemMessage, extractedText string) string {
	return systemMessage + extractedText
}

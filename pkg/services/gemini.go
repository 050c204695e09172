package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"NeuraFlow/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiRequester answers queries in-process: it builds the analysis prompt
// and sends it to Gemini, standing in for the external AI service.
type GeminiRequester struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

func NewGeminiRequester(ctx context.Context, apiKey, model string, log *zap.Logger) (*GeminiRequester, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiRequester(client.Models, model, log), nil
}

func newGeminiRequester(models contentGenerator, model string, log *zap.Logger) *GeminiRequester {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}
	return &GeminiRequester{
		models: models,
		model:  model,
		logger: logger.WithCommonFields(logger.OrNop(log), "gemini", model),
	}
}

func (g *GeminiRequester) Query(ctx context.Context, q QueryRequest) (string, error) {
	prompt := BuildPrompt(q)
	g.logger.Debug("gemini generate content request", logger.TextFields("prompt", prompt, 120)...)

	temperature := float32(0.7)
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 2048,
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &AIServiceError{StatusCode: apiErr.Code, Err: err}
		}
		return "", &AIServiceError{Err: fmt.Errorf("generate content: %w", err)}
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			b.WriteString(part.Text)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", &AIServiceError{Err: errors.New("gemini api returned empty response")}
	}
	g.logger.Debug("gemini generate content response", logger.TextFields("ai_output", out, 120)...)
	return out, nil
}

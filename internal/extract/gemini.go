package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Gemini is the production TextGenerator backed by the Gemini API.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewGemini initializes the Gemini client with an API key.
func NewGemini(ctx context.Context, apiKey, model string, temperature float32, logger *zap.Logger) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model, temperature: temperature, logger: logger}, nil
}

// GenerateText sends the prompt with the system instruction attached and
// concatenates the text parts of the first candidate that has any.
func (g *Gemini) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				break
			}
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("model returned no text")
	}
	g.logger.Debug("model response received",
		zap.String("model", g.model),
		zap.Int("bytes", text.Len()),
	)
	return text.String(), nil
}

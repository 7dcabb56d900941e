package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// geminiClient calls the Gemini API through the Google GenAI SDK.
type geminiClient struct {
	client *genai.Client
}

func newGeminiClient(ctx context.Context, cfg LLMConfig) (*geminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{client: client}, nil
}

func (g *geminiClient) complete(ctx context.Context, c completion) (string, error) {
	temp := float32(c.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if c.MaxTokens > 0 {
		config.MaxOutputTokens = int32(c.MaxTokens) //nolint:gosec // bounded by config
	}
	if c.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: c.System}},
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, c.Model, genai.Text(c.Prompt), config)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", ErrEmptyResponse
	}
	return result.Text(), nil
}

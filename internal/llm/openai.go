package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// openAIClient calls the OpenAI Responses API.
type openAIClient struct {
	client openai.Client
}

func newOpenAIClient(cfg LLMConfig) *openAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	return &openAIClient{client: openai.NewClient(opts...)}
}

func (o *openAIClient) complete(ctx context.Context, c completion) (string, error) {
	params := responses.ResponseNewParams{
		Model:       c.Model,
		Input:       responses.ResponseNewParamsInputUnion{OfString: openai.String(c.Prompt)},
		Temperature: openai.Float(c.Temperature),
	}
	if c.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(c.MaxTokens))
	}
	if c.System != "" {
		params.Instructions = openai.String(c.System)
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}
	return resp.OutputText(), nil
}

package llm

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const defaultOllamaEndpoint = "http://localhost:11434"

// ollamaClient talks to a local Ollama instance.
type ollamaClient struct {
	client *api.Client
}

func newOllamaClient(cfg LLMConfig) (*ollamaClient, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOllamaEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama endpoint %q: %w", endpoint, err)
	}
	httpClient := &http.Client{Transport: newProviderTransport()}
	return &ollamaClient{client: api.NewClient(u, httpClient)}, nil
}

// newProviderTransport is the default transport with a short dial timeout,
// so an absent local server fails fast.
func newProviderTransport() *http.Transport {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return tr
}

func (o *ollamaClient) complete(ctx context.Context, c completion) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  c.Model,
		System: c.System,
		Prompt: c.Prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": c.Temperature,
		},
	}
	if c.MaxTokens > 0 {
		req.Options["num_predict"] = c.MaxTokens
	}

	var b strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		b.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

package llm

import (
	"context"
	"fmt"
)

// NewClient builds the LLMClient for cfg.Provider. Hosted providers require
// an API key; Ollama does not.
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if observer == nil {
		observer = NoopObserver{}
	}

	var backend completer
	switch cfg.Provider {
	case ProviderGemini, "":
		cfg.Provider = ProviderGemini
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: provider %s", ErrMissingAPIKey, cfg.Provider)
		}
		g, err := newGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		backend = g
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: provider %s", ErrMissingAPIKey, cfg.Provider)
		}
		backend = newOpenAIClient(cfg)
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: provider %s", ErrMissingAPIKey, cfg.Provider)
		}
		backend = newAnthropicClient(cfg)
	case ProviderOllama:
		o, err := newOllamaClient(cfg)
		if err != nil {
			return nil, err
		}
		backend = o
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	return &instrumentedClient{
		cfg:      cfg,
		backend:  backend,
		observer: observer,
		tokens:   NewTokenCounter(),
	}, nil
}

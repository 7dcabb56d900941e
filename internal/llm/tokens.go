package llm

import (
	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter estimates prompt sizes for call telemetry. Every provider is
// approximated with the GPT-4 encoding.
type TokenCounter struct {
	codec tokenizer.Codec
}

// NewTokenCounter loads the GPT-4 codec. A nil counter, or one whose codec
// failed to load, falls back to a 4-characters-per-token estimate.
func NewTokenCounter() *TokenCounter {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return &TokenCounter{}
	}
	return &TokenCounter{codec: codec}
}

// CountTokens returns the estimated number of tokens in text.
func (tc *TokenCounter) CountTokens(text string) int {
	if tc == nil || tc.codec == nil {
		return len(text) / 4
	}
	count, err := tc.codec.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}

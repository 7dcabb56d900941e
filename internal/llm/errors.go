package llm

import "errors"

var (
	// ErrProviderUnavailable indicates the provider endpoint is unreachable.
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrCanceled indicates the caller abandoned the request.
	ErrCanceled = errors.New("llm request canceled")

	// ErrEmptyResponse indicates the provider answered without any text.
	ErrEmptyResponse = errors.New("llm returned an empty response")

	// ErrRequestFailed indicates the provider rejected or failed the call.
	ErrRequestFailed = errors.New("llm request failed")

	// ErrMissingAPIKey indicates a hosted provider was selected without a key.
	ErrMissingAPIKey = errors.New("llm api key not configured")

	// ErrUnknownProvider indicates an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown llm provider")
)

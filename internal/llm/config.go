package llm

import (
	"os"
	"strconv"
	"strings"
)

// Provider names a text-generation backend.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskStudyPlan TaskType = "study_plan"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutMs   int     `yaml:"timeout_ms"` // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider  Provider                `yaml:"provider"`
	APIKey    string                  `yaml:"api_key"`
	Model     string                  `yaml:"model"`
	Endpoint  string                  `yaml:"endpoint"` // empty uses the provider default
	TimeoutMs int                     `yaml:"timeout_ms"`
	LogCalls  bool                    `yaml:"log_calls"`
	Tasks     map[TaskType]TaskConfig `yaml:"tasks"`
}

// DefaultConfig returns an LLMConfig targeting Gemini. The API key is left
// empty and must come from the environment or a config file.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:  ProviderGemini,
		TimeoutMs: 60000,
		LogCalls:  true,
		Tasks: map[TaskType]TaskConfig{
			TaskStudyPlan: {Temperature: 0.7, MaxTokens: 8192},
		},
	}
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-sonnet-4-5"
	case ProviderOllama:
		return "llama3.2"
	default:
		return "gemini-2.5-flash"
	}
}

// ApplyEnv overlays STUDYPLAN_LLM_* environment variables onto cfg.
// Provider-native key variables are consulted when no key is set.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("STUDYPLAN_LLM_PROVIDER"); v != "" {
		cfg.Provider = Provider(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv("STUDYPLAN_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("STUDYPLAN_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("STUDYPLAN_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("STUDYPLAN_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("STUDYPLAN_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("STUDYPLAN_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tc := cfg.Tasks[TaskStudyPlan]
			tc.MaxTokens = n
			cfg.setTask(TaskStudyPlan, tc)
		}
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(nativeKeyEnv(cfg.Provider))
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

func nativeKeyEnv(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

func (c *LLMConfig) setTask(task TaskType, tc TaskConfig) {
	if c.Tasks == nil {
		c.Tasks = make(map[TaskType]TaskConfig)
	}
	c.Tasks[task] = tc
}

// ModelName returns the configured model or the provider default.
func (c LLMConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

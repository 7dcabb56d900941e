// Package config loads gateway settings from defaults, an optional YAML
// file and STUDYPLAN_* environment variables, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alexanderramin/studyplan/internal/llm"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr      = ":3001"
	DefaultServerURL = "http://localhost:3001"
)

// Config holds all settings for the gateway and the client commands.
type Config struct {
	Addr           string        `yaml:"addr"`
	ServerURL      string        `yaml:"server_url"` // gateway address used by the client commands
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Locale         string        `yaml:"locale"`
	Message        string        `yaml:"message"` // empty uses the locale's liveness message
	LogLevel       string        `yaml:"log_level"`
	LLM            llm.LLMConfig `yaml:"llm"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Addr:           DefaultAddr,
		ServerURL:      DefaultServerURL,
		AllowedOrigins: []string{"*"},
		Locale:         "en",
		LogLevel:       "info",
		LLM:            llm.DefaultConfig(),
	}
}

// Load builds a Config. When path is non-empty the file must exist and
// parse; environment variables are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	llm.ApplyEnv(&cfg.LLM)

	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STUDYPLAN_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("STUDYPLAN_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("STUDYPLAN_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("STUDYPLAN_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("STUDYPLAN_MESSAGE"); v != "" {
		cfg.Message = v
	}
	if v := os.Getenv("STUDYPLAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

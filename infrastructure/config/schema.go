// Package config provides configuration loading for the checklist engine.
package config

import (
	"errors"
	"fmt"
)

// Config errors.
var (
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidFormat    = errors.New("invalid config format")
	ErrMissingEnvVar    = errors.New("missing environment variable")
	ErrValidationFailed = errors.New("config validation failed")
)

// Config is the engine configuration tree. Durations are expressed in
// seconds to keep the YAML surface plain.
type Config struct {
	// StorageDir is the base directory for checklist and session data.
	StorageDir string `yaml:"storage_dir"`

	// MaxPhaseRevisits bounds gap-analysis revision loops.
	MaxPhaseRevisits int `yaml:"max_phase_revisits"`

	// MaxIterations bounds decisions executed per Run call.
	MaxIterations int `yaml:"max_iterations"`

	// SkillTimeoutSeconds bounds a single skill invocation.
	SkillTimeoutSeconds int `yaml:"skill_timeout_seconds"`

	// ToolTimeoutSeconds bounds a single tool invocation.
	ToolTimeoutSeconds int `yaml:"tool_timeout_seconds"`

	// RetryMaxAttempts is the attempt budget for skill and tool calls.
	RetryMaxAttempts int `yaml:"retry_max_attempts"`

	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Tavily     TavilyConfig     `yaml:"tavily"`
	Session    SessionConfig    `yaml:"session"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// OpenRouterConfig configures the skill model endpoint.
type OpenRouterConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	Model           string  `yaml:"model"`
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// TavilyConfig configures the web research tool.
type TavilyConfig struct {
	APIKey      string `yaml:"api_key"`
	MaxResults  int    `yaml:"max_results"`
	SearchDepth string `yaml:"search_depth"`
}

// SessionConfig configures BadgerDB session persistence.
type SessionConfig struct {
	Dir        string `yaml:"dir"`
	InMemory   bool   `yaml:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		StorageDir:          "./data/checklists",
		MaxPhaseRevisits:    3,
		MaxIterations:       40,
		SkillTimeoutSeconds: 120,
		ToolTimeoutSeconds:  60,
		RetryMaxAttempts:    3,
		OpenRouter: OpenRouterConfig{
			Model:           "x-ai/grok-4-fast",
			BaseURL:         "https://openrouter.ai/api/v1",
			Temperature:     0.2,
			MaxOutputTokens: 1200,
		},
		Tavily: TavilyConfig{
			MaxResults:  8,
			SearchDepth: "advanced",
		},
		Session: SessionConfig{
			Dir: "./data/sessions",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.MaxPhaseRevisits < 1 {
		return fmt.Errorf("%w: max_phase_revisits must be at least 1", ErrValidationFailed)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max_iterations must be at least 1", ErrValidationFailed)
	}
	if c.SkillTimeoutSeconds < 1 || c.ToolTimeoutSeconds < 1 {
		return fmt.Errorf("%w: timeouts must be at least 1 second", ErrValidationFailed)
	}
	switch c.Tavily.SearchDepth {
	case "", "basic", "advanced":
	default:
		return fmt.Errorf("%w: search_depth must be basic or advanced", ErrValidationFailed)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: logging format must be json or console", ErrValidationFailed)
	}
	return nil
}

package resilience

import (
	"time"

	"github.com/felixgeelhaar/checklist-go/infrastructure/capability"
)

// Option configures the executor.
type Option func(*Config)

// WithMaxConcurrent sets the maximum concurrent invocations.
func WithMaxConcurrent(n int) Option {
	return func(c *Config) {
		c.MaxConcurrent = n
	}
}

// WithBreakerThreshold sets the failure threshold for the circuit breaker.
func WithBreakerThreshold(n int) Option {
	return func(c *Config) {
		c.BreakerThreshold = n
	}
}

// WithBreakerTimeout sets the circuit breaker open duration.
func WithBreakerTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.BreakerTimeout = d
	}
}

// WithRetryAttempts sets the maximum retry attempts.
func WithRetryAttempts(n int) Option {
	return func(c *Config) {
		c.RetryMaxAttempts = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		c.RetryInitialDelay = d
	}
}

// WithSkillTimeout sets the skill invocation timeout.
func WithSkillTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.SkillTimeout = d
	}
}

// WithToolTimeout sets the tool invocation timeout.
func WithToolTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ToolTimeout = d
	}
}

// NewExecutorWithOptions wraps a provider using the given options.
func NewExecutorWithOptions(provider capability.Provider, opts ...Option) *Executor {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewExecutor(provider, config)
}

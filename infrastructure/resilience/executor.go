// Package resilience wraps capability providers with retry, circuit
// breaker, bulkhead, and timeout patterns using fortify.
package resilience

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/checklist-go/domain/research"
	"github.com/felixgeelhaar/checklist-go/domain/skill"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
	"github.com/felixgeelhaar/checklist-go/infrastructure/capability"
)

// Executor applies resilience patterns around a capability provider.
// Skill and tool invocations carry separate typed pipelines so a flaky
// search API cannot trip the model's circuit and vice versa.
type Executor struct {
	provider capability.Provider

	skillBulkhead bulkhead.Bulkhead[json.RawMessage]
	skillBreaker  circuitbreaker.CircuitBreaker[json.RawMessage]
	skillRetry    retry.Retry[json.RawMessage]
	skillTimeout  time.Duration

	toolBulkhead bulkhead.Bulkhead[research.SearchResult]
	toolBreaker  circuitbreaker.CircuitBreaker[research.SearchResult]
	toolRetry    retry.Retry[research.SearchResult]
	toolTimeout  time.Duration
}

// Config configures the resilient executor.
type Config struct {
	// MaxConcurrent limits concurrent invocations per pipeline.
	MaxConcurrent int

	// BreakerThreshold is the number of consecutive failures before opening.
	BreakerThreshold int

	// BreakerTimeout is how long the circuit stays open.
	BreakerTimeout time.Duration

	// RetryMaxAttempts is the maximum number of attempts.
	RetryMaxAttempts int

	// RetryInitialDelay is the initial delay between retries.
	RetryInitialDelay time.Duration

	// RetryBackoffMultiplier is the exponential backoff multiplier.
	RetryBackoffMultiplier float64

	// SkillTimeout bounds a single skill invocation.
	SkillTimeout time.Duration

	// ToolTimeout bounds a single tool invocation.
	ToolTimeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent:          10,
		BreakerThreshold:       5,
		BreakerTimeout:         30 * time.Second,
		RetryMaxAttempts:       3,
		RetryInitialDelay:      200 * time.Millisecond,
		RetryBackoffMultiplier: 2.0,
		SkillTimeout:           120 * time.Second,
		ToolTimeout:            60 * time.Second,
	}
}

// NewExecutor wraps the provider with the configured patterns.
func NewExecutor(provider capability.Provider, config Config) *Executor {
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	threshold := config.BreakerThreshold
	if threshold <= 0 {
		threshold = 5
	}

	breakerCfg := func() circuitbreaker.Config {
		return circuitbreaker.Config{
			MaxRequests: uint32(maxConcurrent), // #nosec G115 -- bounds checked above
			Interval:    config.BreakerTimeout,
			Timeout:     config.BreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- bounds checked above
			},
		}
	}
	retryCfg := retry.Config{
		MaxAttempts:   config.RetryMaxAttempts,
		InitialDelay:  config.RetryInitialDelay,
		BackoffPolicy: retry.BackoffExponential,
		Multiplier:    config.RetryBackoffMultiplier,
	}

	return &Executor{
		provider: provider,

		skillBulkhead: bulkhead.New[json.RawMessage](bulkhead.Config{MaxConcurrent: maxConcurrent}),
		skillBreaker:  circuitbreaker.New[json.RawMessage](breakerCfg()),
		skillRetry:    retry.New[json.RawMessage](retryCfg),
		skillTimeout:  config.SkillTimeout,

		toolBulkhead: bulkhead.New[research.SearchResult](bulkhead.Config{MaxConcurrent: maxConcurrent}),
		toolBreaker:  circuitbreaker.New[research.SearchResult](breakerCfg()),
		toolRetry:    retry.New[research.SearchResult](retryCfg),
		toolTimeout:  config.ToolTimeout,
	}
}

// NewDefaultExecutor wraps the provider with default configuration.
func NewDefaultExecutor(provider capability.Provider) *Executor {
	return NewExecutor(provider, DefaultConfig())
}

// InvokeSkill runs a skill through bulkhead, timeout, circuit breaker,
// and retry. A deadline overrun surfaces as a skill timeout error.
func (e *Executor) InvokeSkill(ctx context.Context, id workflow.SkillID, prompt string) (json.RawMessage, error) {
	raw, err := e.skillBulkhead.Execute(ctx, func(ctx context.Context) (json.RawMessage, error) {
		ctx, cancel := context.WithTimeout(ctx, e.skillTimeout)
		defer cancel()

		return e.skillBreaker.Execute(ctx, func(ctx context.Context) (json.RawMessage, error) {
			return e.skillRetry.Do(ctx, func(ctx context.Context) (json.RawMessage, error) {
				return e.provider.InvokeSkill(ctx, id, prompt)
			})
		})
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &skill.TimeoutError{Skill: id, Timeout: e.skillTimeout}
		}
		return nil, err
	}
	return raw, nil
}

// InvokeTool runs a tool through the tool pipeline with the same
// composition as skills.
func (e *Executor) InvokeTool(ctx context.Context, id workflow.ToolID, req research.SearchRequest) (research.SearchResult, error) {
	result, err := e.toolBulkhead.Execute(ctx, func(ctx context.Context) (research.SearchResult, error) {
		ctx, cancel := context.WithTimeout(ctx, e.toolTimeout)
		defer cancel()

		return e.toolBreaker.Execute(ctx, func(ctx context.Context) (research.SearchResult, error) {
			return e.toolRetry.Do(ctx, func(ctx context.Context) (research.SearchResult, error) {
				return e.provider.InvokeTool(ctx, id, req)
			})
		})
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return research.SearchResult{}, &capability.ToolTimeoutError{Tool: id}
		}
		return research.SearchResult{}, err
	}
	return result, nil
}

// SkillBreakerState returns the current state of the skill circuit.
func (e *Executor) SkillBreakerState() circuitbreaker.State {
	return e.skillBreaker.State()
}

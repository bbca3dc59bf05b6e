package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/checklist-go/domain/research"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// OpenRouter defaults matching the hosted chat completions API.
const (
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel   = "x-ai/grok-4-fast"
	DefaultTemperature       = 0.2
	DefaultMaxOutputTokens   = 1200
)

// OpenRouterConfig configures the OpenRouter skill provider.
type OpenRouterConfig struct {
	APIKey          string  // Defaults to OPENROUTER_API_KEY, then OPENAI_API_KEY
	BaseURL         string  // Default: https://openrouter.ai/api/v1
	Model           string  // Default: x-ai/grok-4-fast
	Temperature     float64 // Default: 0.2
	MaxOutputTokens int     // Default: 1200
	Timeout         time.Duration
}

// OpenRouterProvider invokes skills against an OpenAI-compatible chat
// completions endpoint, requesting strict JSON responses.
type OpenRouterProvider struct {
	cfg    OpenRouterConfig
	tavily *TavilyClient
	client *http.Client
}

// NewOpenRouterProvider creates a provider with the given configuration.
// The tavily client may be nil when research is never exercised.
func NewOpenRouterProvider(cfg OpenRouterConfig, tavily *TavilyClient) *OpenRouterProvider {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenRouterBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenRouterModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	return &OpenRouterProvider{
		cfg:    cfg,
		tavily: tavily,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature,omitempty"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// InvokeSkill sends the rendered prompt and returns the raw JSON body of
// the model's reply.
func (p *OpenRouterProvider) InvokeSkill(ctx context.Context, id workflow.SkillID, prompt string) (json.RawMessage, error) {
	body, err := json.Marshal(chatRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "Respond with a single JSON object only. No prose outside the JSON."},
			{Role: "user", Content: prompt},
		},
		Temperature:    p.cfg.Temperature,
		MaxTokens:      p.cfg.MaxOutputTokens,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("skill %s request: %w", id, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("skill %s: status %d: %s", id, resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if chat.Error != nil {
		return nil, fmt.Errorf("skill %s: %s error: %s", id, chat.Error.Type, chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("skill %s: empty choices", id)
	}

	content := extractJSON(chat.Choices[0].Message.Content)
	return json.RawMessage(content), nil
}

// InvokeTool delegates web research to the tavily client.
func (p *OpenRouterProvider) InvokeTool(ctx context.Context, id workflow.ToolID, req research.SearchRequest) (research.SearchResult, error) {
	if id != workflow.ToolTavilySearch || p.tavily == nil {
		return research.SearchResult{}, &ToolError{Tool: id, Err: fmt.Errorf("tool not configured")}
	}
	return p.tavily.Search(ctx, req)
}

// extractJSON strips markdown code fences that some models wrap around
// JSON responses despite the response format hint.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}
	return content
}

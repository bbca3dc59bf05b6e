package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/felixgeelhaar/checklist-go/domain/research"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// Tavily defaults matching the hosted search API.
const (
	DefaultTavilyBaseURL     = "https://api.tavily.com"
	DefaultTavilyMaxResults  = 8
	DefaultTavilySearchDepth = "advanced"
)

// TavilyConfig configures the web research client.
type TavilyConfig struct {
	APIKey      string // Defaults to TAVILY_API_KEY
	BaseURL     string
	MaxResults  int
	SearchDepth string // "basic" or "advanced"
	Timeout     time.Duration
}

// TavilyClient performs web searches against the Tavily API.
type TavilyClient struct {
	cfg    TavilyConfig
	client *http.Client
}

// NewTavilyClient creates a client with the given configuration.
func NewTavilyClient(cfg TavilyConfig) *TavilyClient {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("TAVILY_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTavilyBaseURL
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = DefaultTavilyMaxResults
	}
	if cfg.SearchDepth == "" {
		cfg.SearchDepth = DefaultTavilySearchDepth
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &TavilyClient{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Query   string `json:"query"`
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search runs one query plus its follow-up questions and merges the
// normalized items into a single result.
func (c *TavilyClient) Search(ctx context.Context, req research.SearchRequest) (research.SearchResult, error) {
	queries := append([]string{req.Query}, req.FollowUpQuestions...)

	result := research.SearchResult{
		Query:             req.Query,
		FollowUpQuestions: req.FollowUpQuestions,
	}
	for _, q := range queries {
		if q == "" {
			continue
		}
		items, err := c.searchOne(ctx, q, req)
		if err != nil {
			return research.SearchResult{}, err
		}
		result.Items = append(result.Items, items...)
	}
	return result, nil
}

func (c *TavilyClient) searchOne(ctx context.Context, query string, req research.SearchRequest) ([]research.SearchItem, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = c.cfg.MaxResults
	}
	depth := req.SearchDepth
	if depth == "" {
		depth = c.cfg.SearchDepth
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      c.cfg.APIKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: depth,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tavily request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ToolError{
			Tool: workflow.ToolTavilySearch,
			Err:  fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ToolError{Tool: workflow.ToolTavilySearch, Err: err}
	}

	items := make([]research.SearchItem, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		items = append(items, research.SearchItem{
			Query:      query,
			Title:      r.Title,
			Summary:    r.Content,
			SourceURLs: []string{r.URL},
		})
	}
	return items, nil
}

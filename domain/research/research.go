// Package research provides the research domain model: sources, signals,
// insights, and the tool-boundary search payloads.
package research

import (
	"strconv"
	"strings"
)

// Source is a candidate reference surfaced during web research.
type Source struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Summary     string `json:"summary"`
	Credibility string `json:"credibility"`
}

// Signal is an atomic insight extracted from a source.
type Signal struct {
	SourceTitle string `json:"source_title"`
	Signal      string `json:"signal"`
	Implication string `json:"implication"`
}

// Insight connects research signals to a concrete checklist recommendation.
type Insight struct {
	Area           string `json:"area"`
	Recommendation string `json:"recommendation"`
	RiskMitigated  string `json:"risk_mitigated"`
}

// SearchRequest is the payload sent to the web research tool.
type SearchRequest struct {
	Query             string   `json:"query"`
	FollowUpQuestions []string `json:"follow_up_questions,omitempty"`
	MaxResults        int      `json:"max_results"`
	SearchDepth       string   `json:"search_depth"`
}

// SearchItem is one normalized research snippet returned by the tool.
// Tool output is unstructured relative to skill output: items are raw
// material for the extract_signals skill, not structured findings.
type SearchItem struct {
	Query      string   `json:"query"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Findings   []string `json:"findings,omitempty"`
	SourceURLs []string `json:"source_urls,omitempty"`
}

// SearchResult is the aggregate response from one tool invocation.
type SearchResult struct {
	Query             string       `json:"query"`
	FollowUpQuestions []string     `json:"follow_up_questions,omitempty"`
	Items             []SearchItem `json:"items"`
	TaskID            string       `json:"task_id,omitempty"`
}

// SourcesFromResult normalizes raw search items into research sources.
// Empty fields fall back to neighbouring content so downstream skills
// always see a usable title and summary.
func SourcesFromResult(result SearchResult) []Source {
	sources := make([]Source, 0, len(result.Items))
	for i, item := range result.Items {
		summary := strings.TrimSpace(item.Summary)
		if summary == "" {
			summary = strings.TrimSpace(strings.Join(item.Findings, " "))
		}
		if summary == "" {
			summary = "See linked source for details."
		}

		url := ""
		if len(item.SourceURLs) > 0 {
			url = item.SourceURLs[0]
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Result " + strconv.Itoa(i+1)
		}

		sources = append(sources, Source{
			Title:       title,
			URL:         url,
			Summary:     summary,
			Credibility: "web search result",
		})
	}
	return sources
}

package research

import "testing"

func TestSourcesFromResult(t *testing.T) {
	t.Parallel()

	result := SearchResult{
		Query: "launch best practices",
		Items: []SearchItem{
			{
				Title:      "Launch guide",
				Summary:    "freeze early, monitor everything",
				SourceURLs: []string{"https://example.com/a", "https://example.com/b"},
			},
			{
				Findings: []string{"check dns", "warm caches"},
			},
			{
				Title: "  Bare title  ",
			},
		},
	}

	sources := SourcesFromResult(result)
	if len(sources) != 3 {
		t.Fatalf("sources = %d, want 3", len(sources))
	}

	if sources[0].Title != "Launch guide" {
		t.Errorf("title = %q", sources[0].Title)
	}
	if sources[0].URL != "https://example.com/a" {
		t.Errorf("url should be the first source url, got %q", sources[0].URL)
	}
	if sources[0].Summary != "freeze early, monitor everything" {
		t.Errorf("summary = %q", sources[0].Summary)
	}

	if sources[1].Title != "Result 2" {
		t.Errorf("untitled item should get a positional title, got %q", sources[1].Title)
	}
	if sources[1].Summary != "check dns warm caches" {
		t.Errorf("summary should join findings, got %q", sources[1].Summary)
	}
	if sources[1].URL != "" {
		t.Errorf("url = %q, want empty", sources[1].URL)
	}

	if sources[2].Title != "Bare title" {
		t.Errorf("title should be trimmed, got %q", sources[2].Title)
	}
	if sources[2].Summary != "See linked source for details." {
		t.Errorf("empty summary should get the fallback, got %q", sources[2].Summary)
	}

	for _, s := range sources {
		if s.Credibility == "" {
			t.Error("every source should carry a credibility note")
		}
	}
}

func TestSourcesFromEmptyResult(t *testing.T) {
	t.Parallel()

	if got := SourcesFromResult(SearchResult{}); len(got) != 0 {
		t.Errorf("sources = %d, want 0", len(got))
	}
}

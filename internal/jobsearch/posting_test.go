package jobsearch

import (
	"path/filepath"
	"slices"
	"testing"
)

func newPostings(urls ...string) *Postings {
	postings := &Postings{}
	for _, url := range urls {
		postings.Items = append(postings.Items, &Posting{Title: "Title " + url, URL: url})
	}
	return postings
}

func urls(p *Postings) []string {
	var out []string
	for _, posting := range p.Items {
		out = append(out, posting.URL)
	}
	return out
}

func TestPostingsExcludeKeepsOrder(t *testing.T) {
	postings := newPostings("a", "b", "c", "d")

	excluded := postings.Exclude([]string{"c", "a", "missing"})

	if !slices.Equal(excluded, []string{"a", "c"}) {
		t.Fatalf("unexpected excluded: %v", excluded)
	}
	if got := urls(postings); !slices.Equal(got, []string{"b", "d"}) {
		t.Fatalf("unexpected remaining: %v", got)
	}
}

func TestPostingsTruncate(t *testing.T) {
	postings := newPostings("a", "b", "c")

	if dropped := postings.Truncate(5); dropped != nil || postings.Len() != 3 {
		t.Fatalf("truncate above length must be a no-op")
	}
	if dropped := postings.Truncate(1); !slices.Equal(dropped, []string{"b", "c"}) {
		t.Fatalf("unexpected dropped: %v", dropped)
	}
	if got := urls(postings); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("unexpected remaining: %v", got)
	}
}

func TestPostingCompany(t *testing.T) {
	if got := (&Posting{Title: "  Infosys hiring QA  "}).Company(); got != "Infosys" {
		t.Fatalf("unexpected company %q", got)
	}
	if got := (&Posting{}).Company(); got != defaultCompany {
		t.Fatalf("expected fallback company, got %q", got)
	}
}

func TestExcludedPostingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.json")

	history, err := GetExcludedPostingsFromFile(path)
	if err != nil {
		t.Fatalf("missing history must be empty: %v", err)
	}
	if len(history.Items) != 0 {
		t.Fatalf("expected empty history")
	}

	history.Append(newPostings("a", "b").ToExcluded())
	if err := history.ToFile(path); err != nil {
		t.Fatalf("write history: %v", err)
	}

	shorter := &ExcludedPostings{}
	shorter.Append(newPostings("c").ToExcluded())
	if err := shorter.ToFile(path); err != nil {
		t.Fatalf("overwrite history: %v", err)
	}

	reloaded, err := GetExcludedPostingsFromFile(path)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if got := reloaded.URLs(); !slices.Equal(got, []string{"c"}) {
		t.Fatalf("unexpected history: %v", got)
	}
}

package jobsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultCompany = "Company"

type Postings struct {
	Items []*Posting
}

// Posting is a job found by the search. The snippet stands in for the description.
type Posting struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Site    string `json:"site,omitempty"`
}

// Company guesses the employer as the first word of the title.
func (p *Posting) Company() string {
	fields := strings.Fields(p.Title)
	if len(fields) == 0 {
		return defaultCompany
	}
	return fields[0]
}

type ExcludedPostings struct {
	Items []*ExcludedPosting
}

type ExcludedPosting struct {
	URL        string
	Title      string
	ExcludedAt time.Time
}

func (p *Postings) Len() int {
	return len(p.Items)
}

// Exclude removes postings whose URL is in targets, keeping the order of the
// rest, and returns the removed URLs.
func (p *Postings) Exclude(targets []string) []string {
	drop := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		drop[target] = struct{}{}
	}

	var excluded []string
	kept := p.Items[:0]
	for _, posting := range p.Items {
		if _, ok := drop[posting.URL]; ok {
			excluded = append(excluded, posting.URL)
			continue
		}
		kept = append(kept, posting)
	}
	p.Items = kept

	return excluded
}

// Truncate keeps the first n postings and returns the URLs of the others.
func (p *Postings) Truncate(n int) []string {
	if n < 0 || n >= len(p.Items) {
		return nil
	}

	dropped := make([]string, 0, len(p.Items)-n)
	for _, posting := range p.Items[n:] {
		dropped = append(dropped, posting.URL)
	}
	p.Items = p.Items[:n]
	return dropped
}

// DumpToFile writes the postings as a JSON array, the format read by LoadPostingsFromFile.
func (p *Postings) DumpToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	items := p.Items
	if items == nil {
		items = []*Posting{}
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(items)
}

func LoadPostingsFromFile(path string) (*Postings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []*Posting
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode postings from %q: %w", path, err)
	}

	return &Postings{Items: items}, nil
}

func (p *Postings) ToExcluded() *ExcludedPostings {
	excluded := &ExcludedPostings{}
	for _, posting := range p.Items {
		excluded.Items = append(excluded.Items, &ExcludedPosting{
			URL:        posting.URL,
			Title:      posting.Title,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// GetExcludedPostingsFromFile reads the history file. A missing or empty file is an empty history.
func GetExcludedPostingsFromFile(path string) (*ExcludedPostings, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedPostings{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedPostings{}, nil
	}

	var excluded ExcludedPostings
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedPostings) Append(s *ExcludedPostings) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedPostings) URLs() []string {
	urls := make([]string, 0, len(e.Items))
	for _, posting := range e.Items {
		urls = append(urls, posting.URL)
	}
	return urls
}

func (e *ExcludedPostings) ToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// FileSource serves postings from a cache written by DumpToFile instead of calling the API.
type FileSource struct {
	Path string
}

func (f *FileSource) Search(_ context.Context, params *SearchParams) (*Postings, error) {
	postings, err := LoadPostingsFromFile(f.Path)
	if err != nil {
		return nil, err
	}
	if params != nil && params.MaxResults > 0 {
		postings.Truncate(params.MaxResults)
	}
	return postings, nil
}

// CachingSource writes every successful search of Source to Path.
type CachingSource struct {
	Source Source
	Path   string
}

func (c *CachingSource) Search(ctx context.Context, params *SearchParams) (*Postings, error) {
	postings, err := c.Source.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := postings.DumpToFile(c.Path); err != nil {
		return nil, fmt.Errorf("cache postings to %q: %w", c.Path, err)
	}
	return postings, nil
}

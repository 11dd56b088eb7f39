package filtering

import (
	"context"
	"strings"

	"github.com/spigell/resume-tailor/internal/jobsearch"
	"go.uber.org/zap"
)

type titleKeywordsFilter struct {
	keywords []string
}

// NewTitleKeywords creates a filter that removes postings whose title contains a configured keyword.
func NewTitleKeywords() Filter {
	return &titleKeywordsFilter{}
}

func (f *titleKeywordsFilter) Name() string { return "title_keywords" }

func (f *titleKeywordsFilter) Disable(string) {}

func (f *titleKeywordsFilter) IsEnabled() bool { return true }

func (f *titleKeywordsFilter) Validate(cfg *Config) error {
	f.keywords = nil
	if cfg == nil {
		return nil
	}
	for _, keyword := range cfg.TitleKeywords {
		if keyword = strings.ToLower(strings.TrimSpace(keyword)); keyword != "" {
			f.keywords = append(f.keywords, keyword)
		}
	}
	return nil
}

func (f *titleKeywordsFilter) Apply(_ context.Context, deps Deps, p *jobsearch.Postings) (*jobsearch.Postings, Step, error) {
	initial := p.Len()
	if len(f.keywords) == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	var targets []string
	for _, posting := range p.Items {
		title := strings.ToLower(posting.Title)
		for _, keyword := range f.keywords {
			if strings.Contains(title, keyword) {
				targets = append(targets, posting.URL)
				break
			}
		}
	}

	excluded := p.Exclude(targets)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding postings by title keywords",
			zap.Strings("keywords", f.keywords),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

func (f *titleKeywordsFilter) Status() Status {
	details := map[string]string{}
	if len(f.keywords) > 0 {
		details["keywords"] = strings.Join(f.keywords, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

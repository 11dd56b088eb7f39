package filtering

import (
	"context"
	"strconv"

	"github.com/spigell/resume-tailor/internal/jobsearch"
	"go.uber.org/zap"
)

// DefaultLimit is the number of postings tailored per run when none is configured.
const DefaultLimit = 3

type limitFilter struct {
	disabled bool
	reason   string
	limit    int
}

// NewLimit creates a filter that keeps only the first postings.
func NewLimit() Filter {
	return &limitFilter{}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *limitFilter) IsEnabled() bool { return !f.disabled }

func (f *limitFilter) Validate(cfg *Config) error {
	f.limit = DefaultLimit
	if cfg != nil && cfg.Limit > 0 {
		f.limit = cfg.Limit
	}
	return nil
}

func (f *limitFilter) Apply(_ context.Context, deps Deps, p *jobsearch.Postings) (*jobsearch.Postings, Step, error) {
	initial := p.Len()
	dropped := p.Truncate(f.limit)
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("keeping only the top postings",
			zap.Int("limit", f.limit),
			zap.Strings("skipped_postings", dropped),
		)
	}

	return p, Step{Initial: initial, Dropped: len(dropped), Left: p.Len()}, nil
}

func (f *limitFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"limit": strconv.Itoa(f.limit)},
	}
}

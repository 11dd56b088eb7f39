// Package tailor composes the document model and the provider chain into a
// single operation that tailors the base résumé for one job.
package tailor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/resume-tailor/internal/ai"
	"github.com/spigell/resume-tailor/internal/document"
	"go.uber.org/zap"
)

const descriptionSuffix = "_description.txt"

// Config locates the base résumé and the output directories.
// BasePDF is read instead of BaseResume when BaseResume does not exist.
type Config struct {
	BaseResume      string `mapstructure:"base_resume" validate:"required"`
	BasePDF         string `mapstructure:"base_pdf"`
	ResumesDir      string `mapstructure:"resumes_dir" validate:"required"`
	DescriptionsDir string `mapstructure:"descriptions_dir" validate:"required"`
	Prefix          string `mapstructure:"prefix"`
}

// Job is a single tailoring request.
type Job struct {
	Title       string
	Company     string
	Description string
}

// Generator produces an update for a request. *ai.Chain satisfies it.
type Generator interface {
	Run(ctx context.Context, req ai.Request) (*ai.Result, error)
}

// Renderer converts a saved document into another format and returns the new path.
type Renderer interface {
	Render(ctx context.Context, path string) (string, error)
}

// Result describes the artifacts of one tailored job.
type Result struct {
	ID              string
	DocumentPath    string
	DescriptionPath string
	PDFPath         string
	Provider        string
	Update          ai.TailorUpdate
	Applied         Applied
	Attempts        []ai.Attempt
}

type Pipeline struct {
	cfg       Config
	generator Generator
	renderer  Renderer
	logger    *zap.Logger
	ids       *idRegistry
}

type Option func(*Pipeline)

// WithRenderer converts every saved document with r. Conversion failures are logged only.
func WithRenderer(r Renderer) Option {
	return func(p *Pipeline) { p.renderer = r }
}

func New(cfg Config, generator Generator, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	if generator == nil {
		return nil, errors.New("generator is required")
	}
	if strings.TrimSpace(cfg.BaseResume) == "" {
		return nil, errors.New("base resume path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pipeline{
		cfg:       cfg,
		generator: generator,
		logger:    logger,
		ids:       newIDRegistry(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// TailorAndSave loads the base résumé, asks the generator for an update,
// applies it to a fresh copy and writes the document and the job description.
func (p *Pipeline) TailorAndSave(ctx context.Context, job Job) (*Result, error) {
	logger := p.logger.With(zap.String("job_title", job.Title), zap.String("company", job.Company))

	base, err := document.Load(p.cfg.BaseResume)
	if err != nil {
		return nil, fmt.Errorf("load base resume: %w", err)
	}

	generated, err := p.generator.Run(ctx, ai.Request{
		BaseText:       document.ExtractText(base),
		JobTitle:       job.Title,
		JobDescription: job.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("generate update: %w", err)
	}

	doc := base.Clone()
	applied := Apply(doc, generated.Update)

	name := strings.TrimSpace(job.Company)
	if name == "" {
		name = job.Title
	}
	id := p.ids.reserve(Sanitize(name))

	result := &Result{
		ID:              id,
		DocumentPath:    p.documentPath(id, doc.Extension()),
		DescriptionPath: filepath.Join(p.cfg.DescriptionsDir, id+descriptionSuffix),
		Provider:        generated.Provider,
		Update:          generated.Update,
		Applied:         applied,
		Attempts:        generated.Attempts,
	}

	if err := document.Save(doc, result.DocumentPath); err != nil {
		return nil, fmt.Errorf("save tailored resume: %w", err)
	}

	if err := writeDescription(result.DescriptionPath, job.Description); err != nil {
		return nil, fmt.Errorf("save job description: %w", err)
	}

	logger.Info("resume tailored",
		zap.String("id", id),
		zap.String("provider", result.Provider),
		zap.String("document", result.DocumentPath),
		zap.String("description", result.DescriptionPath),
	)

	if p.renderer != nil {
		pdf, err := p.renderer.Render(ctx, result.DocumentPath)
		if err != nil {
			logger.Warn("pdf conversion failed", zap.String("document", result.DocumentPath), zap.Error(err))
		} else {
			result.PDFPath = pdf
		}
	}

	return result, nil
}

func (p *Pipeline) documentPath(id, ext string) string {
	name := id
	if prefix := strings.TrimSpace(p.cfg.Prefix); prefix != "" {
		name = prefix + "_" + id
	}
	return filepath.Join(p.cfg.ResumesDir, name+ext)
}

func writeDescription(path, description string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w %q: %w", document.ErrWrite, path, err)
	}
	if err := os.WriteFile(path, []byte(description), 0o644); err != nil {
		return fmt.Errorf("%w %q: %w", document.ErrWrite, path, err)
	}
	return nil
}

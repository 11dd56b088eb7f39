package tailor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/resume-tailor/internal/ai"
	"github.com/spigell/resume-tailor/internal/ai/heuristic"
	"github.com/spigell/resume-tailor/internal/document"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const baseResume = "Jane Doe\nProfile Summary\nManual QA engineer\nSkills\nManual testing\nEducation\nBSc\n"

type staticProvider struct {
	name    string
	outcome ai.Outcome
	reqs    []ai.Request
}

func (s *staticProvider) Name() string { return s.name }

func (s *staticProvider) Generate(_ context.Context, req ai.Request) ai.Outcome {
	s.reqs = append(s.reqs, req)
	return s.outcome
}

type stubRenderer struct {
	err   error
	paths []string
}

func (s *stubRenderer) Render(_ context.Context, path string) (string, error) {
	s.paths = append(s.paths, path)
	if s.err != nil {
		return "", s.err
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf", nil
}

func newTestPipeline(t *testing.T, logger *zap.Logger, providers []ai.Provider, opts ...Option) (*Pipeline, Config) {
	t.Helper()

	dir := t.TempDir()
	base := filepath.Join(dir, "base.txt")
	if err := os.WriteFile(base, []byte(baseResume), 0o644); err != nil {
		t.Fatalf("write base resume: %v", err)
	}

	cfg := Config{
		BaseResume:      base,
		ResumesDir:      filepath.Join(dir, "out", "resumes"),
		DescriptionsDir: filepath.Join(dir, "out", "descriptions"),
		Prefix:          "Jane",
	}

	chain, err := ai.NewChain(logger, providers...)
	if err != nil {
		t.Fatalf("new chain: %v", err)
	}

	pipeline, err := New(cfg, chain, logger, opts...)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return pipeline, cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestTailorAndSave(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	remote := &staticProvider{name: "remote", outcome: ai.Failed(ai.FailureQuota, "quota exceeded")}
	local := &staticProvider{name: "local", outcome: ai.Succeeded(ai.TailorUpdate{
		Summary:           "Automation-focused QA engineer",
		Skills:            []string{"SELENIUM", "JAVA"},
		ExperienceUpdates: []string{"Improved coverage"},
	})}

	pipeline, cfg := newTestPipeline(t, zap.New(core), []ai.Provider{remote, local})

	job := Job{Title: "QA Automation Engineer", Company: "TechNova Systems", Description: "Java and Selenium."}
	result, err := pipeline.TailorAndSave(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ID != "TechNova_Systems" || result.Provider != "local" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if want := filepath.Join(cfg.ResumesDir, "Jane_TechNova_Systems.txt"); result.DocumentPath != want {
		t.Fatalf("expected document path %s, got %s", want, result.DocumentPath)
	}
	if want := filepath.Join(cfg.DescriptionsDir, "TechNova_Systems_description.txt"); result.DescriptionPath != want {
		t.Fatalf("expected description path %s, got %s", want, result.DescriptionPath)
	}

	want := "Jane Doe\nProfile Summary\nAutomation-focused QA engineer\nSkills\nSELENIUM, JAVA\nEducation\nBSc\nExperience updates:\n- Improved coverage\n"
	if got := readFile(t, result.DocumentPath); got != want {
		t.Fatalf("unexpected tailored resume:\n%q\nwant:\n%q", got, want)
	}
	if got := readFile(t, result.DescriptionPath); got != job.Description {
		t.Fatalf("unexpected description %q", got)
	}

	if got := readFile(t, cfg.BaseResume); got != baseResume {
		t.Fatalf("base resume was modified: %q", got)
	}

	if len(remote.reqs) != 1 || !strings.Contains(remote.reqs[0].BaseText, "Manual QA engineer") {
		t.Fatalf("provider did not receive the base resume text: %+v", remote.reqs)
	}
	if remote.reqs[0].JobTitle != job.Title || remote.reqs[0].JobDescription != job.Description {
		t.Fatalf("provider did not receive the job: %+v", remote.reqs[0])
	}

	if observed.FilterMessage("resume tailored").Len() != 1 {
		t.Fatalf("expected a resume tailored log entry")
	}
}

func TestTailorAndSaveUsesFreshCopyPerJob(t *testing.T) {
	provider := &staticProvider{name: "stub", outcome: ai.Succeeded(ai.TailorUpdate{
		ExperienceUpdates: []string{"Improved coverage"},
	})}
	pipeline, _ := newTestPipeline(t, nil, []ai.Provider{provider})

	first, err := pipeline.TailorAndSave(context.Background(), Job{Title: "QA", Company: "Acme"})
	if err != nil {
		t.Fatalf("first job: %v", err)
	}
	second, err := pipeline.TailorAndSave(context.Background(), Job{Title: "QA", Company: "Acme"})
	if err != nil {
		t.Fatalf("second job: %v", err)
	}

	if first.ID != "Acme" || second.ID != "Acme_2" {
		t.Fatalf("expected unique identifiers, got %q and %q", first.ID, second.ID)
	}

	for _, path := range []string{first.DocumentPath, second.DocumentPath} {
		if got := strings.Count(readFile(t, path), "Experience updates:"); got != 1 {
			t.Fatalf("expected one experience header in %s, got %d", path, got)
		}
	}
}

func TestTailorAndSaveFallsBackToTitle(t *testing.T) {
	pipeline, _ := newTestPipeline(t, nil, []ai.Provider{heuristic.New()})

	result, err := pipeline.TailorAndSave(context.Background(), Job{Title: "Senior SDET (Remote)", Description: "Playwright and Java"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ID != "Senior_SDET_Remote" || result.Provider != "heuristic" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.HasPrefix(filepath.Base(result.DocumentPath), "Jane_Senior_SDET_Remote") {
		t.Fatalf("unexpected document path %s", result.DocumentPath)
	}
	if !strings.Contains(readFile(t, result.DocumentPath), "Java, Playwright") {
		t.Fatalf("heuristic skills were not written")
	}
}

func TestTailorAndSaveMissingBase(t *testing.T) {
	provider := &staticProvider{name: "stub", outcome: ai.Succeeded(ai.TailorUpdate{})}
	pipeline, cfg := newTestPipeline(t, nil, []ai.Provider{provider})

	if err := os.Remove(cfg.BaseResume); err != nil {
		t.Fatalf("remove base: %v", err)
	}

	_, err := pipeline.TailorAndSave(context.Background(), Job{Title: "QA"})
	if !errors.Is(err, document.ErrNotFound) || Kind(err) != KindNotFound {
		t.Fatalf("expected NotFound, got %v (%s)", err, Kind(err))
	}
	if len(provider.reqs) != 0 {
		t.Fatalf("providers must not run without a base resume")
	}
}

func TestTailorAndSaveWriteFailure(t *testing.T) {
	provider := &staticProvider{name: "stub", outcome: ai.Succeeded(ai.TailorUpdate{})}
	pipeline, cfg := newTestPipeline(t, nil, []ai.Provider{provider})

	if err := os.MkdirAll(filepath.Dir(cfg.ResumesDir), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfg.ResumesDir, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	_, err := pipeline.TailorAndSave(context.Background(), Job{Title: "QA"})
	if Kind(err) != KindIO {
		t.Fatalf("expected IOError, got %v (%s)", err, Kind(err))
	}
}

func TestTailorAndSaveRenderer(t *testing.T) {
	provider := &staticProvider{name: "stub", outcome: ai.Succeeded(ai.TailorUpdate{})}

	renderer := &stubRenderer{}
	pipeline, _ := newTestPipeline(t, nil, []ai.Provider{provider}, WithRenderer(renderer))
	result, err := pipeline.TailorAndSave(context.Background(), Job{Company: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(renderer.paths) != 1 || renderer.paths[0] != result.DocumentPath {
		t.Fatalf("renderer was not called with the saved document: %v", renderer.paths)
	}
	if !strings.HasSuffix(result.PDFPath, "Jane_Acme.pdf") {
		t.Fatalf("unexpected pdf path %q", result.PDFPath)
	}

	core, observed := observer.New(zapcore.WarnLevel)
	failing := &stubRenderer{err: errors.New("libreoffice not found")}
	pipeline, _ = newTestPipeline(t, zap.New(core), []ai.Provider{provider}, WithRenderer(failing))
	result, err = pipeline.TailorAndSave(context.Background(), Job{Company: "Acme"})
	if err != nil {
		t.Fatalf("renderer failure must not fail the job: %v", err)
	}
	if result.PDFPath != "" {
		t.Fatalf("expected no pdf path, got %q", result.PDFPath)
	}
	if observed.FilterMessage("pdf conversion failed").Len() != 1 {
		t.Fatalf("expected a warning about the failed conversion")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{BaseResume: "base.docx"}, nil, nil); err == nil {
		t.Fatal("expected error without generator")
	}

	chain, _ := ai.NewChain(nil, heuristic.New())
	if _, err := New(Config{}, chain, nil); err == nil {
		t.Fatal("expected error without base resume")
	}
}

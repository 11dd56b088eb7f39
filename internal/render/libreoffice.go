// Package render converts tailored documents to PDF with a headless LibreOffice.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBinary  = "libreoffice"
	defaultTimeout = 2 * time.Minute
)

// LibreOffice runs `libreoffice --headless --convert-to pdf` next to the source file.
type LibreOffice struct {
	Binary  string
	Timeout time.Duration
	logger  *zap.Logger
	// run executes the command and returns its combined output.
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewLibreOffice(binary string, timeout time.Duration, logger *zap.Logger) *LibreOffice {
	if strings.TrimSpace(binary) == "" {
		binary = defaultBinary
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LibreOffice{Binary: binary, Timeout: timeout, logger: logger, run: runCommand}
}

// Render converts path and returns the path of the PDF.
func (l *LibreOffice) Render(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("source document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	outDir := filepath.Dir(path)
	args := []string{"--headless", "--convert-to", "pdf", "--outdir", outDir, path}
	l.logger.Debug("converting document to pdf", zap.String("binary", l.Binary), zap.String("document", path))

	output, err := l.run(ctx, l.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", l.Binary, err, strings.TrimSpace(string(output)))
	}

	pdf := strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf"
	if _, err := os.Stat(pdf); err != nil {
		return "", fmt.Errorf("expected output %q: %w", pdf, err)
	}

	return pdf, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out.Bytes(), fmt.Errorf("conversion timed out: %w", ctx.Err())
	}
	return out.Bytes(), err
}

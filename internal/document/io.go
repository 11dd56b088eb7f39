package document

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	extDOCX = ".docx"
	extText = ".txt"
	extMD   = ".md"
)

// Load reads the document artifact at path. The format is chosen by file extension.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading document %q: %w", path, err)
	}

	var doc *Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case extDOCX:
		doc, err = parseDOCX(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
	case extPDF:
		doc, err = parsePDF(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
	case extText, extMD, "":
		doc = parseText(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}

	if doc.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	return doc, nil
}

// Save writes the document to path, creating intermediate directories and
// overwriting any existing artifact.
func Save(doc *Document, path string) error {
	var (
		data []byte
		err  error
	)

	if doc.pkg != nil {
		data, err = doc.pkg.render(doc.paragraphs)
		if err != nil {
			return fmt.Errorf("%w %q: %w", ErrWrite, path, err)
		}
	} else {
		data = renderText(doc.paragraphs)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w %q: %w", ErrWrite, path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w %q: %w", ErrWrite, path, err)
	}

	return nil
}

// Extension returns the file extension a saved document will use.
func (d *Document) Extension() string {
	if d.pkg != nil {
		return extDOCX
	}
	return extText
}

func parseText(data []byte) *Document {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return New()
	}
	return New(strings.Split(content, "\n")...)
}

func renderText(paragraphs []*Paragraph) []byte {
	var buf bytes.Buffer
	for _, p := range paragraphs {
		buf.WriteString(p.text)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

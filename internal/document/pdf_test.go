package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestPDF writes a single page PDF with one text line per entry.
func writeTestPDF(t *testing.T, path string, lines ...string) {
	t.Helper()

	var content strings.Builder
	content.WriteString("BT /F1 12 Tf 14 TL 72 720 Td")
	for i, line := range lines {
		if i > 0 {
			content.WriteString(" T*")
		}
		fmt.Fprintf(&content, " (%s) Tj", line)
	}
	content.WriteString(" ET")
	stream := content.String()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects))
	for i, obj := range objects {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
}

func TestLoadPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Resume.pdf")
	writeTestPDF(t, path, "Jane Doe", "Summary", "QA Automation Engineer")

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := ExtractText(doc)
	for _, want := range []string{"Jane Doe", "Summary", "QA Automation Engineer"} {
		if !strings.Contains(text, want) {
			t.Fatalf("extracted text does not contain %q: %q", want, text)
		}
	}

	if doc.Extension() != extText {
		t.Fatalf("a pdf résumé must be saved as text, got %q", doc.Extension())
	}

	out := filepath.Join(dir, "out", "tailored.txt")
	if err := Save(doc, out); err != nil {
		t.Fatalf("save: %v", err)
	}
	reloaded, err := Load(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Len() != doc.Len() {
		t.Fatalf("expected %d paragraphs after reload, got %d", doc.Len(), reloaded.Len())
	}
}

func TestLoadBrokenPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("plain text, not a pdf"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(path); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

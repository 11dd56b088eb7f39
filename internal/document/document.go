// Package document holds the paragraph-level model of a résumé document and the
// codecs that read it from and write it back to disk.
package document

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when the document artifact does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrEmpty is returned when a loaded document contains no paragraphs.
	ErrEmpty = errors.New("document has no paragraphs")
	// ErrWrite is returned when the document artifact cannot be written.
	ErrWrite = errors.New("write document")
	// ErrFormat is returned for artifacts in a format the package cannot read.
	ErrFormat = errors.New("unsupported document format")
)

// Paragraph is a single positionally addressed text block.
type Paragraph struct {
	text string

	// byte offsets of the paragraph element in the source document.xml;
	// both are -1 for paragraphs created in memory.
	start, end int
	dirty      bool
}

// Text returns the paragraph text.
func (p *Paragraph) Text() string {
	return p.text
}

// Document is an ordered sequence of paragraphs.
type Document struct {
	paragraphs []*Paragraph

	// pkg is set for documents loaded from a .docx package. It is shared
	// between clones and never modified.
	pkg *docxPackage
}

// New creates an in-memory plain text document from the given paragraph texts.
func New(texts ...string) *Document {
	doc := &Document{paragraphs: make([]*Paragraph, 0, len(texts))}
	for _, text := range texts {
		doc.Append(text)
	}
	return doc
}

// Len returns the number of paragraphs.
func (d *Document) Len() int {
	return len(d.paragraphs)
}

// Text returns the text of the paragraph at idx or an empty string when idx is out of range.
func (d *Document) Text(idx int) string {
	if idx < 0 || idx >= len(d.paragraphs) {
		return ""
	}
	return d.paragraphs[idx].text
}

// Texts returns a copy of all paragraph texts in order.
func (d *Document) Texts() []string {
	texts := make([]string, 0, len(d.paragraphs))
	for _, p := range d.paragraphs {
		texts = append(texts, p.text)
	}
	return texts
}

// Append adds a new paragraph at the end of the document.
func (d *Document) Append(text string) {
	d.paragraphs = append(d.paragraphs, &Paragraph{text: text, start: -1, end: -1, dirty: true})
}

// Clone returns a deep copy of the document. Mutating the clone never affects the original.
func (d *Document) Clone() *Document {
	clone := &Document{
		paragraphs: make([]*Paragraph, 0, len(d.paragraphs)),
		pkg:        d.pkg,
	}
	for _, p := range d.paragraphs {
		cp := *p
		clone.paragraphs = append(clone.paragraphs, &cp)
	}
	return clone
}

func (d *Document) set(idx int, text string) {
	p := d.paragraphs[idx]
	if p.text == text {
		return
	}
	p.text = text
	p.dirty = true
}

// ExtractText joins the text of every non-blank paragraph with newlines, in document order.
func ExtractText(doc *Document) string {
	lines := make([]string, 0, doc.Len())
	for _, p := range doc.paragraphs {
		if strings.TrimSpace(p.text) == "" {
			continue
		}
		lines = append(lines, p.text)
	}
	return strings.Join(lines, "\n")
}

package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	// wordNS is the WordprocessingML main namespace.
	wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	docxDocumentXMLPath = "word/document.xml"
	contentTypesPath    = "[Content_Types].xml"
	docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

var (
	partNameRe  = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`)
	partNameRe2 = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`)

	pPrRe = regexp.MustCompile(`(?s)<w:pPr(?:\s[^>]*)?(?:/>|>.*?</w:pPr>)`)
	rPrRe = regexp.MustCompile(`(?s)<w:rPr(?:\s[^>]*)?(?:/>|>.*?</w:rPr>)`)
)

// docxPackage keeps the original package bytes so every part other than the main
// document can be copied through unchanged on save.
type docxPackage struct {
	archive  []byte
	partName string
	xml      []byte
	// insertAt is the offset in xml where appended paragraphs are written:
	// before the body-level sectPr, or before </w:body>.
	insertAt int
}

func parseDOCX(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %w", ErrFormat, err)
	}

	partName := findMainDocumentPath(zr)
	if partName == "" {
		partName = docxDocumentXMLPath
	}

	docXML, err := readPart(zr, partName)
	if err != nil {
		return nil, err
	}

	paragraphs, insertAt, err := parseDocumentXML(docXML)
	if err != nil {
		return nil, err
	}

	return &Document{
		paragraphs: paragraphs,
		pkg: &docxPackage{
			archive:  data,
			partName: partName,
			xml:      docXML,
			insertAt: insertAt,
		},
	}, nil
}

func findMainDocumentPath(zr *zip.Reader) string {
	content, err := readPart(zr, contentTypesPath)
	if err != nil {
		return ""
	}
	if matches := partNameRe.FindSubmatch(content); len(matches) > 1 {
		return strings.TrimPrefix(string(matches[1]), "/")
	}
	if matches := partNameRe2.FindSubmatch(content); len(matches) > 1 {
		return strings.TrimPrefix(string(matches[1]), "/")
	}
	return ""
}

func readPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s not found in package", ErrFormat, name)
}

// parseDocumentXML collects the body-level w:p elements with their byte spans.
// Paragraphs nested in tables or text boxes are not part of the sequence.
func parseDocumentXML(data []byte) ([]*Paragraph, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		paragraphs []*Paragraph
		current    *Paragraph
		text       strings.Builder
		stack      []string
		depth      int
		bodyDepth  = -1
		pDepth     int
		insertAt   = -1
		inText     bool
	)

	for {
		offset := int(dec.InputOffset())
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decode document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, t.Name.Local)

			if t.Name.Space != wordNS {
				continue
			}

			switch {
			case bodyDepth == -1 && t.Name.Local == "body":
				bodyDepth = depth
			case current == nil && depth == bodyDepth+1 && t.Name.Local == "p":
				current = &Paragraph{start: offset}
				pDepth = depth
				text.Reset()
			case current == nil && depth == bodyDepth+1 && t.Name.Local == "sectPr":
				insertAt = offset
			case current != nil && t.Name.Local == "t":
				inText = true
			case current != nil && parent == "r" && t.Name.Local == "tab":
				text.WriteByte('\t')
			case current != nil && parent == "r" && (t.Name.Local == "br" || t.Name.Local == "cr"):
				text.WriteByte('\n')
			}

		case xml.EndElement:
			if t.Name.Space == wordNS {
				switch {
				case current != nil && t.Name.Local == "t":
					inText = false
				case current != nil && depth == pDepth && t.Name.Local == "p":
					current.end = int(dec.InputOffset())
					current.text = text.String()
					paragraphs = append(paragraphs, current)
					current = nil
				case depth == bodyDepth && t.Name.Local == "body" && insertAt == -1:
					insertAt = offset
				}
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			depth--

		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}

	if bodyDepth == -1 || insertAt == -1 {
		return nil, 0, fmt.Errorf("%w: document xml has no body", ErrFormat)
	}

	return paragraphs, insertAt, nil
}

// render rebuilds the package with the current paragraph texts.
func (p *docxPackage) render(paragraphs []*Paragraph) ([]byte, error) {
	docXML := p.renderXML(paragraphs)

	zr, err := zip.NewReader(bytes.NewReader(p.archive), int64(len(p.archive)))
	if err != nil {
		return nil, fmt.Errorf("reopen package: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		if f.Name != p.partName {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := w.Write(docXML); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}

	return buf.Bytes(), nil
}

func (p *docxPackage) renderXML(paragraphs []*Paragraph) []byte {
	var (
		out      bytes.Buffer
		cursor   int
		appended []*Paragraph
	)

	for _, para := range paragraphs {
		if para.start < 0 {
			appended = append(appended, para)
			continue
		}
		out.Write(p.xml[cursor:para.start])
		raw := p.xml[para.start:para.end]
		if para.dirty {
			out.Write(rewriteParagraph(raw, para.text))
		} else {
			out.Write(raw)
		}
		cursor = para.end
	}

	out.Write(p.xml[cursor:p.insertAt])
	for _, para := range appended {
		out.Write(rewriteParagraph(nil, para.text))
	}
	out.Write(p.xml[p.insertAt:])

	return out.Bytes()
}

// rewriteParagraph replaces the runs of a paragraph with a single run holding
// text. Paragraph properties and the first run properties are kept.
func rewriteParagraph(raw []byte, text string) []byte {
	open := []byte("<w:p>")
	var pPr, rPr []byte

	if len(raw) > 0 {
		if end := bytes.IndexByte(raw, '>'); end != -1 {
			open = append([]byte{}, raw[:end+1]...)
			if bytes.HasSuffix(open, []byte("/>")) {
				open = append(open[:len(open)-2], '>')
			}
		}

		rest := raw
		if loc := pPrRe.FindIndex(raw); loc != nil {
			pPr = raw[loc[0]:loc[1]]
			rest = raw[loc[1]:]
		}
		rPr = rPrRe.Find(rest)
	}

	var out bytes.Buffer
	out.Write(open)
	out.Write(pPr)
	out.WriteString("<w:r>")
	out.Write(rPr)
	out.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(&out, []byte(text))
	out.WriteString("</w:t></w:r></w:p>")

	return out.Bytes()
}

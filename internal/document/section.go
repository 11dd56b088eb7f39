package document

import (
	"slices"
	"strings"
)

// Section is a logical résumé region located by heading text.
type Section string

const (
	SectionSummary    Section = "summary"
	SectionSkills     Section = "skills"
	SectionExperience Section = "experience"
)

// headingAliases lists, per section, the lower-case heading substrings in priority order.
var headingAliases = map[Section][]string{
	SectionSummary:    {"profile summary", "profile", "summary"},
	SectionSkills:     {"core competencies", "it skills", "skills", "core skills"},
	SectionExperience: {"work experience", "experience", "projects"},
}

// Aliases returns a copy of the heading aliases for the section.
func Aliases(section Section) []string {
	return slices.Clone(headingAliases[section])
}

// Locate returns the index of the first paragraph whose trimmed, lower-cased
// text contains an alias. Aliases are tried in order across the whole document,
// so an earlier alias wins over a later alias that matches a lower index.
func Locate(doc *Document, aliases []string) (int, bool) {
	lowered := make([]string, 0, doc.Len())
	for _, p := range doc.paragraphs {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(p.text)))
	}

	for _, alias := range aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias == "" {
			continue
		}
		for idx, text := range lowered {
			if strings.Contains(text, alias) {
				return idx, true
			}
		}
	}

	return -1, false
}

// ApplyLines writes lines starting at start. Lines that land on an existing
// paragraph overwrite its text; the rest are appended at the end. Nothing is
// deleted or reordered, so paragraphs after the written range keep their
// original text even when lines is shorter than the section it replaces.
func ApplyLines(doc *Document, start int, lines []string) {
	if start < 0 {
		start = 0
	}
	for i, line := range lines {
		pos := start + i
		if pos < doc.Len() {
			doc.set(pos, line)
			continue
		}
		doc.Append(line)
	}
}

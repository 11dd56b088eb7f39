package tailor

import (
	"strings"

	"github.com/spigell/resume-tailor/internal/ai"
	"github.com/spigell/resume-tailor/internal/document"
)

const (
	experienceHeader = "Experience updates:"
	bulletPrefix     = "- "
	skillsSeparator  = ", "
)

// Applied reports where each section of an update was written.
// An index of -1 means the section was not written.
type Applied struct {
	Summary    int
	Skills     int
	Experience int
}

// Apply writes the update onto doc in a fixed order: summary, skills, experience.
func Apply(doc *document.Document, update ai.TailorUpdate) Applied {
	return Applied{
		Summary:    applySummary(doc, update.Summary),
		Skills:     applySkills(doc, update.Skills),
		Experience: applyExperience(doc, update.ExperienceUpdates),
	}
}

func applySummary(doc *document.Document, summary string) int {
	lines := nonEmptyLines(summary)
	if len(lines) == 0 {
		return -1
	}

	idx, ok := document.Locate(doc, document.Aliases(document.SectionSummary))
	if !ok {
		// No heading: the first paragraph always exists, so the summary goes there.
		document.ApplyLines(doc, 0, []string{strings.Join(lines, " ")})
		return 0
	}

	document.ApplyLines(doc, idx+1, lines)
	return idx + 1
}

func applySkills(doc *document.Document, skills []string) int {
	if len(skills) == 0 {
		return -1
	}

	idx, ok := document.Locate(doc, document.Aliases(document.SectionSkills))
	if !ok {
		return -1
	}

	document.ApplyLines(doc, idx+1, []string{strings.Join(skills, skillsSeparator)})
	return idx + 1
}

func applyExperience(doc *document.Document, entries []string) int {
	if len(entries) == 0 {
		return -1
	}

	bullets := make([]string, 0, len(entries)+1)
	for _, entry := range entries {
		bullets = append(bullets, bulletPrefix+entry)
	}

	idx, ok := document.Locate(doc, document.Aliases(document.SectionExperience))
	if ok {
		document.ApplyLines(doc, idx+1, bullets)
		return idx + 1
	}

	start := doc.Len()
	document.ApplyLines(doc, start, append([]string{experienceHeader}, bullets...))
	return start
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

package ai

import (
	_ "embed"
	"strings"
)

//go:embed prompt.md
var promptTemplate string

const fallbackTemplate = "Base Resume:\n{{BASE_TEXT}}\n\nJob Title: {{JOB_TITLE}}\nJob Description:\n{{JOB_DESCRIPTION}}\n\nJSON Response:"

// BuildPrompt fills the shared prompt template with the request inputs.
func BuildPrompt(req Request) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = fallbackTemplate
	}

	replacer := strings.NewReplacer(
		"{{BASE_TEXT}}", req.BaseText,
		"{{JOB_TITLE}}", req.JobTitle,
		"{{JOB_DESCRIPTION}}", req.JobDescription,
	)
	return replacer.Replace(template)
}

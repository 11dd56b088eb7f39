package notify

import (
	"fmt"
	"strings"

	"github.com/spigell/resume-tailor/internal/utils"
)

// MaxFailureDetail bounds the error text included in failure messages.
const MaxFailureDetail = 3000

// Messages use the legacy Telegram Markdown. Interpolated values such as file
// names and error text are escaped so a lone underscore is not read as italics.
var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// EscapeMarkdown escapes the characters legacy Markdown treats as entity markers.
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

func StartMessage(runID string) string {
	return fmt.Sprintf("🚀 Starting resume tailoring run %s", EscapeMarkdown(runID))
}

func SearchingMessage(query string) string {
	return fmt.Sprintf("🔍 Searching jobs: %s", EscapeMarkdown(query))
}

func PDFBaseMessage(path string) string {
	return fmt.Sprintf("📄 Base résumé missing, reading PDF %s", EscapeMarkdown(path))
}

func NoJobsMessage() string {
	return "❌ No jobs found this run."
}

func FoundMessage(found, selected int) string {
	return fmt.Sprintf("✅ Found %d jobs. Tailoring top %d...", found, selected)
}

func TailoringMessage(title string) string {
	return fmt.Sprintf("✂️ Tailoring resume for *%s*...", EscapeMarkdown(title))
}

// TailoredMessage reports the artifacts of one job.
func TailoredMessage(documentPath, pdfPath, provider, url string) string {
	var b strings.Builder
	b.WriteString("📄 Tailored resume ready:\n")
	b.WriteString(EscapeMarkdown(documentPath))
	b.WriteString("\n")
	if pdfPath != "" {
		b.WriteString(EscapeMarkdown(pdfPath))
	} else {
		b.WriteString("PDF conversion skipped or failed.")
	}
	if provider != "" {
		fmt.Fprintf(&b, "\nGenerated by: %s", EscapeMarkdown(provider))
	}
	if url != "" {
		fmt.Fprintf(&b, "\n🔗 %s", EscapeMarkdown(url))
	}
	return b.String()
}

// JobFailedMessage reports a job that could not be tailored. The run continues.
func JobFailedMessage(title, kind string, err error) string {
	return fmt.Sprintf("⚠️ Could not tailor resume for *%s* (%s):\n%s", EscapeMarkdown(title), EscapeMarkdown(kind), detail(err))
}

func DoneMessage(tailored, failed int, dir string) string {
	if failed > 0 {
		return fmt.Sprintf("✅ All done: %d tailored, %d failed. Check %s for files.", tailored, failed, EscapeMarkdown(dir))
	}
	return fmt.Sprintf("✅ All done! Check %s for files.", EscapeMarkdown(dir))
}

// CrashedMessage reports an error that stopped the whole run.
func CrashedMessage(err error) string {
	return fmt.Sprintf("❌ Run crashed with error:\n%s", detail(err))
}

func detail(err error) string {
	if err == nil {
		return "unknown error"
	}
	return EscapeMarkdown(utils.TruncateForLog(err.Error(), MaxFailureDetail))
}

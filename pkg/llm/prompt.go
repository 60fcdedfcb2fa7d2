package llm

import (
	"strings"

	"github.com/umputun/newsdigest/pkg/domain"
)

// caps of entry fields sent to providers, in runes
const (
	maxBodyRunes    = 1000
	maxSummaryRunes = 1000
)

// BuildContext renders the entry as the context text sent to a provider.
// Empty fields are omitted, summary and body are truncated.
func BuildContext(e domain.Entry) string {
	var sb strings.Builder
	line := func(label, value string) {
		if value = strings.TrimSpace(value); value == "" {
			return
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	line("Title", e.Title)
	line("Summary", truncateRunes(e.Summary, maxSummaryRunes))
	line("Content", truncateRunes(e.Body, maxBodyRunes))
	line("Tags", strings.Join(e.Tags, ", "))
	return strings.TrimRight(sb.String(), "\n")
}

// userMessage joins the context and the task prompt into one request
func userMessage(contextText, taskPrompt string) string {
	return contextText + "\n\n" + taskPrompt
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

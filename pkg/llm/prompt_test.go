package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/newsdigest/pkg/domain"
)

func TestBuildContext(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		got := BuildContext(domain.Entry{
			Title:   "Цифровой рубль",
			Summary: "ЦБ расширяет пилот",
			Body:    "полный текст",
			Tags:    []string{"cbdc", "регулятор"},
		})
		assert.Equal(t, "Title: Цифровой рубль\nSummary: ЦБ расширяет пилот\nContent: полный текст\nTags: cbdc, регулятор", got)
	})

	t.Run("empty fields omitted", func(t *testing.T) {
		assert.Equal(t, "Title: only title", BuildContext(domain.Entry{Title: "only title", Summary: "  "}))
	})

	t.Run("body truncated by runes", func(t *testing.T) {
		got := BuildContext(domain.Entry{Body: strings.Repeat("ж", 1500)})
		body := strings.TrimPrefix(got, "Content: ")
		assert.Equal(t, maxBodyRunes, utf8.RuneCountInString(body))
		assert.True(t, utf8.ValidString(body))
	})

	t.Run("summary truncated by runes", func(t *testing.T) {
		got := BuildContext(domain.Entry{Title: "t", Summary: strings.Repeat("ё", 5000)})
		summary := strings.TrimPrefix(got, "Title: t\nSummary: ")
		assert.Equal(t, maxSummaryRunes, utf8.RuneCountInString(summary))
	})

	t.Run("context bounded", func(t *testing.T) {
		long := strings.Repeat("слово ", 3000)
		got := BuildContext(domain.Entry{Title: "t", Summary: long, Body: long})
		assert.Less(t, utf8.RuneCountInString(got), maxSummaryRunes+maxBodyRunes+100)
	})
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Title: x\n\nрелевантно?", userMessage("Title: x", "релевантно?"))
}

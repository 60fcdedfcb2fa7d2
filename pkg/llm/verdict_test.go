package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/newsdigest/pkg/domain"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		response string
		want     domain.Verdict
	}{
		{"да", domain.VerdictRelevant},
		{"Да.", domain.VerdictRelevant},
		{"ДА, это релевантно", domain.VerdictRelevant},
		{"Yes", domain.VerdictRelevant},
		{"y", domain.VerdictRelevant},
		{"Relevant", domain.VerdictRelevant},
		{"Релевантна", domain.VerdictRelevant},
		{"возможно", domain.VerdictPossible},
		{"Возможно, да", domain.VerdictRelevant},
		{"Да, возможно", domain.VerdictRelevant},
		{"не знаю, да", domain.VerdictRelevant},
		{"Нет, но возможно", domain.VerdictPossible},
		{"No, maybe", domain.VerdictPossible},
		{"не уверен, но скорее нет", domain.VerdictPossible},
		{"не может быть", domain.VerdictIrrelevant},
		{"maybe", domain.VerdictPossible},
		{"Perhaps.", domain.VerdictPossible},
		{"не уверен", domain.VerdictPossible},
		{"Не уверена, но похоже", domain.VerdictPossible},
		{"not sure", domain.VerdictPossible},
		{"Unsure", domain.VerdictPossible},
		{"нет", domain.VerdictIrrelevant},
		{"Нет.", domain.VerdictIrrelevant},
		{"No", domain.VerdictIrrelevant},
		{"не релевантно", domain.VerdictIrrelevant},
		{"нерелевантно", domain.VerdictIrrelevant},
		{"Irrelevant", domain.VerdictIrrelevant},
		{"", domain.VerdictIrrelevant},
		{"42", domain.VerdictIrrelevant},
		{"затрудняюсь ответить", domain.VerdictIrrelevant},
		{"надо подумать", domain.VerdictIrrelevant}, // "да" inside a word is not a token
		{"yesterday", domain.VerdictIrrelevant},
		{"**Да**", domain.VerdictRelevant},
	}
	for _, tt := range tests {
		t.Run(tt.response, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVerdict(tt.response))
		})
	}
}

package llm

import (
	"strings"
	"unicode"

	"github.com/umputun/newsdigest/pkg/domain"
)

// affirmative and hedging tokens, matched as whole words of the lowercased response
var (
	affirmativeTokens = map[string]bool{
		"да": true, "yes": true, "y": true, "relevant": true,
		"релевантно": true, "релевантна": true, "релевантен": true,
	}
	hedgingTokens = map[string]bool{
		"возможно": true, "maybe": true, "possibly": true, "possible": true, "perhaps": true,
		"unsure": true, "uncertain": true, "наверное": true, "может": true,
	}
)

// negations turn the next token off ("не релевантно"), except the hedges in hedgePairs
var negations = map[string]bool{"не": true, "not": true}

// two-word hedges, a negation followed by a word starting with the given prefix
var hedgePairs = map[string]string{"не": "уверен", "not": "sure"}

// ParseVerdict maps a free-text provider response to a verdict.
// Any affirmative token makes it relevant, otherwise any hedging token makes it possible,
// otherwise it is irrelevant. So "Возможно, да" is relevant and "Нет, но возможно" is possible.
func ParseVerdict(response string) domain.Verdict {
	words := strings.FieldsFunc(strings.ToLower(response), func(r rune) bool { return !unicode.IsLetter(r) })
	var hedged bool
	for i, w := range words {
		if prefix, ok := hedgePairs[w]; ok && i+1 < len(words) && strings.HasPrefix(words[i+1], prefix) {
			hedged = true
			continue
		}
		if i > 0 && negations[words[i-1]] {
			continue
		}
		if affirmativeTokens[w] {
			return domain.VerdictRelevant
		}
		if hedgingTokens[w] {
			hedged = true
		}
	}
	if hedged {
		return domain.VerdictPossible
	}
	return domain.VerdictIrrelevant
}

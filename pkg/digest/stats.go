package digest

import "github.com/umputun/newsdigest/pkg/domain"

// Aggregate sums per-source stats into run totals
func Aggregate(stats map[string]domain.SourceStats) domain.Totals {
	var t domain.Totals
	for _, s := range stats {
		t.Total += s.Total
		t.Relevant += s.Relevant
		t.Possible += s.Possible
		t.Irrelevant += s.Irrelevant
		if s.Error != "" {
			t.FailedSources++
		}
	}
	return t
}

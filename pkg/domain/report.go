package domain

import "time"

// SourceStats holds per-source counters for a single digest run
type SourceStats struct {
	SourceURL  string `json:"source_url"`
	Title      string `json:"title,omitempty"`
	Total      int    `json:"total"`
	Relevant   int    `json:"relevant"`
	Possible   int    `json:"possible"`
	Irrelevant int    `json:"irrelevant"`
	Error      string `json:"error,omitempty"` // set if the source failed to fetch
}

// Add counts a single verdict, keeping Total equal to the sum of the buckets
func (s *SourceStats) Add(v Verdict) {
	s.Total++
	switch v {
	case VerdictRelevant:
		s.Relevant++
	case VerdictPossible:
		s.Possible++
	default:
		s.Irrelevant++
	}
}

// Totals is the aggregate over all sources of a run
type Totals struct {
	Total         int `json:"total"`
	Relevant      int `json:"relevant"`
	Possible      int `json:"possible"`
	Irrelevant    int `json:"irrelevant"`
	FailedSources int `json:"failed_sources"`
}

// Report is the result of one digest run
type Report struct {
	RunID      string                 `json:"run_id"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	PromptHash string                 `json:"prompt_hash"`
	Items      []ClassifiedArticle    `json:"items"`
	Stats      map[string]SourceStats `json:"stats"`
	Totals     Totals                 `json:"totals"`
	Warnings   []string               `json:"warnings,omitempty"`
}

// RunRecord is a persisted summary of a digest run
type RunRecord struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	PromptHash string        `json:"prompt_hash"`
	Totals     Totals        `json:"totals"`
	Warnings   []string      `json:"warnings,omitempty"`
	Sources    []SourceStats `json:"sources,omitempty"`
}

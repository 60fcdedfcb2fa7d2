package domain

import (
	"fmt"
	"strings"
	"time"
)

// Entry is a normalized feed item, created fresh on every fetch.
// Only its ID is ever persisted (as a seen item).
type Entry struct {
	ID          string     `json:"id"` // canonical link, stable across fetches
	Link        string     `json:"link"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	Body        string     `json:"body,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"` // nil if the feed had neither published nor updated date
	SourceURL   string     `json:"source_url"`
	SourceTitle string     `json:"source_title,omitempty"`
}

// Verdict is the classification outcome for one entry
type Verdict int

// verdicts, zero value is Irrelevant
const (
	VerdictIrrelevant Verdict = iota
	VerdictPossible
	VerdictRelevant
)

// String returns the lowercase name of the verdict
func (v Verdict) String() string {
	switch v {
	case VerdictRelevant:
		return "relevant"
	case VerdictPossible:
		return "possible"
	case VerdictIrrelevant:
		return "irrelevant"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// MarshalText implements encoding.TextMarshaler
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Verdict) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "relevant":
		*v = VerdictRelevant
	case "possible":
		*v = VerdictPossible
	case "irrelevant":
		*v = VerdictIrrelevant
	default:
		return fmt.Errorf("unknown verdict %q", string(text))
	}
	return nil
}

// Deliverable reports whether entries with this verdict go to the result list
func (v Verdict) Deliverable() bool {
	return v == VerdictRelevant || v == VerdictPossible
}

// ClassifiedArticle is an entry with its verdict, transient within one run
type ClassifiedArticle struct {
	Entry     Entry   `json:"entry"`
	Verdict   Verdict `json:"verdict"`
	SourceURL string  `json:"source_url"`
	Tier      string  `json:"tier"` // name of the chain tier that produced the verdict
}

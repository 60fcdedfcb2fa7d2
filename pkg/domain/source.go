package domain

import "time"

// Source represents a configured feed source, keyed by URL
type Source struct {
	URL     string    `json:"url"`
	AddedAt time.Time `json:"added_at"`
}

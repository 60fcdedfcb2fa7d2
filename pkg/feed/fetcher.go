package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/newsdigest/pkg/domain"
)

// FetcherConfig holds feed fetcher settings
type FetcherConfig struct {
	Timeout     time.Duration // per request, zero means 30s
	UserAgent   string
	MaxAge      time.Duration // freshness window, zero disables the check
	MaxEntries  int           // cap on entries taken from one feed, zero means no cap
	SkipUndated bool          // drop entries with neither published nor updated date
	Now         func() time.Time
}

// Fetcher retrieves one feed over HTTP and turns it into normalized entries
type Fetcher struct {
	client *http.Client
	cfg    FetcherConfig
}

// NewFetcher creates a new feed fetcher with a pooled transport
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Newsdigest/1.0"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cfg: cfg,
	}
}

// Fetch retrieves and parses the feed at feedURL. Failures are returned as *domain.FetchError.
// Only the first MaxEntries feed items are considered, entries come back in feed order filtered by link and age.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]domain.Entry, error) {
	body, err := f.get(ctx, feedURL)
	if err != nil {
		return nil, &domain.FetchError{URL: feedURL, Err: err}
	}
	defer body.Close()

	parsed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, &domain.FetchError{URL: feedURL, Err: fmt.Errorf("parse feed: %w", err)}
	}

	now := f.cfg.Now()
	feedTitle := strings.TrimSpace(parsed.Title)
	entries := make([]domain.Entry, 0, len(parsed.Items))
	items := parsed.Items
	if f.cfg.MaxEntries > 0 && len(items) > f.cfg.MaxEntries {
		items = items[:f.cfg.MaxEntries] // cap raw feed items, before any filtering
	}
	var noLink, stale, undated int
	for _, item := range items {
		entry, ok := toEntry(item, feedURL)
		if !ok {
			noLink++
			continue
		}
		if entry.PublishedAt == nil {
			if f.cfg.SkipUndated {
				undated++
				continue
			}
		} else if f.cfg.MaxAge > 0 && now.Sub(*entry.PublishedAt) > f.cfg.MaxAge {
			stale++
			continue
		}
		entry.SourceTitle = feedTitle
		entries = append(entries, entry)
	}

	if noLink+stale+undated > 0 {
		log.Printf("[DEBUG] feed %s: %d entries, skipped no-link:%d stale:%d undated:%d",
			feedURL, len(entries), noLink, stale, undated)
	}
	return entries, nil
}

// get retrieves the feed body, non-200 responses are errors
func (f *Fetcher) get(ctx context.Context, feedURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	addBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch url: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Package content extracts the main text of article pages.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/markusmobius/go-trafilatura"
)

// maxPageSize limits how much of an article page is read
const maxPageSize = 5 * 1024 * 1024

// ExtractorConfig sets up an Extractor, zero values get defaults
type ExtractorConfig struct {
	Timeout   time.Duration // per article, default 30s
	UserAgent string
	MaxChars  int // extracted text is cut to this many runes, 0 keeps it whole
}

// Extractor fills entries that come without content with the text of their article page
type Extractor struct {
	client    *http.Client
	userAgent string
	maxChars  int
}

// NewExtractor creates a content extractor
func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; Newsdigest/1.0)"
	}
	return &Extractor{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxChars:  cfg.MaxChars,
	}
}

// Extract downloads the page at urlStr and returns its main text
func (e *Extractor) Extract(ctx context.Context, urlStr string) (string, error) {
	pageURL, err := url.Parse(urlStr)
	if err != nil || pageURL.Host == "" || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return "", fmt.Errorf("invalid article url %q", urlStr)
	}

	page, err := e.download(ctx, pageURL)
	if err != nil {
		return "", err
	}
	defer page.Close()

	result, err := trafilatura.Extract(io.LimitReader(page, maxPageSize), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     pageURL,
	})
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", urlStr, err)
	}

	var text string
	if result != nil {
		text = strings.TrimSpace(result.ContentText)
	}
	if text == "" {
		return "", fmt.Errorf("no text content in %s", urlStr)
	}
	return truncate(text, e.maxChars), nil
}

func (e *Extractor) download(ctx context.Context, pageURL *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	addBrowserHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", pageURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("get %s: status %d", pageURL, resp.StatusCode)
	}
	return resp.Body, nil
}

// truncate cuts s to at most n runes, on a word boundary in the second half if there is one
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)[:n]
	cut := string(runes)
	if i := strings.LastIndexAny(cut, " \n\t"); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

package feed

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/newsdigest/pkg/domain"
)

var stripPolicy = bluemonday.StrictPolicy()

// toEntry converts a parsed feed item to a normalized entry.
// Returns false if the item has no usable link to derive the id from.
func toEntry(item *gofeed.Item, sourceURL string) (domain.Entry, bool) {
	link := canonicalLink(item)
	if link == "" {
		return domain.Entry{}, false
	}

	entry := domain.Entry{
		ID:        link,
		Link:      link,
		Title:     strings.TrimSpace(stripHTML(item.Title)),
		Summary:   stripHTML(item.Description),
		Body:      stripHTML(item.Content),
		SourceURL: sourceURL,
	}

	for _, c := range item.Categories {
		if c = strings.TrimSpace(c); c != "" {
			entry.Tags = append(entry.Tags, c)
		}
	}

	switch {
	case item.PublishedParsed != nil:
		ts := item.PublishedParsed.UTC()
		entry.PublishedAt = &ts
	case item.UpdatedParsed != nil:
		ts := item.UpdatedParsed.UTC()
		entry.PublishedAt = &ts
	}

	return entry, true
}

// canonicalLink picks item link, then the first of item links, then a guid that is an absolute url
func canonicalLink(item *gofeed.Item) string {
	candidates := []string{item.Link}
	candidates = append(candidates, item.Links...)
	candidates = append(candidates, item.GUID)
	for _, c := range candidates {
		if link := normalizeLink(c); link != "" {
			return link
		}
	}
	return ""
}

// normalizeLink trims the link, drops the fragment and lowercases scheme and host.
// Returns empty string for anything but absolute http(s) urls.
func normalizeLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// stripHTML removes all markup, unescapes entities and collapses whitespace
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	clean := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}


package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/newsdigest/pkg/domain"
)

// Generator renders digest reports as RSS and sources as OPML
type Generator struct {
	baseURL string
	now     func() time.Time
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// GenerateRSS creates an RSS 2.0 feed from deliverable items of the report.
// A nil report gives an empty channel.
func (g *Generator) GenerateRSS(rep *domain.Report) (string, error) {
	var items []domain.ClassifiedArticle
	buildDate := g.now()
	if rep != nil {
		items = rep.Items
		buildDate = rep.FinishedAt
	}

	rssItems := make([]*RSSItem, 0, len(items))
	for _, item := range items {
		if !item.Verdict.Deliverable() {
			continue
		}
		rssItems = append(rssItems, g.convertToRSSItem(item))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         "Newsdigest",
			Link:          g.baseURL + "/",
			Description:   "Relevant and possibly relevant entries of the last digest",
			AtomLink:      &AtomLink{Href: g.baseURL + "/rss", Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: buildDate.Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// convertToRSSItem converts a classified article to an RSS item, possible ones are marked in the title
func (g *Generator) convertToRSSItem(item domain.ClassifiedArticle) *RSSItem {
	title := item.Entry.Title
	if item.Verdict == domain.VerdictPossible {
		title = "[?] " + title
	}

	desc := item.Entry.Summary
	if item.Entry.SourceTitle != "" {
		desc = strings.TrimSpace(desc + "\n\nSource: " + item.Entry.SourceTitle)
	}

	res := &RSSItem{
		Title:       title,
		Link:        item.Entry.Link,
		GUID:        item.Entry.ID,
		Description: desc,
		Categories:  append([]string{item.Verdict.String()}, item.Entry.Tags...),
	}
	if item.Entry.PublishedAt != nil {
		res.PubDate = item.Entry.PublishedAt.Format(time.RFC1123Z)
	}
	return res
}

// GenerateOPML creates an OPML file with feed subscriptions
func (g *Generator) GenerateOPML(sources []domain.Source) (string, error) {
	type outline struct {
		XMLName xml.Name `xml:"outline"`
		Text    string   `xml:"text,attr"`
		Type    string   `xml:"type,attr"`
		XMLURL  string   `xml:"xmlUrl,attr"`
	}

	type body struct {
		XMLName  xml.Name  `xml:"body"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		XMLName     xml.Name `xml:"head"`
		Title       string   `xml:"title"`
		DateCreated string   `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    head     `xml:"head"`
		Body    body     `xml:"body"`
	}

	outlines := make([]outline, 0, len(sources))
	for _, src := range sources {
		outlines = append(outlines, outline{Text: src.URL, Type: "rss", XMLURL: src.URL})
	}

	doc := opml{
		Version: "2.0",
		Head:    head{Title: "Newsdigest sources", DateCreated: g.now().Format(time.RFC1123Z)},
		Body:    body{Outlines: outlines},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}

package feed

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/domain"
)

func TestGenerator_GenerateRSS(t *testing.T) {
	gen := NewGenerator("https://example.com/")
	pubTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	finished := time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC)

	rep := &domain.Report{
		RunID:      "run-1",
		FinishedAt: finished,
		Items: []domain.ClassifiedArticle{
			{
				Entry: domain.Entry{ID: "https://news.example.com/1", Link: "https://news.example.com/1",
					Title: "Crypto exchange opens", Summary: "details", Tags: []string{"finance"},
					PublishedAt: &pubTime, SourceTitle: "Crypto News"},
				Verdict: domain.VerdictRelevant,
			},
			{
				Entry:   domain.Entry{ID: "https://news.example.com/2", Link: "https://news.example.com/2", Title: "Maybe"},
				Verdict: domain.VerdictPossible,
			},
			{
				Entry:   domain.Entry{ID: "https://news.example.com/3", Link: "https://news.example.com/3", Title: "Weather"},
				Verdict: domain.VerdictIrrelevant,
			},
		},
	}

	t.Run("deliverable items", func(t *testing.T) {
		out, err := gen.GenerateRSS(rep)
		require.NoError(t, err)
		assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
		assert.Contains(t, out, `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
		assert.Contains(t, out, `<atom:link href="https://example.com/rss" rel="self" type="application/rss+xml"></atom:link>`)
		assert.Contains(t, out, `<lastBuildDate>`+finished.Format(time.RFC1123Z)+`</lastBuildDate>`)

		var parsed RSS
		require.NoError(t, xml.Unmarshal([]byte(out), &parsed))
		require.Len(t, parsed.Channel.Items, 2, "irrelevant entry excluded")

		first := parsed.Channel.Items[0]
		assert.Equal(t, "Crypto exchange opens", first.Title)
		assert.Equal(t, "https://news.example.com/1", first.GUID)
		assert.Equal(t, []string{"relevant", "finance"}, first.Categories)
		assert.Equal(t, pubTime.Format(time.RFC1123Z), first.PubDate)
		assert.Equal(t, "details\n\nSource: Crypto News", first.Description)

		second := parsed.Channel.Items[1]
		assert.Equal(t, "[?] Maybe", second.Title)
		assert.Equal(t, []string{"possible"}, second.Categories)
		assert.Empty(t, second.PubDate)
	})

	t.Run("nil report", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		g := NewGenerator("https://example.com")
		g.now = func() time.Time { return now }
		out, err := g.GenerateRSS(nil)
		require.NoError(t, err)
		assert.Contains(t, out, `<title>Newsdigest</title>`)
		assert.Contains(t, out, now.Format(time.RFC1123Z))
		assert.NotContains(t, out, "<item>")
	})

	t.Run("xml escaping", func(t *testing.T) {
		r := &domain.Report{Items: []domain.ClassifiedArticle{{
			Entry:   domain.Entry{ID: "a", Link: "https://example.com/?a=1&b=2", Title: `<b>"quoted"</b>`},
			Verdict: domain.VerdictRelevant,
		}}}
		out, err := gen.GenerateRSS(r)
		require.NoError(t, err)
		assert.Contains(t, out, "https://example.com/?a=1&amp;b=2")
		assert.Contains(t, out, "&lt;b&gt;&#34;quoted&#34;&lt;/b&gt;")
	})
}

func TestGenerator_GenerateOPML(t *testing.T) {
	gen := NewGenerator("https://example.com")
	gen.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	out, err := gen.GenerateOPML([]domain.Source{
		{URL: "https://a.example.com/rss"},
		{URL: "https://b.example.com/feed?x=1&y=2"},
	})
	require.NoError(t, err)
	assert.Contains(t, out, `<opml version="2.0">`)
	assert.Contains(t, out, `<title>Newsdigest sources</title>`)
	assert.Contains(t, out, `<outline text="https://a.example.com/rss" type="rss" xmlUrl="https://a.example.com/rss"></outline>`)
	assert.Contains(t, out, `xmlUrl="https://b.example.com/feed?x=1&amp;y=2"`)

	empty, err := gen.GenerateOPML(nil)
	require.NoError(t, err)
	assert.Contains(t, empty, "<body></body>")
}

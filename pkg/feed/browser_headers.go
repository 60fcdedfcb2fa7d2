package feed

import (
	"math/rand"
	"net/http"
)

// acceptLanguages are browser Accept-Language values, feeds of the default source list are mostly russian
var acceptLanguages = []string{
	"ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7",
	"ru,en;q=0.9",
	"en-US,en;q=0.9,ru;q=0.8",
	"en-GB,en;q=0.9",
}

// addBrowserHeaders adds browser-like headers to feed requests
func addBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/feed+json,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // header variation only
	req.Header.Set("Connection", "keep-alive")
	if rand.Float32() < 0.3 { //nolint:gosec // header variation only
		req.Header.Set("DNT", "1")
	}
}

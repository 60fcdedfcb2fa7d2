package content

import (
	"math/rand"
	"net/http"
)

var acceptLanguages = []string{
	"ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7",
	"en-US,en;q=0.9,ru;q=0.8",
	"en-GB,en;q=0.9",
	"de-DE,de;q=0.9,en;q=0.8",
}

var secFetchModes = []string{"navigate", "no-cors", "cors"}

// addBrowserHeaders makes article page requests look like a browser navigation
func addBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // header variation only
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", secFetchModes[rand.Intn(len(secFetchModes))]) //nolint:gosec // header variation only
	req.Header.Set("Sec-Fetch-Site", "none")
	if rand.Float32() < 0.3 { //nolint:gosec // header variation only
		req.Header.Set("DNT", "1")
	}
}

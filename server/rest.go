package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/scheduler"
)

const maxRunsLimit = 100

// statusHandler returns server status with store counters and the last run
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := rest.JSON{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}

	if n, err := s.seen.Count(ctx, ""); err != nil {
		log.Printf("[WARN] failed to count seen items: %v", err)
		status["status"] = "degraded"
	} else {
		status["seen"] = n
	}

	if sources, err := s.sources.Sources(ctx); err != nil {
		log.Printf("[WARN] failed to list sources: %v", err)
		status["status"] = "degraded"
	} else {
		status["sources"] = len(sources)
	}

	if runs, err := s.runs.Last(ctx, 1); err != nil {
		log.Printf("[WARN] failed to get last run: %v", err)
	} else if len(runs) > 0 {
		status["last_run"] = runs[0]
	}

	if next := s.digester.Next(); !next.IsZero() {
		status["next_run"] = next.UTC()
	}
	renderJSON(w, r, http.StatusOK, status)
}

type digestRequest struct {
	Prompt string `json:"prompt"`
}

// digestHandler runs a digest right away with optional custom prompt
func (s *Server) digestHandler(w http.ResponseWriter, r *http.Request) {
	var req digestRequest
	// empty body, including an empty chunked one, means the default prompt
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	// a run takes longer than the server write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Printf("[DEBUG] can't reset write deadline: %v", err)
	}

	rep, err := s.digester.TryRunNow(r.Context(), strings.TrimSpace(req.Prompt))
	switch {
	case errors.Is(err, scheduler.ErrBusy):
		renderError(w, r, err, http.StatusConflict)
		return
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Printf("[ERROR] digest failed: %v", err)
		renderError(w, r, err, http.StatusServiceUnavailable)
		return
	case err != nil:
		log.Printf("[ERROR] digest failed: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, rep)
}

// runsHandler returns recent runs, newest first
func (s *Server) runsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			renderError(w, r, fmt.Errorf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := s.runs.Last(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to get runs: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, runs)
}

func (s *Server) listSourcesHandler(w http.ResponseWriter, r *http.Request) {
	sources, err := s.sources.Sources(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to list sources: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if sources == nil {
		sources = []domain.Source{}
	}
	renderJSON(w, r, http.StatusOK, sources)
}

type sourceRequest struct {
	URL string `json:"url"`
}

func (s *Server) addSourceHandler(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	feedURL, err := validateFeedURL(req.URL)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	err = s.sources.Add(r.Context(), feedURL)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		renderError(w, r, err, http.StatusConflict)
		return
	case err != nil:
		log.Printf("[ERROR] failed to add source %s: %v", feedURL, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	log.Printf("[INFO] source added: %s", feedURL)
	renderJSON(w, r, http.StatusCreated, rest.JSON{"url": feedURL})
}

func (s *Server) removeSourceHandler(w http.ResponseWriter, r *http.Request) {
	feedURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if feedURL == "" {
		renderError(w, r, errors.New("url parameter is required"), http.StatusBadRequest)
		return
	}

	err := s.sources.Remove(r.Context(), feedURL)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		renderError(w, r, err, http.StatusNotFound)
		return
	case err != nil:
		log.Printf("[ERROR] failed to remove source %s: %v", feedURL, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	log.Printf("[INFO] source removed: %s", feedURL)
	w.WriteHeader(http.StatusNoContent)
}

// digestRSSHandler renders deliverable items of the last run as RSS feed
func (s *Server) digestRSSHandler(w http.ResponseWriter, r *http.Request) {
	rss, err := s.feeds.GenerateRSS(s.digester.LastReport())
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[WARN] failed to write RSS response: %v", err)
	}
}

// sourcesOPMLHandler exports configured sources as OPML
func (s *Server) sourcesOPMLHandler(w http.ResponseWriter, r *http.Request) {
	sources, err := s.sources.Sources(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to list sources: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	opml, err := s.feeds.GenerateOPML(sources)
	if err != nil {
		log.Printf("[ERROR] failed to generate OPML: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="newsdigest.opml"`)
	if _, err := w.Write([]byte(opml)); err != nil {
		log.Printf("[WARN] failed to write OPML response: %v", err)
	}
}

// validateFeedURL accepts absolute http(s) urls only
func validateFeedURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid feed url %q", raw)
	}
	return raw, nil
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}

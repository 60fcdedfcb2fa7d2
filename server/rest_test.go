package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/scheduler"
)

func serve(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestServer_statusHandler(t *testing.T) {
	deps, sources, runs, seen, digester := testDeps()
	next := time.Date(2025, 6, 11, 11, 0, 0, 0, time.UTC)
	seen.CountFunc = func(context.Context, string) (int, error) { return 42, nil }
	sources.SourcesFunc = func(context.Context) ([]domain.Source, error) {
		return []domain.Source{{URL: "https://a.example.com/rss"}, {URL: "https://b.example.com/rss"}}, nil
	}
	runs.LastFunc = func(_ context.Context, limit int) ([]domain.RunRecord, error) {
		assert.Equal(t, 1, limit)
		return []domain.RunRecord{{ID: "run-1", Totals: domain.Totals{Total: 5, Relevant: 2}}}, nil
	}
	digester.NextFunc = func() time.Time { return next }

	srv := New(testConfig(":8080"), deps, "1.2.3", false)
	w := serve(srv, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "1.2.3", status["version"])
	assert.InDelta(t, 42, status["seen"], 0.1)
	assert.InDelta(t, 2, status["sources"], 0.1)
	assert.Equal(t, "2025-06-11T11:00:00Z", status["next_run"])
	lastRun, ok := status["last_run"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "run-1", lastRun["id"])
	assert.Equal(t, "", seen.CountCalls()[0].Scope)
}

func TestServer_statusHandler_Degraded(t *testing.T) {
	deps, _, _, seen, _ := testDeps()
	seen.CountFunc = func(context.Context, string) (int, error) { return 0, errors.New("redis down") }

	srv := New(testConfig(":8080"), deps, "1.2.3", false)
	w := serve(srv, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status["status"])
	assert.NotContains(t, status, "seen")
	assert.NotContains(t, status, "next_run")
}

func TestServer_digestHandler(t *testing.T) {
	t.Run("custom prompt", func(t *testing.T) {
		deps, _, _, _, digester := testDeps()
		digester.TryRunNowFunc = func(_ context.Context, prompt string) (*domain.Report, error) {
			return &domain.Report{RunID: "run-7", PromptHash: "abc", Totals: domain.Totals{Total: 1, Relevant: 1},
				Items: []domain.ClassifiedArticle{{Entry: domain.Entry{ID: "https://example.com/1", Title: "A7A5"},
					Verdict: domain.VerdictRelevant, Tier: "primary"}}}, nil
		}
		srv := New(testConfig(":8080"), deps, "1.0.0", false)

		w := serve(srv, http.MethodPost, "/api/v1/digest", `{"prompt": "  about stablecoins?  "}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Len(t, digester.TryRunNowCalls(), 1)
		assert.Equal(t, "about stablecoins?", digester.TryRunNowCalls()[0].Prompt)

		var rep domain.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
		assert.Equal(t, "run-7", rep.RunID)
		require.Len(t, rep.Items, 1)
		assert.Equal(t, domain.VerdictRelevant, rep.Items[0].Verdict)
		assert.Contains(t, w.Body.String(), `"verdict":"relevant"`)
	})

	t.Run("empty body uses default prompt", func(t *testing.T) {
		deps, _, _, _, digester := testDeps()
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		w := serve(srv, http.MethodPost, "/api/v1/digest", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, digester.TryRunNowCalls()[0].Prompt)
	})

	t.Run("empty chunked body uses default prompt", func(t *testing.T) {
		deps, _, _, _, digester := testDeps()
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/digest", io.NopCloser(strings.NewReader("")))
		require.Equal(t, int64(-1), req.ContentLength)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Len(t, digester.TryRunNowCalls(), 1)
		assert.Empty(t, digester.TryRunNowCalls()[0].Prompt)
	})

	t.Run("whitespace body uses default prompt", func(t *testing.T) {
		deps, _, _, _, digester := testDeps()
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		w := serve(srv, http.MethodPost, "/api/v1/digest", " \n")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Len(t, digester.TryRunNowCalls(), 1)
	})

	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{name: "bad json", body: "{", code: http.StatusBadRequest},
		{name: "busy", body: "{}", err: scheduler.ErrBusy, code: http.StatusConflict},
		{name: "store unavailable", body: "{}", err: fmt.Errorf("run digest: %w", domain.ErrStoreUnavailable),
			code: http.StatusServiceUnavailable},
		{name: "other", body: "{}", err: errors.New("list sources: closed"), code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, _, _, _, digester := testDeps()
			digester.TryRunNowFunc = func(context.Context, string) (*domain.Report, error) { return nil, tt.err }
			srv := New(testConfig(":8080"), deps, "1.0.0", false)
			w := serve(srv, http.MethodPost, "/api/v1/digest", tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestServer_runsHandler(t *testing.T) {
	deps, _, runs, _, _ := testDeps()
	runs.LastFunc = func(_ context.Context, limit int) ([]domain.RunRecord, error) {
		return []domain.RunRecord{{ID: fmt.Sprintf("limit-%d", limit)}}, nil
	}
	srv := New(testConfig(":8080"), deps, "1.0.0", false)

	tests := []struct {
		query string
		code  int
		want  string
	}{
		{query: "", code: http.StatusOK, want: "limit-10"},
		{query: "?limit=3", code: http.StatusOK, want: "limit-3"},
		{query: "?limit=5000", code: http.StatusOK, want: "limit-100"},
		{query: "?limit=0", code: http.StatusBadRequest},
		{query: "?limit=abc", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := serve(srv, http.MethodGet, "/api/v1/runs"+tt.query, "")
			require.Equal(t, tt.code, w.Code)
			if tt.want != "" {
				var res []domain.RunRecord
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
				require.Len(t, res, 1)
				assert.Equal(t, tt.want, res[0].ID)
			}
		})
	}

	runs.LastFunc = func(context.Context, int) ([]domain.RunRecord, error) { return nil, errors.New("db closed") }
	w := serve(srv, http.MethodGet, "/api/v1/runs", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_sourcesHandlers(t *testing.T) {
	t.Run("list empty", func(t *testing.T) {
		deps, _, _, _, _ := testDeps()
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		w := serve(srv, http.MethodGet, "/api/v1/sources", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("list", func(t *testing.T) {
		deps, sources, _, _, _ := testDeps()
		added := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		sources.SourcesFunc = func(context.Context) ([]domain.Source, error) {
			return []domain.Source{{URL: "https://a.example.com/rss", AddedAt: added}}, nil
		}
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		w := serve(srv, http.MethodGet, "/api/v1/sources", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"url":"https://a.example.com/rss","added_at":"2025-06-01T00:00:00Z"}]`, w.Body.String())
	})

	t.Run("add", func(t *testing.T) {
		deps, sources, _, _, _ := testDeps()
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		w := serve(srv, http.MethodPost, "/api/v1/sources", `{"url":" https://a.example.com/rss "}`)
		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, sources.AddCalls(), 1)
		assert.Equal(t, "https://a.example.com/rss", sources.AddCalls()[0].URL)
	})

	t.Run("add duplicate", func(t *testing.T) {
		deps, sources, _, _, _ := testDeps()
		sources.AddFunc = func(_ context.Context, url string) error {
			return fmt.Errorf("source %s: %w", url, domain.ErrDuplicate)
		}
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		w := serve(srv, http.MethodPost, "/api/v1/sources", `{"url":"https://a.example.com/rss"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("add invalid", func(t *testing.T) {
		deps, sources, _, _, _ := testDeps()
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		for _, body := range []string{`{"url":"ftp://a.example.com/rss"}`, `{"url":""}`, `{"url":"example.com"}`, `not json`} {
			w := serve(srv, http.MethodPost, "/api/v1/sources", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}
		assert.Empty(t, sources.AddCalls())
	})

	t.Run("remove", func(t *testing.T) {
		deps, sources, _, _, _ := testDeps()
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		w := serve(srv, http.MethodDelete, "/api/v1/sources?url=https://a.example.com/rss", "")
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://a.example.com/rss", sources.RemoveCalls()[0].URL)
	})

	t.Run("remove absent", func(t *testing.T) {
		deps, sources, _, _, _ := testDeps()
		sources.RemoveFunc = func(context.Context, string) error { return domain.ErrNotFound }
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		w := serve(srv, http.MethodDelete, "/api/v1/sources?url=https://a.example.com/rss", "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = serve(srv, http.MethodDelete, "/api/v1/sources", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_digestRSSHandler(t *testing.T) {
	t.Run("no runs yet", func(t *testing.T) {
		deps, _, _, _, _ := testDeps()
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		w := serve(srv, http.MethodGet, "/rss", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), `<atom:link href="http://example.com/rss"`)
		assert.NotContains(t, w.Body.String(), "<item>")
	})

	t.Run("last report items", func(t *testing.T) {
		deps, _, _, _, digester := testDeps()
		digester.LastReportFunc = func() *domain.Report {
			return &domain.Report{FinishedAt: time.Now(), Items: []domain.ClassifiedArticle{
				{Entry: domain.Entry{ID: "https://news.example.com/1", Link: "https://news.example.com/1", Title: "Crypto news"},
					Verdict: domain.VerdictRelevant},
				{Entry: domain.Entry{ID: "https://news.example.com/2", Link: "https://news.example.com/2", Title: "Maybe crypto"},
					Verdict: domain.VerdictPossible},
			}}
		}
		srv := New(testConfig(":8080"), deps, "1.0.0", false)
		w := serve(srv, http.MethodGet, "/rss", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<title>Crypto news</title>")
		assert.Contains(t, w.Body.String(), "<title>[?] Maybe crypto</title>")
		assert.Equal(t, 2, strings.Count(w.Body.String(), "<item>"))
		assert.Len(t, digester.LastReportCalls(), 1)
	})
}

func TestServer_sourcesOPMLHandler(t *testing.T) {
	deps, sources, _, _, _ := testDeps()
	sources.SourcesFunc = func(context.Context) ([]domain.Source, error) {
		return []domain.Source{{URL: "https://a.example.com/rss"}}, nil
	}
	srv := New(testConfig(":8080"), deps, "1.0.0", false)

	w := serve(srv, http.MethodGet, "/api/v1/sources.opml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/x-opml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `xmlUrl="https://a.example.com/rss"`)

	sources.SourcesFunc = func(context.Context) ([]domain.Source, error) { return nil, errors.New("db is down") }
	w = serve(srv, http.MethodGet, "/api/v1/sources.opml", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

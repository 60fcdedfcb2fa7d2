package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/config"
)

func TestOpenAIProvider_Query(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		resp := openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "  Да \n"},
		}}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer ts.Close()

	p := NewOpenAIProvider("primary", config.ProviderConfig{Endpoint: ts.URL + "/v1", APIKey: "test-key", Model: "gpt-4o-mini", MaxTokens: 10}, "system msg")
	assert.Equal(t, "primary", p.Name())

	answer, err := p.Query(context.Background(), "Title: x", "релевантно?")
	require.NoError(t, err)
	assert.Equal(t, "Да", answer)

	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.Equal(t, 10, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, gotReq.Messages[0].Role)
	assert.Equal(t, "system msg", gotReq.Messages[0].Content)
	assert.Equal(t, "Title: x\n\nрелевантно?", gotReq.Messages[1].Content)
}

func TestOpenAIProvider_QueryErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   ErrorKind
	}{
		{"rate limited", http.StatusTooManyRequests, KindRateLimited},
		{"unauthorized", http.StatusUnauthorized, KindAuth},
		{"forbidden", http.StatusForbidden, KindAuth},
		{"server error", http.StatusInternalServerError, KindTransientNetwork},
		{"unavailable", http.StatusServiceUnavailable, KindTransientNetwork},
		{"bad request", http.StatusBadRequest, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"test failure","type":"test_error"}}`))
			}))
			defer ts.Close()

			p := NewOpenAIProvider("primary", config.ProviderConfig{Endpoint: ts.URL + "/v1", APIKey: "k", Model: "m"}, "")
			_, err := p.Query(context.Background(), "ctx", "prompt")
			require.Error(t, err)
			var pe *ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.want, pe.Kind)
			assert.Equal(t, "primary", pe.Provider)
		})
	}

	t.Run("timeout", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer ts.Close()

		p := NewOpenAIProvider("primary", config.ProviderConfig{Endpoint: ts.URL + "/v1", APIKey: "k", Model: "m"}, "")
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := p.Query(ctx, "ctx", "prompt")
		var pe *ProviderError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, KindTimeout, pe.Kind)
	})

	t.Run("no choices", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer ts.Close()

		p := NewOpenAIProvider("secondary", config.ProviderConfig{Endpoint: ts.URL + "/v1", APIKey: "k", Model: "m"}, "")
		_, err := p.Query(context.Background(), "ctx", "prompt")
		var pe *ProviderError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, KindUnknown, pe.Kind)
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		t.Setenv("TEST_OPENAI_KEY", "sk-test")
		configContent := `
server:
  listen: ":9090"
  timeout: 45s
sources:
  - https://forklog.com/feed/
  - https://decrypt.co/feed
llm:
  prompt: "про крипту?"
  primary:
    kind: openai
    api_key: ${TEST_OPENAI_KEY}
    model: gpt-4o-mini
    retry:
      max_attempts: 5
  secondary:
    kind: openai
    endpoint: https://openrouter.ai/api/v1
    model: openchat/openchat-3.5-0106
keywords:
  list: [crypto, CBDC]
digest:
  max_workers: 3
dedup:
  per_prompt: true
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, []string{"https://forklog.com/feed/", "https://decrypt.co/feed"}, cfg.Sources)
		assert.Equal(t, "про крипту?", cfg.LLM.Prompt)
		assert.Equal(t, "sk-test", cfg.LLM.Primary.APIKey)
		assert.Equal(t, 5, cfg.LLM.Primary.Retry.MaxAttempts)
		assert.Equal(t, 2*time.Second, cfg.LLM.Primary.Retry.BaseDelay)
		assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.Secondary.Endpoint)
		assert.True(t, cfg.LLM.Secondary.Enabled())
		assert.Equal(t, []string{"crypto", "CBDC"}, cfg.Keywords.List)
		assert.Equal(t, 3, cfg.Digest.MaxWorkers)
		assert.True(t, cfg.Dedup.PerPrompt)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "sources: [https://example.com/feed.xml]\n"))
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
		assert.Equal(t, SeenBackendSQLite, cfg.Store.SeenBackend)
		assert.Equal(t, 7*24*time.Hour, cfg.Feed.MaxAge)
		assert.Equal(t, 50, cfg.Feed.MaxEntries)
		assert.Equal(t, DefaultPrompt, cfg.LLM.Prompt)
		assert.Equal(t, DefaultSystemPrompt, cfg.LLM.SystemPrompt)
		assert.Equal(t, ProviderOpenAI, cfg.LLM.Primary.Kind)
		assert.Equal(t, 30*time.Second, cfg.LLM.Primary.Timeout)
		assert.Equal(t, time.Second, cfg.LLM.Primary.MinInterval)
		assert.Equal(t, 3, cfg.LLM.Primary.Retry.MaxAttempts)
		assert.Equal(t, 10*time.Second, cfg.LLM.Primary.Retry.MaxDelay)
		assert.False(t, cfg.LLM.Primary.Enabled())
		assert.Equal(t, DefaultKeywords, cfg.Keywords.List)
		assert.Equal(t, 5, cfg.Digest.MaxWorkers)
		assert.Equal(t, 10*time.Minute, cfg.Digest.Timeout)
		assert.Equal(t, "0 11 * * *", cfg.Schedule.Cron)
		assert.Equal(t, "Newsdigest/1.0", cfg.Extraction.UserAgent)
	})

	t.Run("keywords file disables default list", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "keywords:\n  file: /tmp/keywords.yml\n"))
		require.NoError(t, err)
		assert.Empty(t, cfg.Keywords.List)
		assert.Equal(t, "/tmp/keywords.yml", cfg.Keywords.File)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		cfg, err := Load(writeConfig(t, configContent))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid values", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "store:\n  seen_backend: mongo\n"))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "validate config")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "short server timeout", modify: func(c *Config) { c.Server.Timeout = time.Millisecond }, errMsg: "server timeout"},
		{name: "unknown backend", modify: func(c *Config) { c.Store.SeenBackend = "bolt" }, errMsg: "store.seen_backend"},
		{name: "zero max entries", modify: func(c *Config) { c.Feed.MaxEntries = 0 }, errMsg: "feed.max_entries"},
		{name: "non-http source", modify: func(c *Config) { c.Sources = []string{"ftp://example.com/rss"} }, errMsg: "must be an http(s) url"},
		{name: "unknown provider kind", modify: func(c *Config) { c.LLM.Primary.Kind = "claude" }, errMsg: "llm.primary: unknown provider kind"},
		{name: "temperature out of range", modify: func(c *Config) { c.LLM.Secondary.Temperature = 3 }, errMsg: "llm.secondary: temperature"},
		{name: "backoff cap below base", modify: func(c *Config) { c.LLM.Primary.Retry.MaxDelay = time.Second }, errMsg: "retry.max_delay"},
		{name: "zero workers", modify: func(c *Config) { c.Digest.MaxWorkers = 0 }, errMsg: "digest.max_workers"},
		{name: "short extraction timeout", modify: func(c *Config) {
			c.Extraction.Enabled = true
			c.Extraction.Timeout = time.Millisecond
		}, errMsg: "extraction timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.SetDefaults()
			tt.modify(cfg)
			err := validate(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// DefaultPrompt is the task prompt used when neither the request nor the config provides one
const DefaultPrompt = "Может ли это быть релевантно проекту A7A5, криптовалютам, цифровому рублю, экономике или регуляторам? " +
	"Ответь одним словом: да, нет или возможно."

// DefaultSystemPrompt constrains providers to a one-word answer
const DefaultSystemPrompt = "Ты ИИ, который определяет релевантность новости по запросу. " +
	"Отвечай строго одним словом: да, нет или возможно."

// provider kinds
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// seen-item store backends
const (
	SeenBackendSQLite = "sqlite"
	SeenBackendRedis  = "redis"
)

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Public URL used in generated feeds"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:newsdigest.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Store StoreConfig `yaml:"store" json:"store" jsonschema:"description=Seen-item store configuration"`

	Feed FeedConfig `yaml:"feed" json:"feed" jsonschema:"description=Feed fetching configuration"`

	Sources []string `yaml:"sources" json:"sources" jsonschema:"description=Feed URLs seeded into the source store on startup"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=Classifier chain configuration"`

	Keywords KeywordsConfig `yaml:"keywords" json:"keywords" jsonschema:"description=Keyword fallback configuration"`

	Digest struct {
		MaxWorkers int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,minimum=1,description=Maximum sources processed concurrently"`
		Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10m,description=Timeout for a whole digest run"`
	} `yaml:"digest" json:"digest" jsonschema:"description=Digest pipeline configuration"`

	Dedup struct {
		PerPrompt bool `yaml:"per_prompt" json:"per_prompt" jsonschema:"default=false,description=Track seen items separately for every distinct prompt"`
	} `yaml:"dedup" json:"dedup" jsonschema:"description=Deduplication policy"`

	Schedule struct {
		Enabled bool   `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable scheduled digest runs"`
		Cron    string `yaml:"cron" json:"cron" jsonschema:"default=0 11 * * *,description=Cron spec for scheduled runs"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction configuration"`
}

// StoreConfig selects the seen-item store backend
type StoreConfig struct {
	SeenBackend string `yaml:"seen_backend" json:"seen_backend" jsonschema:"default=sqlite,enum=sqlite,enum=redis,description=Seen-item store backend"`
	RedisAddr   string `yaml:"redis_addr" json:"redis_addr" jsonschema:"default=localhost:6379,description=Redis address for the redis backend"`
	RedisPrefix string `yaml:"redis_prefix" json:"redis_prefix" jsonschema:"default=newsdigest:seen:,description=Key prefix for redis seen sets"`
}

// FeedConfig holds feed fetcher settings
type FeedConfig struct {
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP timeout per feed request"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Newsdigest/1.0,description=User agent for feed requests"`
	MaxAge      time.Duration `yaml:"max_age" json:"max_age" jsonschema:"default=168h,description=Freshness window, older entries are skipped"`
	MaxEntries  int           `yaml:"max_entries" json:"max_entries" jsonschema:"default=50,minimum=1,description=Maximum entries taken from one feed"`
	SkipUndated bool          `yaml:"skip_undated" json:"skip_undated" jsonschema:"default=false,description=Skip entries without published or updated date"`
}

// RetryConfig defines per-tier retry with exponential backoff
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts" jsonschema:"default=3,minimum=1,description=Maximum attempts per tier"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay" jsonschema:"default=2s,description=Initial backoff delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay" jsonschema:"default=10s,description=Backoff delay cap"`
}

// ProviderConfig holds one classification provider settings
type ProviderConfig struct {
	Kind        string        `yaml:"kind" json:"kind" jsonschema:"default=openai,enum=openai,enum=gemini,description=Provider backend"`
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint (empty for the default)"`
	APIKey      string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model       string        `yaml:"model" json:"model" jsonschema:"description=Model name (e.g. gpt-4o-mini or gemini-1.5-flash)"`
	Temperature float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0,description=Temperature for response generation"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=10,description=Maximum tokens in response"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Timeout per provider call"`
	MinInterval time.Duration `yaml:"min_interval" json:"min_interval" jsonschema:"default=1s,description=Minimum delay between calls to this provider"`
	Retry       RetryConfig   `yaml:"retry" json:"retry" jsonschema:"description=Retry policy for retriable failures"`
}

// Enabled reports whether the provider is configured
func (p ProviderConfig) Enabled() bool {
	return p.Model != ""
}

// LLMConfig holds the classifier chain configuration
type LLMConfig struct {
	Prompt       string         `yaml:"prompt" json:"prompt" jsonschema:"description=Default task prompt"`
	SystemPrompt string         `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt demanding a one-word answer"`
	Primary      ProviderConfig `yaml:"primary" json:"primary" jsonschema:"description=Primary provider"`
	Secondary    ProviderConfig `yaml:"secondary" json:"secondary" jsonschema:"description=Secondary (fallback) provider"`
}

// KeywordsConfig holds the keyword fallback tier settings
type KeywordsConfig struct {
	List []string `yaml:"list" json:"list" jsonschema:"description=Keywords matched case-insensitively in title and summary"`
	File string   `yaml:"file" json:"file" jsonschema:"description=YAML file with extra keywords, reloaded on change"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Extract full text for entries with empty body"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Newsdigest/1.0,description=User agent for HTTP requests"`
	MaxChars  int           `yaml:"max_chars" json:"max_chars" jsonschema:"default=4000,minimum=0,description=Maximum extracted text length in characters"`
}

// DefaultKeywords is the keyword set used when none is configured
var DefaultKeywords = []string{"крипта", "токен", "рубль", "цифровой", "CBDC", "стейблкоин", "блокчейн", "регулятор"}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.SetDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}

	return &cfg, nil
}

// GetServerConfig returns listen address and timeout of the http server
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// SetDefaults fills zero values with defaults
func (c *Config) SetDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:newsdigest.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	if c.Store.SeenBackend == "" {
		c.Store.SeenBackend = SeenBackendSQLite
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = "localhost:6379"
	}
	if c.Store.RedisPrefix == "" {
		c.Store.RedisPrefix = "newsdigest:seen:"
	}

	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = 30 * time.Second
	}
	if c.Feed.UserAgent == "" {
		c.Feed.UserAgent = "Newsdigest/1.0"
	}
	if c.Feed.MaxAge == 0 {
		c.Feed.MaxAge = 7 * 24 * time.Hour
	}
	if c.Feed.MaxEntries == 0 {
		c.Feed.MaxEntries = 50
	}

	if c.LLM.Prompt == "" {
		c.LLM.Prompt = DefaultPrompt
	}
	if c.LLM.SystemPrompt == "" {
		c.LLM.SystemPrompt = DefaultSystemPrompt
	}
	c.LLM.Primary.setDefaults()
	c.LLM.Secondary.setDefaults()

	if len(c.Keywords.List) == 0 && c.Keywords.File == "" {
		c.Keywords.List = append([]string(nil), DefaultKeywords...)
	}

	if c.Digest.MaxWorkers == 0 {
		c.Digest.MaxWorkers = 5
	}
	if c.Digest.Timeout == 0 {
		c.Digest.Timeout = 10 * time.Minute
	}

	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 11 * * *"
	}

	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = c.Feed.UserAgent
	}
	if c.Extraction.MaxChars == 0 {
		c.Extraction.MaxChars = 4000
	}
}

func (p *ProviderConfig) setDefaults() {
	if p.Kind == "" {
		p.Kind = ProviderOpenAI
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = 10
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
	if p.MinInterval == 0 {
		p.MinInterval = time.Second
	}
	if p.Retry.MaxAttempts == 0 {
		p.Retry.MaxAttempts = 3
	}
	if p.Retry.BaseDelay == 0 {
		p.Retry.BaseDelay = 2 * time.Second
	}
	if p.Retry.MaxDelay == 0 {
		p.Retry.MaxDelay = 10 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	switch cfg.Store.SeenBackend {
	case SeenBackendSQLite, SeenBackendRedis:
	default:
		return fmt.Errorf("store.seen_backend must be %q or %q, got %q", SeenBackendSQLite, SeenBackendRedis, cfg.Store.SeenBackend)
	}

	if cfg.Feed.MaxEntries < 1 {
		return fmt.Errorf("feed.max_entries must be at least 1")
	}
	if cfg.Feed.MaxAge < 0 {
		return fmt.Errorf("feed.max_age must be non-negative")
	}

	for _, src := range cfg.Sources {
		if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
			return fmt.Errorf("source %q must be an http(s) url", src)
		}
	}

	for name, p := range map[string]ProviderConfig{"llm.primary": cfg.LLM.Primary, "llm.secondary": cfg.LLM.Secondary} {
		if err := p.validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if cfg.Digest.MaxWorkers < 1 {
		return fmt.Errorf("digest.max_workers must be at least 1")
	}
	if cfg.Digest.Timeout < time.Second {
		return fmt.Errorf("digest.timeout must be at least 1 second")
	}

	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}

	return nil
}

func (p ProviderConfig) validate() error {
	switch p.Kind {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider kind %q", p.Kind)
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if p.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if p.Retry.MaxDelay < p.Retry.BaseDelay {
		return fmt.Errorf("retry.max_delay must not be less than retry.base_delay")
	}
	return nil
}

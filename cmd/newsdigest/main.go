package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umputun/newsdigest/pkg/config"
	"github.com/umputun/newsdigest/pkg/content"
	"github.com/umputun/newsdigest/pkg/digest"
	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/feed"
	"github.com/umputun/newsdigest/pkg/llm"
	"github.com/umputun/newsdigest/pkg/metrics"
	"github.com/umputun/newsdigest/pkg/repository"
	"github.com/umputun/newsdigest/pkg/scheduler"
	"github.com/umputun/newsdigest/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	Once   bool   `long:"once" description:"run a single digest, print the report and exit"`
	Prompt string `short:"p" long:"prompt" description:"custom task prompt for --once"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

// stdout receives the report of a --once run
var stdout io.Writer = os.Stdout

// seenStore is what both the pipeline and the status endpoint need from the seen-item store
type seenStore interface {
	digest.SeenStore
	server.SeenCounter
}

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	SetupLog(opts.Debug)
	lgr.Printf("[INFO] starting newsdigest version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Printf("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	lgr.Printf("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	SetupLog(opts.Debug, secrets(cfg)...)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	added, err := repos.Source.Seed(ctx, cfg.Sources)
	if err != nil {
		return fmt.Errorf("failed to seed sources: %w", err)
	}
	if added > 0 {
		lgr.Printf("[INFO] added %d sources from config", added)
	}

	var seen seenStore = repos.Seen
	if cfg.Store.SeenBackend == config.SeenBackendRedis {
		rs, err := repository.NewRedisSeenStore(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPrefix)
		if err != nil {
			return fmt.Errorf("failed to open seen store: %w", err)
		}
		defer func() {
			if err := rs.Close(); err != nil {
				lgr.Printf("[WARN] failed to close redis: %v", err)
			}
		}()
		seen = rs
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	chain, closeChain, err := makeChain(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer closeChain()

	pipelineCfg := digest.Config{
		Sources:    repos.Source,
		Seen:       seen,
		Classifier: chain,
		Runs:       repos.Run,
		Metrics:    m,
		Fetcher: feed.NewFetcher(feed.FetcherConfig{
			Timeout:     cfg.Feed.Timeout,
			UserAgent:   cfg.Feed.UserAgent,
			MaxAge:      cfg.Feed.MaxAge,
			MaxEntries:  cfg.Feed.MaxEntries,
			SkipUndated: cfg.Feed.SkipUndated,
		}),
		Prompt:     cfg.LLM.Prompt,
		PerPrompt:  cfg.Dedup.PerPrompt,
		MaxWorkers: cfg.Digest.MaxWorkers,
		Timeout:    cfg.Digest.Timeout,
	}
	if cfg.Extraction.Enabled {
		pipelineCfg.Extractor = content.NewExtractor(content.ExtractorConfig{
			Timeout:   cfg.Extraction.Timeout,
			UserAgent: cfg.Extraction.UserAgent,
			MaxChars:  cfg.Extraction.MaxChars,
		})
	}
	pipeline := digest.New(pipelineCfg)

	sched, err := scheduler.NewScheduler(pipeline, scheduler.Config{Cron: cfg.Schedule.Cron, Deliver: logReport})
	if err != nil {
		return fmt.Errorf("failed to make scheduler: %w", err)
	}

	if opts.Once {
		rep, err := sched.RunNow(ctx, opts.Prompt)
		if err != nil {
			return fmt.Errorf("digest failed: %w", err)
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	if cfg.Schedule.Enabled {
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	srv := server.New(cfg, server.Deps{
		Sources:  repos.Source,
		Runs:     repos.Run,
		Seen:     seen,
		Digester: sched,
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		BaseURL:  cfg.Server.BaseURL,
	}, revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// makeChain builds provider tiers for configured providers and the keyword fallback.
// The returned func closes providers holding connections.
func makeChain(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*llm.Chain, func(), error) {
	var tiers []*llm.Tier
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				lgr.Printf("[WARN] failed to close provider: %v", err)
			}
		}
	}

	providers := []struct {
		name string
		cfg  config.ProviderConfig
	}{{"primary", cfg.LLM.Primary}, {"secondary", cfg.LLM.Secondary}}
	for _, pc := range providers {
		if !pc.cfg.Enabled() {
			lgr.Printf("[INFO] %s provider not configured", pc.name)
			continue
		}
		p, err := llm.NewProvider(ctx, pc.name, pc.cfg, cfg.LLM.SystemPrompt)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to make %s provider: %w", pc.name, err)
		}
		if c, ok := p.(io.Closer); ok {
			closers = append(closers, c)
		}
		tiers = append(tiers, llm.NewTier(pc.name, p, pc.cfg))
		lgr.Printf("[INFO] %s provider: %s %s", pc.name, pc.cfg.Kind, pc.cfg.Model)
	}

	kw, err := llm.NewKeywords(cfg.Keywords.List, cfg.Keywords.File)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("failed to load keywords: %w", err)
	}
	go func() {
		if err := kw.Watch(ctx); err != nil {
			lgr.Printf("[WARN] keywords file is not watched: %v", err)
		}
	}()

	chain := llm.NewChain(llm.ChainConfig{Tiers: tiers, Keywords: kw, Prompt: cfg.LLM.Prompt, Metrics: m})
	return chain, closeAll, nil
}

// logReport is the delivery callback of scheduled runs, it logs deliverable items
func logReport(rep *domain.Report) {
	lgr.Printf("[INFO] digest %s: %d relevant, %d possible of %d new entries",
		rep.RunID, rep.Totals.Relevant, rep.Totals.Possible, rep.Totals.Total)
	for _, it := range rep.Items {
		lgr.Printf("[INFO] [%s] %s - %s", it.Verdict, it.Entry.Title, it.Entry.Link)
	}
	for _, w := range rep.Warnings {
		lgr.Printf("[WARN] digest %s: %s", rep.RunID, w)
	}
}

// secrets returns non-empty api keys to be masked in logs
func secrets(cfg *config.Config) []string {
	var res []string
	for _, s := range []string{cfg.LLM.Primary.APIKey, cfg.LLM.Secondary.APIKey} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}

// SetupLog configures lgr and the standard logger
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

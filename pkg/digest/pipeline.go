// Package digest runs one pass over all feed sources: fetch, skip seen entries, classify the rest
// and aggregate per-source statistics into a report.
package digest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/llm"
	"github.com/umputun/newsdigest/pkg/metrics"
)

//go:generate moq -out mocks/sources.go -pkg mocks -skip-ensure -fmt goimports . SourceLister
//go:generate moq -out mocks/seen.go -pkg mocks -skip-ensure -fmt goimports . SeenStore
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/classifier.go -pkg mocks -skip-ensure -fmt goimports . Classifier
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor
//go:generate moq -out mocks/runs.go -pkg mocks -skip-ensure -fmt goimports . RunSaver

// SourceLister provides feed urls to process
type SourceLister interface {
	List(ctx context.Context) ([]string, error)
}

// SeenStore keeps ids of entries classified in earlier runs
type SeenStore interface {
	Has(ctx context.Context, scope, id string) (bool, error)
	RecordBatch(ctx context.Context, scope string, ids []string) error
}

// Fetcher retrieves normalized entries of a single feed
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]domain.Entry, error)
}

// Classifier decides relevance of one entry, never fails
type Classifier interface {
	Classify(ctx context.Context, entry domain.Entry, prompt string) llm.Decision
}

// Extractor pulls full article text for entries which came without a body
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// RunSaver persists run reports
type RunSaver interface {
	Save(ctx context.Context, rep *domain.Report) error
}

// skip reasons reported to metrics
const (
	skipSeen      = "seen"
	skipDuplicate = "duplicate"
	skipCanceled  = "canceled"
)

// seenWriteTimeout bounds the final seen batch write, which runs even if the run context is done
const seenWriteTimeout = 30 * time.Second

// Config holds pipeline dependencies and settings
type Config struct {
	Sources    SourceLister
	Seen       SeenStore
	Fetcher    Fetcher
	Classifier Classifier
	Extractor  Extractor // optional, used for entries with empty body
	Runs       RunSaver  // optional, run history
	Metrics    *metrics.Metrics

	Prompt     string        // default task prompt, used when Run gets an empty one
	PerPrompt  bool          // scope seen ids by prompt hash
	MaxWorkers int           // concurrent sources, default 5
	Timeout    time.Duration // whole run limit, zero means no limit
}

// Pipeline runs digests. Runs are serialized.
type Pipeline struct {
	Config
	mu  sync.Mutex
	now func() time.Time
}

// New makes a pipeline from config
func New(cfg Config) *Pipeline {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 5
	}
	return &Pipeline{Config: cfg, now: time.Now}
}

// PromptHash returns the hex sha256 of the prompt, used as the seen scope and in run records
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// runState is shared by the source workers of one run
type runState struct {
	mu         sync.Mutex
	claimed    map[string]struct{}
	reads      int
	readErrors int
	warnings   []string
}

// claim marks id as taken by the calling worker, false if another source already has it
func (s *runState) claim(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claimed[id]; ok {
		return false
	}
	s.claimed[id] = struct{}{}
	return true
}

func (s *runState) read(failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if failed {
		s.readErrors++
	}
}

func (s *runState) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[WARN] %s", msg)
	s.mu.Lock()
	s.warnings = append(s.warnings, msg)
	s.mu.Unlock()
}

// sourceResult is what one worker produced for one source
type sourceResult struct {
	stats domain.SourceStats
	items []domain.ClassifiedArticle
	ids   []string
}

// Run performs one digest run with prompt, or with the configured prompt if empty.
// A failing source never fails the run; an error is returned only if sources can't be listed
// or the seen store failed for every read and for the final write.
func (p *Pipeline) Run(ctx context.Context, prompt string) (*domain.Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	started := p.now()
	if strings.TrimSpace(prompt) == "" {
		prompt = p.Prompt
	}
	promptHash := PromptHash(prompt)
	scope := ""
	if p.PerPrompt {
		scope = promptHash
	}

	runCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	sources, err := p.Sources.List(runCtx)
	if err != nil {
		p.Metrics.ObserveRun(p.now().Sub(started), true)
		return nil, fmt.Errorf("list sources: %w", err)
	}

	runID := uuid.NewString()
	log.Printf("[INFO] digest run %s started, %d sources", runID, len(sources))

	st := &runState{claimed: make(map[string]struct{})}
	results := make([]sourceResult, len(sources))

	g := new(errgroup.Group)
	g.SetLimit(p.MaxWorkers)
	for i, src := range sources {
		g.Go(func() error {
			results[i] = p.processSource(runCtx, src, prompt, scope, st)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	rep := &domain.Report{
		RunID:      runID,
		StartedAt:  started,
		PromptHash: promptHash,
		Items:      []domain.ClassifiedArticle{},
		Stats:      make(map[string]domain.SourceStats, len(sources)),
	}
	var ids []string
	for _, r := range results {
		rep.Stats[r.stats.SourceURL] = r.stats
		rep.Items = append(rep.Items, r.items...)
		ids = append(ids, r.ids...)
	}
	rep.Totals = Aggregate(rep.Stats)

	if err := runCtx.Err(); err != nil {
		st.warn("run %s interrupted: %v", runID, err)
	}
	if st.readErrors > 0 {
		st.warn("%d of %d seen checks failed, entries treated as unseen", st.readErrors, st.reads)
	}

	// the write must happen even when the run context is done, otherwise counted entries get reclassified
	writeFailed := false
	if len(ids) > 0 {
		if err := p.recordSeen(context.WithoutCancel(ctx), scope, ids); err != nil {
			st.warn("failed to record %d seen ids: %v", len(ids), err)
			writeFailed = true
		}
	}
	rep.Warnings = st.warnings
	rep.FinishedAt = p.now()

	if writeFailed && st.reads > 0 && st.readErrors == st.reads {
		p.Metrics.ObserveRun(rep.FinishedAt.Sub(started), true)
		return nil, fmt.Errorf("run %s: %w: all %d reads and the final write failed",
			runID, domain.ErrStoreUnavailable, st.reads)
	}

	if p.Runs != nil {
		if err := p.Runs.Save(context.WithoutCancel(ctx), rep); err != nil {
			log.Printf("[WARN] failed to save run %s: %v", runID, err)
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("run history not saved: %v", err))
		}
	}

	p.Metrics.ObserveRun(rep.FinishedAt.Sub(started), false)
	log.Printf("[INFO] digest run %s finished in %v: %d classified, %d relevant, %d possible, %d failed sources",
		runID, rep.FinishedAt.Sub(started).Round(time.Millisecond), rep.Totals.Total, rep.Totals.Relevant,
		rep.Totals.Possible, rep.Totals.FailedSources)
	return rep, nil
}

// processSource handles all entries of one source in feed order
func (p *Pipeline) processSource(ctx context.Context, src, prompt, scope string, st *runState) sourceResult {
	res := sourceResult{stats: domain.SourceStats{SourceURL: src}}

	entries, err := p.Fetcher.Fetch(ctx, src)
	if err != nil {
		p.Metrics.FetchError()
		res.stats.Error = err.Error()
		log.Printf("[WARN] source %s skipped: %v", src, err)
		return res
	}
	if len(entries) > 0 {
		res.stats.Title = entries[0].SourceTitle
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			return res
		}
		if !st.claim(e.ID) {
			p.Metrics.EntrySkipped(skipDuplicate)
			continue
		}

		seen, err := p.Seen.Has(ctx, scope, e.ID)
		switch {
		case err != nil && ctx.Err() != nil:
			return res
		case err != nil:
			st.read(true)
			log.Printf("[WARN] seen check for %s failed, treating as unseen: %v", e.ID, err)
		default:
			st.read(false)
		}
		if seen {
			p.Metrics.EntrySkipped(skipSeen)
			continue
		}

		if p.Extractor != nil && e.Body == "" {
			if body, err := p.Extractor.Extract(ctx, e.Link); err != nil {
				log.Printf("[DEBUG] extraction for %s failed: %v", e.Link, err)
			} else {
				e.Body = body
			}
		}

		dec := p.Classifier.Classify(ctx, e, prompt)
		if ctx.Err() != nil {
			// verdict arrived after cancellation, the entry stays unseen for the next run
			p.Metrics.EntrySkipped(skipCanceled)
			return res
		}

		res.stats.Add(dec.Verdict)
		res.ids = append(res.ids, e.ID)
		if dec.Verdict.Deliverable() {
			res.items = append(res.items, domain.ClassifiedArticle{Entry: e, Verdict: dec.Verdict, SourceURL: src, Tier: dec.Tier})
		}
		log.Printf("[DEBUG] %s: %s via %s", e.ID, dec.Verdict, dec.Tier)
	}
	return res
}

// recordSeen writes the batch, retrying once
func (p *Pipeline) recordSeen(ctx context.Context, scope string, ids []string) error {
	ctx, cancel := context.WithTimeout(ctx, seenWriteTimeout)
	defer cancel()

	err := p.Seen.RecordBatch(ctx, scope, ids)
	if err == nil {
		return nil
	}
	log.Printf("[WARN] seen batch write failed, retrying once: %v", err)
	if err2 := p.Seen.RecordBatch(ctx, scope, ids); err2 != nil {
		return errors.Join(err, err2)
	}
	return nil
}

// Package scheduler triggers digest runs by cron schedule and on demand. Runs never overlap,
// a scheduled tick arriving while a run is in progress is skipped.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/umputun/newsdigest/pkg/domain"
)

//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner

// ErrBusy is returned by TryRunNow when a run is already in progress
var ErrBusy = errors.New("digest run in progress")

// Runner performs a digest run
type Runner interface {
	Run(ctx context.Context, prompt string) (*domain.Report, error)
}

// Config holds scheduler configuration
type Config struct {
	Cron    string                // standard 5-field spec or descriptor like @daily, default "0 11 * * *"
	Deliver func(*domain.Report) // receives reports of scheduled runs, optional
}

// Scheduler runs digests on a cron schedule
type Scheduler struct {
	runner  Runner
	spec    string
	deliver func(*domain.Report)

	cron    *cron.Cron
	entryID cron.EntryID
	busy    sync.Mutex // held for the duration of any run
	cancel  context.CancelFunc

	lastMu     sync.RWMutex
	lastRun    time.Time
	lastReport *domain.Report
}

// NewScheduler creates a new scheduler instance, the cron spec is validated here
func NewScheduler(runner Runner, cfg Config) (*Scheduler, error) {
	if cfg.Cron == "" {
		cfg.Cron = "0 11 * * *"
	}
	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", cfg.Cron, err)
	}
	return &Scheduler{runner: runner, spec: cfg.Cron, deliver: cfg.Deliver}, nil
}

// Start begins scheduled runs, they stop when ctx is canceled or Stop is called
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	s.cron = cron.New()
	id, err := s.cron.AddFunc(s.spec, func() { s.tick(ctx) })
	if err != nil {
		s.cancel()
		return fmt.Errorf("schedule digest: %w", err)
	}
	s.entryID = id
	s.cron.Start()
	lgr.Printf("[INFO] scheduler started with %q, next run at %s", s.spec, s.Next().Format(time.RFC3339))

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
	}()
	return nil
}

// Stop gracefully stops the scheduler and waits for a scheduled run in progress
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done() // waits for a running job
	}
	lgr.Printf("[INFO] scheduler stopped")
}

// Next returns the time of the next scheduled run, zero if not started
func (s *Scheduler) Next() time.Time {
	if s.cron == nil {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// LastRun returns the start time of the last completed run
func (s *Scheduler) LastRun() time.Time {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.lastRun
}

// LastReport returns the report of the last completed run, nil if none
func (s *Scheduler) LastReport() *domain.Report {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.lastReport
}

// RunNow runs a digest with prompt immediately, waiting for a run in progress to finish first
func (s *Scheduler) RunNow(ctx context.Context, prompt string) (*domain.Report, error) {
	s.busy.Lock()
	defer s.busy.Unlock()
	return s.run(ctx, prompt)
}

// TryRunNow runs a digest immediately or returns ErrBusy if one is in progress
func (s *Scheduler) TryRunNow(ctx context.Context, prompt string) (*domain.Report, error) {
	if !s.busy.TryLock() {
		return nil, ErrBusy
	}
	defer s.busy.Unlock()
	return s.run(ctx, prompt)
}

// tick is a scheduled run with the default prompt, skipped if another run holds the lock
func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !s.busy.TryLock() {
		lgr.Printf("[INFO] scheduled digest skipped, previous run still in progress")
		return
	}
	defer s.busy.Unlock()

	rep, err := s.run(ctx, "")
	if err != nil {
		lgr.Printf("[ERROR] scheduled digest failed: %v", err)
		return
	}
	if s.deliver != nil {
		s.deliver(rep)
	}
}

func (s *Scheduler) run(ctx context.Context, prompt string) (*domain.Report, error) {
	started := time.Now()
	rep, err := s.runner.Run(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("run digest: %w", err)
	}
	s.lastMu.Lock()
	s.lastRun = started
	s.lastReport = rep
	s.lastMu.Unlock()
	return rep, nil
}

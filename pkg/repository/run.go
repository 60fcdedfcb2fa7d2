package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/newsdigest/pkg/domain"
)

// RunRepository keeps the history of digest runs and their per-source stats
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run history repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

type sqlRun struct {
	ID            string    `db:"id"`
	StartedAt     time.Time `db:"started_at"`
	FinishedAt    time.Time `db:"finished_at"`
	PromptHash    string    `db:"prompt_hash"`
	Total         int       `db:"total"`
	Relevant      int       `db:"relevant"`
	Possible      int       `db:"possible"`
	Irrelevant    int       `db:"irrelevant"`
	FailedSources int       `db:"failed_sources"`
	Warnings      string    `db:"warnings"`
}

type sqlRunSource struct {
	RunID      string `db:"run_id"`
	SourceURL  string `db:"source_url"`
	Title      string `db:"title"`
	Total      int    `db:"total"`
	Relevant   int    `db:"relevant"`
	Possible   int    `db:"possible"`
	Irrelevant int    `db:"irrelevant"`
	Error      string `db:"error"`
}

// Save stores the report summary and its per-source stats
func (r *RunRepository) Save(ctx context.Context, rep *domain.Report) error {
	warnings := rep.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warnJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}

	run := sqlRun{
		ID: rep.RunID, StartedAt: rep.StartedAt.UTC(), FinishedAt: rep.FinishedAt.UTC(), PromptHash: rep.PromptHash,
		Total: rep.Totals.Total, Relevant: rep.Totals.Relevant, Possible: rep.Totals.Possible,
		Irrelevant: rep.Totals.Irrelevant, FailedSources: rep.Totals.FailedSources, Warnings: string(warnJSON),
	}

	err = retryOnLock(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // no-op after commit

		query := `INSERT INTO digest_runs (id, started_at, finished_at, prompt_hash, total, relevant, possible, irrelevant,
			failed_sources, warnings) VALUES (:id, :started_at, :finished_at, :prompt_hash, :total, :relevant, :possible,
			:irrelevant, :failed_sources, :warnings)`
		if _, err := tx.NamedExecContext(ctx, query, run); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for url, st := range rep.Stats {
			src := sqlRunSource{RunID: rep.RunID, SourceURL: url, Title: st.Title, Total: st.Total,
				Relevant: st.Relevant, Possible: st.Possible, Irrelevant: st.Irrelevant, Error: st.Error}
			query := `INSERT INTO digest_run_sources (run_id, source_url, title, total, relevant, possible, irrelevant, error)
				VALUES (:run_id, :source_url, :title, :total, :relevant, :possible, :irrelevant, :error)`
			if _, err := tx.NamedExecContext(ctx, query, src); err != nil {
				return fmt.Errorf("insert run source %s: %w", url, err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return &domain.StoreError{Op: "save run", Err: err}
	}
	return nil
}

// Last returns up to limit most recent runs, newest first
func (r *RunRepository) Last(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	query, args, err := sq.Select("id", "started_at", "finished_at", "prompt_hash", "total", "relevant", "possible",
		"irrelevant", "failed_sources", "warnings").
		From("digest_runs").
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build runs query: %w", err)
	}

	var runs []sqlRun
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, &domain.StoreError{Op: "list runs", Err: err}
	}
	if len(runs) == 0 {
		return []domain.RunRecord{}, nil
	}

	ids := make([]string, 0, len(runs))
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	query, args, err = sq.Select("run_id", "source_url", "title", "total", "relevant", "possible", "irrelevant", "error").
		From("digest_run_sources").
		Where(sq.Eq{"run_id": ids}).
		OrderBy("source_url").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build run sources query: %w", err)
	}
	var sources []sqlRunSource
	if err := r.db.SelectContext(ctx, &sources, query, args...); err != nil {
		return nil, &domain.StoreError{Op: "list run sources", Err: err}
	}
	byRun := make(map[string][]domain.SourceStats, len(runs))
	for _, s := range sources {
		byRun[s.RunID] = append(byRun[s.RunID], domain.SourceStats{SourceURL: s.SourceURL, Title: s.Title,
			Total: s.Total, Relevant: s.Relevant, Possible: s.Possible, Irrelevant: s.Irrelevant, Error: s.Error})
	}

	res := make([]domain.RunRecord, 0, len(runs))
	for _, run := range runs {
		rec := domain.RunRecord{
			ID: run.ID, StartedAt: run.StartedAt, FinishedAt: run.FinishedAt, PromptHash: run.PromptHash,
			Totals: domain.Totals{Total: run.Total, Relevant: run.Relevant, Possible: run.Possible,
				Irrelevant: run.Irrelevant, FailedSources: run.FailedSources},
			Sources: byRun[run.ID],
		}
		if err := json.Unmarshal([]byte(run.Warnings), &rec.Warnings); err != nil {
			return nil, fmt.Errorf("unmarshal warnings for run %s: %w", run.ID, err)
		}
		res = append(res, rec)
	}
	return res, nil
}

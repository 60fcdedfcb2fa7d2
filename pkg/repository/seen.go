package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/newsdigest/pkg/domain"
)

// seenChunk keeps multi-row inserts below sqlite's bound variable limit
const seenChunk = 400

// SeenRepository records ids of entries which were already classified
type SeenRepository struct {
	db *sqlx.DB
}

// NewSeenRepository creates a new seen-id repository
func NewSeenRepository(db *sqlx.DB) *SeenRepository {
	return &SeenRepository{db: db}
}

// Has reports whether id was recorded under scope
func (r *SeenRepository) Has(ctx context.Context, scope, id string) (bool, error) {
	var found int
	err := r.db.GetContext(ctx, &found, "SELECT 1 FROM seen_items WHERE id = ? AND scope = ?", id, scope)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &domain.StoreError{Op: "check seen", Err: err}
	}
	return true, nil
}

// RecordBatch stores all ids under scope in a single transaction.
// Ids already present are ignored.
func (r *SeenRepository) RecordBatch(ctx context.Context, scope string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := retryOnLock(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // no-op after commit

		for start := 0; start < len(ids); start += seenChunk {
			end := min(start+seenChunk, len(ids))
			qb := sq.Insert("seen_items").Columns("id", "scope")
			for _, id := range ids[start:end] {
				qb = qb.Values(id, scope)
			}
			query, args, err := qb.Suffix("ON CONFLICT DO NOTHING").ToSql()
			if err != nil {
				return fmt.Errorf("build insert: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert seen: %w", err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return &domain.StoreError{Op: "record seen", Err: err}
	}
	return nil
}

// Count returns the number of recorded ids under scope
func (r *SeenRepository) Count(ctx context.Context, scope string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM seen_items WHERE scope = ?", scope); err != nil {
		return 0, &domain.StoreError{Op: "count seen", Err: err}
	}
	return n, nil
}

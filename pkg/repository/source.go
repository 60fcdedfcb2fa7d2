package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/newsdigest/pkg/domain"
)

// SourceRepository keeps the list of feed urls
type SourceRepository struct {
	db *sqlx.DB
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

type sqlSource struct {
	URL     string    `db:"url"`
	AddedAt time.Time `db:"added_at"`
}

// List returns source urls in the order they were added
func (r *SourceRepository) List(ctx context.Context) ([]string, error) {
	var urls []string
	if err := r.db.SelectContext(ctx, &urls, "SELECT url FROM sources ORDER BY id"); err != nil {
		return nil, &domain.StoreError{Op: "list sources", Err: err}
	}
	return urls, nil
}

// Sources returns sources with the time they were added
func (r *SourceRepository) Sources(ctx context.Context) ([]domain.Source, error) {
	var rows []sqlSource
	if err := r.db.SelectContext(ctx, &rows, "SELECT url, added_at FROM sources ORDER BY id"); err != nil {
		return nil, &domain.StoreError{Op: "list sources", Err: err}
	}
	res := make([]domain.Source, 0, len(rows))
	for _, row := range rows {
		res = append(res, domain.Source{URL: row.URL, AddedAt: row.AddedAt})
	}
	return res, nil
}

// Add inserts a source url, returns domain.ErrDuplicate if it's already present
func (r *SourceRepository) Add(ctx context.Context, url string) error {
	var affected int64
	err := retryOnLock(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "INSERT INTO sources (url, added_at) VALUES (?, ?) ON CONFLICT(url) DO NOTHING",
			url, time.Now().UTC())
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return &domain.StoreError{Op: "add source", Err: err}
	}
	if affected == 0 {
		return fmt.Errorf("source %s: %w", url, domain.ErrDuplicate)
	}
	return nil
}

// Remove deletes a source url, returns domain.ErrNotFound if it's absent
func (r *SourceRepository) Remove(ctx context.Context, url string) error {
	var affected int64
	err := retryOnLock(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "DELETE FROM sources WHERE url = ?", url)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return &domain.StoreError{Op: "remove source", Err: err}
	}
	if affected == 0 {
		return fmt.Errorf("source %s: %w", url, domain.ErrNotFound)
	}
	return nil
}

// Seed adds urls that are not yet present and returns how many were added
func (r *SourceRepository) Seed(ctx context.Context, urls []string) (int, error) {
	added := 0
	for _, u := range urls {
		err := r.Add(ctx, u)
		switch {
		case err == nil:
			added++
		case errors.Is(err, domain.ErrDuplicate):
		default:
			return added, err
		}
	}
	return added, nil
}

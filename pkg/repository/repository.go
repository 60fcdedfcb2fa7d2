// Package repository keeps feed sources, seen entry ids and run history in SQLite,
// with an optional redis backend for seen ids.
package repository

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql
var schemaSQL string

const defaultDSN = "file:newsdigest.db?cache=shared&mode=rwc&_txlock=immediate"

// sqlitePragmas are applied to every new database handle. WAL lets readers
// proceed while a seen batch is written, busy_timeout is in ms.
var sqlitePragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA temp_store = MEMORY",
	"PRAGMA busy_timeout = 5000",
}

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repositories groups the sqlite backed stores sharing one connection pool
type Repositories struct {
	Source *SourceRepository
	Seen   *SeenRepository
	Run    *RunRepository
	DB     *sqlx.DB
}

// NewRepositories opens the database, applies pragmas and schema, and builds the stores
func NewRepositories(ctx context.Context, cfg Config) (*Repositories, error) {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Source: NewSourceRepository(db),
		Seen:   NewSeenRepository(db),
		Run:    NewRunRepository(db),
		DB:     db,
	}, nil
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.DB.Close()
}

func openDB(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	tunePool(db, cfg)

	if err := initDB(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func tunePool(db *sqlx.DB, cfg Config) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// initDB applies pragmas and creates tables, safe to call on an existing database
func initDB(ctx context.Context, db *sqlx.DB) error {
	for _, pragma := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

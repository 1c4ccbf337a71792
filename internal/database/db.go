// Package database stores the derived harvest calendar in SQLite so that
// reporting tools can join facts by semester and harvest-year.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

// DB is the harvest-calendar store.
type DB struct {
	*sql.DB
	logger *slog.Logger
}

// Config describes where the store lives and how long a writer waits on a
// locked file.
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// DefaultConfig returns the settings used by the server and the CLI.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		BusyTimeout: 5 * time.Second,
	}
}

// dsn appends the driver options to the path. go-sqlite3 reads options
// prefixed with an underscore from the query string.
func (c Config) dsn() string {
	opts := url.Values{}
	opts.Set("_busy_timeout", strconv.FormatInt(c.BusyTimeout.Milliseconds(), 10))
	if c.Path != memoryPath {
		opts.Set("_journal_mode", "WAL")
	}
	return c.Path + "?" + opts.Encode()
}

// Open connects to the store, creating the parent directory of a file path
// when needed. The pool is pinned to one connection that is never recycled:
// SQLite has a single writer, and an in-memory database lives only as long
// as its connection.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	db := &DB{DB: conn, logger: logger}
	if err := db.Health(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("database connected", slog.String("path", cfg.Path))
	return db, nil
}

// Close releases the connection.
func (db *DB) Close() error {
	db.logger.Debug("closing database connection")
	return db.DB.Close()
}

// Health runs a trivial query within three seconds.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

// Migrate applies every version in migrationsSQL that schema_migrations
// does not list yet, lowest first, all in one transaction. It returns the
// number applied.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	var pending []int
	err := db.WithTx(ctx, func(tx *Tx) error {
		const bookkeeping = `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version    INTEGER PRIMARY KEY,
				applied_at TEXT NOT NULL DEFAULT (datetime('now'))
			)`
		if _, err := tx.ExecContext(ctx, bookkeeping); err != nil {
			return fmt.Errorf("create schema_migrations: %w", err)
		}

		applied, err := appliedVersions(ctx, tx)
		if err != nil {
			return err
		}

		for _, version := range slices.Sorted(maps.Keys(migrationsSQL)) {
			if applied[version] {
				continue
			}
			if _, err := tx.ExecContext(ctx, migrationsSQL[version]); err != nil {
				return fmt.Errorf("migration %d: %w", version, err)
			}
			if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
				return fmt.Errorf("record migration %d: %w", version, err)
			}
			pending = append(pending, version)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(pending) > 0 {
		db.logger.Info("schema migrated", slog.Any("versions", pending))
	}
	return len(pending), nil
}

func appliedVersions(ctx context.Context, tx *Tx) (map[int]bool, error) {
	rows, err := tx.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// Tx is a transaction carrying the same write helpers as DB.
type Tx struct {
	*sql.Tx
}

// WithTx runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise.
//
//	err := db.WithTx(ctx, func(tx *database.Tx) error {
//	    return tx.UpsertDay(ctx, day)
//	})
func (db *DB) WithTx(ctx context.Context, fn func(*Tx) error) error {
	sqlTx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&Tx{sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ErrNotFound is returned when a requested day has not been stored.
var ErrNotFound = errors.New("record not found")

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

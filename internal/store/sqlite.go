package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schemaNamespace = `
  CREATE TABLE IF NOT EXISTS namespace (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
  )`

// SQLite persists the namespace in a single-table SQLite database.
type SQLite struct {
	DB        *sqlx.DB
	path      string
	closeOnce sync.Once
}

// OpenSQLite opens (creating if needed) the namespace database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrStorageUnavailable)
	}
	slog.Debug("opening namespace database", "path", path)

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%w: on ping: %w", ErrStorageUnavailable, err)
	}
	if _, err := db.Exec(schemaNamespace); err != nil {
		return nil, fmt.Errorf("%w: creating schema: %w", ErrStorageUnavailable, err)
	}

	return &SQLite{DB: db, path: path}, nil
}

// Close closes the database connection, logging any error.
func (s *SQLite) Close() {
	s.closeOnce.Do(func() {
		if err := s.DB.Close(); err != nil {
			slog.Error("closing namespace database", "path", s.path, "error", err)
		} else {
			slog.Debug("namespace database closed", "path", s.path)
		}
	})
}

// GetAll returns the entire namespace.
func (s *SQLite) GetAll(ctx context.Context) (Namespace, error) {
	rows, err := s.DB.QueryxContext(ctx, "SELECT key, value FROM namespace")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("closing rows", "error", err)
		}
	}()

	ns := make(Namespace)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("%w: scanning record: %w", ErrStorageUnavailable, err)
		}
		ns[k] = []byte(v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return ns, nil
}

// Get returns the records for the given keys. Missing keys are absent from
// the result.
func (s *SQLite) Get(ctx context.Context, keys ...string) (Namespace, error) {
	ns := make(Namespace, len(keys))
	if len(keys) == 0 {
		return ns, nil
	}

	q, args, err := sqlx.In("SELECT key, value FROM namespace WHERE key IN (?)", keys)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	rows, err := s.DB.QueryxContext(ctx, s.DB.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("closing rows", "error", err)
		}
	}()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("%w: scanning record: %w", ErrStorageUnavailable, err)
		}
		ns[k] = []byte(v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return ns, nil
}

// Set writes every record in the mapping within one transaction.
func (s *SQLite) Set(ctx context.Context, records Namespace) error {
	if len(records) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx,
			"INSERT INTO namespace (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
		if err != nil {
			return fmt.Errorf("prepare statement: %w", err)
		}
		defer func() {
			if err := stmt.Close(); err != nil {
				slog.Error("closing stmt", "error", err)
			}
		}()

		for k, v := range records {
			if k == "" {
				return ErrKeyEmpty
			}
			if _, err := stmt.ExecContext(ctx, k, string(v)); err != nil {
				return fmt.Errorf("writing record %q: %w", k, err)
			}
		}

		return nil
	})
}

// Remove deletes the given keys. Missing keys are ignored.
func (s *SQLite) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		q, args, err := sqlx.In("DELETE FROM namespace WHERE key IN (?)", keys)
		if err != nil {
			return fmt.Errorf("%w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
			return fmt.Errorf("deleting records: %w", err)
		}

		return nil
	})
}

// withTx executes fn within a transaction.
func (s *SQLite) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrStorageUnavailable, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("rollback", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrStorageUnavailable, err)
	}

	return nil
}

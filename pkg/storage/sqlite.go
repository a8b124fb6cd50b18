package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	serrors "github.com/vango-dev/signup/internal/errors"
)

// SQLiteStore keeps values in one table of a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// OpenSQLiteStore opens (creating if needed) the database at path and
// ensures the table exists. table must be a plain identifier.
func OpenSQLiteStore(ctx context.Context, path, table string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, serrors.New("E201").Wrap(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, serrors.New("E201").Wrap(err)
	}
	// One connection keeps ":memory:" databases and write ordering simple.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, table: table}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return serrors.New("E201").Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, s.table), key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, serrors.New("E202").Wrap(err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, s.table),
		key, value, time.Now().UnixMilli())
	if err != nil {
		return serrors.New("E203").Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, s.table), key); err != nil {
		return serrors.New("E204").Wrap(err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

/*
Package sqlite provides a SQLite-backed implementation of ledger.Store.

PURPOSE:
  Persists one JSON snapshot per storage key in a single table. Each ledger
  loads its snapshot wholesale at startup and rewrites it wholesale after
  every mutation, so the schema is deliberately a key/value document store,
  not a row-per-record design.

KEY TABLE:
  snapshots: key TEXT PRIMARY KEY, data TEXT (JSON), updated_at TEXT

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/hrconsole.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  Use ":memory:" for tests.

SEE ALSO:
  - ledger/store.go: interface definition and storage keys
  - ledger/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements ledger.Store and ledger.Resetter using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`

	_, err := s.db.Exec(schema)
	return err
}

// Load reads the snapshot stored under key into v.
func (s *Store) Load(ctx context.Context, key string, v any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE key = ?`, key,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load snapshot %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("corrupt snapshot %q: %w", key, err)
	}
	return true, nil
}

// Save replaces the snapshot stored under key.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", key, err)
	}
	return nil
}

// Reset drops every snapshot. Used by the seed operation only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots`)
	return err
}

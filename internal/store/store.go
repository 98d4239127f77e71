// Package store records resolverstatus runs in SQLite: which files were
// extracted, the registry each extraction produced, and the outcome of
// every reconciled tracking record.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for run history.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
  id              TEXT PRIMARY KEY,
  kind            TEXT NOT NULL,
  source          TEXT,
  started_at      TIMESTAMP NOT NULL,
  finished_at     TIMESTAMP,
  resolver_count  INTEGER DEFAULT 0,
  updated         INTEGER DEFAULT 0,
  up_to_date      INTEGER DEFAULT 0,
  skipped         INTEGER DEFAULT 0,
  failed          INTEGER DEFAULT 0,
  error           TEXT
);

CREATE TABLE IF NOT EXISTS run_files (
  id              INTEGER PRIMARY KEY,
  run_id          TEXT NOT NULL REFERENCES runs(id),
  path            TEXT NOT NULL,
  hash            TEXT NOT NULL,
  resolver_count  INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_resolvers (
  id              INTEGER PRIMARY KEY,
  run_id          TEXT NOT NULL REFERENCES runs(id),
  name            TEXT NOT NULL,
  category        TEXT NOT NULL,
  operation       TEXT NOT NULL,
  status          TEXT NOT NULL,
  source          TEXT
);

CREATE TABLE IF NOT EXISTS run_outcomes (
  id              INTEGER PRIMARY KEY,
  run_id          TEXT NOT NULL REFERENCES runs(id),
  page_id         TEXT NOT NULL,
  name            TEXT,
  type            TEXT,
  outcome         TEXT NOT NULL,
  from_status     TEXT,
  to_status       TEXT,
  error           TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id);
CREATE INDEX IF NOT EXISTS idx_run_resolvers_run ON run_resolvers(run_id);
CREATE INDEX IF NOT EXISTS idx_run_resolvers_name ON run_resolvers(name);
CREATE INDEX IF NOT EXISTS idx_run_outcomes_run ON run_outcomes(run_id);
`

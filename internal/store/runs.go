package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jward/resolverstatus/internal/resolver"
)

// BeginRun inserts a new run row. Run ids are UUIDv7, so they sort by
// start time.
func (s *Store) BeginRun(kind, source string) (*Run, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	run := &Run{ID: id.String(), Kind: kind, Source: source, StartedAt: time.Now().UTC()}
	_, err = s.db.Exec(
		`INSERT INTO runs (id, kind, source, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Kind, run.Source, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// FinishRun stamps the run's finish time and persists its counters and
// error text.
func (s *Store) FinishRun(run *Run) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, resolver_count = ?, updated = ?, up_to_date = ?,
		 skipped = ?, failed = ?, error = ? WHERE id = ?`,
		now, run.ResolverCount, run.Updated, run.UpToDate, run.Skipped, run.Failed, run.Error, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", run.ID, err)
	}
	return nil
}

// InsertFiles records the files read by an extraction run.
func (s *Store) InsertFiles(runID string, files []RunFile) error {
	return s.inTx("insert files", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO run_files (run_id, path, hash, resolver_count) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, f := range files {
			if _, err := stmt.Exec(runID, f.Path, f.Hash, f.ResolverCount); err != nil {
				return fmt.Errorf("file %s: %w", f.Path, err)
			}
		}
		return nil
	})
}

// InsertRegistry records the registry produced by an extraction run.
func (s *Store) InsertRegistry(runID string, reg resolver.Registry) error {
	return s.inTx("insert registry", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO run_resolvers (run_id, name, category, operation, status, source)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, rec := range reg {
			if _, err := stmt.Exec(runID, rec.Name, string(rec.Category), string(rec.Operation), string(rec.Status), rec.Source); err != nil {
				return fmt.Errorf("resolver %q: %w", rec.Name, err)
			}
		}
		return nil
	})
}

// InsertOutcomes records the per-record results of a reconciliation run.
func (s *Store) InsertOutcomes(runID string, outcomes []Outcome) error {
	return s.inTx("insert outcomes", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO run_outcomes (run_id, page_id, name, type, outcome, from_status, to_status, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, o := range outcomes {
			if _, err := stmt.Exec(runID, o.PageID, o.Name, o.Type, o.Outcome, o.From, o.To, o.Error); err != nil {
				return fmt.Errorf("outcome %s: %w", o.PageID, err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

const runColumns = `id, kind, source, started_at, finished_at, resolver_count, updated, up_to_date, skipped, failed, error`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var (
		r        Run
		source   sql.NullString
		finished sql.NullTime
		errText  sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Kind, &source, &r.StartedAt, &finished,
		&r.ResolverCount, &r.Updated, &r.UpToDate, &r.Skipped, &r.Failed, &errText); err != nil {
		return nil, err
	}
	r.Source = source.String
	r.Error = errText.String
	if finished.Valid {
		t := finished.Time
		r.FinishedAt = &t
	}
	return &r, nil
}

// Run returns the run with the given id, or nil if there is none.
func (s *Store) Run(id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	return r, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("recent runs: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunFiles returns the files recorded for a run in insertion order.
func (s *Store) RunFiles(runID string) ([]RunFile, error) {
	rows, err := s.db.Query(`SELECT path, hash, resolver_count FROM run_files WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("run files: %w", err)
	}
	defer rows.Close()

	var files []RunFile
	for rows.Next() {
		var f RunFile
		if err := rows.Scan(&f.Path, &f.Hash, &f.ResolverCount); err != nil {
			return nil, fmt.Errorf("run files: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// RunRegistry returns the registry recorded for an extraction run.
func (s *Store) RunRegistry(runID string) (resolver.Registry, error) {
	rows, err := s.db.Query(
		`SELECT name, category, operation, status, source FROM run_resolvers WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("run registry: %w", err)
	}
	defer rows.Close()

	reg := resolver.Registry{}
	for rows.Next() {
		var (
			rec                         resolver.Record
			category, operation, status string
			source                      sql.NullString
		)
		if err := rows.Scan(&rec.Name, &category, &operation, &status, &source); err != nil {
			return nil, fmt.Errorf("run registry: %w", err)
		}
		rec.Category = resolver.Category(category)
		rec.Operation = resolver.Operation(operation)
		rec.Status = resolver.Status(status)
		rec.Source = source.String
		reg.Put(rec)
	}
	return reg, rows.Err()
}

// RunOutcomes returns the outcomes recorded for a reconciliation run in
// fetch order.
func (s *Store) RunOutcomes(runID string) ([]Outcome, error) {
	rows, err := s.db.Query(
		`SELECT page_id, name, type, outcome, from_status, to_status, error
		 FROM run_outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("run outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var (
			o                            Outcome
			name, typ, from, to, errText sql.NullString
		)
		if err := rows.Scan(&o.PageID, &name, &typ, &o.Outcome, &from, &to, &errText); err != nil {
			return nil, fmt.Errorf("run outcomes: %w", err)
		}
		o.Name, o.Type, o.From, o.To, o.Error = name.String, typ.String, from.String, to.String, errText.String
		out = append(out, o)
	}
	return out, rows.Err()
}

// PreviousExtraction returns the newest finished extraction run that
// started before the run with id beforeID, or nil if there is none.
func (s *Store) PreviousExtraction(beforeID string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(
		`SELECT `+runColumns+` FROM runs
		 WHERE kind = ? AND id < ? AND finished_at IS NOT NULL AND (error IS NULL OR error = '')
		 ORDER BY id DESC LIMIT 1`,
		KindExtract, beforeID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("previous extraction: %w", err)
	}
	return r, nil
}

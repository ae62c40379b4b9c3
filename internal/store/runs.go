package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kostassolo/cfgfuzz/internal/emit"
)

// ErrNoRuns is returned by LatestRun on an empty ledger.
var ErrNoRuns = errors.New("no runs recorded")

// Run is one cfgfuzz invocation.
type Run struct {
	ID        string
	InputPath string
	InputHash string
	OutputDir string
	Seed      uint64

	// Documents is the size of the expanded set, which can exceed the number
	// of files written when some writes failed.
	Documents int
	Truncated bool
	CreatedAt time.Time
}

// ConfigRecord is one written configuration file.
type ConfigRecord struct {
	RunID string
	Index int
	Path  string
	Hash  string
}

// NewRunID returns a UUIDv7 string. The time-ordered prefix makes IDs from
// successive runs sort in creation order.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RecordRun inserts run and its written files in a single transaction.
// A zero CreatedAt is replaced with the current UTC time.
func (s *Store) RecordRun(ctx context.Context, run Run, written []emit.Artifact) (err error) {
	if run.ID == "" {
		return errors.New("record run: empty run id")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, input_path, input_hash, output_dir, seed, documents, truncated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.InputPath,
		run.InputHash,
		run.OutputDir,
		int64(run.Seed), // bit pattern preserved; scanned back as uint64
		run.Documents,
		run.Truncated,
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO configs (run_id, idx, path, content_hash)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("record run %s: prepare: %w", run.ID, err)
	}
	defer stmt.Close()

	for _, a := range written {
		if _, err = stmt.ExecContext(ctx, run.ID, a.Index, a.Path, a.Hash); err != nil {
			return fmt.Errorf("record run %s: config %d: %w", run.ID, a.Index, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("record run %s: commit: %w", run.ID, err)
	}
	return nil
}

// LatestRun returns the most recently recorded run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, input_path, input_hash, output_dir, seed, documents, truncated, created_at
		FROM runs
		ORDER BY rowid DESC
		LIMIT 1
	`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	return run, err
}

// Run returns the run with the given ID.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, input_path, input_hash, output_dir, seed, documents, truncated, created_at
		FROM runs
		WHERE run_id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, err)
	}
	return run, err
}

// Configs returns the files recorded for a run, ordered by index.
// Returns an empty slice (not nil) for an unknown run.
func (s *Store) Configs(ctx context.Context, runID string) ([]ConfigRecord, error) {
	return s.queryConfigs(ctx, `
		SELECT run_id, idx, path, content_hash
		FROM configs
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
}

// FindByHash returns every recorded file with the given content hash,
// oldest run first.
func (s *Store) FindByHash(ctx context.Context, hash string) ([]ConfigRecord, error) {
	return s.queryConfigs(ctx, `
		SELECT c.run_id, c.idx, c.path, c.content_hash
		FROM configs c
		JOIN runs r ON c.run_id = r.run_id
		WHERE c.content_hash = ?
		ORDER BY r.rowid ASC, c.idx ASC
	`, hash)
}

func (s *Store) queryConfigs(ctx context.Context, query string, arg string) ([]ConfigRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query configs: %w", err)
	}
	defer rows.Close()

	records := []ConfigRecord{}
	for rows.Next() {
		var rec ConfigRecord
		if err := rows.Scan(&rec.RunID, &rec.Index, &rec.Path, &rec.Hash); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate configs: %w", err)
	}
	return records, nil
}

func scanRun(row *sql.Row) (Run, error) {
	var (
		run       Run
		seed      int64
		createdAt string
	)
	err := row.Scan(
		&run.ID,
		&run.InputPath,
		&run.InputHash,
		&run.OutputDir,
		&seed,
		&run.Documents,
		&run.Truncated,
		&createdAt,
	)
	if err != nil {
		return Run{}, err
	}
	run.Seed = uint64(seed)
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: created_at: %w", run.ID, err)
	}
	return run, nil
}

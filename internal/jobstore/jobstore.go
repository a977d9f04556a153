// Package jobstore persists job metadata so interrupted jobs can be found
// and resumed later.
package jobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Job kinds.
const (
	KindFetch    = "fetch"
	KindGroup    = "group"
	KindCombined = "combined"
)

// Job statuses.
const (
	StatusPending   = "PENDING"
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// ErrNotFound is returned when no job record matches the id.
var ErrNotFound = errors.New("job not found")

// Job is one job record.
type Job struct {
	ID            string
	Kind          string
	Status        string
	InputPath     string
	OutputPath    string
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Store keeps job records in SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	status TEXT NOT NULL,
	input_path TEXT NOT NULL,
	output_path TEXT,
	failure_reason TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// New opens (and if needed initializes) the job database.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open job store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init job store: %w", err)
	}

	return &Store{db: db}, nil
}

// Create inserts a new job record with status PENDING.
func (s *Store) Create(ctx context.Context, id, kind, inputPath string) (*Job, error) {
	now := time.Now().UTC()
	job := &Job{
		ID:        id,
		Kind:      kind,
		Status:    StatusPending,
		InputPath: inputPath,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
	INSERT INTO jobs (id, kind, status, input_path, output_path, failure_reason, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		job.ID, job.Kind, job.Status, job.InputPath, "", "", job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// Get fetches one job record by id.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	query := `
	SELECT id, kind, status, input_path, output_path, failure_reason, created_at, updated_at
	FROM jobs WHERE id = ?
	`
	var j Job
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&j.ID, &j.Kind, &j.Status, &j.InputPath, &j.OutputPath,
		&j.FailureReason, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

// List returns every job record, newest first.
func (s *Store) List(ctx context.Context) ([]*Job, error) {
	query := `
	SELECT id, kind, status, input_path, output_path, failure_reason, created_at, updated_at
	FROM jobs ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		var j Job
		err := rows.Scan(
			&j.ID, &j.Kind, &j.Status, &j.InputPath, &j.OutputPath,
			&j.FailureReason, &j.CreatedAt, &j.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// SetStatus updates a job's status; reason is kept only for failures.
func (s *Store) SetStatus(ctx context.Context, id, status, reason string) error {
	if status != StatusFailed {
		reason = ""
	}
	query := `UPDATE jobs SET status = ?, failure_reason = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, status, reason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set job status: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOutput records where the job's final output went.
func (s *Store) SetOutput(ctx context.Context, id, outputPath string) error {
	query := `UPDATE jobs SET output_path = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, outputPath, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set job output: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a job record.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

package jobstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestStore(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	job, err := s.Create(ctx, "job-1", KindFetch, "input.csv")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if job.Status != StatusPending {
		t.Errorf("expected PENDING, got %s", job.Status)
	}

	got, err := s.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Kind != KindFetch || got.InputPath != "input.csv" {
		t.Errorf("unexpected job: %+v", got)
	}

	if err := s.SetStatus(ctx, "job-1", StatusRunning, ""); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if err := s.SetOutput(ctx, "job-1", "job-1.csv"); err != nil {
		t.Fatalf("SetOutput failed: %v", err)
	}

	got, _ = s.Get(ctx, "job-1")
	if got.Status != StatusRunning || got.OutputPath != "job-1.csv" {
		t.Errorf("unexpected job after update: %+v", got)
	}

	// The failure reason survives only for FAILED.
	if err := s.SetStatus(ctx, "job-1", StatusFailed, "ConnectivityError"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, _ = s.Get(ctx, "job-1")
	if got.FailureReason != "ConnectivityError" {
		t.Errorf("expected failure reason stored, got %q", got.FailureReason)
	}
	if err := s.SetStatus(ctx, "job-1", StatusCompleted, "stale"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, _ = s.Get(ctx, "job-1")
	if got.FailureReason != "" {
		t.Errorf("expected failure reason cleared, got %q", got.FailureReason)
	}

	if _, err := s.Create(ctx, "job-2", KindCombined, "other.csv"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	jobs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	if err := s.Delete(ctx, "job-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "job-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "job-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
	if err := s.SetStatus(ctx, "missing", StatusRunning, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing job, got %v", err)
	}
}

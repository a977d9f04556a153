package snapshot

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/RankOps/kwgroup/internal/keyword"
)

func record(kw string) *keyword.Record {
	return &keyword.Record{
		Keyword: kw,
		Volume:  10,
		Links:   []keyword.Link{{URL: "https://example.com/" + kw, Position: 1}},
	}
}

func add(t *testing.T, s *Store, kw string) {
	t.Helper()
	if err := s.Add(record(kw), record(kw)); err != nil {
		t.Fatalf("Add %s failed: %v", kw, err)
	}
}

func TestStoreFlushAtThreshold(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{Dir: dir, JobID: "job1", Threshold: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	add(t, s, "alpha")
	if _, err := os.Stat(filepath.Join(dir, "job1_0.csv")); !os.IsNotExist(err) {
		t.Fatalf("expected no snapshot before the threshold")
	}

	add(t, s, "beta")
	for _, name := range []string{"job1_0.csv", "bulk_job1_0.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected snapshot %s: %v", name, err)
		}
	}

	// The remainder flushes explicitly.
	add(t, s, "gamma")
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "job1_1.csv")); err != nil {
		t.Errorf("expected second snapshot: %v", err)
	}

	// Flushing an empty buffer writes nothing.
	if err := s.Flush(); err != nil {
		t.Fatalf("empty Flush failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "job1_2.csv")); !os.IsNotExist(err) {
		t.Errorf("unexpected snapshot from empty flush")
	}
}

func TestStoreMergeFinal(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{Dir: dir, JobID: "job2", Threshold: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Written out of order; the merge sorts by keyword.
	add(t, s, "zebra")
	add(t, s, "apple")
	add(t, s, "mango")

	var top, bulk bytes.Buffer
	if err := s.MergeFinal(&top, &bulk); err != nil {
		t.Fatalf("MergeFinal failed: %v", err)
	}

	rows, err := csv.NewReader(&top).ReadAll()
	if err != nil {
		t.Fatalf("reading merged output failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Keyword" {
		t.Errorf("expected a single header row, got %q", rows[0][0])
	}
	want := []string{"apple", "mango", "zebra"}
	for i, kw := range want {
		if rows[i+1][0] != kw {
			t.Errorf("row %d: expected %q, got %q", i, kw, rows[i+1][0])
		}
	}

	bulkRows, err := csv.NewReader(&bulk).ReadAll()
	if err != nil {
		t.Fatalf("reading merged bulk failed: %v", err)
	}
	if len(bulkRows) != 4 {
		t.Errorf("expected bulk view merged too, got %d rows", len(bulkRows))
	}
}

func TestStoreResume(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{Dir: dir, JobID: "job3", Threshold: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	add(t, s, "alpha")
	add(t, s, "beta")

	// A new store for the same job continues numbering and sees the
	// already-searched keywords.
	resumed, err := New(Config{Dir: dir, JobID: "job3", Threshold: 1})
	if err != nil {
		t.Fatalf("New (resume) failed: %v", err)
	}
	count, rows, err := resumed.MergeForResume()
	if err != nil {
		t.Fatalf("MergeForResume failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 searched keywords, got %d", count)
	}
	seen := Keywords(rows)
	if _, ok := seen["alpha"]; !ok {
		t.Errorf("expected alpha in searched set")
	}

	add(t, resumed, "gamma")
	if _, err := os.Stat(filepath.Join(dir, "job3_2.csv")); err != nil {
		t.Errorf("expected numbering to continue at 2: %v", err)
	}
}

func TestStoreMergeCurrentAndCleanup(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{Dir: dir, JobID: "job4", Threshold: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	add(t, s, "alpha")
	add(t, s, "beta")
	// Buffered but not flushed; MergeCurrent only sees snapshots.
	add(t, s, "gamma")

	var buf bytes.Buffer
	if err := s.MergeCurrent(&buf); err != nil {
		t.Fatalf("MergeCurrent failed: %v", err)
	}
	rows, _ := csv.NewReader(&buf).ReadAll()
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 flushed rows, got %d", len(rows))
	}

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if err := s.Cleanup(); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected all snapshots removed, %d files remain", len(entries))
	}
}

// Package snapshot persists periodic checkpoints of fetch output so an
// interrupted job can resume from the last flush instead of re-searching
// every keyword. Each checkpoint is a pair of CSV files, one for the top
// view and one for the bulk view, numbered by flush sequence.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/RankOps/kwgroup/internal/keyword"
	"github.com/RankOps/kwgroup/internal/metrics"
	"github.com/RankOps/kwgroup/internal/output"
)

// DefaultThreshold is the number of keywords buffered before a checkpoint
// is written.
const DefaultThreshold = 100

// Config configures a checkpoint store.
type Config struct {
	// Dir is the directory snapshot files live in. Created if missing.
	Dir string
	// JobID prefixes every snapshot file name.
	JobID string
	// Threshold is the keyword count that triggers a flush.
	Threshold int
	Logger    *slog.Logger
}

// Store buffers fetched records and writes them out in numbered snapshot
// pairs. It is safe for a single producer; the fetch coordinator owns it.
type Store struct {
	mu        sync.Mutex
	dir       string
	jobID     string
	threshold int
	logger    *slog.Logger

	seq      int
	header   []string
	topRows  [][]string
	bulkRows [][]string
	buffered int
}

// New creates a checkpoint store. Existing snapshots for the job are kept
// and numbering continues after the highest sequence found, so a resumed
// job never overwrites earlier checkpoints.
func New(cfg Config) (*Store, error) {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	s := &Store{
		dir:       cfg.Dir,
		jobID:     cfg.JobID,
		threshold: cfg.Threshold,
		logger:    cfg.Logger,
	}

	names, err := s.fileNames()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if n, ok := sequenceOf(name, s.jobID); ok && n >= s.seq {
			s.seq = n + 1
		}
	}
	return s, nil
}

// Add buffers the top and bulk views of one fetched keyword and flushes
// when the threshold is reached.
func (s *Store) Add(top, bulk *keyword.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.header == nil {
		s.header = output.FetchHeader(len(top.CompetitorRanks))
	}
	s.topRows = append(s.topRows, output.FetchRows(top)...)
	s.bulkRows = append(s.bulkRows, output.FetchRows(bulk)...)
	s.buffered++

	if s.buffered >= s.threshold {
		return s.flushLocked()
	}
	return nil
}

// Flush writes any buffered records as a snapshot pair. A no-op when the
// buffer is empty.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	if s.buffered == 0 {
		return nil
	}

	topName := fmt.Sprintf("%s_%d.csv", s.jobID, s.seq)
	bulkName := fmt.Sprintf("bulk_%s_%d.csv", s.jobID, s.seq)

	if err := s.writeFile(topName, s.topRows); err != nil {
		return err
	}
	if err := s.writeFile(bulkName, s.bulkRows); err != nil {
		return err
	}

	s.logger.Info("snapshot written",
		"job_id", s.jobID, "sequence", s.seq, "keywords", s.buffered)
	metrics.SnapshotsWritten.Inc()

	s.seq++
	s.topRows = nil
	s.bulkRows = nil
	s.buffered = 0
	return nil
}

func (s *Store) writeFile(name string, rows [][]string) error {
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.header); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write snapshot rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

// fileNames lists this job's top-view snapshot file names in lexicographic
// order. Merge order follows the names, not the numeric sequence.
func (s *Store) fileNames() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := sequenceOf(e.Name(), s.jobID); ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// sequenceOf extracts the sequence number from a top-view snapshot name
// belonging to the job.
func sequenceOf(name, jobID string) (int, bool) {
	prefix := jobID + "_"
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".csv") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".csv"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// mergeRows concatenates the rows of the named snapshot files, keeping the
// header of the first file only.
func (s *Store) mergeRows(names []string) (header []string, rows [][]string, err error) {
	for _, name := range names {
		f, err := os.Open(filepath.Join(s.dir, name))
		if err != nil {
			return nil, nil, fmt.Errorf("open snapshot: %w", err)
		}
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		h, err := r.Read()
		if err != nil {
			f.Close()
			if err == io.EOF {
				continue
			}
			return nil, nil, fmt.Errorf("read snapshot header: %w", err)
		}
		if header == nil {
			header = h
		}
		fileRows, err := r.ReadAll()
		f.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("read snapshot rows: %w", err)
		}
		rows = append(rows, fileRows...)
	}
	return header, rows, nil
}

func bulkNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = "bulk_" + name
	}
	return out
}

func sortByKeyword(rows [][]string) {
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a][0] < rows[b][0]
	})
}

func writeMerged(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if header != nil {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write merged header: %w", err)
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write merged rows: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush merged output: %w", err)
	}
	return nil
}

// MergeFinal flushes the remainder and writes the complete top and bulk
// outputs, each sorted by keyword. Snapshot files are left on disk; the
// caller removes them once the job has fully succeeded.
func (s *Store) MergeFinal(top, bulk io.Writer) error {
	if err := s.Flush(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.fileNames()
	if err != nil {
		return err
	}

	header, rows, err := s.mergeRows(names)
	if err != nil {
		return err
	}
	sortByKeyword(rows)
	if err := writeMerged(top, header, rows); err != nil {
		return err
	}

	bulkHeader, rows, err := s.mergeRows(bulkNames(names))
	if err != nil {
		return err
	}
	sortByKeyword(rows)
	return writeMerged(bulk, bulkHeader, rows)
}

// MergeCurrent writes the top view merged from the snapshots taken so far,
// without flushing the buffer or finishing the job.
func (s *Store) MergeCurrent(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.fileNames()
	if err != nil {
		return err
	}
	header, rows, err := s.mergeRows(names)
	if err != nil {
		return err
	}
	sortByKeyword(rows)
	return writeMerged(w, header, rows)
}

// MergeForResume merges the top-view snapshots of an interrupted job and
// returns the raw rows together with the distinct keyword count. The count
// is per keyword, not per row: a keyword spans one row per link, and the
// resume exclusion works on keywords.
func (s *Store) MergeForResume() (int, [][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.fileNames()
	if err != nil {
		return 0, nil, err
	}
	_, rows, err := s.mergeRows(names)
	if err != nil {
		return 0, nil, err
	}

	seen := make(map[string]struct{})
	for _, row := range rows {
		if len(row) > 0 {
			seen[row[0]] = struct{}{}
		}
	}
	return len(seen), rows, nil
}

// Keywords returns the distinct keywords present in the given merged rows.
func Keywords(rows [][]string) map[string]struct{} {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if len(row) > 0 {
			seen[row[0]] = struct{}{}
		}
	}
	return seen
}

// Cleanup removes every snapshot file belonging to the job. Called only
// after the final outputs are safely written.
func (s *Store) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.fileNames()
	if err != nil {
		return err
	}
	for _, name := range append(bulkNames(names), names...) {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove snapshot: %w", err)
		}
	}
	return nil
}

// Package loader reads keyword tables into queries, normalizing numeric
// fields and substituting batch medians for missing monetization data.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/RankOps/kwgroup/internal/keyword"
)

// ErrMissingColumn is returned when the input table lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Fallback medians used when a batch carries no CPC/CPS values at all.
// Filling missing monetization data with the batch median avoids the
// zero-traffic skew a zero default would cause.
const (
	FallbackCPCMedian = 1.00
	FallbackCPSMedian = 0.35
)

const missing = -1.0

// BatchStatistics holds run-wide values computed once over the entire batch
// before processing starts.
type BatchStatistics struct {
	CPCMedian float64
	CPSMedian float64
}

// Load reads a keyword table, skipping keywords present in exclude (the
// resume case), and returns the queries in input order together with the
// batch statistics applied to them.
func Load(r io.Reader, exclude map[string]struct{}) ([]keyword.Query, BatchStatistics, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, BatchStatistics{}, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	kwCol, ok := col["Keyword"]
	if !ok {
		return nil, BatchStatistics{}, fmt.Errorf("%w: Keyword", ErrMissingColumn)
	}

	field := func(row []string, name string) (string, bool) {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		return v, v != ""
	}

	var queries []keyword.Query
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, BatchStatistics{}, fmt.Errorf("read row: %w", err)
		}
		if kwCol >= len(row) {
			continue
		}
		kw := strings.TrimSpace(row[kwCol])
		if kw == "" {
			continue
		}
		if _, skip := exclude[kw]; skip {
			continue
		}

		q := keyword.Query{
			Keyword: kw,
			Volume:  keyword.DefaultVolume,
			CPC:     missing,
			CPS:     missing,
		}
		if v, ok := field(row, "Volume"); ok {
			q.Volume = parseVolume(v)
		}
		if v, ok := field(row, "CPC"); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				q.CPC = f
			}
		}
		if v, ok := field(row, "CPS"); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				q.CPS = f
			}
		}
		if v, ok := field(row, "Difficulty"); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				q.Difficulty = f
			}
		}
		queries = append(queries, q)
	}

	stats := computeStatistics(queries)
	for i := range queries {
		if queries[i].CPC == missing {
			queries[i].CPC = stats.CPCMedian
		}
		if queries[i].CPS == missing {
			queries[i].CPS = stats.CPSMedian
		}
	}
	return queries, stats, nil
}

// parseVolume accepts a plain number or a textual range "X-Y", in which case
// the upper bound is used. Unparseable values fall back to the default.
func parseVolume(v string) float64 {
	if strings.Contains(v, "-") {
		parts := strings.SplitN(v, "-", 2)
		if f, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
			return f
		}
		return keyword.DefaultVolume
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return keyword.DefaultVolume
}

func computeStatistics(queries []keyword.Query) BatchStatistics {
	stats := BatchStatistics{
		CPCMedian: FallbackCPCMedian,
		CPSMedian: FallbackCPSMedian,
	}
	var cpc, cps []float64
	for _, q := range queries {
		if q.CPC != missing {
			cpc = append(cpc, q.CPC)
		}
		if q.CPS != missing {
			cps = append(cps, q.CPS)
		}
	}
	if len(cpc) > 0 {
		stats.CPCMedian = median(cpc)
	}
	if len(cps) > 0 {
		stats.CPSMedian = median(cps)
	}
	return stats
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

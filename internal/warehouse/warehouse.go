// Package warehouse exports grouped results into the analytics database.
// Each job gets its own table so downstream consumers can load a run
// atomically by name.
package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BatchSize caps the rows sent per copy statement. Larger exports are
// split into consecutive batches.
const BatchSize = 15000

// Exporter appends grouped result tables to Postgres.
type Exporter struct {
	pool *pgxpool.Pool
}

// New connects to the warehouse.
func New(ctx context.Context, dsn string) (*Exporter, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect warehouse: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping warehouse: %w", err)
	}
	return &Exporter{pool: pool}, nil
}

// TableName is the job-scoped export table name.
func TableName(jobID string) string {
	return "group_out_" + strings.ReplaceAll(strings.ToLower(jobID), "-", "_")
}

// columnName flattens a CSV header cell into a database identifier.
func columnName(header string) string {
	name := strings.ToLower(strings.TrimSpace(header))
	name = strings.ReplaceAll(name, " ", "_")
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return -1
	}, name)
}

// Export creates the job table from the header and copies every row in,
// split into batches of at most BatchSize rows. All columns are text; the
// warehouse types them downstream.
func (e *Exporter) Export(ctx context.Context, jobID string, header []string, rows [][]string) error {
	table := TableName(jobID)

	columns := make([]string, len(header))
	defs := make([]string, len(header))
	for i, h := range header {
		columns[i] = columnName(h)
		defs[i] = columns[i] + " TEXT"
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
	if _, err := e.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create export table: %w", err)
	}

	for start := 0; start < len(rows); start += BatchSize {
		end := start + BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		source := pgx.CopyFromSlice(len(batch), func(i int) ([]any, error) {
			row := batch[i]
			values := make([]any, len(columns))
			for c := range columns {
				if c < len(row) {
					values[c] = row[c]
				} else {
					values[c] = ""
				}
			}
			return values, nil
		})

		if _, err := e.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, source); err != nil {
			return fmt.Errorf("copy batch at row %d: %w", start, err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (e *Exporter) Close() {
	e.pool.Close()
}

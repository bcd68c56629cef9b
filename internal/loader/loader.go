// Package loader appends the generated CSV files to a relational database
// through a database adapter, one batch at a time.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Rana718/quickshop/internal/database"
	"github.com/Rana718/quickshop/internal/dataset"
	"github.com/fatih/color"
)

var (
	ErrMissingFiles = errors.New("missing CSV files")
	ErrConnect      = errors.New("database connection failed")
)

const DefaultBatchSize = 1000

// maxPlaceholders bounds the bind parameters of one INSERT statement and
// stays below SQLite's 32766 limit.
const maxPlaceholders = 30000

type Options struct {
	DataDir   string
	BatchSize int

	// AtomicTables loads each table in a single transaction instead of
	// committing after every batch.
	AtomicTables bool
	// FailFast stops at the first failed table.
	FailFast bool
	// Reset clears every table, in reverse load order, before loading.
	Reset bool
	// Schema is executed before loading when not empty.
	Schema string
	// Verify runs the verification queries after loading.
	Verify bool
}

func (o Options) batchSize() int {
	if o.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return o.BatchSize
}

type TableResult struct {
	Table   string
	Rows    int
	Batches int
	Err     error
}

// Report is the outcome of one load run.
type Report struct {
	Results      []TableResult
	Verification *Summary
	VerifyErr    error
}

func (r *Report) Loaded() []string {
	var names []string
	for _, res := range r.Results {
		if res.Err == nil {
			names = append(names, res.Table)
		}
	}
	return names
}

func (r *Report) Failed() []TableResult {
	var failed []TableResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *Report) Succeeded() int {
	return len(r.Loaded())
}

func (r *Report) Total() int {
	return len(r.Results)
}

// Rows is the number of committed rows across all tables.
func (r *Report) Rows() int {
	total := 0
	for _, res := range r.Results {
		total += res.Rows
	}
	return total
}

type Loader struct {
	adapter database.DatabaseAdapter
	opts    Options
}

func New(adapter database.DatabaseAdapter, opts Options) *Loader {
	return &Loader{adapter: adapter, opts: opts}
}

// LoadAll loads every table in load order. A failed table is recorded in
// the report and loading moves on, unless FailFast is set, in which case
// the table's error is returned with the partial report.
func (l *Loader) LoadAll(ctx context.Context) (*Report, error) {
	report := &Report{}

	for _, table := range dataset.LoadOrder() {
		rows, batches, err := l.LoadTable(ctx, table)
		report.Results = append(report.Results, TableResult{
			Table:   table.Name,
			Rows:    rows,
			Batches: batches,
			Err:     err,
		})

		if err != nil {
			color.Red("  ❌ %s: %v", table.Name, err)
			if l.opts.FailFast {
				return report, fmt.Errorf("failed to load %s: %w", table.Name, err)
			}
			continue
		}
		color.Green("  ✅ %s: %d rows", table.Name, rows)
	}

	return report, nil
}

// Reset clears every table in reverse load order.
func (l *Loader) Reset(ctx context.Context) error {
	order := dataset.LoadOrder()
	for i := len(order) - 1; i >= 0; i-- {
		if err := l.adapter.ClearTable(ctx, order[i].Name); err != nil {
			return fmt.Errorf("failed to clear %s: %w", order[i].Name, err)
		}
	}
	return nil
}

// LoadTable streams the table's CSV file into the database. It returns
// the number of committed rows and batches; on failure, rows of batches
// committed before the error stay in place unless AtomicTables is set.
func (l *Loader) LoadTable(ctx context.Context, table dataset.Table) (int, int, error) {
	if !dataset.IsValidIdentifier(table.Name) {
		return 0, 0, fmt.Errorf("invalid table name: %s", table.Name)
	}

	reader, err := dataset.OpenCSV(filepath.Join(l.opts.DataDir, table.File))
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	columns, err := columnsForHeader(table, reader.Header())
	if err != nil {
		return 0, 0, err
	}

	color.Cyan("  📥 Loading %s...", table.Name)

	w := &batchWriter{
		adapter: l.adapter,
		table:   table.Name,
		columns: reader.Header(),
		atomic:  l.opts.AtomicTables,
	}

	batchSize := l.opts.batchSize()
	batch := make([][]interface{}, 0, batchSize)

	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			w.abort(ctx)
			return w.committed, w.batches, fmt.Errorf("%s line %d: %w", table.File, reader.Line()+1, err)
		}

		values, err := bindRecord(columns, record)
		if err != nil {
			w.abort(ctx)
			return w.committed, w.batches, fmt.Errorf("%s line %d: %w", table.File, reader.Line(), err)
		}
		batch = append(batch, values)

		if len(batch) >= batchSize {
			if err := w.write(ctx, batch); err != nil {
				return w.committed, w.batches, err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := w.write(ctx, batch); err != nil {
			return w.committed, w.batches, err
		}
	}

	if err := w.finish(ctx); err != nil {
		return w.committed, w.batches, err
	}
	return w.committed, w.batches, nil
}

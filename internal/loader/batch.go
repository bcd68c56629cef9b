package loader

import (
	"context"
	"fmt"

	"github.com/Rana718/quickshop/internal/database"
	"github.com/Rana718/quickshop/internal/database/common"
)

// batchWriter inserts the batches of one table. Each batch gets its own
// transaction unless atomic is set, in which case a single transaction
// spans the table and is committed by finish.
type batchWriter struct {
	adapter database.DatabaseAdapter
	table   string
	columns []string
	atomic  bool

	tx             common.Tx
	pendingRows    int
	pendingBatches int

	committed int
	batches   int
}

func (w *batchWriter) write(ctx context.Context, rows [][]interface{}) error {
	n := w.batches + w.pendingBatches + 1

	if w.tx == nil {
		tx, err := w.adapter.Begin(ctx)
		if err != nil {
			return fmt.Errorf("batch %d: failed to begin transaction: %w", n, err)
		}
		w.tx = tx
	}

	if err := w.insert(ctx, rows); err != nil {
		w.abort(ctx)
		return fmt.Errorf("batch %d: %w", n, err)
	}

	w.pendingRows += len(rows)
	w.pendingBatches++

	if w.atomic {
		return nil
	}
	return w.commit(ctx, n)
}

func (w *batchWriter) insert(ctx context.Context, rows [][]interface{}) error {
	perStatement := maxPlaceholders / len(w.columns)
	if perStatement < 1 {
		perStatement = 1
	}

	for start := 0; start < len(rows); start += perStatement {
		end := min(start+perStatement, len(rows))

		query := w.adapter.StatementBuilder().Insert(w.table).Columns(w.columns...)
		for _, row := range rows[start:end] {
			query = query.Values(row...)
		}

		sql, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}
		if err := w.tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to insert rows: %w", err)
		}
	}
	return nil
}

func (w *batchWriter) commit(ctx context.Context, n int) error {
	tx := w.tx
	w.tx = nil
	if err := tx.Commit(ctx); err != nil {
		w.pendingRows, w.pendingBatches = 0, 0
		return fmt.Errorf("batch %d: failed to commit: %w", n, err)
	}

	w.committed += w.pendingRows
	w.batches += w.pendingBatches
	w.pendingRows, w.pendingBatches = 0, 0
	return nil
}

// finish commits the table transaction left open in atomic mode.
func (w *batchWriter) finish(ctx context.Context) error {
	if w.tx == nil {
		return nil
	}
	return w.commit(ctx, w.batches+w.pendingBatches)
}

// abort rolls back whatever has not been committed yet.
func (w *batchWriter) abort(ctx context.Context) {
	if w.tx != nil {
		w.tx.Rollback(ctx)
		w.tx = nil
	}
	w.pendingRows, w.pendingBatches = 0, 0
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/quickshop/internal/database/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Adapter struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	// Exec mode sends CSV strings as text and lets the server cast them.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Adapter) Dialect() string {
	return "postgres"
}

func (p *Adapter) StatementBuilder() squirrel.StatementBuilderType {
	return p.qb
}

func (p *Adapter) ExecuteScript(ctx context.Context, script string) error {
	for _, stmt := range common.ParseSQLStatements(script) {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w", err)
		}
	}
	return nil
}

func (p *Adapter) ClearTable(ctx context.Context, tableName string) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`TRUNCATE TABLE "%s" RESTART IDENTITY CASCADE`, tableName))
	return err
}

func (p *Adapter) Begin(ctx context.Context) (common.Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return pgxTx{tx: tx}, nil
}

func (p *Adapter) QueryRow(ctx context.Context, query string, args ...interface{}) common.Row {
	return p.pool.QueryRow(ctx, query, args...)
}

func (p *Adapter) QueryEach(ctx context.Context, query string, args []interface{}, fn common.RowFunc) error {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return err
		}
		if err := fn(values); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (p *Adapter) GetCatalogCounts(ctx context.Context) (*common.CatalogCounts, error) {
	counts := &common.CatalogCounts{}

	for tableType, dest := range map[string]*int{"BASE TABLE": &counts.Tables, "VIEW": &counts.Views} {
		query, args, err := p.qb.Select("COUNT(*)").
			From("information_schema.tables").
			Where(squirrel.Eq{"table_schema": "public", "table_type": tableType}).
			ToSql()
		if err != nil {
			return nil, err
		}
		if err := p.pool.QueryRow(ctx, query, args...).Scan(dest); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", tableType, err)
		}
	}

	query, args, err := p.qb.Select("COUNT(*)").
		From("pg_indexes").
		Where(squirrel.Eq{"schemaname": "public"}).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&counts.Indexes); err != nil {
		return nil, fmt.Errorf("failed to count indexes: %w", err)
	}

	return counts, nil
}

// pgxTx adapts pgx.Tx to common.Tx.
type pgxTx struct {
	tx pgx.Tx
}

func (t pgxTx) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := t.tx.Exec(ctx, query, args...)
	return err
}

func (t pgxTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t pgxTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

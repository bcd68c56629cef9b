package database

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/quickshop/internal/database/common"
)

// DatabaseAdapter is the per-dialect surface the loaders and the
// verification queries run against.
type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// Dialect is one of "sqlite", "mysql" or "postgres".
	Dialect() string
	// StatementBuilder carries the dialect's placeholder format.
	StatementBuilder() squirrel.StatementBuilderType

	// ExecuteScript runs a multi-statement DDL script.
	ExecuteScript(ctx context.Context, script string) error
	// ClearTable removes every row of a table.
	ClearTable(ctx context.Context, tableName string) error

	Begin(ctx context.Context) (common.Tx, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) common.Row
	// QueryEach calls fn with the values of every result row.
	QueryEach(ctx context.Context, query string, args []interface{}, fn common.RowFunc) error

	GetCatalogCounts(ctx context.Context) (*common.CatalogCounts, error)
}

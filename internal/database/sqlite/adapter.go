package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/quickshop/internal/database/common"
	_ "github.com/mattn/go-sqlite3"
)

type Adapter struct {
	db   *sql.DB
	qb   squirrel.StatementBuilderType
	path string
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Path strips the sqlite:// scheme and any query string from url.
func Path(url string) string {
	path := strings.TrimPrefix(url, "sqlite://")
	if idx := strings.Index(path, "?"); idx > 0 {
		path = path[:idx]
	}
	return path
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	s.path = Path(url)

	dsn := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// A single writer keeps batches and verification on one connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Adapter) Dialect() string {
	return "sqlite"
}

func (s *Adapter) StatementBuilder() squirrel.StatementBuilderType {
	return s.qb
}

// ExecuteScript hands the whole script to SQLite in one call; the driver
// runs every statement in it.
func (s *Adapter) ExecuteScript(ctx context.Context, script string) error {
	if _, err := s.db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("failed to execute schema script: %w", err)
	}
	return nil
}

func (s *Adapter) ClearTable(ctx context.Context, tableName string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM "%s"`, tableName))
	return err
}

func (s *Adapter) Begin(ctx context.Context) (common.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return common.SQLTx{Tx: tx}, nil
}

func (s *Adapter) QueryRow(ctx context.Context, query string, args ...interface{}) common.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

func (s *Adapter) QueryEach(ctx context.Context, query string, args []interface{}, fn common.RowFunc) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return common.ScanEach(rows, fn)
}

func (s *Adapter) GetCatalogCounts(ctx context.Context) (*common.CatalogCounts, error) {
	counts := &common.CatalogCounts{}
	targets := []struct {
		kind string
		dest *int
	}{
		{"table", &counts.Tables},
		{"view", &counts.Views},
		{"index", &counts.Indexes},
	}

	for _, t := range targets {
		query, args, err := s.qb.Select("COUNT(*)").
			From("sqlite_master").
			Where(squirrel.Eq{"type": t.kind}).
			Where(squirrel.NotLike{"name": "sqlite_%"}).
			ToSql()
		if err != nil {
			return nil, err
		}
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(t.dest); err != nil {
			return nil, fmt.Errorf("failed to count %ss: %w", t.kind, err)
		}
	}

	return counts, nil
}

// RemoveDatabase deletes the database file at path together with any
// journal files SQLite left next to it. A missing file is not an error;
// the returned flag reports whether the main file existed.
func RemoveDatabase(path string) (bool, error) {
	existed := true
	if err := os.Remove(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		existed = false
	}

	for _, suffix := range []string{"-journal", "-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return existed, fmt.Errorf("failed to remove %s: %w", path+suffix, err)
		}
	}

	return existed, nil
}

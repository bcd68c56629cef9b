package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/quickshop/internal/database/common"
	driver "github.com/go-sql-driver/mysql"
)

type Adapter struct {
	db        *sql.DB
	qb        squirrel.StatementBuilderType
	currentDB string
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// ConnOptions are the fields a MySQL connection is built from.
type ConnOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Timeout  time.Duration
}

// FormatDSN renders opts as a go-sql-driver DSN.
func FormatDSN(opts ConnOptions) string {
	cfg := driver.NewConfig()
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	cfg.DBName = opts.Database
	cfg.Timeout = opts.Timeout
	return cfg.FormatDSN()
}

// normalizeURL turns a mysql:// URL into a driver DSN. Anything else is
// assumed to be a DSN already.
func normalizeURL(url string) string {
	if !strings.HasPrefix(url, "mysql://") {
		return url
	}
	dsn := strings.TrimPrefix(url, "mysql://")

	atIndex := strings.LastIndex(dsn, "@")
	if atIndex <= 0 {
		return dsn
	}
	credentials := dsn[:atIndex]
	remainder := dsn[atIndex+1:]

	slashIndex := strings.Index(remainder, "/")
	if slashIndex <= 0 {
		return dsn
	}
	hostPort := remainder[:slashIndex]
	dbAndParams := remainder[slashIndex+1:]

	replacer := strings.NewReplacer(
		"ssl-mode=REQUIRED", "tls=skip-verify",
		"ssl-mode=DISABLED", "tls=false",
		"sslmode=require", "tls=skip-verify",
		"sslmode=disable", "tls=false",
	)
	return fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, replacer.Replace(dbAndParams))
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	dsn := normalizeURL(url)

	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	m.currentDB = cfg.DBName

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	m.db = db
	return nil
}

func (m *Adapter) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Adapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *Adapter) Dialect() string {
	return "mysql"
}

func (m *Adapter) StatementBuilder() squirrel.StatementBuilderType {
	return m.qb
}

// schemaScope restricts information_schema lookups to the schema named
// in the DSN, or to the session default when the DSN names none.
func (m *Adapter) schemaScope() squirrel.Sqlizer {
	if m.currentDB == "" {
		return squirrel.Expr("table_schema = DATABASE()")
	}
	return squirrel.Eq{"table_schema": m.currentDB}
}

func (m *Adapter) ExecuteScript(ctx context.Context, script string) error {
	for _, stmt := range common.ParseSQLStatements(script) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func (m *Adapter) ClearTable(ctx context.Context, tableName string) error {
	// TRUNCATE refuses tables that are the target of a foreign key.
	_, err := m.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM `%s`", tableName))
	return err
}

func (m *Adapter) Begin(ctx context.Context) (common.Tx, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return common.SQLTx{Tx: tx}, nil
}

func (m *Adapter) QueryRow(ctx context.Context, query string, args ...interface{}) common.Row {
	return m.db.QueryRowContext(ctx, query, args...)
}

func (m *Adapter) QueryEach(ctx context.Context, query string, args []interface{}, fn common.RowFunc) error {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return common.ScanEach(rows, fn)
}

func (m *Adapter) GetCatalogCounts(ctx context.Context) (*common.CatalogCounts, error) {
	counts := &common.CatalogCounts{}

	for tableType, dest := range map[string]*int{"BASE TABLE": &counts.Tables, "VIEW": &counts.Views} {
		query, args, err := m.qb.Select("COUNT(*)").
			From("information_schema.tables").
			Where(m.schemaScope()).
			Where(squirrel.Eq{"table_type": tableType}).
			ToSql()
		if err != nil {
			return nil, err
		}
		if err := m.db.QueryRowContext(ctx, query, args...).Scan(dest); err != nil {
			return nil, fmt.Errorf("failed to count %s objects: %w", strings.ToLower(tableType), err)
		}
	}

	query, args, err := m.qb.Select("COUNT(DISTINCT table_name, index_name)").
		From("information_schema.statistics").
		Where(m.schemaScope()).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&counts.Indexes); err != nil {
		return nil, fmt.Errorf("failed to count indexes: %w", err)
	}

	return counts, nil
}

func firstLine(stmt string) string {
	if idx := strings.IndexByte(stmt, '\n'); idx > 0 {
		return stmt[:idx]
	}
	return stmt
}

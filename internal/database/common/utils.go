package common

import (
	"context"
	"database/sql"
	"strings"
)

// Tx is the slice of a transaction the loader needs; both database/sql
// and pgx transactions are wrapped to fit it.
type Tx interface {
	Exec(ctx context.Context, query string, args ...interface{}) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Row is satisfied by *sql.Row and pgx.Row.
type Row interface {
	Scan(dest ...interface{}) error
}

// CatalogCounts is the number of tables, views and indexes the
// connected database reports for the current schema.
type CatalogCounts struct {
	Tables  int
	Views   int
	Indexes int
}

// SQLTx adapts *sql.Tx to Tx.
type SQLTx struct {
	Tx *sql.Tx
}

func (t SQLTx) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := t.Tx.ExecContext(ctx, query, args...)
	return err
}

func (t SQLTx) Commit(ctx context.Context) error {
	return t.Tx.Commit()
}

func (t SQLTx) Rollback(ctx context.Context) error {
	return t.Tx.Rollback()
}

// RowFunc receives the column values of one result row.
type RowFunc func(values []interface{}) error

// ScanEach calls fn for every row of rows and closes rows.
func ScanEach(rows *sql.Rows, fn RowFunc) error {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		if err := fn(values); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ParseSQLStatements splits a script on semicolons that sit outside
// quoted strings and comments. Line comments are dropped; empty
// statements are skipped.
func ParseSQLStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
		quote      rune
		inLine     bool
		inBlock    bool
	)

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case inLine:
			if c == '\n' {
				inLine = false
				current.WriteRune(c)
			}
		case inBlock:
			if c == '*' && next == '/' {
				inBlock = false
				i++
			}
		case quote != 0:
			current.WriteRune(c)
			if c == quote {
				if next == quote {
					current.WriteRune(next)
					i++
				} else {
					quote = 0
				}
			}
		case c == '-' && next == '-':
			inLine = true
			i++
		case c == '/' && next == '*':
			inBlock = true
			i++
		case c == '\'' || c == '"' || c == '`':
			quote = c
			current.WriteRune(c)
		case c == ';':
			flush()
		default:
			current.WriteRune(c)
		}
	}
	flush()

	return statements
}

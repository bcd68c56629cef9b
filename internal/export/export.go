// Package export reads the QuickShop tables back out of a database and
// writes them as CSV in the same encoding the generator uses.
package export

import (
	"context"
	"database/sql/driver"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Rana718/quickshop/internal/database"
	"github.com/Rana718/quickshop/internal/dataset"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PerformExport writes one CSV file per table into exportPath and returns
// the paths in load order. Tables are read concurrently.
func PerformExport(ctx context.Context, adapter database.DatabaseAdapter, exportPath string) ([]string, error) {
	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	tables := dataset.LoadOrder()
	paths := make([]string, len(tables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for i, table := range tables {
		i, table := i, table
		g.Go(func() error {
			path := filepath.Join(exportPath, table.File)
			if err := ExportTable(gctx, adapter, table, path); err != nil {
				return fmt.Errorf("failed to export %s: %w", table.Name, err)
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// ExportTable writes every row of table, ordered by primary key, to path.
func ExportTable(ctx context.Context, adapter database.DatabaseAdapter, table dataset.Table, path string) error {
	query, args, err := adapter.StatementBuilder().
		Select(table.Header()...).
		From(table.Name).
		OrderBy(table.PrimaryKey).
		ToSql()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Header()); err != nil {
		file.Close()
		return err
	}

	err = adapter.QueryEach(ctx, query, args, func(values []interface{}) error {
		record := make([]string, len(values))
		for i, v := range values {
			field, err := EncodeValue(table.Columns[i], v)
			if err != nil {
				return err
			}
			record[i] = field
		}
		return writer.Write(record)
	})
	if err != nil {
		file.Close()
		return err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// EncodeValue renders a value scanned from any supported driver in the
// CSV encoding of its column kind.
func EncodeValue(col dataset.Column, v interface{}) (string, error) {
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil {
			return "", fmt.Errorf("column %s: %w", col.Name, err)
		}
		v = dv
	}

	switch x := v.(type) {
	case nil:
		return "", nil
	case []byte:
		return encodeText(col, string(x))
	case string:
		return encodeText(col, x)
	case time.Time:
		return x.UTC().Format(dataset.TimestampLayout), nil
	case bool:
		return formatBool(x), nil
	case float64:
		return encodeNumber(col, decimal.NewFromFloat(x))
	case float32:
		return encodeNumber(col, decimal.NewFromFloat32(x))
	case int64:
		return encodeNumber(col, decimal.NewFromInt(x))
	case int32:
		return encodeNumber(col, decimal.NewFromInt(int64(x)))
	case int:
		return encodeNumber(col, decimal.NewFromInt(int64(x)))
	}
	return "", fmt.Errorf("column %s: unsupported value type %T", col.Name, v)
}

func encodeNumber(col dataset.Column, d decimal.Decimal) (string, error) {
	switch col.Kind {
	case dataset.KindDecimal:
		return d.StringFixed(2), nil
	case dataset.KindInt:
		return d.Truncate(0).String(), nil
	case dataset.KindBool:
		return formatBool(!d.IsZero()), nil
	}
	return d.String(), nil
}

// encodeText handles drivers that return numbers and timestamps as text.
func encodeText(col dataset.Column, s string) (string, error) {
	switch col.Kind {
	case dataset.KindDecimal, dataset.KindInt:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return "", fmt.Errorf("column %s: invalid number %q", col.Name, s)
		}
		return encodeNumber(col, d)

	case dataset.KindBool:
		if b, err := dataset.ParseBool(s); err == nil {
			return formatBool(b), nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return "", fmt.Errorf("column %s: invalid boolean %q", col.Name, s)
		}
		return formatBool(n != 0), nil

	case dataset.KindTimestamp:
		return normalizeTimestamp(col, s)
	}
	return s, nil
}

var timestampLayouts = []string{
	dataset.TimestampLayout,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
}

func normalizeTimestamp(col dataset.Column, s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(dataset.TimestampLayout), nil
		}
	}
	return "", fmt.Errorf("column %s: invalid timestamp %q", col.Name, s)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

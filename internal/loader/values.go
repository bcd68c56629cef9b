package loader

import (
	"fmt"
	"strconv"

	"github.com/Rana718/quickshop/internal/dataset"
	"github.com/shopspring/decimal"
)

// bindValue converts one CSV field into the argument handed to the
// driver. Empty fields become NULL.
func bindValue(col dataset.Column, field string) (interface{}, error) {
	if field == "" {
		if !col.Nullable {
			return nil, fmt.Errorf("column %s: empty value for NOT NULL column", col.Name)
		}
		return nil, nil
	}

	switch col.Kind {
	case dataset.KindInt:
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: invalid integer %q", col.Name, field)
		}
		return v, nil

	case dataset.KindDecimal:
		v, err := decimal.NewFromString(field)
		if err != nil {
			return nil, fmt.Errorf("column %s: invalid decimal %q", col.Name, field)
		}
		return v, nil

	case dataset.KindBool:
		v, err := dataset.ParseBool(field)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		return v, nil

	case dataset.KindTimestamp:
		if _, err := dataset.ParseTimestamp(field); err != nil {
			return nil, fmt.Errorf("column %s: invalid timestamp %q", col.Name, field)
		}
		// Sent as text so every dialect stores the same wall-clock value.
		return field, nil

	default:
		return field, nil
	}
}

// bindRecord binds a CSV record whose fields follow columns.
func bindRecord(columns []dataset.Column, record []string) ([]interface{}, error) {
	if len(record) != len(columns) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(columns), len(record))
	}

	values := make([]interface{}, len(columns))
	for i, col := range columns {
		v, err := bindValue(col, record[i])
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// columnsForHeader maps a CSV header onto the table's column definitions.
// Header order may differ from the table's declared order.
func columnsForHeader(table dataset.Table, header []string) ([]dataset.Column, error) {
	columns := make([]dataset.Column, len(header))
	seen := make(map[string]bool, len(header))

	for i, name := range header {
		col, ok := table.Column(name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown column %q", table.File, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%s: duplicate column %q", table.File, name)
		}
		seen[name] = true
		columns[i] = col
	}

	for _, col := range table.Columns {
		if !seen[col.Name] && !col.Nullable {
			return nil, fmt.Errorf("%s: missing column %q", table.File, col.Name)
		}
	}
	return columns, nil
}

package loader

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/quickshop/internal/database"
	"github.com/Rana718/quickshop/internal/database/common"
	"github.com/Rana718/quickshop/internal/dataset"
	"github.com/Rana718/quickshop/internal/generator"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

type RowCount struct {
	Table string
	Rows  int64
}

// Summary holds the verification figures read back from a loaded
// database.
type Summary struct {
	Dialect   string
	RowCounts []RowCount
	Catalog   *common.CatalogCounts

	TotalOrders     int64
	DeliveredOrders int64
	TotalGMV        decimal.Decimal
	AvgOrderValue   decimal.Decimal
	CompletionRate  float64
	ActiveCustomers int64
	ActiveShops     int64
	FirstOrderDate  string
	LastOrderDate   string
}

// Rows returns the row count read for table, or -1.
func (s *Summary) Rows(table string) int64 {
	for _, rc := range s.RowCounts {
		if rc.Table == table {
			return rc.Rows
		}
	}
	return -1
}

// Verify runs the read-only verification queries.
func Verify(ctx context.Context, adapter database.DatabaseAdapter) (*Summary, error) {
	qb := adapter.StatementBuilder()
	s := &Summary{Dialect: adapter.Dialect()}

	for _, table := range dataset.LoadOrder() {
		var n int64
		if err := queryRow(ctx, adapter, qb.Select("COUNT(*)").From(table.Name), &n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table.Name, err)
		}
		s.RowCounts = append(s.RowCounts, RowCount{Table: table.Name, Rows: n})
	}

	catalog, err := adapter.GetCatalogCounts(ctx)
	if err != nil {
		return nil, err
	}
	s.Catalog = catalog

	s.TotalOrders = s.Rows(dataset.TableOrders)

	delivered := squirrel.Eq{"status": dataset.StatusDelivered}
	var gmv, aov decimal.NullDecimal
	err = queryRow(ctx, adapter,
		qb.Select("COUNT(*)", "SUM(total_amount)", "AVG(total_amount)").From(dataset.TableOrders).Where(delivered),
		&s.DeliveredOrders, &gmv, &aov)
	if err != nil {
		return nil, fmt.Errorf("failed to read order metrics: %w", err)
	}
	if gmv.Valid {
		s.TotalGMV = gmv.Decimal.Round(2)
	}
	if aov.Valid {
		s.AvgOrderValue = aov.Decimal.Round(2)
	}
	if s.TotalOrders > 0 {
		s.CompletionRate = float64(s.DeliveredOrders) / float64(s.TotalOrders) * 100
	}

	err = queryRow(ctx, adapter,
		qb.Select("COUNT(*)").From(dataset.TableCustomers).Where(squirrel.Gt{"total_orders": 0}),
		&s.ActiveCustomers)
	if err != nil {
		return nil, fmt.Errorf("failed to count active customers: %w", err)
	}

	err = queryRow(ctx, adapter,
		qb.Select("COUNT(*)").From(dataset.TableShops).Where(squirrel.Eq{"is_active": true}),
		&s.ActiveShops)
	if err != nil {
		return nil, fmt.Errorf("failed to count active shops: %w", err)
	}

	var first, last sql.NullString
	err = queryRow(ctx, adapter,
		qb.Select("MIN(order_date)", "MAX(order_date)").From(dataset.TableOrders),
		&first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to read order date range: %w", err)
	}
	s.FirstOrderDate = dateOnly(first)
	s.LastOrderDate = dateOnly(last)

	return s, nil
}

func queryRow(ctx context.Context, adapter database.DatabaseAdapter, q squirrel.SelectBuilder, dest ...interface{}) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	return adapter.QueryRow(ctx, query, args...).Scan(dest...)
}

func dateOnly(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	if len(v.String) >= 10 {
		return v.String[:10]
	}
	return v.String
}

// CompareManifest lists the tables whose row count differs from the
// manifest written by the generator.
func (s *Summary) CompareManifest(m *generator.Manifest) []string {
	var mismatches []string
	for _, tc := range m.Tables {
		if got := s.Rows(tc.Table); got != int64(tc.Rows) {
			mismatches = append(mismatches, fmt.Sprintf("%s: expected %d rows, found %d", tc.Table, tc.Rows, got))
		}
	}
	return mismatches
}

func (s *Summary) Print() {
	fmt.Println()
	color.Cyan("🔍 Verification (%s)", s.Dialect)
	for _, rc := range s.RowCounts {
		fmt.Printf("  %-14s %8d rows\n", rc.Table, rc.Rows)
	}
	if s.Catalog != nil {
		fmt.Printf("  Tables: %d, views: %d, indexes: %d\n", s.Catalog.Tables, s.Catalog.Views, s.Catalog.Indexes)
	}

	fmt.Println()
	color.Cyan("📈 Business metrics")
	fmt.Printf("  Total GMV:         %s\n", dataset.FormatEuro(s.TotalGMV))
	fmt.Printf("  Delivered orders:  %d\n", s.DeliveredOrders)
	fmt.Printf("  Avg order value:   %s\n", dataset.FormatEuro(s.AvgOrderValue))
	fmt.Printf("  Completion rate:   %.1f%%\n", s.CompletionRate)
	fmt.Printf("  Active customers:  %d\n", s.ActiveCustomers)
	fmt.Printf("  Active shops:      %d\n", s.ActiveShops)
	if s.FirstOrderDate != "" {
		fmt.Printf("  Date range:        %s to %s\n", s.FirstOrderDate, s.LastOrderDate)
	}
}

// PrintReport prints the per-table outcome of a load run.
func PrintReport(r *Report) {
	fmt.Println()
	if len(r.Failed()) == 0 {
		color.Green("🎉 Loaded %d/%d tables (%d rows)", r.Succeeded(), r.Total(), r.Rows())
	} else {
		color.Yellow("⚠️  Loaded %d/%d tables (%d rows)", r.Succeeded(), r.Total(), r.Rows())
		for _, f := range r.Failed() {
			color.Red("  ❌ %s after %d committed rows: %v", f.Table, f.Rows, f.Err)
		}
	}

	if r.VerifyErr != nil {
		color.Yellow("⚠️  Verification failed: %v", r.VerifyErr)
	} else if r.Verification != nil {
		r.Verification.Print()
	}
}

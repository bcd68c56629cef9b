package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the text form of every date column in the CSV files.
const TimestampLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.Format(TimestampLayout)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// ParseBool accepts the boolean spellings found in the CSV files.
func ParseBool(s string) (bool, error) {
	switch s {
	case "True", "true", "TRUE", "1":
		return true, nil
	case "False", "false", "FALSE", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// ParseTimestamp parses a CSV timestamp field.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

// Records renders the rows of the named table as CSV records, in the
// column order of its definition.
func (d *Dataset) Records(table string) ([][]string, error) {
	var out [][]string
	itoa := strconv.Itoa

	switch table {
	case TableShops:
		for _, s := range d.Shops {
			out = append(out, []string{
				itoa(s.ID), s.Name, s.Type, s.City, s.District,
				formatTime(s.PartnershipStart), formatMoney(s.CommissionRate),
				itoa(s.AvgPrepMinutes), formatBool(s.Active),
			})
		}
	case TableProducts:
		for _, p := range d.Products {
			out = append(out, []string{
				itoa(p.ID), p.Name, p.Category, p.Subcategory, formatMoney(p.BasePrice), p.Unit,
			})
		}
	case TableCustomers:
		for _, c := range d.Customers {
			out = append(out, []string{
				itoa(c.ID), formatTime(c.RegistrationDate), c.City, c.Segment,
				itoa(c.TotalOrders), formatMoney(c.TotalSpent), formatOptionalTime(c.LastOrderDate),
			})
		}
	case TableOrders:
		for _, o := range d.Orders {
			out = append(out, []string{
				itoa(o.ID), itoa(o.CustomerID), itoa(o.ShopID), formatTime(o.OrderDate), o.Status,
				formatMoney(o.Subtotal), formatMoney(o.Discount), formatMoney(o.DeliveryFee),
				formatMoney(o.TotalAmount), o.PaymentMethod,
			})
		}
	case TableOrderItems:
		for _, it := range d.OrderItems {
			out = append(out, []string{
				itoa(it.ID), itoa(it.OrderID), itoa(it.ProductID), itoa(it.Quantity),
				formatMoney(it.UnitPrice), formatMoney(it.TotalPrice),
			})
		}
	case TableDeliveries:
		for _, dl := range d.Deliveries {
			out = append(out, []string{
				itoa(dl.ID), itoa(dl.OrderID), itoa(dl.PrepMinutes), itoa(dl.DeliveryMinutes),
				itoa(dl.TotalMinutes), formatOptionalInt(dl.Rating),
			})
		}
	case TableInventory:
		for _, inv := range d.Inventory {
			out = append(out, []string{
				itoa(inv.ID), itoa(inv.ShopID), itoa(inv.ProductID), itoa(inv.StockLevel),
				itoa(inv.ReorderPoint), formatTime(inv.LastRestocked), formatBool(inv.Available),
			})
		}
	case TablePromotions:
		for _, p := range d.Promotions {
			out = append(out, []string{
				itoa(p.ID), p.Name, p.Type, itoa(p.DiscountValue),
				formatTime(p.StartDate), formatTime(p.EndDate),
				itoa(p.MinOrderValue), itoa(p.TotalUses), formatMoney(p.RevenueImpact),
			})
		}
	default:
		return nil, fmt.Errorf("unknown table: %s", table)
	}

	return out, nil
}

// WriteCSV writes one CSV file per table into dir and returns the paths
// written, in load order.
func (d *Dataset) WriteCSV(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, t := range LoadOrder() {
		records, err := d.Records(t.Name)
		if err != nil {
			return paths, err
		}

		path := filepath.Join(dir, t.File)
		if err := writeCSVFile(path, t.Header(), records); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", t.File, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func writeCSVFile(path string, header []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return err
	}
	if err := writer.WriteAll(records); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// RecordReader streams the rows of one CSV file.
type RecordReader struct {
	file   *os.File
	reader *csv.Reader
	header []string
	line   int
}

// OpenCSV opens path and consumes its header row.
func OpenCSV(path string) (*RecordReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(file)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		file.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: missing header row", path)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	reader.FieldsPerRecord = len(header)

	return &RecordReader{file: file, reader: reader, header: header, line: 1}, nil
}

func (r *RecordReader) Header() []string {
	return r.header
}

// Line is the number of the last record returned, counting the header
// as line 1.
func (r *RecordReader) Line() int {
	return r.line
}

// Next returns the next record, or io.EOF once the file is exhausted.
func (r *RecordReader) Next() ([]string, error) {
	record, err := r.reader.Read()
	if err != nil {
		return nil, err
	}
	r.line++
	return record, nil
}

func (r *RecordReader) Close() error {
	return r.file.Close()
}

// ReadCSV reads a whole CSV file into memory.
func ReadCSV(path string) ([]string, [][]string, error) {
	r, err := OpenCSV(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	var rows [][]string
	for {
		record, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", path, r.Line()+1, err)
		}
		rows = append(rows, record)
	}
	return r.Header(), rows, nil
}

// MissingFiles returns the CSV files of every table that are absent
// from dir, in load order.
func MissingFiles(dir string) []string {
	var missing []string
	for _, name := range Files() {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}

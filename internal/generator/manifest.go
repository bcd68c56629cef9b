package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Rana718/quickshop/internal/dataset"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const ManifestFile = "manifest.yaml"

// Stats are the headline figures printed after generation.
type Stats struct {
	TotalGMV       decimal.Decimal
	AvgOrderValue  decimal.Decimal
	CompletionRate float64
	ActiveShops    int
	Categories     int
}

func Summarize(ds *dataset.Dataset) Stats {
	st := Stats{
		TotalGMV:      decimal.Zero,
		AvgOrderValue: decimal.Zero,
		ActiveShops:   len(ds.ActiveShops()),
	}

	delivered := 0
	for _, o := range ds.Orders {
		if o.Status == dataset.StatusDelivered {
			delivered++
			st.TotalGMV = st.TotalGMV.Add(o.TotalAmount)
		}
	}
	if delivered > 0 {
		st.AvgOrderValue = st.TotalGMV.Div(decimal.NewFromInt(int64(delivered))).Round(2)
	}
	if len(ds.Orders) > 0 {
		st.CompletionRate = float64(delivered) / float64(len(ds.Orders)) * 100
	}

	seen := make(map[string]bool)
	for _, p := range ds.Products {
		seen[p.Category] = true
	}
	st.Categories = len(seen)

	return st
}

type TableCount struct {
	Table string `yaml:"table"`
	File  string `yaml:"file"`
	Rows  int    `yaml:"rows"`
}

// Manifest describes one generated dataset and is written next to the
// CSV files.
type Manifest struct {
	DatasetID      string       `yaml:"dataset_id"`
	Seed           int64        `yaml:"seed"`
	StartDate      string       `yaml:"start_date"`
	EndDate        string       `yaml:"end_date"`
	Tables         []TableCount `yaml:"tables"`
	TotalGMV       string       `yaml:"total_gmv"`
	AvgOrderValue  string       `yaml:"avg_order_value"`
	CompletionRate string       `yaml:"completion_rate"`
	ActiveShops    int          `yaml:"active_shops"`
	Categories     int          `yaml:"categories"`
}

// NewManifest builds the manifest of ds. The dataset id is read from r
// so that a seeded source yields the same id on every run.
func NewManifest(ds *dataset.Dataset, cfg Config, seed int64, r io.Reader) (*Manifest, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to draw dataset id: %w", err)
	}

	st := Summarize(ds)
	m := &Manifest{
		DatasetID:      id.String(),
		Seed:           seed,
		StartDate:      cfg.Start.Format("2006-01-02"),
		EndDate:        cfg.End.Format("2006-01-02"),
		TotalGMV:       st.TotalGMV.StringFixed(2),
		AvgOrderValue:  st.AvgOrderValue.StringFixed(2),
		CompletionRate: fmt.Sprintf("%.1f", st.CompletionRate),
		ActiveShops:    st.ActiveShops,
		Categories:     st.Categories,
	}
	for _, t := range dataset.LoadOrder() {
		m.Tables = append(m.Tables, TableCount{Table: t.Name, File: t.File, Rows: ds.Len(t.Name)})
	}
	return m, nil
}

func (m *Manifest) Write(dir string) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rana718/quickshop/internal/database"
	"github.com/Rana718/quickshop/internal/database/sqlite"
	"github.com/Rana718/quickshop/internal/dataset"
	"github.com/fatih/color"
)

// Connector opens a connected, pinged adapter for a network target.
type Connector func(ctx context.Context) (database.DatabaseAdapter, error)

// CheckFiles reports ErrMissingFiles when any table's CSV file is absent
// from dir.
func CheckFiles(dir string) error {
	if missing := dataset.MissingFiles(dir); len(missing) > 0 {
		return fmt.Errorf("%w in %s: %s", ErrMissingFiles, dir, strings.Join(missing, ", "))
	}
	return nil
}

// RunSQLite recreates the database file at path, executes opts.Schema and
// loads every table. The first error aborts the run.
func RunSQLite(ctx context.Context, path string, opts Options) (*Report, error) {
	if err := CheckFiles(opts.DataDir); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Schema) == "" {
		return nil, errors.New("sqlite loader requires a schema script")
	}

	existed, err := sqlite.RemoveDatabase(path)
	if err != nil {
		return nil, err
	}
	if existed {
		color.Yellow("🗑️  Removed existing database %s", path)
	}

	adapter, err := database.Open(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer adapter.Close()

	color.Cyan("📐 Creating schema...")
	if err := adapter.ExecuteScript(ctx, opts.Schema); err != nil {
		return nil, err
	}

	opts.FailFast = true
	opts.Reset = false
	return run(ctx, adapter, opts)
}

// RunNetwork checks that every CSV file exists, connects, optionally runs
// the schema script and clears the tables, then loads every table.
// Nothing connects when a file is missing. Connection failures are
// wrapped with ErrConnect.
func RunNetwork(ctx context.Context, connect Connector, opts Options) (*Report, error) {
	if err := CheckFiles(opts.DataDir); err != nil {
		return nil, err
	}

	adapter, err := connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	defer adapter.Close()
	color.Green("🔌 Connected (%s)", adapter.Dialect())

	if strings.TrimSpace(opts.Schema) != "" {
		color.Cyan("📐 Applying schema...")
		if err := adapter.ExecuteScript(ctx, opts.Schema); err != nil {
			return nil, err
		}
	}

	return run(ctx, adapter, opts)
}

func run(ctx context.Context, adapter database.DatabaseAdapter, opts Options) (*Report, error) {
	l := New(adapter, opts)

	if opts.Reset {
		color.Yellow("🧹 Clearing existing rows...")
		if err := l.Reset(ctx); err != nil {
			return nil, err
		}
	}

	mode := "per batch"
	if opts.AtomicTables {
		mode = "per table"
	}
	color.Cyan("📦 Loading %d tables (batch size %d, commit %s)", len(dataset.LoadOrder()), opts.batchSize(), mode)

	report, err := l.LoadAll(ctx)
	if err != nil {
		return report, err
	}

	if opts.Verify {
		report.Verification, report.VerifyErr = Verify(ctx, adapter)
	}
	return report, nil
}

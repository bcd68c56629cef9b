package database

import (
	"context"
	"fmt"

	"github.com/Rana718/quickshop/internal/database/mysql"
	"github.com/Rana718/quickshop/internal/database/postgres"
	"github.com/Rana718/quickshop/internal/database/sqlite"
)

// NewAdapter returns an unconnected adapter for provider.
func NewAdapter(provider string) (DatabaseAdapter, error) {
	switch provider {
	case "postgresql", "postgres":
		return postgres.New(), nil
	case "mysql":
		return mysql.New(), nil
	case "sqlite", "sqlite3":
		return sqlite.New(), nil
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", provider)
	}
}

// Open connects an adapter for provider and pings it; the adapter is
// closed again when the ping fails.
func Open(ctx context.Context, provider, url string) (DatabaseAdapter, error) {
	adapter, err := NewAdapter(provider)
	if err != nil {
		return nil, err
	}

	if err := adapter.Connect(ctx, url); err != nil {
		return nil, err
	}

	if err := adapter.Ping(ctx); err != nil {
		adapter.Close()
		return nil, err
	}

	return adapter, nil
}

// Package schema ships the default DDL scripts (tables, views, indexes)
// the loaders execute before appending CSV rows.
package schema

import (
	"embed"
	"fmt"
	"os"
)

//go:embed sql/*.sql
var scripts embed.FS

// Default returns the embedded script for a dialect: sqlite, mysql or
// postgres.
func Default(dialect string) (string, error) {
	data, err := scripts.ReadFile("sql/" + dialect + ".sql")
	if err != nil {
		return "", fmt.Errorf("no schema script for dialect %q", dialect)
	}
	return string(data), nil
}

// Load reads the script at path, falling back to the embedded default
// for dialect when path is empty.
func Load(dialect, path string) (string, error) {
	if path == "" {
		return Default(dialect)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	return string(data), nil
}

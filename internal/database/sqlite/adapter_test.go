package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	assert.Equal(t, "data/quickshop.db", Path("sqlite://data/quickshop.db?_busy_timeout=100"))
	assert.Equal(t, "quickshop.db", Path("quickshop.db"))
}

func TestRemoveDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quickshop.db")

	existed, err := RemoveDatabase(path)
	require.NoError(t, err)
	assert.False(t, existed)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path+"-journal", []byte("x"), 0644))

	existed, err = RemoveDatabase(path)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+"-journal")
}

func TestScriptCatalogAndRows(t *testing.T) {
	ctx := context.Background()
	a := New()
	require.NoError(t, a.Connect(ctx, filepath.Join(t.TempDir(), "test.db")))
	defer a.Close()

	script := `
CREATE TABLE shops (shop_id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE INDEX idx_shops_name ON shops(name);
CREATE VIEW shop_names AS SELECT name FROM shops;
`
	require.NoError(t, a.ExecuteScript(ctx, script))

	tx, err := a.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, "INSERT INTO shops (shop_id, name) VALUES (?, ?), (?, ?)", 1, "Fresh Mart", 2, "Quick Shop"))
	require.NoError(t, tx.Commit(ctx))

	counts, err := a.GetCatalogCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Tables)
	assert.Equal(t, 1, counts.Views)
	assert.Equal(t, 1, counts.Indexes)

	var names []string
	err = a.QueryEach(ctx, "SELECT name FROM shops ORDER BY shop_id", nil, func(values []interface{}) error {
		names = append(names, fmt.Sprintf("%s", values[0]))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresh Mart", "Quick Shop"}, names)

	require.NoError(t, a.ClearTable(ctx, "shops"))
	var n int
	require.NoError(t, a.QueryRow(ctx, "SELECT COUNT(*) FROM shops").Scan(&n))
	assert.Zero(t, n)
}

func TestRollbackDiscardsRows(t *testing.T) {
	ctx := context.Background()
	a := New()
	require.NoError(t, a.Connect(ctx, filepath.Join(t.TempDir(), "test.db")))
	defer a.Close()

	require.NoError(t, a.ExecuteScript(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY);"))

	tx, err := a.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, "INSERT INTO t (id) VALUES (1)"))
	require.NoError(t, tx.Rollback(ctx))

	var n int
	require.NoError(t, a.QueryRow(ctx, "SELECT COUNT(*) FROM t").Scan(&n))
	assert.Zero(t, n)
}

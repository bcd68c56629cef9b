package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Rana718/quickshop/internal/config"
	"github.com/Rana718/quickshop/internal/database"
	"github.com/Rana718/quickshop/internal/loader"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:       "verify <sqlite|mysql|postgres>",
	Short:     "Run the verification queries against a loaded database",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"sqlite", "mysql", "postgres"},
	RunE:      runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	adapter, err := openTarget(ctx, cfg, args[0])
	if err != nil {
		printHints(err, cfg, args[0])
		return err
	}
	defer adapter.Close()

	summary, err := loader.Verify(ctx, adapter)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	summary.Print()
	checkManifest(cfg.DataDir, summary)
	return nil
}

// openTarget connects to the database of a load target. Connection
// failures are wrapped with loader.ErrConnect.
func openTarget(ctx context.Context, cfg *config.Config, target string) (database.DatabaseAdapter, error) {
	var (
		adapter database.DatabaseAdapter
		err     error
	)

	switch target {
	case "sqlite":
		if _, statErr := os.Stat(cfg.SQLite.Path); statErr != nil {
			return nil, fmt.Errorf("database file not found: %s", cfg.SQLite.Path)
		}
		adapter, err = database.Open(ctx, "sqlite", cfg.SQLite.Path)
	case "mysql":
		adapter, err = mysqlConnector(cfg)(ctx)
	case "postgres":
		adapter, err = postgresConnector(cfg)(ctx)
	default:
		return nil, fmt.Errorf("unknown target: %s", target)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", loader.ErrConnect, err)
	}
	return adapter, nil
}

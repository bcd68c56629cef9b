package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Rana718/quickshop/internal/config"
	"github.com/Rana718/quickshop/internal/database"
	"github.com/Rana718/quickshop/internal/database/mysql"
	"github.com/Rana718/quickshop/internal/generator"
	"github.com/Rana718/quickshop/internal/loader"
	"github.com/Rana718/quickshop/internal/schema"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var noVerify bool

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the generated CSV files into a database",
}

var loadSQLiteCmd = &cobra.Command{
	Use:   "sqlite",
	Short: "Recreate a SQLite database file and load every table",
	Long: `
Deletes the SQLite database file, creates the schema (tables, views,
indexes) and appends every CSV file. Any error aborts the run.

Examples:
  quickshop load sqlite
  quickshop load sqlite --path demo.db`,
	RunE: runLoadSQLite,
}

var loadMySQLCmd = &cobra.Command{
	Use:   "mysql",
	Short: "Load every table into MySQL in batches",
	Long: `
Checks that all CSV files exist, connects to MySQL and inserts each table in
batches, committing after every batch. A failed table is reported and the
remaining tables are still loaded.

The password is read from QUICKSHOP_MYSQL_PASSWORD or the config file.

Examples:
  quickshop load mysql --host db.internal --database analytics
  QUICKSHOP_MYSQL_PASSWORD=secret quickshop load mysql --reset`,
	RunE: runLoadMySQL,
}

var loadPostgresCmd = &cobra.Command{
	Use:   "postgres",
	Short: "Load every table into PostgreSQL in batches",
	Long: `
Same as "load mysql", connecting with the URL held in the environment
variable named by postgres.url_env (DATABASE_URL by default).

Examples:
  DATABASE_URL=postgres://localhost/quickshop quickshop load postgres`,
	RunE: runLoadPostgres,
}

func init() {
	loadCmd.PersistentFlags().Int("batch-size", 0, "rows per insert batch (default 1000)")
	loadCmd.PersistentFlags().Bool("atomic-tables", false, "load each table in a single transaction")
	loadCmd.PersistentFlags().Bool("reset", false, "clear existing rows before loading (mysql, postgres)")
	loadCmd.PersistentFlags().BoolVar(&noVerify, "no-verify", false, "skip the verification queries")
	viper.BindPFlag("load.batch_size", loadCmd.PersistentFlags().Lookup("batch-size"))
	viper.BindPFlag("load.atomic_tables", loadCmd.PersistentFlags().Lookup("atomic-tables"))
	viper.BindPFlag("load.reset", loadCmd.PersistentFlags().Lookup("reset"))

	loadSQLiteCmd.Flags().String("path", "", "SQLite database file (default quickshop.db)")
	loadSQLiteCmd.Flags().String("schema", "", "schema script to execute instead of the built-in one")
	viper.BindPFlag("sqlite.path", loadSQLiteCmd.Flags().Lookup("path"))
	viper.BindPFlag("sqlite.schema_path", loadSQLiteCmd.Flags().Lookup("schema"))

	loadMySQLCmd.Flags().String("host", "", "MySQL host (default localhost)")
	loadMySQLCmd.Flags().Int("port", 0, "MySQL port (default 3306)")
	loadMySQLCmd.Flags().String("user", "", "MySQL user (default root)")
	loadMySQLCmd.Flags().String("database", "", "MySQL database (default quickshop)")
	loadMySQLCmd.Flags().String("schema", "", "schema script to execute instead of the built-in one")
	viper.BindPFlag("mysql.host", loadMySQLCmd.Flags().Lookup("host"))
	viper.BindPFlag("mysql.port", loadMySQLCmd.Flags().Lookup("port"))
	viper.BindPFlag("mysql.user", loadMySQLCmd.Flags().Lookup("user"))
	viper.BindPFlag("mysql.database", loadMySQLCmd.Flags().Lookup("database"))
	viper.BindPFlag("mysql.schema_path", loadMySQLCmd.Flags().Lookup("schema"))

	loadPostgresCmd.Flags().String("schema", "", "schema script to execute instead of the built-in one")
	viper.BindPFlag("postgres.schema_path", loadPostgresCmd.Flags().Lookup("schema"))

	loadCmd.AddCommand(loadSQLiteCmd, loadMySQLCmd, loadPostgresCmd)
	rootCmd.AddCommand(loadCmd)
}

func loadOptions(cfg *config.Config) loader.Options {
	return loader.Options{
		DataDir:      cfg.DataDir,
		BatchSize:    cfg.Load.BatchSize,
		AtomicTables: cfg.Load.AtomicTables,
		Reset:        cfg.Load.Reset,
		Verify:       !noVerify,
	}
}

func runLoadSQLite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	script, err := schema.Load("sqlite", cfg.SQLite.SchemaPath)
	if err != nil {
		return err
	}

	opts := loadOptions(cfg)
	opts.Schema = script

	color.Cyan("🗄️  Loading %s into SQLite %s", cfg.DataDir, cfg.SQLite.Path)
	report, err := loader.RunSQLite(cmd.Context(), cfg.SQLite.Path, opts)
	if err != nil {
		printHints(err, cfg, "sqlite")
		return err
	}

	return finishLoad(cfg, report)
}

func runLoadMySQL(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := loadOptions(cfg)
	if cfg.MySQL.ApplySchema {
		if opts.Schema, err = schema.Load("mysql", cfg.MySQL.SchemaPath); err != nil {
			return err
		}
	}

	color.Cyan("🐬 Loading %s into MySQL %s:%d/%s", cfg.DataDir, cfg.MySQL.Host, cfg.MySQL.Port, cfg.MySQL.Database)
	report, err := loader.RunNetwork(cmd.Context(), mysqlConnector(cfg), opts)
	if err != nil {
		printHints(err, cfg, "mysql")
		return err
	}

	return finishLoad(cfg, report)
}

func runLoadPostgres(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := loadOptions(cfg)
	if cfg.Postgres.ApplySchema {
		if opts.Schema, err = schema.Load("postgres", cfg.Postgres.SchemaPath); err != nil {
			return err
		}
	}

	color.Cyan("🐘 Loading %s into PostgreSQL", cfg.DataDir)
	report, err := loader.RunNetwork(cmd.Context(), postgresConnector(cfg), opts)
	if err != nil {
		printHints(err, cfg, "postgres")
		return err
	}

	return finishLoad(cfg, report)
}

func mysqlConnector(cfg *config.Config) loader.Connector {
	return func(ctx context.Context) (database.DatabaseAdapter, error) {
		dsn := mysql.FormatDSN(mysql.ConnOptions{
			Host:     cfg.MySQL.Host,
			Port:     cfg.MySQL.Port,
			User:     cfg.MySQL.User,
			Password: cfg.MySQL.Password,
			Database: cfg.MySQL.Database,
			Timeout:  cfg.MySQL.ConnectTimeout,
		})
		return database.Open(ctx, "mysql", dsn)
	}
}

func postgresConnector(cfg *config.Config) loader.Connector {
	return func(ctx context.Context) (database.DatabaseAdapter, error) {
		dbURL, err := cfg.GetDatabaseURL()
		if err != nil {
			return nil, err
		}
		return database.Open(ctx, "postgres", dbURL)
	}
}

func finishLoad(cfg *config.Config, report *loader.Report) error {
	loader.PrintReport(report)

	if report.Verification != nil {
		checkManifest(cfg.DataDir, report.Verification)
	}

	if failed := len(report.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d tables failed to load", failed, report.Total())
	}
	return nil
}

// checkManifest compares the verified row counts with the manifest the
// generator left in dataDir, when there is one.
func checkManifest(dataDir string, summary *loader.Summary) {
	if _, err := os.Stat(filepath.Join(dataDir, generator.ManifestFile)); err != nil {
		return
	}

	manifest, err := generator.ReadManifest(dataDir)
	if err != nil {
		color.Yellow("⚠️  %v", err)
		return
	}

	mismatches := summary.CompareManifest(manifest)
	if len(mismatches) == 0 {
		color.Green("✅ Row counts match manifest (dataset %s)", manifest.DatasetID)
		return
	}
	for _, m := range mismatches {
		color.Yellow("⚠️  %s", m)
	}
}

func printHints(err error, cfg *config.Config, target string) {
	switch {
	case errors.Is(err, loader.ErrMissingFiles):
		color.Yellow("💡 Run 'quickshop generate --data-dir %s' first", cfg.DataDir)

	case errors.Is(err, loader.ErrConnect):
		color.Red("❌ Could not connect to %s", target)
		switch target {
		case "mysql":
			color.Yellow("💡 Check that MySQL is running and reachable at %s:%d", cfg.MySQL.Host, cfg.MySQL.Port)
			color.Yellow("💡 Verify the credentials (QUICKSHOP_MYSQL_USER, QUICKSHOP_MYSQL_PASSWORD)")
			color.Yellow("💡 Make sure the database exists: CREATE DATABASE %s;", cfg.MySQL.Database)
		case "postgres":
			color.Yellow("💡 Check that %s holds a valid connection URL", cfg.Postgres.URLEnv)
			color.Yellow("💡 Check that PostgreSQL is running and accepts connections")
		}
	}
}

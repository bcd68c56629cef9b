package cmd

import (
	"fmt"

	"github.com/Rana718/quickshop/internal/export"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <sqlite|mysql|postgres>",
	Short: "Dump the loaded tables back to CSV",
	Long: `
Reads every QuickShop table from a loaded database and writes it as CSV in
the generator's encoding. A database loaded from an unmodified dataset
exports files identical to the generated ones.

Examples:
  quickshop export sqlite --out roundtrip
  diff -r data roundtrip`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"sqlite", "mysql", "postgres"},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "export", "directory to write the CSV files to")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	color.Cyan("📤 Exporting tables from %s...", args[0])
	paths, err := export.PerformExport(ctx, adapter, exportOut)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	for _, p := range paths {
		color.Green("  ✅ %s", p)
	}
	color.Green("🎉 Exported %d tables to %s", len(paths), exportOut)
	return nil
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cardcache/internal/contract"
	"cardcache/internal/outwriter"
	"cardcache/internal/parquet"
	"cardcache/internal/pricedb"
	"cardcache/schema"
)

// pricedbCmd focused on price database management.
var pricedbCmd = &cobra.Command{
	Use:   "pricedb",
	Short: "Manage the authoritative price database",
	Long: `Manage the price snapshot database that backs pricing reconciliation.

Every price observation pushed by any node lands here, keyed by card,
variation and observation time. The database is append-only: snapshots are
never updated in place, so historical prices stay queryable.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (cache-only)

Subcommands:
  status  - Show snapshot counts and connection info
  export  - Export snapshots to Parquet for analytics
  migrate - Run database schema migrations

Examples:
  # Check price database status
  cardcache pricedb status

  # Export for analysis in pandas/DuckDB
  cardcache pricedb export --output-file prices`,
}

// pricedbStatusCmd shows price database status.
var pricedbStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display price database statistics and connection details",
	PreRunE: priceDBSetupWrapper,
	PostRun: closeStores,
	RunE: func(_ *cobra.Command, _ []string) error {
		status, err := priceStore.Status(rootCtx)
		if err != nil {
			return fmt.Errorf("failed to get price database status: %w", err)
		}
		outwriter.PrintPriceDBStatus(status)
		return nil
	},
}

// pricedbExportCmd exports snapshots to Parquet.
var pricedbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export price snapshots to a Parquet file",
	Long: `Export every stored price snapshot to Parquet.

The resulting file can be used with Apache Spark, Apache Arrow, Pandas
(via pyarrow), DuckDB, and any other Parquet-compatible tool.

Examples:
  # Export to prices.price_snapshots.parquet
  cardcache pricedb export --output-file prices`,
	PreRunE: priceDBSetupWrapper,
	PostRun: closeStores,
	RunE: func(_ *cobra.Command, _ []string) error {
		outputFile := viper.GetString("output-file")
		if outputFile == "" {
			return errors.New("--output-file is required for export command")
		}

		status, err := priceStore.Status(rootCtx)
		if err != nil {
			return fmt.Errorf("failed to get price database status: %w", err)
		}
		if status.TotalSnapshots == 0 {
			return errors.New("no price snapshots found to export")
		}

		fmt.Printf("Exporting data from %s backend...\n", status.Backend)
		fmt.Printf("Total snapshots: %d\n", status.TotalSnapshots)

		snaps, err := priceStore.AllSnapshots(rootCtx)
		if err != nil {
			return fmt.Errorf("failed to retrieve price snapshots: %w", err)
		}

		rows, err := parquet.ConvertPriceSnapshots(snaps)
		if err != nil {
			return fmt.Errorf("failed to convert price snapshots: %w", err)
		}

		snapshotsFile := outputFile + ".price_snapshots.parquet"
		if err := parquet.WritePriceSnapshotsParquet(rows, snapshotsFile); err != nil {
			return fmt.Errorf("failed to write price snapshots: %w", err)
		}
		fmt.Printf("Exported %d snapshots to: %s\n", len(rows), snapshotsFile)

		return nil
	},
}

// pricedbMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT connect the store or create tables,
// allowing migrations to run on a fresh database.
func pricedbMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("pricedb-backend"))
	connStr := viper.GetString("pricedb-connect")

	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetPriceDBFilePath()
	}

	cfg.PriceDBBackend = backend
	cfg.PriceDBConnect = connStr

	return nil
}

// pricedbMigrateCmd runs schema migrations.
var pricedbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run price database schema migrations",
	Long: `Apply or roll back price database schema migrations.

Examples:
  # Migrate to the latest version
  cardcache pricedb migrate

  # Roll back everything
  cardcache pricedb migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return pricedbMigrateSetup()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		targetVersion := viper.GetInt("target-version")
		return pricedb.Migrate(cfg.PriceDBBackend, cfg.PriceDBConnect, targetVersion)
	},
}

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cardcache/core"
	"cardcache/internal/outwriter"
)

// syncCmd focused on reconciliation with the price database.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile cached prices with the price database",
	Long: `Reconcile the pricing namespace with the authoritative price database.

Pull rewrites cached quotes from database snapshots that are newer than the
cached observation. Push mirrors locally observed quotes into the database so
other nodes can pull them. Both directions are idempotent: a second pass with
no new data reports zero writes.

Subcommands:
  run  - Push then pull (full reconciliation)
  push - Mirror local observations into the database
  pull - Refresh cached quotes from the database

Examples:
  # Full reconciliation against the default SQLite price database
  cardcache sync run

  # Push to a shared MySQL price database
  CARDCACHE_PRICEDB_BACKEND=mysql CARDCACHE_PRICEDB_CONNECT="..." cardcache sync push`,
}

// syncRunCmd performs a full reconciliation pass.
var syncRunCmd = &cobra.Command{
	Use:     "run",
	Short:   "Push local observations, then pull newer snapshots",
	PreRunE: priceDBSetupWrapper,
	PostRun: closeStores,
	RunE: func(_ *cobra.Command, _ []string) error {
		engine := core.NewSyncEngine(cacheStore, priceStore, cfg.SyncBatchSize)
		report, err := engine.Run(rootCtx)
		outwriter.PrintSyncReport(report, viper.GetInt("width"))
		return err
	},
}

// syncPushCmd mirrors local observations into the price database.
var syncPushCmd = &cobra.Command{
	Use:     "push",
	Short:   "Mirror locally observed prices into the price database",
	PreRunE: priceDBSetupWrapper,
	PostRun: closeStores,
	RunE: func(_ *cobra.Command, _ []string) error {
		engine := core.NewSyncEngine(cacheStore, priceStore, cfg.SyncBatchSize)
		report, err := engine.Push(rootCtx)
		outwriter.PrintSyncReport(report, viper.GetInt("width"))
		return err
	},
}

// syncPullCmd refreshes cached quotes from the price database. Positional
// arguments limit the pull to specific fingerprints.
var syncPullCmd = &cobra.Command{
	Use:     "pull [fingerprint...]",
	Short:   "Refresh cached prices from newer database snapshots",
	PreRunE: priceDBSetupWrapper,
	PostRun: closeStores,
	RunE: func(_ *cobra.Command, args []string) error {
		var fingerprints []string
		if len(args) > 0 {
			fingerprints = args
		}
		engine := core.NewSyncEngine(cacheStore, priceStore, cfg.SyncBatchSize)
		report, err := engine.Pull(rootCtx, fingerprints)
		outwriter.PrintSyncReport(report, viper.GetInt("width"))
		return err
	},
}

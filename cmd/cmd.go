// Package cmd defines the command-line interface for cardcache.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cardcache/internal/contract"
	"cardcache/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(pricedbCmd)
	rootCmd.AddCommand(fingerprintCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the fingerprint subcommands to the parent fingerprint command
	fingerprintCmd.AddCommand(fingerprintPricingCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheWarmCmd)

	// Add the sync subcommands to the parent sync command
	syncCmd.AddCommand(syncRunCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)

	// Add the pricedb subcommands to the parent pricedb command
	pricedbCmd.AddCommand(pricedbStatusCmd)
	pricedbCmd.AddCommand(pricedbExportCmd)
	pricedbCmd.AddCommand(pricedbMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("cache-root", "", "Directory for on-disk cache entries (defaults to the user cache dir)")
	rootCmd.PersistentFlags().String("pricing-ttl", "", "TTL for pricing entries (e.g. 24h)")
	rootCmd.PersistentFlags().String("ebay-url-ttl", "", "TTL for hosted image URL entries (e.g. 168h)")
	rootCmd.PersistentFlags().String("title-ttl", "", "TTL for listing title entries (e.g. 168h)")
	rootCmd.PersistentFlags().String("identification-ttl", "", "TTL for identification entries (e.g. 720h)")
	rootCmd.PersistentFlags().String("card-data-ttl", "", "TTL for card data entries (e.g. 720h)")
	rootCmd.PersistentFlags().Int("sync-batch-size", contract.DefaultSyncBatchSize, "Entries per reconciliation batch")
	rootCmd.PersistentFlags().String("wait-timeout", "", "How long a caller waits on a shared computation (e.g. 30s)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("pricedb-backend", string(schema.SQLiteBackend), "Price database backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("pricedb-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of cacheCleanupCmd to Viper
	cacheCleanupCmd.Flags().String("namespace", "", "Limit cleanup to one namespace")
	if err := viper.BindPFlags(cacheCleanupCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache cleanup flags", err)
	}

	// Flags of fingerprintPricingCmd are read directly; they describe one card,
	// not process configuration, so they stay out of Viper.
	fingerprintPricingCmd.Flags().String("name", "", "Card name (required)")
	fingerprintPricingCmd.Flags().String("set", "", "Set name")
	fingerprintPricingCmd.Flags().String("number", "", "Collector number")
	fingerprintPricingCmd.Flags().String("finish", "", "Finish (e.g. Holo, Reverse Holo)")
	fingerprintPricingCmd.Flags().String("language", "", "Card language (defaults to en)")
	fingerprintPricingCmd.Flags().StringSlice("characteristic", nil, "Unique characteristic (repeatable)")

	// Bind all flags of pricedbExportCmd to Viper
	pricedbExportCmd.Flags().String("output-file", "", "Path prefix for the exported Parquet file")
	if err := viper.BindPFlags(pricedbExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding pricedb export flags", err)
	}

	// Bind all flags of pricedbMigrateCmd to Viper
	pricedbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(pricedbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding pricedb migrate flags", err)
	}
}

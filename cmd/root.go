package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cardcache/internal/cachestats"
	"cardcache/internal/contract"
	"cardcache/internal/diskcache"
	"cardcache/internal/pricedb"
	"cardcache/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// stats collects hit/miss counters for the lifetime of this invocation.
var stats = cachestats.NewCollector()

// cacheStore is the disk-backed entry store, opened by setup.
var cacheStore *diskcache.Store

// priceStore is the authoritative price database, opened by commands that need it.
var priceStore contract.PriceStore

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "cardcache",
	Short:              "Cache and reconcile results of the card identification pipeline.",
	Long:               `Cardcache stores expensive pipeline results (card identification, card data, hosted images, listing titles, prices) on disk and keeps the pricing namespace in sync with the authoritative price database.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".cardcache") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("CARDCACHE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("cache-root", "")
	viper.SetDefault("pricing-ttl", "")
	viper.SetDefault("ebay-url-ttl", "")
	viper.SetDefault("title-ttl", "")
	viper.SetDefault("identification-ttl", "")
	viper.SetDefault("card-data-ttl", "")
	viper.SetDefault("sync-batch-size", contract.DefaultSyncBatchSize)
	viper.SetDefault("wait-timeout", "")
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("pricedb-backend", schema.SQLiteBackend)
	viper.SetDefault("pricedb-connect", "")
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".cardcache")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// sharedSetup unmarshals config, runs validation, and opens the entry store.
func sharedSetup() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	// This function populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Open the disk-backed entry store with validated config.
	store, err := diskcache.NewStore(cfg.CacheRoot, cfg.TTLs, stats)
	if err != nil {
		return fmt.Errorf("failed to open cache store: %w", err)
	}
	cacheStore = store

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide PreRunE for cache commands.
func sharedSetupWrapper(_ *cobra.Command, _ []string) error {
	return sharedSetup()
}

// priceDBSetup runs sharedSetup and additionally connects the price database.
func priceDBSetup() error {
	if err := sharedSetup(); err != nil {
		return err
	}
	store, err := pricedb.NewStore(cfg.PriceDBBackend, cfg.PriceDBConnect)
	if err != nil {
		return fmt.Errorf("failed to open price database: %w", err)
	}
	priceStore = store
	return nil
}

// priceDBSetupWrapper wraps priceDBSetup to provide PreRunE for sync and pricedb commands.
func priceDBSetupWrapper(_ *cobra.Command, _ []string) error {
	return priceDBSetup()
}

// closeStores releases any store opened during setup.
func closeStores(_ *cobra.Command, _ []string) {
	if cacheStore != nil {
		if err := cacheStore.Close(); err != nil {
			contract.LogWarn("Failed to close cache store", err)
		}
	}
	if priceStore != nil {
		if err := priceStore.Close(); err != nil {
			contract.LogWarn("Failed to close price database", err)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

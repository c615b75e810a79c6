package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cardcache/internal/contract"
	"cardcache/internal/fingerprint"
	"cardcache/internal/outwriter"
	"cardcache/schema"
)

// cacheCmd focused on cache store management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk result cache",
	Long: `Manage the on-disk cache that stores results of the identification pipeline.

Each namespace caches one kind of result:
  identification - vision model identification of card images
  card_data      - validated card database records
  ebay_url       - hosted image URLs
  pricing        - point-in-time price quotes
  title          - composed listing titles

Subcommands:
  status  - Show per-namespace entry counts and sizes
  cleanup - Remove expired entries
  clear   - Remove all cached data
  warm    - Report which card images still need identification

Examples:
  # Check cache status
  cardcache cache status

  # Remove expired pricing entries
  cardcache cache cleanup --namespace pricing`,
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display per-namespace cache statistics",
	Long: `Show detailed information about the on-disk cache.

Displays:
- Cache root directory and total entry count
- Per-namespace entry counts, sizes and age bounds

Examples:
  # Check cache status
  cardcache cache status`,
	PreRunE: sharedSetupWrapper,
	PostRun: closeStores,
	RunE: func(_ *cobra.Command, _ []string) error {
		status, err := cacheStore.Status()
		if err != nil {
			return fmt.Errorf("failed to get cache status: %w", err)
		}
		return outwriter.PrintCacheStatus(status, stats.Snapshot())
	},
}

// cacheCleanupCmd removes expired entries.
var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove expired cache entries",
	Long: `Delete entries that are past their TTL.

Expired entries are also removed lazily whenever they are read; cleanup is the
bulk counterpart for reclaiming disk space without waiting for reads.

Examples:
  # Clean every namespace
  cardcache cache cleanup

  # Clean only pricing entries
  cardcache cache cleanup --namespace pricing`,
	PreRunE: sharedSetupWrapper,
	PostRun: closeStores,
	RunE: func(_ *cobra.Command, _ []string) error {
		namespaces := schema.AllNamespaces
		if nsFlag := viper.GetString("namespace"); nsFlag != "" {
			ns := schema.Namespace(nsFlag)
			if _, ok := schema.ValidNamespaces[ns]; !ok {
				return fmt.Errorf("unknown namespace %q. Must be one of: identification, card_data, ebay_url, pricing, title", nsFlag)
			}
			namespaces = []schema.Namespace{ns}
		}

		total := 0
		for _, ns := range namespaces {
			removed, err := cacheStore.Cleanup(ns)
			if err != nil {
				return fmt.Errorf("cleanup failed for namespace %s: %w", ns, err)
			}
			total += removed
		}
		fmt.Printf("Removed %d expired entries.\n", total)
		return nil
	},
}

// cacheWarmCmd reports which card images still need identification.
var cacheWarmCmd = &cobra.Command{
	Use:   "warm <file>...",
	Short: "Report which card images are not yet identified in the cache",
	Long: `Check a batch of card images against the identification namespace.

Images are fingerprinted and looked up without triggering identification, so
the command is cheap to run before a large upload to see how much work the
pipeline will actually do.

Examples:
  # Check a batch of scans before processing
  cardcache cache warm scans/*.png`,
	PreRunE: sharedSetupWrapper,
	PostRun: closeStores,
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("at least one file is required")
		}
		fingerprints, failures := fingerprint.FilesConcurrent(args, cfg.Workers)
		cached := make(map[string]bool, len(fingerprints))
		for path, fp := range fingerprints {
			_, found, err := cacheStore.Get(schema.NamespaceIdentification, fp)
			if err != nil {
				return fmt.Errorf("cache check failed for %s: %w", path, err)
			}
			cached[path] = found
		}
		return outwriter.PrintWarmReport(cached, failures, viper.GetInt("width"))
	},
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached data",
	Long: `Delete every entry in every namespace.

Use this when:
- The identification pipeline changed and cached results are no longer valid
- Cache may be stale or corrupted
- Testing pipeline performance without cache

Examples:
  # Clear the whole cache
  cardcache cache clear`,
	PreRunE: sharedSetupWrapper,
	PostRun: closeStores,
	Run: func(_ *cobra.Command, _ []string) {
		if err := cacheStore.Clear(); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

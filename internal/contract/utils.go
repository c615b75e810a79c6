package contract

import (
	"fmt"
	"os"
	"path/filepath"
)

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDefaultCacheRoot returns the default directory for on-disk cache entries.
func GetDefaultCacheRoot() string {
	baseDir, err := os.UserCacheDir()
	if err != nil {
		return ".cardcache"
	}
	return filepath.Join(baseDir, "cardcache")
}

// GetPriceDBFilePath returns the path to the SQLite DB file for price storage.
func GetPriceDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cardcache_prices.db"
	}
	return filepath.Join(homeDir, ".cardcache_prices.db")
}

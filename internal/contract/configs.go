package contract

import (
	"fmt"
	"runtime"
	"time"

	"cardcache/schema"
)

// Default values for configuration.
const (
	DefaultPricingTTL        = 24 * time.Hour      // market prices move daily
	DefaultEbayURLTTL        = 7 * 24 * time.Hour  // hosted images are recycled weekly
	DefaultTitleTTL          = 7 * 24 * time.Hour  // titles follow pricing copy
	DefaultIdentificationTTL = 30 * 24 * time.Hour // a physical card does not change
	DefaultCardDataTTL       = 30 * 24 * time.Hour

	DefaultSyncBatchSize = 50
	MaxSyncBatchSize     = 500

	DefaultWaitTimeout = 30 * time.Second
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for the cache subsystem.
// This struct remains the "final, validated" config.
type Config struct {
	CacheRoot string

	// TTLs maps each namespace to its maximum entry age.
	TTLs map[schema.Namespace]time.Duration

	SyncBatchSize int
	WaitTimeout   time.Duration
	Workers       int

	PriceDBBackend schema.DatabaseBackend
	PriceDBConnect string // Please use env var as this is plaintext
}

// TTLFor returns the configured TTL for a namespace, falling back to the
// namespace default when unset.
func (c *Config) TTLFor(ns schema.Namespace) time.Duration {
	if ttl, ok := c.TTLs[ns]; ok && ttl > 0 {
		return ttl
	}
	return DefaultTTLFor(ns)
}

// DefaultTTLFor returns the built-in TTL default for a namespace.
func DefaultTTLFor(ns schema.Namespace) time.Duration {
	switch ns {
	case schema.NamespacePricing:
		return DefaultPricingTTL
	case schema.NamespaceEbayURL:
		return DefaultEbayURLTTL
	case schema.NamespaceTitle:
		return DefaultTitleTTL
	case schema.NamespaceCardData:
		return DefaultCardDataTTL
	default:
		return DefaultIdentificationTTL
	}
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	CacheRoot         string `mapstructure:"cache-root"`
	PricingTTL        string `mapstructure:"pricing-ttl"`
	EbayURLTTL        string `mapstructure:"ebay-url-ttl"`
	TitleTTL          string `mapstructure:"title-ttl"`
	IdentificationTTL string `mapstructure:"identification-ttl"`
	CardDataTTL       string `mapstructure:"card-data-ttl"`
	SyncBatchSize     int    `mapstructure:"sync-batch-size"`
	WaitTimeout       string `mapstructure:"wait-timeout"`
	Workers           int    `mapstructure:"workers"`
	PriceDBBackend    string `mapstructure:"pricedb-backend"`
	PriceDBConnect    string `mapstructure:"pricedb-connect"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Cache root ---
	cfg.CacheRoot = input.CacheRoot
	if cfg.CacheRoot == "" {
		cfg.CacheRoot = GetDefaultCacheRoot()
	}

	// --- 2. Per-namespace TTLs ---
	cfg.TTLs = make(map[schema.Namespace]time.Duration)
	ttlInputs := []struct {
		ns  schema.Namespace
		raw string
	}{
		{schema.NamespacePricing, input.PricingTTL},
		{schema.NamespaceEbayURL, input.EbayURLTTL},
		{schema.NamespaceTitle, input.TitleTTL},
		{schema.NamespaceIdentification, input.IdentificationTTL},
		{schema.NamespaceCardData, input.CardDataTTL},
	}
	for _, in := range ttlInputs {
		if in.raw == "" {
			cfg.TTLs[in.ns] = DefaultTTLFor(in.ns)
			continue
		}
		d, err := time.ParseDuration(in.raw)
		if err != nil {
			return fmt.Errorf("invalid TTL %q for namespace %s: %w", in.raw, in.ns, err)
		}
		if d <= 0 {
			return fmt.Errorf("TTL for namespace %s must be positive (received %s)", in.ns, d)
		}
		cfg.TTLs[in.ns] = d
	}

	// --- 3. Sync batch size ---
	cfg.SyncBatchSize = input.SyncBatchSize
	if cfg.SyncBatchSize <= 0 {
		cfg.SyncBatchSize = DefaultSyncBatchSize
	}
	if cfg.SyncBatchSize > MaxSyncBatchSize {
		return fmt.Errorf("sync batch size cannot exceed %d (received %d)", MaxSyncBatchSize, cfg.SyncBatchSize)
	}

	// --- 4. Wait timeout ---
	cfg.WaitTimeout = DefaultWaitTimeout
	if input.WaitTimeout != "" {
		d, err := time.ParseDuration(input.WaitTimeout)
		if err != nil {
			return fmt.Errorf("invalid wait timeout %q: %w", input.WaitTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("wait timeout must be positive (received %s)", d)
		}
		cfg.WaitTimeout = d
	}

	// --- 5. Workers ---
	cfg.Workers = input.Workers
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}

	// --- 6. Price database backend ---
	backend := schema.DatabaseBackend(input.PriceDBBackend)
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid pricedb backend %q. Must be sqlite, mysql, postgresql, or none", input.PriceDBBackend)
	}
	if err := ValidateDatabaseConnectionString(backend, input.PriceDBConnect); err != nil {
		return err
	}
	cfg.PriceDBBackend = backend
	cfg.PriceDBConnect = input.PriceDBConnect

	return nil
}

// ValidateDatabaseConnectionString checks that networked backends carry a
// connection string. SQLite falls back to the default file path.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("mysql backend requires a connection string (user:password@tcp(host:port)/dbname)")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("postgresql backend requires a connection string (host=... port=... user=... dbname=...)")
		}
	}
	return nil
}

package schema

// Custom string types for type safety.
type (
	// Namespace represents a semantic partition of the cache.
	Namespace string

	// Source represents the provenance of a cache entry.
	Source string

	// DatabaseBackend represents the database backend for the price store.
	DatabaseBackend string
)

// All cache namespaces supported.
const (
	NamespaceIdentification Namespace = "identification" // card identification results
	NamespaceCardData       Namespace = "card_data"      // validated card records
	NamespaceEbayURL        Namespace = "ebay_url"       // hosted image URLs
	NamespacePricing        Namespace = "pricing"        // price quotes
	NamespaceTitle          Namespace = "title"          // composed listing titles
)

// All entry sources supported.
const (
	SourceAPI          Source = "api"           // fetched from a paid external call
	SourceDatabaseSync Source = "database-sync" // reconciled from the price database
	SourceManual       Source = "manual"        // operator-supplied
)

// All price database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllNamespaces returns a list of all supported namespaces.
var AllNamespaces = []Namespace{
	NamespaceIdentification,
	NamespaceCardData,
	NamespaceEbayURL,
	NamespacePricing,
	NamespaceTitle,
}

// ValidNamespaces lists all valid namespaces.
var ValidNamespaces = map[Namespace]struct{}{
	NamespaceIdentification: {},
	NamespaceCardData:       {},
	NamespaceEbayURL:        {},
	NamespacePricing:        {},
	NamespaceTitle:          {},
}

// ValidSources lists all valid entry sources.
var ValidSources = map[Source]struct{}{
	SourceAPI:          {},
	SourceDatabaseSync: {},
	SourceManual:       {},
}

// ValidDatabaseBackends lists all valid price database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

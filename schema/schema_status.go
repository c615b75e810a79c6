package schema

import "time"

// NamespaceStatus summarizes one on-disk cache namespace.
type NamespaceStatus struct {
	Namespace  Namespace `json:"namespace"`
	Entries    int       `json:"entries"`
	SizeBytes  int64     `json:"size_bytes"`
	OldestTime time.Time `json:"oldest_time"`
	NewestTime time.Time `json:"newest_time"`
}

// CacheStatus represents the status of the on-disk cache store.
type CacheStatus struct {
	Root         string            `json:"root"`
	TotalEntries int               `json:"total_entries"`
	Namespaces   []NamespaceStatus `json:"namespaces"`
}

// PriceDBStatus represents the status of the authoritative price store.
type PriceDBStatus struct {
	Backend          string    `json:"backend"`
	Connected        bool      `json:"connected"`
	TotalSnapshots   int       `json:"total_snapshots"`
	LastSnapshotTime time.Time `json:"last_snapshot_time"`
	OldestSnapshot   time.Time `json:"oldest_snapshot_time"`
	TableSizeBytes   int64     `json:"table_size_bytes"`
}

// StatsSnapshot is a point-in-time copy of one namespace's cache counters.
// Counters are monotonic; there is no ordering guarantee across namespaces.
type StatsSnapshot struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Errors    uint64 `json:"errors"`
	Evictions uint64 `json:"evictions"`
}

// PriceSnapshot is a row in the authoritative price store.
type PriceSnapshot struct {
	CardID        string
	VariationID   string
	Timestamp     time.Time
	Prices        map[string]float64
	Source        string
	Condition     string
	Currency      string
	Volume        *int32
	ListingsCount *int32
}

// SyncReport summarizes one reconciliation pass between the pricing namespace
// and the price database. Per-record failures are isolated and retried on the
// next pass; they never abort a batch.
type SyncReport struct {
	PulledUpdates  int      `json:"pulled_updates"`
	PushedRecords  int      `json:"pushed_records"`
	Unchanged      int      `json:"unchanged"`
	Skipped        int      `json:"skipped"`
	Failed         int      `json:"failed"`
	FailureDetails []string `json:"failure_details,omitempty"`
}

// Merge folds another report into this one.
func (r *SyncReport) Merge(other SyncReport) {
	r.PulledUpdates += other.PulledUpdates
	r.PushedRecords += other.PushedRecords
	r.Unchanged += other.Unchanged
	r.Skipped += other.Skipped
	r.Failed += other.Failed
	r.FailureDetails = append(r.FailureDetails, other.FailureDetails...)
}

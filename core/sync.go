package core

import (
	"context"
	"fmt"

	"cardcache/internal/contract"
	"cardcache/schema"
)

// SyncEngine reconciles the pricing namespace with the authoritative price
// database. Pull refreshes cached quotes from newer database snapshots; push
// mirrors locally computed quotes into the database.
type SyncEngine struct {
	cache     contract.EntryStore
	prices    contract.PriceStore
	batchSize int
}

// NewSyncEngine creates a reconciliation engine. batchSize bounds how many
// entries are processed per batch; out-of-range values apply the default.
func NewSyncEngine(cache contract.EntryStore, prices contract.PriceStore, batchSize int) *SyncEngine {
	if batchSize <= 0 || batchSize > contract.MaxSyncBatchSize {
		batchSize = contract.DefaultSyncBatchSize
	}
	return &SyncEngine{
		cache:     cache,
		prices:    prices,
		batchSize: batchSize,
	}
}

// Run performs a full reconciliation pass: push local observations first so
// the database sees everything this node knows, then pull anything fresher
// back. Running it again with no new data reports zero writes.
func (se *SyncEngine) Run(ctx context.Context) (schema.SyncReport, error) {
	report, err := se.Push(ctx)
	if err != nil {
		return report, err
	}
	pullReport, err := se.Pull(ctx, nil)
	report.Merge(pullReport)
	return report, err
}

// Push mirrors API-sourced pricing entries into the price database and
// re-tags them as synced. Entries already synced are counted as unchanged;
// quotes that carry no card identity cannot be keyed in the database and are
// skipped. Per-record failures are isolated and retried on the next pass.
func (se *SyncEngine) Push(ctx context.Context) (schema.SyncReport, error) {
	entries, err := se.collectPricingEntries(nil)
	if err != nil {
		return schema.SyncReport{}, fmt.Errorf("push: %w", err)
	}

	var report schema.SyncReport
	for _, batch := range chunkEntries(entries, se.batchSize) {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("push interrupted: %w", err)
		}
		for _, entry := range batch {
			se.pushEntry(ctx, entry, &report)
		}
	}
	return report, nil
}

// pushEntry mirrors one cache entry into the price database.
func (se *SyncEngine) pushEntry(ctx context.Context, entry schema.Entry, report *schema.SyncReport) {
	if entry.Source == schema.SourceDatabaseSync {
		report.Unchanged++
		return
	}

	quote, ok := entry.Value.(*schema.PriceQuote)
	if !ok {
		report.Skipped++
		return
	}
	if quote.CardID == "" {
		// Anonymous quotes are cache-only; nothing to key the database row on.
		report.Skipped++
		return
	}

	snap := schema.PriceSnapshot{
		CardID:        quote.CardID,
		VariationID:   quote.VariationID,
		Timestamp:     entry.CreatedAt,
		Prices:        quote.Prices,
		Source:        quote.PriceSource,
		Condition:     quote.Condition,
		Currency:      quote.Currency,
		Volume:        quote.Volume,
		ListingsCount: quote.ListingsCount,
	}
	if err := se.prices.StoreSnapshot(ctx, snap); err != nil {
		report.Failed++
		report.FailureDetails = append(report.FailureDetails,
			fmt.Sprintf("push %s: %v", entry.Fingerprint, err))
		return
	}

	// Re-tag as synced without touching CreatedAt, so mirroring never
	// extends the entry's freshness.
	entry.Source = schema.SourceDatabaseSync
	if err := se.cache.Put(entry); err != nil {
		report.Failed++
		report.FailureDetails = append(report.FailureDetails,
			fmt.Sprintf("push re-tag %s: %v", entry.Fingerprint, err))
		return
	}
	report.PushedRecords++
}

// Pull refreshes cached pricing entries from the price database. Only entries
// whose fingerprint is in the filter are considered; a nil filter means all.
// An entry is rewritten only when the database holds a snapshot strictly
// newer than the entry, so repeated pulls converge to zero updates.
func (se *SyncEngine) Pull(ctx context.Context, fingerprints []string) (schema.SyncReport, error) {
	var filter map[string]bool
	if fingerprints != nil {
		filter = make(map[string]bool, len(fingerprints))
		for _, fp := range fingerprints {
			filter[fp] = true
		}
	}

	entries, err := se.collectPricingEntries(filter)
	if err != nil {
		return schema.SyncReport{}, fmt.Errorf("pull: %w", err)
	}

	var report schema.SyncReport
	for _, batch := range chunkEntries(entries, se.batchSize) {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("pull interrupted: %w", err)
		}
		for _, entry := range batch {
			se.pullEntry(ctx, entry, &report)
		}
	}
	return report, nil
}

// pullEntry refreshes one cache entry from the price database.
func (se *SyncEngine) pullEntry(ctx context.Context, entry schema.Entry, report *schema.SyncReport) {
	quote, ok := entry.Value.(*schema.PriceQuote)
	if !ok || quote.CardID == "" {
		report.Skipped++
		return
	}

	snap, found, err := se.prices.RecentSnapshot(ctx, quote.CardID, quote.VariationID, entry.CreatedAt)
	if err != nil {
		report.Failed++
		report.FailureDetails = append(report.FailureDetails,
			fmt.Sprintf("pull %s: %v", entry.Fingerprint, err))
		return
	}
	if !found {
		report.Unchanged++
		return
	}

	refreshed := &schema.PriceQuote{
		CardID:        snap.CardID,
		VariationID:   snap.VariationID,
		Prices:        snap.Prices,
		PriceSource:   snap.Source,
		Condition:     snap.Condition,
		Currency:      snap.Currency,
		Volume:        snap.Volume,
		ListingsCount: snap.ListingsCount,
	}
	// The refreshed entry dates from the snapshot, not from now, so pulling
	// an aging snapshot does not grant it a full TTL.
	if err := se.cache.Put(schema.Entry{
		Namespace:   schema.NamespacePricing,
		Fingerprint: entry.Fingerprint,
		Value:       refreshed,
		CreatedAt:   snap.Timestamp,
		TTL:         entry.TTL,
		Source:      schema.SourceDatabaseSync,
	}); err != nil {
		report.Failed++
		report.FailureDetails = append(report.FailureDetails,
			fmt.Sprintf("pull rewrite %s: %v", entry.Fingerprint, err))
		return
	}
	report.PulledUpdates++
}

// collectPricingEntries snapshots the pricing namespace, optionally filtered
// by fingerprint. Expired entries are included so a pull can resurrect a
// stale quote from a newer database snapshot.
func (se *SyncEngine) collectPricingEntries(filter map[string]bool) ([]schema.Entry, error) {
	var entries []schema.Entry
	err := se.cache.ScanNamespace(schema.NamespacePricing, func(entry schema.Entry) bool {
		if filter == nil || filter[entry.Fingerprint] {
			entries = append(entries, entry)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// chunkEntries splits entries into batches of at most size.
func chunkEntries(entries []schema.Entry, size int) [][]schema.Entry {
	var batches [][]schema.Entry
	for start := 0; start < len(entries); start += size {
		end := min(start+size, len(entries))
		batches = append(batches, entries[start:end])
	}
	return batches
}

// Package contract provides interfaces and shared utilities for cardcache's internal architecture.
package contract

import (
	"context"
	"time"

	"cardcache/schema"
)

// EntryStore defines the interface for the durable cache entry store.
// This allows the store to be mocked for testing.
type EntryStore interface {
	// Get returns the fresh entry for the key, or found=false when the key is
	// absent, expired, or structurally corrupt. The three cases are
	// indistinguishable to the caller by design.
	Get(ns schema.Namespace, fingerprint string) (schema.Entry, bool, error)

	// Set overwrites any existing entry with a fresh timestamp and the
	// namespace's configured TTL.
	Set(ns schema.Namespace, fingerprint string, value schema.Value, source schema.Source) error

	// Put overwrites any existing entry, preserving the timestamps carried by
	// the entry itself. Used by reconciliation to re-tag entries without
	// extending their freshness.
	Put(entry schema.Entry) error

	// Delete removes an entry; deleting an absent key is not an error.
	Delete(ns schema.Namespace, fingerprint string) error

	// ScanNamespace walks every structurally valid entry in a namespace,
	// including expired ones, until fn returns false or the namespace is
	// exhausted. There is no live-update guarantee mid-scan.
	ScanNamespace(ns schema.Namespace, fn func(schema.Entry) bool) error

	// Close releases the store.
	Close() error
}

// PriceStore defines the interface for the authoritative price database.
// This allows the price layer to be mocked for testing.
type PriceStore interface {
	// StoreSnapshot persists a price observation. Re-storing an identical
	// observation is a no-op, so push reconciliation is idempotent.
	StoreSnapshot(ctx context.Context, snap schema.PriceSnapshot) error

	// RecentSnapshot returns the newest snapshot for the card strictly after
	// cutoff, or found=false when the store has nothing fresher.
	RecentSnapshot(ctx context.Context, cardID, variationID string, cutoff time.Time) (schema.PriceSnapshot, bool, error)

	// AllSnapshots returns every stored snapshot, for export tooling.
	AllSnapshots(ctx context.Context) ([]schema.PriceSnapshot, error)

	// Status returns connection and volume information.
	Status(ctx context.Context) (schema.PriceDBStatus, error)

	// Close closes the underlying connection.
	Close() error
}

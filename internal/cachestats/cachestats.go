// Package cachestats tracks hit/miss/eviction counters for operational visibility.
package cachestats

import (
	"sync/atomic"

	"cardcache/schema"
)

// nsCounters holds the monotonic counters for one namespace.
type nsCounters struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	errors    atomic.Uint64
	evictions atomic.Uint64
}

// Collector accumulates per-namespace cache counters. Counters are purely
// observational and never authoritative for correctness. A nil Collector is
// valid and discards every event.
type Collector struct {
	counters map[schema.Namespace]*nsCounters
}

// NewCollector returns a collector covering every known namespace.
// The namespace map is fixed at construction, so recording needs no locking.
func NewCollector() *Collector {
	counters := make(map[schema.Namespace]*nsCounters, len(schema.AllNamespaces))
	for _, ns := range schema.AllNamespaces {
		counters[ns] = &nsCounters{}
	}
	return &Collector{counters: counters}
}

// RecordHit counts a cache hit.
func (c *Collector) RecordHit(ns schema.Namespace) {
	if counters := c.lookup(ns); counters != nil {
		counters.hits.Add(1)
	}
}

// RecordMiss counts a completed computation for a key that was absent.
func (c *Collector) RecordMiss(ns schema.Namespace) {
	if counters := c.lookup(ns); counters != nil {
		counters.misses.Add(1)
	}
}

// RecordError counts a failed computation.
func (c *Collector) RecordError(ns schema.Namespace) {
	if counters := c.lookup(ns); counters != nil {
		counters.errors.Add(1)
	}
}

// RecordEviction counts a removed entry (expired or corrupt).
func (c *Collector) RecordEviction(ns schema.Namespace) {
	if counters := c.lookup(ns); counters != nil {
		counters.evictions.Add(1)
	}
}

func (c *Collector) lookup(ns schema.Namespace) *nsCounters {
	if c == nil {
		return nil
	}
	return c.counters[ns]
}

// Snapshot returns a point-in-time copy of all counters. There is no
// ordering guarantee across namespaces.
func (c *Collector) Snapshot() map[schema.Namespace]schema.StatsSnapshot {
	snapshot := make(map[schema.Namespace]schema.StatsSnapshot, len(schema.AllNamespaces))
	if c == nil {
		return snapshot
	}
	for ns, counters := range c.counters {
		snapshot[ns] = schema.StatsSnapshot{
			Hits:      counters.hits.Load(),
			Misses:    counters.misses.Load(),
			Errors:    counters.errors.Load(),
			Evictions: counters.evictions.Load(),
		}
	}
	return snapshot
}

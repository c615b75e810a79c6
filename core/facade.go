// Package core has core logic for cache-or-compute orchestration and price
// reconciliation.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"cardcache/internal/cachestats"
	"cardcache/internal/contract"
	"cardcache/schema"
)

// ErrWaitTimeout is returned when a caller gives up waiting on a shared
// computation. The computation itself keeps running and its result is still
// cached for the next caller.
var ErrWaitTimeout = errors.New("timed out waiting for shared computation")

// ComputeFunc produces the value for a cache key. It is only invoked when the
// cache cannot answer, and at most once per key across concurrent callers.
type ComputeFunc func(ctx context.Context) (schema.Value, error)

// Facade is the cache-or-compute front door. Concurrent requests for the same
// key share a single in-flight computation; requests for different keys never
// block each other.
type Facade struct {
	store       contract.EntryStore
	stats       *cachestats.Collector
	waitTimeout time.Duration
	group       singleflight.Group
}

// NewFacade creates a facade over the given store. waitTimeout bounds how long
// any single caller waits on a shared computation; zero or negative applies
// the default.
func NewFacade(store contract.EntryStore, stats *cachestats.Collector, waitTimeout time.Duration) *Facade {
	if waitTimeout <= 0 {
		waitTimeout = contract.DefaultWaitTimeout
	}
	return &Facade{
		store:       store,
		stats:       stats,
		waitTimeout: waitTimeout,
	}
}

// GetOrCompute returns the cached value for the key, or runs compute to
// produce, cache and return it. Concurrent callers for the same key share one
// computation and all receive its result; a caller that times out or is
// canceled abandons only its own wait.
func (f *Facade) GetOrCompute(ctx context.Context, ns schema.Namespace, fingerprint string, compute ComputeFunc) (schema.Value, error) {
	// Fast path: answer from the cache without entering the flight group.
	entry, found, err := f.store.Get(ns, fingerprint)
	if err != nil {
		return nil, err
	}
	if found {
		f.stats.RecordHit(ns)
		return entry.Value, nil
	}

	flightKey := string(ns) + "/" + fingerprint
	resultCh := f.group.DoChan(flightKey, func() (any, error) {
		return f.computeAndStore(ctx, ns, fingerprint, compute)
	})

	timer := time.NewTimer(f.waitTimeout)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(schema.Value), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("abandoned wait for %s/%s: %w", ns, fingerprint, ctx.Err())
	case <-timer.C:
		return nil, fmt.Errorf("gave up on %s/%s after %s: %w", ns, fingerprint, f.waitTimeout, ErrWaitTimeout)
	}
}

// computeAndStore runs inside the flight group, at most once per key at a
// time. The caller's context is detached so one impatient waiter cannot
// cancel a computation other waiters share.
func (f *Facade) computeAndStore(ctx context.Context, ns schema.Namespace, fingerprint string, compute ComputeFunc) (any, error) {
	// Another caller may have completed and cached while this one queued.
	entry, found, err := f.store.Get(ns, fingerprint)
	if err != nil {
		return nil, err
	}
	if found {
		f.stats.RecordHit(ns)
		return entry.Value, nil
	}

	value, err := compute(context.WithoutCancel(ctx))
	if err != nil {
		f.stats.RecordError(ns)
		return nil, fmt.Errorf("compute %s/%s: %w", ns, fingerprint, err)
	}
	f.stats.RecordMiss(ns)

	// A failed write degrades to cache-miss behavior on the next request;
	// the computed value is still good for this one.
	if err := f.store.Set(ns, fingerprint, value, schema.SourceAPI); err != nil {
		contract.LogWarn(fmt.Sprintf("failed to cache %s/%s", ns, fingerprint), err)
	}
	return value, nil
}

// Result carries the outcome of an asynchronous cache-or-compute request.
type Result struct {
	Value schema.Value
	Err   error
}

// GetOrComputeAsync is GetOrCompute with a channel result, for pipeline stages
// that fan out several lookups before collecting. The channel is buffered so
// an abandoned result never leaks a goroutine.
func (f *Facade) GetOrComputeAsync(ctx context.Context, ns schema.Namespace, fingerprint string, compute ComputeFunc) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		value, err := f.GetOrCompute(ctx, ns, fingerprint, compute)
		ch <- Result{Value: value, Err: err}
	}()
	return ch
}

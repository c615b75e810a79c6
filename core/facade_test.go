package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardcache/internal/cachestats"
	"cardcache/internal/diskcache"
	"cardcache/schema"
)

func newTestFacade(t *testing.T, waitTimeout time.Duration) (*Facade, *cachestats.Collector) {
	t.Helper()
	stats := cachestats.NewCollector()
	store, err := diskcache.NewStore(t.TempDir(), nil, stats)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewFacade(store, stats, waitTimeout), stats
}

func titleCompute(title string) ComputeFunc {
	return func(ctx context.Context) (schema.Value, error) {
		return &schema.ListingTitle{Title: title}, nil
	}
}

func TestGetOrComputeCachesResult(t *testing.T) {
	facade, stats := newTestFacade(t, 0)
	ctx := context.Background()

	var calls atomic.Int32
	compute := func(ctx context.Context) (schema.Value, error) {
		calls.Add(1)
		return &schema.ListingTitle{Title: "Charizard Base Set Holo 4/102 NM"}, nil
	}

	first, err := facade.GetOrCompute(ctx, schema.NamespaceTitle, "fp1", compute)
	require.NoError(t, err)
	second, err := facade.GetOrCompute(ctx, schema.NamespaceTitle, "fp1", compute)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "second request must be served from cache")
	assert.Equal(t, first.(*schema.ListingTitle).Title, second.(*schema.ListingTitle).Title)

	snap := stats.Snapshot()[schema.NamespaceTitle]
	assert.Equal(t, uint64(1), snap.Misses)
	assert.Equal(t, uint64(1), snap.Hits)
}

func TestGetOrComputeDeduplicatesConcurrentCallers(t *testing.T) {
	facade, stats := newTestFacade(t, 0)
	ctx := context.Background()

	const callers = 25
	var calls atomic.Int32
	started := make(chan struct{})
	compute := func(ctx context.Context) (schema.Value, error) {
		calls.Add(1)
		<-started // Hold the flight open until every caller has queued.
		return &schema.ListingTitle{Title: "shared result"}, nil
	}

	var wg sync.WaitGroup
	results := make([]schema.Value, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = facade.GetOrCompute(ctx, schema.NamespaceTitle, "shared", compute)
		}()
	}
	// Give the callers a moment to pile onto the same flight.
	time.Sleep(50 * time.Millisecond)
	close(started)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "exactly one computation per key")
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared result", results[i].(*schema.ListingTitle).Title)
	}

	snap := stats.Snapshot()[schema.NamespaceTitle]
	assert.Equal(t, uint64(1), snap.Misses, "one miss per executed computation, not per waiter")
	assert.Zero(t, snap.Errors)
}

func TestGetOrComputeFailureIsNotCached(t *testing.T) {
	facade, stats := newTestFacade(t, 0)
	ctx := context.Background()

	wantErr := errors.New("vision model unavailable")
	var calls atomic.Int32
	flaky := func(ctx context.Context) (schema.Value, error) {
		if calls.Add(1) == 1 {
			return nil, wantErr
		}
		return &schema.ListingTitle{Title: "recovered"}, nil
	}

	_, err := facade.GetOrCompute(ctx, schema.NamespaceTitle, "flaky", flaky)
	require.ErrorIs(t, err, wantErr)

	// The failure must not poison the key; a retry computes fresh.
	value, err := facade.GetOrCompute(ctx, schema.NamespaceTitle, "flaky", flaky)
	require.NoError(t, err)
	assert.Equal(t, "recovered", value.(*schema.ListingTitle).Title)
	assert.Equal(t, int32(2), calls.Load())

	snap := stats.Snapshot()[schema.NamespaceTitle]
	assert.Equal(t, uint64(1), snap.Errors)
	assert.Equal(t, uint64(1), snap.Misses)
}

func TestGetOrComputeWaitTimeout(t *testing.T) {
	facade, _ := newTestFacade(t, 30*time.Millisecond)
	ctx := context.Background()

	release := make(chan struct{})
	defer close(release)
	slow := func(ctx context.Context) (schema.Value, error) {
		<-release
		return &schema.ListingTitle{Title: "too late"}, nil
	}

	_, err := facade.GetOrCompute(ctx, schema.NamespaceTitle, "slow", slow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWaitTimeout)
}

func TestGetOrComputeCallerCancellation(t *testing.T) {
	facade, _ := newTestFacade(t, 0)
	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	computed := make(chan struct{})
	slow := func(ctx context.Context) (schema.Value, error) {
		<-release
		close(computed)
		return &schema.ListingTitle{Title: "finished anyway"}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := facade.GetOrCompute(ctx, schema.NamespaceTitle, "canceled", slow)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// The computation keeps running after the waiter leaves and its result
	// lands in the cache for the next caller.
	close(release)
	select {
	case <-computed:
	case <-time.After(time.Second):
		t.Fatal("computation did not complete after caller cancellation")
	}

	// Probe with a failing compute so only a genuine cache hit can satisfy it.
	probe := func(ctx context.Context) (schema.Value, error) {
		return nil, errors.New("should be a hit")
	}
	require.Eventually(t, func() bool {
		value, err := facade.GetOrCompute(context.Background(), schema.NamespaceTitle, "canceled", probe)
		return err == nil && value.(*schema.ListingTitle).Title == "finished anyway"
	}, time.Second, 10*time.Millisecond)
}

func TestGetOrComputeDifferentKeysDoNotBlock(t *testing.T) {
	facade, _ := newTestFacade(t, 0)
	ctx := context.Background()

	release := make(chan struct{})
	defer close(release)
	blocked := func(ctx context.Context) (schema.Value, error) {
		<-release
		return &schema.ListingTitle{Title: "blocked"}, nil
	}

	go func() {
		_, _ = facade.GetOrCompute(ctx, schema.NamespaceTitle, "busy-key", blocked)
	}()
	time.Sleep(10 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		value, err := facade.GetOrCompute(ctx, schema.NamespaceTitle, "free-key", titleCompute("independent"))
		assert.NoError(t, err)
		assert.Equal(t, "independent", value.(*schema.ListingTitle).Title)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("request for an unrelated key was blocked by another key's flight")
	}
}

func TestGetOrComputeAsync(t *testing.T) {
	facade, _ := newTestFacade(t, 0)
	ctx := context.Background()

	ch := facade.GetOrComputeAsync(ctx, schema.NamespaceTitle, "async", titleCompute("async result"))
	res := <-ch
	require.NoError(t, res.Err)
	assert.Equal(t, "async result", res.Value.(*schema.ListingTitle).Title)
}

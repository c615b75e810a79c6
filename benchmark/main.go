// Package main provides a performance benchmarking tool for the cardcache library.
// It measures cold (compute + store) and warm (cache hit) latencies across the
// cache namespaces, running each test multiple times, treating the first run as
// cold and averaging the rest as warm, generating CSV output for performance
// analysis and documentation.
//
// Usage: go run benchmark/main.go [cache-root-dir]
//
//	cache-root-dir: Directory for the benchmark cache (defaults to a temp dir)
package main

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"cardcache/core"
	"cardcache/internal/cachestats"
	"cardcache/internal/diskcache"
	"cardcache/internal/fingerprint"
	"cardcache/schema"
)

// BenchmarkResult holds the result of one namespace benchmark (cold run and average of warm runs).
type BenchmarkResult struct {
	Namespace string
	Keys      int
	ColdTime  string
	WarmTime  string
}

// benchmark configuration
const (
	keysPerNamespace = 200
	warmRuns         = 5
	payloadBytes     = 4 * 1024 // approximates a serialized identification result
	computeDelay     = 2 * time.Millisecond
)

func main() {
	root := ""
	if len(os.Args) > 1 {
		root = os.Args[1]
	} else {
		dir, err := os.MkdirTemp("", "cardcache-bench-*")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create cache root: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		root = dir
	}

	store, err := diskcache.NewStore(root, nil, cachestats.NewCollector())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open cache store: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	facade := core.NewFacade(store, nil, 0)
	keys := makeKeys(keysPerNamespace)

	var results []BenchmarkResult
	for _, ns := range schema.AllNamespaces {
		result, err := benchmarkNamespace(facade, ns, keys)
		if err != nil {
			fmt.Fprintf(os.Stderr, "benchmark failed for %s: %v\n", ns, err)
			os.Exit(1)
		}
		results = append(results, result)
	}

	if err := writeCSV(results); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write results: %v\n", err)
		os.Exit(1)
	}
}

// makeKeys generates random content fingerprints to key the benchmark entries.
func makeKeys(n int) []string {
	keys := make([]string, n)
	buf := make([]byte, 64)
	for i := range keys {
		_, _ = rand.Read(buf)
		keys[i] = fingerprint.Bytes(buf)
	}
	return keys
}

// benchmarkNamespace measures cold and warm lookup times for one namespace.
func benchmarkNamespace(facade *core.Facade, ns schema.Namespace, keys []string) (BenchmarkResult, error) {
	ctx := context.Background()
	compute := computeFor(ns)

	// Cold pass: every key computes and persists.
	coldStart := time.Now()
	for _, key := range keys {
		if _, err := facade.GetOrCompute(ctx, ns, key, compute); err != nil {
			return BenchmarkResult{}, err
		}
	}
	cold := time.Since(coldStart)

	// Warm passes: every key is a cache hit.
	var warmTotal time.Duration
	for range warmRuns {
		warmStart := time.Now()
		for _, key := range keys {
			if _, err := facade.GetOrCompute(ctx, ns, key, compute); err != nil {
				return BenchmarkResult{}, err
			}
		}
		warmTotal += time.Since(warmStart)
	}
	warm := warmTotal / warmRuns

	return BenchmarkResult{
		Namespace: string(ns),
		Keys:      len(keys),
		ColdTime:  cold.String(),
		WarmTime:  warm.String(),
	}, nil
}

// computeFor simulates the expensive pipeline stage behind a namespace.
func computeFor(ns schema.Namespace) core.ComputeFunc {
	filler := make([]byte, payloadBytes)
	_, _ = rand.Read(filler)
	payload := fmt.Sprintf("%x", filler)

	return func(ctx context.Context) (schema.Value, error) {
		time.Sleep(computeDelay)
		switch ns {
		case schema.NamespaceIdentification:
			return &schema.Identification{Game: "pokemon", Name: payload[:32]}, nil
		case schema.NamespaceCardData:
			return &schema.CardRecord{CardID: payload[:16], Name: payload[:32]}, nil
		case schema.NamespaceEbayURL:
			return &schema.HostedImage{URL: "https://i.ebayimg.com/" + payload[:40]}, nil
		case schema.NamespacePricing:
			return &schema.PriceQuote{
				CardID:      payload[:16],
				Prices:      map[string]float64{"market": 420.69},
				PriceSource: "bench",
				Currency:    "USD",
			}, nil
		default:
			return &schema.ListingTitle{Title: payload}, nil
		}
	}
}

// writeCSV emits the benchmark results on stdout.
func writeCSV(results []BenchmarkResult) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"namespace", "keys", "cold_time", "warm_time_avg"}); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{r.Namespace, fmt.Sprintf("%d", r.Keys), r.ColdTime, r.WarmTime}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

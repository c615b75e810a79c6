//go:build basic

// Package integration contains integration tests for cardcache.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFingerprintCommand verifies the CLI fingerprint against an independent digest.
func TestFingerprintCommand(t *testing.T) {
	dir := t.TempDir()
	content := []byte("fake scan bytes")
	path := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	want := sha256.Sum256(content)
	wantHex := hex.EncodeToString(want[:])

	binaryPath := getCardcacheBinary()
	cmd := exec.Command(binaryPath, "fingerprint", path)
	cmd.Env = append(os.Environ(), "CARDCACHE_CACHE_ROOT="+t.TempDir())
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())

	assert.Contains(t, stdout.String(), wantHex)
}

// TestCacheLifecycle runs status, cleanup and clear against a fresh cache root.
func TestCacheLifecycle(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("CARDCACHE_CACHE_ROOT", cacheRoot)

	require.NoError(t, runCardcacheCommand(t, "cache", "status"))
	require.NoError(t, runCardcacheCommand(t, "cache", "cleanup"))
	require.NoError(t, runCardcacheCommand(t, "cache", "clear"))

	// All namespace directories exist after clear.
	entries, err := os.ReadDir(cacheRoot)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, ",")
	for _, ns := range []string{"identification", "card_data", "ebay_url", "pricing", "title"} {
		assert.Contains(t, joined, ns)
	}
}

// TestCacheWarmReportsUncachedInputs verifies warm-check output for a fresh cache.
func TestCacheWarmReportsUncachedInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("fresh scan bytes"), 0o644))

	binaryPath := getCardcacheBinary()
	cmd := exec.Command(binaryPath, "cache", "warm", path)
	cmd.Env = append(os.Environ(), "CARDCACHE_CACHE_ROOT="+t.TempDir())
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())

	assert.Contains(t, stdout.String(), "0 of 1 input(s) already cached")
}

// TestPricingFingerprintNormalization verifies the CLI normalizes pricing keys.
func TestPricingFingerprintNormalization(t *testing.T) {
	binaryPath := getCardcacheBinary()

	run := func(args ...string) string {
		cmd := exec.Command(binaryPath, args...)
		cmd.Env = append(os.Environ(), "CARDCACHE_CACHE_ROOT="+t.TempDir())
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		require.NoError(t, cmd.Run())
		return strings.TrimSpace(stdout.String())
	}

	a := run("fingerprint", "pricing", "--name", "Charizard", "--set", "Base Set", "--finish", "Holo")
	b := run("fingerprint", "pricing", "--name", "CHARIZARD!", "--set", "base  set", "--finish", "holo")
	assert.Equal(t, a, b, "cosmetic naming differences must not split the cache")
}

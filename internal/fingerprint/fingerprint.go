// Package fingerprint derives stable, content-based cache keys for binary
// inputs (card images) and structured pricing lookups.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrInputUnreadable marks a fingerprint source that could not be read at all.
// This is distinct from a cache miss and must be surfaced to the caller.
var ErrInputUnreadable = errors.New("fingerprint input unreadable")

// UnreadableError wraps the underlying I/O failure for a single input.
type UnreadableError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *UnreadableError) Error() string {
	return fmt.Sprintf("fingerprint %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *UnreadableError) Unwrap() error { return e.Err }

// Is reports a match against ErrInputUnreadable.
func (e *UnreadableError) Is(target error) bool { return target == ErrInputUnreadable }

// Bytes returns the hex-encoded SHA-256 digest of the given content.
// Identical bytes always produce the same fingerprint regardless of where
// they came from.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// File returns the content fingerprint of the file at path. The digest covers
// the full content bytes, never the name, path, or filesystem metadata, so a
// copy of the same image under a different name collapses to the same key.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &UnreadableError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", &UnreadableError{Path: path, Err: err}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FilesConcurrent fingerprints many files with a bounded worker pool.
// Failures are isolated per file: unreadable inputs land in the error map
// and never block the rest of the batch.
func FilesConcurrent(paths []string, workers int) (map[string]string, map[string]error) {
	if workers <= 0 {
		workers = 1
	}

	type result struct {
		path string
		fp   string
		err  error
	}

	jobs := make(chan string)
	results := make(chan result)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				fp, err := File(path)
				results <- result{path: path, fp: fp, err: err}
			}
		}()
	}

	go func() {
		for _, path := range paths {
			jobs <- path
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	fingerprints := make(map[string]string, len(paths))
	failures := make(map[string]error)
	for res := range results {
		if res.err != nil {
			failures[res.path] = res.err
			continue
		}
		fingerprints[res.path] = res.fp
	}
	return fingerprints, failures
}

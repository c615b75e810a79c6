// Package diskcache is the durable file-backed store for cache entries.
//
// Each entry is one JSON file under <root>/<namespace>/<fingerprint>.json.
// Writes are atomic (temp file + rename), TTLs are enforced lazily on read,
// and structurally corrupt entries are removed on sight so a bad record can
// never trip the same reader twice.
package diskcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cardcache/internal/cachestats"
	"cardcache/internal/contract"
	"cardcache/schema"
)

// entryExt is the file extension for persisted entries.
const entryExt = ".json"

// Store persists cache entries on local disk. It is safe for concurrent use:
// entry files are written atomically and the last rename to complete for a
// key determines the value subsequent readers see. No store-wide lock is
// held on the read/write path.
type Store struct {
	root  string
	ttls  map[schema.Namespace]time.Duration
	stats *cachestats.Collector

	// now is swappable for TTL tests.
	now func() time.Time
}

var _ contract.EntryStore = &Store{} // Compile-time check

// NewStore creates the cache root and one subdirectory per namespace.
// ttls maps namespaces to their maximum entry age; missing namespaces fall
// back to the built-in defaults. stats may be nil to disable counting.
func NewStore(root string, ttls map[schema.Namespace]time.Duration, stats *cachestats.Collector) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("cache root cannot be empty")
	}
	for _, ns := range schema.AllNamespaces {
		if err := os.MkdirAll(filepath.Join(root, string(ns)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory for %s: %w. Check that %q is writable", ns, err, root)
		}
	}
	return &Store{
		root:  root,
		ttls:  ttls,
		stats: stats,
		now:   time.Now,
	}, nil
}

// Root returns the cache root directory.
func (s *Store) Root() string { return s.root }

// ttlFor returns the TTL applied to new entries in a namespace.
func (s *Store) ttlFor(ns schema.Namespace) time.Duration {
	if ttl, ok := s.ttls[ns]; ok && ttl > 0 {
		return ttl
	}
	return contract.DefaultTTLFor(ns)
}

// entryPath maps a key to its file. Fingerprints are opaque but must not be
// able to escape the namespace directory.
func (s *Store) entryPath(ns schema.Namespace, fingerprint string) (string, error) {
	if _, ok := schema.ValidNamespaces[ns]; !ok {
		return "", fmt.Errorf("unknown namespace %q", ns)
	}
	if fingerprint == "" {
		return "", fmt.Errorf("fingerprint cannot be empty")
	}
	if strings.ContainsAny(fingerprint, "/\\") || strings.Contains(fingerprint, "..") {
		return "", fmt.Errorf("invalid fingerprint %q", fingerprint)
	}
	return filepath.Join(s.root, string(ns), fingerprint+entryExt), nil
}

// Get returns the entry for the key if it exists and is fresh. Absent,
// expired, and corrupt entries all report found=false; expired and corrupt
// records are removed immediately so they are not seen again.
func (s *Store) Get(ns schema.Namespace, fingerprint string) (schema.Entry, bool, error) {
	path, err := s.entryPath(ns, fingerprint)
	if err != nil {
		return schema.Entry{}, false, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return schema.Entry{}, false, nil
	}
	if err != nil {
		return schema.Entry{}, false, fmt.Errorf("read cache entry %s/%s: %w", ns, fingerprint, err)
	}

	entry, ok := s.decodeEntry(ns, fingerprint, path, data)
	if !ok {
		return schema.Entry{}, false, nil
	}

	if entry.Expired(s.now()) {
		s.evict(ns, path)
		return schema.Entry{}, false, nil
	}
	return entry, true, nil
}

// decodeEntry parses and validates a persisted record. Corruption, including
// an entry filed under the wrong key, is self-healed by deleting the file.
func (s *Store) decodeEntry(ns schema.Namespace, fingerprint, path string, data []byte) (schema.Entry, bool) {
	var entry schema.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		contract.LogWarn(fmt.Sprintf("removing corrupt cache entry %s/%s", ns, fingerprint), err)
		s.evict(ns, path)
		return schema.Entry{}, false
	}
	if entry.Namespace != ns || (fingerprint != "" && entry.Fingerprint != fingerprint) {
		contract.LogWarn(fmt.Sprintf("removing misfiled cache entry %s/%s", ns, fingerprint),
			fmt.Errorf("record claims %s/%s", entry.Namespace, entry.Fingerprint))
		s.evict(ns, path)
		return schema.Entry{}, false
	}
	return entry, true
}

// evict removes an entry file and counts the eviction. Removal failures are
// non-fatal; the entry will be retried on the next read.
func (s *Store) evict(ns schema.Namespace, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		contract.LogWarn("failed to remove cache entry "+path, err)
		return
	}
	s.stats.RecordEviction(ns)
}

// Set overwrites any existing entry for the key with a fresh timestamp and
// the namespace's configured TTL.
func (s *Store) Set(ns schema.Namespace, fingerprint string, value schema.Value, source schema.Source) error {
	if value == nil {
		return fmt.Errorf("cannot cache a nil value for %s/%s", ns, fingerprint)
	}
	// Namespace partitioning is enforced here: payloads cannot cross over.
	if value.CacheNamespace() != ns {
		return fmt.Errorf("payload for namespace %s cannot be stored in %s", value.CacheNamespace(), ns)
	}
	return s.Put(schema.Entry{
		Namespace:   ns,
		Fingerprint: fingerprint,
		Value:       value,
		CreatedAt:   s.now(),
		TTL:         s.ttlFor(ns),
		Source:      source,
	})
}

// Put persists an entry exactly as given, preserving its CreatedAt and TTL.
// The write is atomic: a temp file in the namespace directory is renamed
// over the destination, so a crash mid-write never leaves a torn record.
func (s *Store) Put(entry schema.Entry) error {
	path, err := s.entryPath(entry.Namespace, entry.Fingerprint)
	if err != nil {
		return err
	}
	if entry.Value == nil {
		return fmt.Errorf("cannot persist entry %s/%s without a value", entry.Namespace, entry.Fingerprint)
	}
	if err := entry.Value.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid %s payload: %w", entry.Namespace, err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry %s/%s: %w", entry.Namespace, entry.Fingerprint, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), entry.Fingerprint+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s/%s: %w", entry.Namespace, entry.Fingerprint, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write cache entry %s/%s: %w", entry.Namespace, entry.Fingerprint, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file for %s/%s: %w", entry.Namespace, entry.Fingerprint, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("commit cache entry %s/%s: %w", entry.Namespace, entry.Fingerprint, err)
	}
	return nil
}

// Delete removes an entry. Deleting an absent key is not an error.
func (s *Store) Delete(ns schema.Namespace, fingerprint string) error {
	path, err := s.entryPath(ns, fingerprint)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete cache entry %s/%s: %w", ns, fingerprint, err)
	}
	return nil
}

// ScanNamespace walks every structurally valid entry in a namespace in
// directory order, calling fn until it returns false. Expired entries are
// included so reconciliation can target records past their TTL; corrupt
// records are removed and skipped. The listing is taken once at call time.
func (s *Store) ScanNamespace(ns schema.Namespace, fn func(schema.Entry) bool) error {
	if _, ok := schema.ValidNamespaces[ns]; !ok {
		return fmt.Errorf("unknown namespace %q", ns)
	}
	dir := filepath.Join(s.root, string(ns))
	listing, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scan namespace %s: %w", ns, err)
	}
	for _, item := range listing {
		if item.IsDir() || !strings.HasSuffix(item.Name(), entryExt) {
			continue
		}
		path := filepath.Join(dir, item.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			// Entry may have been deleted mid-scan; that is fine.
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("scan namespace %s: read %s: %w", ns, item.Name(), err)
		}
		fingerprint := strings.TrimSuffix(item.Name(), entryExt)
		entry, ok := s.decodeEntry(ns, fingerprint, path, data)
		if !ok {
			continue
		}
		if !fn(entry) {
			return nil
		}
	}
	return nil
}

// Cleanup removes every expired entry in a namespace and returns how many
// were removed. This is the bulk counterpart to the lazy expiry done by Get.
func (s *Store) Cleanup(ns schema.Namespace) (int, error) {
	now := s.now()
	var expired []string
	err := s.ScanNamespace(ns, func(entry schema.Entry) bool {
		if entry.Expired(now) {
			expired = append(expired, entry.Fingerprint)
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, fingerprint := range expired {
		path, err := s.entryPath(ns, fingerprint)
		if err != nil {
			continue
		}
		s.evict(ns, path)
		removed++
	}
	return removed, nil
}

// Status reports per-namespace entry counts and sizes from the directory
// listing. File modification times stand in for entry ages to avoid parsing
// every record.
func (s *Store) Status() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Root: s.root}
	for _, ns := range schema.AllNamespaces {
		nsStatus := schema.NamespaceStatus{Namespace: ns}
		dir := filepath.Join(s.root, string(ns))
		listing, err := os.ReadDir(dir)
		if err != nil {
			return status, fmt.Errorf("status for namespace %s: %w", ns, err)
		}
		for _, item := range listing {
			if item.IsDir() || !strings.HasSuffix(item.Name(), entryExt) {
				continue
			}
			info, err := item.Info()
			if err != nil {
				continue
			}
			nsStatus.Entries++
			nsStatus.SizeBytes += info.Size()
			mod := info.ModTime()
			if nsStatus.OldestTime.IsZero() || mod.Before(nsStatus.OldestTime) {
				nsStatus.OldestTime = mod
			}
			if mod.After(nsStatus.NewestTime) {
				nsStatus.NewestTime = mod
			}
		}
		status.TotalEntries += nsStatus.Entries
		status.Namespaces = append(status.Namespaces, nsStatus)
	}
	return status, nil
}

// Clear removes every entry in every namespace. Used by maintenance tooling.
func (s *Store) Clear() error {
	for _, ns := range schema.AllNamespaces {
		dir := filepath.Join(s.root, string(ns))
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clear namespace %s: %w", ns, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("recreate namespace %s: %w", ns, err)
		}
	}
	return nil
}

// Close releases the store. The on-disk state needs no flushing because
// every write is committed at Set/Put time.
func (s *Store) Close() error {
	return nil
}

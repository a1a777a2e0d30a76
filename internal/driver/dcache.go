package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/project"
)

// diskCacheSchemaVersion растёт при любом изменении CacheEntry или формата
// сгенерированного кода.
const diskCacheSchemaVersion uint16 = 3

// CacheEntry is the memoized outcome of one group: its artifact, if the
// group was valid, and every diagnostic it produced.
type CacheEntry struct {
	Schema      uint16             `msgpack:"schema"`
	Artifact    *Artifact          `msgpack:"artifact"`
	Diagnostics []*diag.Diagnostic `msgpack:"diagnostics"`
}

// DiskCache keeps one msgpack file per group digest under
// $XDG_CACHE_HOME/<app>/groups/<2 hex>/<digest>.mp. Entries that cannot be
// decoded are treated as misses and removed, so a torn or foreign file costs
// one regeneration and never fails a run.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

var _ Cache = (*DiskCache)(nil)

// OpenDiskCache creates the cache directory for app if needed.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		var err error
		if base, err = os.UserCacheDir(); err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hex := key.String()
	return filepath.Join(c.dir, "groups", hex[:2], hex+".mp")
}

// Put stores entry under key, replacing any previous entry atomically.
func (c *DiskCache) Put(key project.Digest, entry *CacheEntry) error {
	if c == nil || entry == nil {
		return nil
	}
	stored := *entry
	stored.Schema = diskCacheSchemaVersion
	data, err := msgpack.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return writeAtomic(p, data)
}

// Get loads the entry stored under key. Missing, stale-schema and
// undecodable entries are misses; only I/O failures are errors.
func (c *DiskCache) Get(key project.Digest, out *CacheEntry) (bool, error) {
	if c == nil {
		return false, nil
	}
	p := c.pathFor(key)

	c.mu.RLock()
	data, err := os.ReadFile(p)
	c.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var entry CacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil || entry.Schema != diskCacheSchemaVersion {
		c.mu.Lock()
		_ = os.Remove(p)
		c.mu.Unlock()
		return false, nil
	}
	*out = entry
	return true, nil
}

// DropAll removes every entry together with the cache directory.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.dir)
}

package driver

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"netc/internal/diag"
	"netc/internal/ir"
	"netc/internal/project"
)

// bump when cacheEntry or the snapshot layout changes
const cacheSchema uint16 = 2

const cacheExt = ".mp"

// DiskCache хранит результаты элаборации по дайджесту входных файлов.
// Entries live in <dir>/<first two hex digits>/<rest>.mp. Safe for
// concurrent use within one process; concurrent processes only race on
// whole-file renames.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cacheEntry struct {
	Schema uint16
	// Snapshot is the program encoded with ir.EncodeSnapshot.
	Snapshot []byte
	// Diagnostics reported by build and atomize, replayed on a hit.
	Diagnostics []diag.Diagnostic
}

// OpenDiskCache opens the cache of app under the user cache directory.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		var err error
		if base, err = os.UserCacheDir(); err != nil {
			return nil, err
		}
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens the cache rooted at dir, creating it.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	h := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, h[:2], h[2:]+cacheExt)
}

func (c *DiskCache) put(key project.Digest, entry *cacheEntry) (err error) {
	data, err := msgpack.Marshal(entry)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(tmp, p)
}

// get reads the entry for key; a missing entry is (false, nil).
func (c *DiskCache) get(key project.Digest) (*cacheEntry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entry cacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, true, nil
}

// Clear removes every entry and returns how many there were. Stray
// temporary files are removed too but not counted.
func (c *DiskCache) Clear() (int, error) {
	if c == nil {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		isEntry := strings.HasSuffix(name, cacheExt)
		if !isEntry && !strings.HasPrefix(name, "tmp-") {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		if isEntry {
			removed++
		}
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return removed, nil
	}
	return removed, err
}

// loadCached returns the cached program for key. Corrupt or outdated
// entries count as misses.
func loadCached(c *DiskCache, key project.Digest) (*ir.Program, []diag.Diagnostic, bool) {
	if c == nil {
		return nil, nil, false
	}
	entry, ok, err := c.get(key)
	if err != nil || !ok || entry.Schema != cacheSchema {
		return nil, nil, false
	}
	prog, err := ir.DecodeSnapshot(bytes.NewReader(entry.Snapshot))
	if err != nil {
		return nil, nil, false
	}
	return prog, entry.Diagnostics, true
}

// storeCached writes a successful result. Failures only cost a future miss.
func storeCached(c *DiskCache, key project.Digest, prog *ir.Program, diags []diag.Diagnostic) {
	if c == nil {
		return
	}
	var buf bytes.Buffer
	if err := ir.EncodeSnapshot(&buf, prog); err != nil {
		return
	}
	_ = c.put(key, &cacheEntry{Schema: cacheSchema, Snapshot: buf.Bytes(), Diagnostics: diags})
}

package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores entries as JSON files under a directory, two levels deep
// by key hash. Used by the CLI.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry wraps cached data with its key and expiry.
type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Get retrieves a value. Corrupt and expired entries are removed and
// reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Key != key || entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores a value. The file is written to a temporary name and renamed
// so readers never see a partial entry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes a value.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for file cache.
func (c *FileCache) Close() error { return nil }

// FileStats summarizes the entries on disk.
type FileStats struct {
	Entries int   // Live entries
	Expired int   // Entries past their TTL
	Bytes   int64 // Total size of entry files
	Graphs  int   // Live entries under graph keys
	Layouts int   // Live entries under layout keys
}

// Stats walks the cache directory.
func (c *FileCache) Stats() (FileStats, error) {
	var st FileStats
	now := time.Now()
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		st.Bytes += info.Size()

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var entry fileEntry
		if json.Unmarshal(raw, &entry) != nil || entry.expired(now) {
			st.Expired++
			return nil
		}
		st.Entries++
		switch {
		case strings.Contains(entry.Key, "graph:"):
			st.Graphs++
		case strings.Contains(entry.Key, "layout:"):
			st.Layouts++
		}
		return nil
	})
	return st, err
}

// Clear removes every entry and recreates the empty directory.
func (c *FileCache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0755)
}

// path maps a key to <dir>/<hash[:2]>/<hash[2:]>.json.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".json")
}

var _ Cache = (*FileCache)(nil)

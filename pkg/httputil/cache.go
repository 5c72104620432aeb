package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Lookup] when validators exist for a URL
// but are older than the cache TTL. The caller should download
// unconditionally and [Cache.Store] the fresh validators.
var ErrExpired = errors.New("cache entry expired")

// Validators are the HTTP cache validators of one completed download.
type Validators struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	Size         int64     `json:"size"`
	Fetched      time.Time `json:"fetched"`
}

// Conditional reports whether v carries anything a server can revalidate.
func (v Validators) Conditional() bool {
	return v.ETag != "" || v.LastModified != ""
}

// Cache stores [Validators] as JSON files, one per URL, named by the
// SHA-256 of the URL so any URL maps to a safe file name.
//
// A Cache is not goroutine-safe, but several processes may share a
// directory: entries are replaced with a rename.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates a Cache in dir, creating the directory if needed.
// A ttl of 0 means entries never expire.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the time-to-live of cache entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Lookup returns the validators recorded for url.
//
//   - (v, true, nil): entry found and fresh
//   - (zero, false, nil): no entry
//   - (zero, false, ErrExpired): entry older than the TTL
//   - (zero, false, err): unreadable or corrupt entry
func (c *Cache) Lookup(url string) (Validators, bool, error) {
	path := c.keyPath(url)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Validators{}, false, nil
	}
	if err != nil {
		return Validators{}, false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return Validators{}, false, ErrExpired
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Validators{}, false, err
	}
	var v Validators
	if err := json.Unmarshal(data, &v); err != nil {
		return Validators{}, false, err
	}
	// A hash collision or a hand-edited file must not revalidate the wrong URL.
	if v.URL != url {
		return Validators{}, false, nil
	}
	return v, true, nil
}

// Store records v under v.URL, replacing any previous entry.
func (c *Cache) Store(v Validators) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	path := c.keyPath(v.URL)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Forget removes the entry for url. A missing entry is not an error.
func (c *Cache) Forget(url string) error {
	err := os.Remove(c.keyPath(url))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Cache) keyPath(url string) string {
	h := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(h[:])+".json")
}

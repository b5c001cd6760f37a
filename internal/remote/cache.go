// Package remote loads the centrally hosted configuration document that
// distributes instruction sources and sync toggles to every machine.
package remote

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/instrsync/instrsync/internal/util"
)

const cacheVersion = "1.0"

// cacheFileName holds every cached remote document in one file keyed by URL.
const cacheFileName = "remote.json"

// Entry is one cached remote configuration document.
type Entry struct {
	URL       string    `json:"url"`
	Document  string    `json:"document"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Cache persists fetched remote documents across runs so a sync can fall
// back to the last good document when the origin is unreachable.
type Cache struct {
	Version string           `json:"version"`
	Entries map[string]Entry `json:"entries"`
	path    string
}

// OpenCache creates or loads the remote-document cache under cacheDir.
// If cacheDir is empty, defaults to ~/.instrsync/cache.
func OpenCache(cacheDir string) (*Cache, error) {
	if cacheDir == "" {
		cacheDir = util.InstrsyncCachePath()
	}
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return nil, err
	}

	cachePath := filepath.Join(cacheDir, cacheFileName)
	cache := &Cache{
		Version: cacheVersion,
		Entries: make(map[string]Entry),
		path:    cachePath,
	}

	// Try to load existing cache
	// #nosec G304 - cachePath is constructed from trusted configuration path
	if data, err := os.ReadFile(cachePath); err == nil {
		if err := json.Unmarshal(data, cache); err != nil {
			// Corrupted cache, start fresh
			cache.Entries = make(map[string]Entry)
		}
		// Version mismatch, invalidate cache
		if cache.Version != cacheVersion {
			cache.Entries = make(map[string]Entry)
			cache.Version = cacheVersion
		}
	}

	cache.path = cachePath
	return cache, nil
}

// Get retrieves the cached document for a URL regardless of age.
func (c *Cache) Get(url string) (Entry, bool) {
	entry, exists := c.Entries[url]
	return entry, exists
}

// Fresh reports whether the cached document for a URL is within ttl.
func (c *Cache) Fresh(url string, ttl time.Duration) bool {
	entry, exists := c.Entries[url]
	if !exists {
		return false
	}
	return time.Since(entry.FetchedAt) <= ttl
}

// Set stores a freshly fetched document for a URL.
func (c *Cache) Set(url, document string) {
	c.Entries[url] = Entry{
		URL:       url,
		Document:  document,
		FetchedAt: time.Now(),
	}
}

// Save persists the cache to disk.
func (c *Cache) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	// #nosec G306 - cache files should be readable by user
	return os.WriteFile(c.path, data, 0o644)
}

// Clear removes all entries and deletes the cache file.
func (c *Cache) Clear() error {
	c.Entries = make(map[string]Entry)
	err := os.Remove(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Size returns the number of cached documents.
func (c *Cache) Size() int {
	return len(c.Entries)
}

// Prune removes entries older than ttl and reports how many were dropped.
// Expired entries are still useful as an offline fallback, so pruning only
// happens when the user clears or trims the cache explicitly.
func (c *Cache) Prune(ttl time.Duration) int {
	pruned := 0
	for key, entry := range c.Entries {
		if time.Since(entry.FetchedAt) > ttl {
			delete(c.Entries, key)
			pruned++
		}
	}
	return pruned
}

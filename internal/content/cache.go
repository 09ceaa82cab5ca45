// Package content reads source files into immutable snapshots and caches them
// for the lifetime of a session.
package content

import (
	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize bounds the cache when no size is configured.
const DefaultCacheSize = 65536

// Snapshot is the parsed state of one source file. Never mutate a snapshot
// obtained from a cache.
type Snapshot struct {
	Meta        map[string]any
	Body        string
	Raw         []byte
	Fingerprint string
}

// Cache maps absolute input paths to snapshots. It is safe for concurrent use;
// concurrent writers to the same key resolve last write wins.
type Cache struct {
	entries *lru.Cache
}

// NewCache returns an empty cache holding at most size entries.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New(size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &Cache{entries: entries}
}

func (c *Cache) Get(path string) (*Snapshot, bool) {
	v, ok := c.entries.Get(path)
	if !ok {
		return nil, false
	}
	return v.(*Snapshot), true
}

func (c *Cache) Set(path string, s *Snapshot) { c.entries.Add(path, s) }

func (c *Cache) Delete(path string) { c.entries.Remove(path) }

// Clear drops every entry. The dev server calls it when sources change.
func (c *Cache) Clear() { c.entries.Purge() }

func (c *Cache) Len() int { return c.entries.Len() }

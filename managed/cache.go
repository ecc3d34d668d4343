// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package managed

import (
	"sort"
	"sync"

	"github.com/gogpu/flute"
)

// Cache interns Objects by description so structurally identical paints and
// filters share one native. When the cache exceeds its soft limit the least
// recently used entries are dropped and their natives deleted; holders of an
// evicted Object still work, it simply resurrects on the next Handle.
//
// Cache is safe for concurrent use. The Objects it returns are not.
type Cache[D comparable, T Deletable] struct {
	mu        sync.Mutex
	entries   map[D]*cacheEntry[D, T]
	factory   Factory[D, T]
	softLimit int
	tick      int64 // monotonic access counter

	hits, misses, evictions uint64
}

type cacheEntry[D comparable, T Deletable] struct {
	obj   *Object[D, T]
	atime int64
}

// CacheStats contains interning statistics.
type CacheStats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// NewCache creates an interning cache. A softLimit of 0 means unlimited.
func NewCache[D comparable, T Deletable](softLimit int, factory Factory[D, T]) *Cache[D, T] {
	if factory == nil {
		panic(ErrNilFactory)
	}
	return &Cache[D, T]{
		entries:   make(map[D]*cacheEntry[D, T]),
		factory:   factory,
		softLimit: softLimit,
	}
}

// Get returns the interned Object for desc, creating it if needed.
func (c *Cache[D, T]) Get(desc D) *Object[D, T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if e, ok := c.entries[desc]; ok {
		e.atime = c.tick
		c.hits++
		return e.obj
	}

	c.misses++
	obj := New(desc, c.factory)
	c.entries[desc] = &cacheEntry[D, T]{obj: obj, atime: c.tick}

	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest()
	}
	return obj
}

// Len returns the number of interned objects.
func (c *Cache[D, T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry and deletes their natives.
func (c *Cache[D, T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for desc, e := range c.entries {
		deleteLogged(e.obj)
		delete(c.entries, desc)
	}
	c.tick = 0
}

// Stats returns interning statistics.
func (c *Cache[D, T]) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Len:       len(c.entries),
		Capacity:  c.softLimit,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// evictOldest removes the oldest quarter of entries.
// Caller must hold c.mu.
func (c *Cache[D, T]) evictOldest() {
	targetSize := c.softLimit * 3 / 4
	if targetSize < 1 {
		targetSize = 1
	}
	toEvict := len(c.entries) - targetSize
	if toEvict <= 0 {
		return
	}

	type aged struct {
		desc  D
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for desc, e := range c.entries {
		all = append(all, aged{desc: desc, atime: e.atime})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].atime < all[j].atime })

	for _, a := range all[:toEvict] {
		deleteLogged(c.entries[a.desc].obj)
		delete(c.entries, a.desc)
		c.evictions++
	}
}

func deleteLogged[D comparable, T Deletable](obj *Object[D, T]) {
	if err := obj.Delete(); err != nil {
		flute.Logger().Warn("managed: evicted object delete failed", "key", obj.Key(), "err", err)
	}
}

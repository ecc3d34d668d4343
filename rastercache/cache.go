// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package rastercache caches rasterised pictures across frames.
//
// A picture is rasterised once it has been prepared in AccessThreshold
// consecutive frames, or immediately when marked complex. Entries are keyed
// by picture and by the transform without its translation, so a picture that
// only scrolls keeps hitting the cache. Rasters are kept within a byte budget
// with least-recently-used eviction, and entries not used during a frame are
// dropped by SweepAfterFrame.
package rastercache

import (
	"container/list"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/flute"
	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
	"github.com/gogpu/flute/layer"
)

// Default cache configuration constants.
const (
	// DefaultMaxSizeMB is the default raster budget in megabytes.
	DefaultMaxSizeMB = 64

	// DefaultAccessThreshold is the number of consecutive frames a picture
	// must be prepared in before it is rasterised.
	DefaultAccessThreshold = 3

	bytesPerMB    = 1024 * 1024
	bytesPerPixel = 4
)

// ErrEmptyRaster is returned by rasterizers asked for an empty area.
var ErrEmptyRaster = errors.New("rastercache: empty raster bounds")

// Rasterizer renders pictures into images.
type Rasterizer interface {
	// Rasterize draws pic transformed by m into an image covering the
	// device rectangle bounds, whose top-left corner maps to the image
	// origin. bounds is integer aligned.
	Rasterize(pic gfx.Picture, m geom.Matrix4, bounds geom.Rect) (gfx.Image, error)
}

// RasterizerFunc adapts a function to Rasterizer.
type RasterizerFunc func(pic gfx.Picture, m geom.Matrix4, bounds geom.Rect) (gfx.Image, error)

// Rasterize implements Rasterizer.
func (f RasterizerFunc) Rasterize(pic gfx.Picture, m geom.Matrix4, bounds geom.Rect) (gfx.Image, error) {
	return f(pic, m, bounds)
}

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity sets the raster budget in bytes.
func WithCapacity(bytes int64) Option {
	return func(c *Cache) {
		if bytes > 0 {
			c.maxSize = bytes
		}
	}
}

// WithAccessThreshold sets how many consecutive frames a picture must be
// prepared in before it is rasterised.
func WithAccessThreshold(frames int) Option {
	return func(c *Cache) {
		if frames > 0 {
			c.threshold = frames
		}
	}
}

type key struct {
	picture uint64
	matrix  geom.Matrix4
}

// entry tracks one picture at one transform.
type entry struct {
	key      key
	accesses int
	used     bool

	image   gfx.Image
	bounds  geom.Rect
	size    int64
	element *list.Element
}

// Stats contains cache statistics for monitoring.
type Stats struct {
	// Entries is the number of tracked pictures, rasterised or not.
	Entries int
	// Rasters is the number of entries holding an image.
	Rasters int
	// Size is the memory held by rasters in bytes.
	Size int64
	// MaxSize is the raster budget in bytes.
	MaxSize int64
	// Hits is the number of draws served from the cache.
	Hits uint64
	// Misses is the number of draws that found no raster.
	Misses uint64
	// HitRate is Hits over all draws, from 0 to 1.
	HitRate float64
	// Rasterized is the number of rasters produced.
	Rasterized uint64
	// Evictions is the number of rasters dropped for budget or disuse.
	Evictions uint64
}

// Cache is a raster cache for layer trees. It implements layer.RasterCache.
//
// Cache is safe for concurrent use.
type Cache struct {
	rasterizer Rasterizer
	threshold  int

	mu      sync.Mutex
	entries map[key]*entry
	lru     *list.List // rasterised entries, front = most recent
	size    int64
	maxSize int64

	hits       atomic.Uint64
	misses     atomic.Uint64
	rasterized atomic.Uint64
	evictions  atomic.Uint64
}

var _ layer.RasterCache = (*Cache)(nil)

// New creates a cache that rasterises with r.
func New(r Rasterizer, opts ...Option) *Cache {
	c := &Cache{
		rasterizer: r,
		threshold:  DefaultAccessThreshold,
		entries:    make(map[key]*entry),
		lru:        list.New(),
		maxSize:    DefaultMaxSizeMB * bytesPerMB,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func keyFor(pic gfx.Picture, m geom.Matrix4) key {
	return key{picture: pic.ID(), matrix: m.WithoutTranslation()}
}

// Prepare implements layer.RasterCache. It records the access and
// rasterises the picture once it qualifies.
func (c *Cache) Prepare(pic gfx.Picture, m geom.Matrix4, isComplex, willChange bool) bool {
	if willChange || pic.CullRect().IsEmpty() {
		return false
	}
	k := keyFor(pic, m)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		e = &entry{key: k}
		c.entries[k] = e
	}
	e.accesses++
	e.used = true
	if e.image != nil {
		c.lru.MoveToFront(e.element)
		return true
	}
	if !isComplex && e.accesses < c.threshold {
		return false
	}
	return c.rasterize(e, pic, k.matrix)
}

// rasterize fills e with a raster. Must be called with c.mu held.
func (c *Cache) rasterize(e *entry, pic gfx.Picture, m geom.Matrix4) bool {
	bounds := geom.TransformRect(m, pic.CullRect()).RoundOut()
	size := int64(bounds.Width()) * int64(bounds.Height()) * bytesPerPixel
	if size <= 0 || size > c.maxSize {
		return false
	}
	img, err := c.rasterizer.Rasterize(pic, m, bounds)
	if err != nil {
		flute.Logger().Warn("rastercache: rasterize failed", "picture", pic.ID(), "err", err)
		return false
	}

	c.evictUntilSize(c.maxSize - size)
	e.image = img
	e.bounds = bounds
	e.size = size
	e.element = c.lru.PushFront(e)
	c.size += size
	c.rasterized.Add(1)
	return true
}

// Draw implements layer.RasterCache. The raster is blitted in device space
// at the integer position the picture would occupy under c's transform.
func (c *Cache) Draw(pic gfx.Picture, canvas gfx.Canvas) bool {
	total := canvas.TotalMatrix()
	k := keyFor(pic, total)

	c.mu.Lock()
	e, ok := c.entries[k]
	if !ok || e.image == nil {
		c.mu.Unlock()
		c.misses.Add(1)
		return false
	}
	c.lru.MoveToFront(e.element)
	img, bounds := e.image, e.bounds
	c.mu.Unlock()

	inverse, ok := total.Invert()
	if !ok {
		c.misses.Add(1)
		return false
	}
	t := total.TranslationOffset()
	at := geom.Offset{X: bounds.Left + t.X, Y: bounds.Top + t.Y}
	at.X, at.Y = math.Round(at.X), math.Round(at.Y)

	canvas.Save()
	canvas.Transform(inverse)
	canvas.DrawImage(img, at, nil)
	canvas.Restore()
	c.hits.Add(1)
	return true
}

// SweepAfterFrame drops every entry that was not prepared since the last
// sweep, and starts a new frame for the rest.
func (c *Cache) SweepAfterFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for k, e := range c.entries {
		if e.used {
			e.used = false
			continue
		}
		c.drop(e)
		delete(c.entries, k)
		dropped++
	}
	if dropped > 0 {
		flute.Logger().Debug("rastercache: swept", "dropped", dropped, "entries", len(c.entries), "bytes", c.size)
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		c.drop(e)
		delete(c.entries, k)
	}
}

// drop releases the raster of e. Must be called with c.mu held.
func (c *Cache) drop(e *entry) {
	if e.image == nil {
		return
	}
	c.lru.Remove(e.element)
	c.size -= e.size
	e.image, e.element, e.size = nil, nil, 0
	c.evictions.Add(1)
}

// evictUntilSize drops least recently used rasters until size is at or
// below target. Evicted entries keep their access count. Must be called with
// c.mu held.
func (c *Cache) evictUntilSize(target int64) {
	for c.size > target && c.lru.Len() > 0 {
		c.drop(c.lru.Back().Value.(*entry))
	}
}

// Stats returns current cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	s := Stats{
		Entries: len(c.entries),
		Rasters: c.lru.Len(),
		Size:    c.size,
		MaxSize: c.maxSize,
	}
	c.mu.Unlock()

	s.Hits = c.hits.Load()
	s.Misses = c.misses.Load()
	s.Rasterized = c.rasterized.Load()
	s.Evictions = c.evictions.Load()
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// ResetStats resets the counters to zero.
func (c *Cache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.rasterized.Store(0)
	c.evictions.Store(0)
}

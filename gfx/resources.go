// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/flute/managed"
)

// Interning limits for filter descriptions.
const (
	DefaultColorFilterCacheSize = 256
	DefaultImageFilterCacheSize = 128
)

// Resources binds managed paint objects to the backend that realises them
// and the collector that frees natives whose wrapper became unreachable.
//
// Structurally identical color and image filters created through the same
// Resources share one managed object.
type Resources struct {
	backend   Backend
	collector managed.Collector
	deferred  *managed.ManualScheduler

	colorFilters *managed.Cache[ColorFilterDesc, NativeColorFilter]
	imageFilters *managed.Cache[ImageFilterDesc, NativeImageFilter]

	invertOnce sync.Once
	invert     *ColorFilter
}

// ResourcesOption configures Resources.
type ResourcesOption func(*Resources)

// WithCollector replaces the default deferred collection queue.
func WithCollector(c managed.Collector) ResourcesOption {
	return func(r *Resources) {
		r.collector = c
	}
}

// NewResources creates a resource set realised by b. A nil b uses the null
// backend. Without WithCollector, unreachable natives go to a managed.Queue
// whose flushes wait for RunPending, so deletes never overlap a frame.
func NewResources(b Backend, opts ...ResourcesOption) *Resources {
	if b == nil {
		b = NewNullBackend()
	}
	r := &Resources{backend: b}
	for _, opt := range opts {
		opt(r)
	}
	if r.collector == nil {
		r.deferred = &managed.ManualScheduler{}
		r.collector = managed.NewQueue(managed.WithScheduler(r.deferred))
	}
	r.colorFilters = managed.NewCache[ColorFilterDesc, NativeColorFilter](DefaultColorFilterCacheSize,
		managed.FactoryFunc[ColorFilterDesc, NativeColorFilter](b.NewNativeColorFilter))
	r.imageFilters = managed.NewCache[ImageFilterDesc, NativeImageFilter](DefaultImageFilterCacheSize,
		managed.FactoryFunc[ImageFilterDesc, NativeImageFilter](b.NewNativeImageFilter))
	return r
}

// RunPending runs the collection flushes armed since the last call and
// returns how many ran. layer.Compositor calls it when a frame ends; hosts
// that drive preroll and paint themselves call it between frames. It does
// nothing when the collector came from WithCollector.
func (r *Resources) RunPending() int {
	if r.deferred == nil {
		return 0
	}
	return r.deferred.RunPending()
}

// Backend returns the backend that realises natives.
func (r *Resources) Backend() Backend {
	return r.backend
}

// Collector returns the collector unreachable natives are handed to.
func (r *Resources) Collector() managed.Collector {
	return r.collector
}

// ColorFilterStats reports the color filter interning cache.
func (r *Resources) ColorFilterStats() managed.CacheStats {
	return r.colorFilters.Stats()
}

// ImageFilterStats reports the image filter interning cache.
func (r *Resources) ImageFilterStats() managed.CacheStats {
	return r.imageFilters.Stats()
}

var defaultResources atomic.Pointer[Resources]

func init() {
	defaultResources.Store(NewResources(NewNullBackend()))
}

// Default returns the process-wide resource set used by the package-level
// constructors. It starts out on the null backend.
func Default() *Resources {
	return defaultResources.Load()
}

// SetDefault replaces the process-wide resource set. Nil restores a null
// backend set.
func SetDefault(r *Resources) {
	if r == nil {
		r = NewResources(NewNullBackend())
	}
	defaultResources.Store(r)
}

// SetDefaultBackend installs a fresh resource set realised by b.
func SetDefaultBackend(b Backend) {
	SetDefault(NewResources(b))
}

// DefaultBackend returns the backend of the default resource set.
func DefaultBackend() Backend {
	return Default().backend
}

// native tracks the managed object behind a wrapper and keeps one cleanup
// registered for whichever native is currently live.
type native[D comparable, T managed.Deletable] struct {
	obj     *managed.Object[D, T]
	last    T
	cleanup runtime.Cleanup
	tracked bool
}

// handle returns the live native. track is called whenever a native that was
// not seen before is returned, so the owner can register a cleanup for it.
func (n *native[D, T]) handle(track func(T) runtime.Cleanup) T {
	h := n.obj.Handle()
	if !n.tracked || any(h) != any(n.last) {
		n.untrack()
		n.cleanup = track(h)
		n.last = h
		n.tracked = true
	}
	return h
}

func (n *native[D, T]) untrack() {
	if !n.tracked {
		return
	}
	n.cleanup.Stop()
	var zero T
	n.last = zero
	n.tracked = false
}

// release hands the live native to c and forgets it.
func (n *native[D, T]) release(c managed.Collector) {
	n.untrack()
	n.obj.Release(c)
}

func (n *native[D, T]) delete() error {
	n.untrack()
	return n.obj.Delete()
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"sync/atomic"
	"time"

	"github.com/gogpu/flute"
	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
	"github.com/gogpu/flute/recording"
)

// Frame is the target of one rasterisation.
type Frame struct {
	// Canvas receives the root layer's drawing.
	Canvas gfx.Canvas

	// RasterCache and ViewEmbedder are optional collaborators.
	RasterCache  RasterCache
	ViewEmbedder ViewEmbedder

	// Resources creates layer paints. Nil uses gfx.Default.
	Resources *gfx.Resources

	// Backend computes shadow bounds. Nil uses the default backend.
	Backend gfx.Backend
}

// LayerTree is a built scene ready to be prerolled and painted.
type LayerTree struct {
	Root             *RootLayer
	FrameSize        geom.Size
	DevicePixelRatio float64

	generation uint64
}

// prerollPasses numbers preroll passes across every tree.
var prerollPasses atomic.Uint64

// Preroll computes paint bounds for the whole tree. With ignoreRasterCache
// the frame's raster cache is not consulted.
func (t *LayerTree) Preroll(f *Frame, ignoreRasterCache bool) {
	assertf(t.Root != nil, "Preroll of a tree without root")
	t.generation = prerollPasses.Add(1)
	ctx := &PrerollContext{
		generation:       t.generation,
		ViewEmbedder:     f.ViewEmbedder,
		DevicePixelRatio: t.DevicePixelRatio,
		Backend:          f.Backend,
	}
	if !ignoreRasterCache {
		ctx.RasterCache = f.RasterCache
	}
	t.Root.Preroll(ctx, geom.Identity())
	assertf(ctx.Mutators.Len() == 0, "mutators left after preroll: %v", &ctx.Mutators)
}

// Paint paints a prerolled tree into the frame canvas and the overlay
// canvases of the frame's view embedder.
func (t *LayerTree) Paint(f *Frame, ignoreRasterCache bool) {
	internal := NewNWayCanvas(f.Canvas)
	if f.ViewEmbedder != nil {
		for _, c := range f.ViewEmbedder.OverlayCanvases() {
			internal.AddCanvas(c)
		}
	}
	ctx := &PaintContext{
		generation:       t.generation,
		InternalNodes:    internal,
		LeafNodes:        f.Canvas,
		ViewEmbedder:     f.ViewEmbedder,
		Resources:        f.Resources,
		DevicePixelRatio: t.DevicePixelRatio,
	}
	if !ignoreRasterCache {
		ctx.RasterCache = f.RasterCache
	}
	if t.Root.NeedsPainting() {
		t.Root.Paint(ctx)
	}
	assertf(internal.Depth() == 0, "paint left %d saves", internal.Depth())
}

// Flatten prerolls and paints the tree into a picture with the given cull
// rect, without raster cache or platform views.
func (t *LayerTree) Flatten(bounds geom.Rect) *recording.Picture {
	rec := recording.BeginRecording(bounds)
	f := &Frame{Canvas: rec}
	t.Preroll(f, true)
	t.Paint(f, true)
	return rec.EndRecording()
}

// Bounds returns the frame rectangle in logical pixels.
func (t *LayerTree) Bounds() geom.Rect {
	return geom.LTWH(0, 0, t.FrameSize.Width, t.FrameSize.Height)
}

// sweeper is implemented by raster caches that evict after each frame.
type sweeper interface {
	SweepAfterFrame()
}

// Compositor rasterises layer trees frame after frame with shared
// collaborators.
type Compositor struct {
	RasterCache  RasterCache
	ViewEmbedder ViewEmbedder
	Resources    *gfx.Resources
	Backend      gfx.Backend

	frames int
}

// Frame starts a frame drawing into canvas.
func (c *Compositor) Frame(canvas gfx.Canvas) *ScopedFrame {
	c.frames++
	return &ScopedFrame{
		Frame: Frame{
			Canvas:       canvas,
			RasterCache:  c.RasterCache,
			ViewEmbedder: c.ViewEmbedder,
			Resources:    c.Resources,
			Backend:      c.Backend,
		},
		compositor: c,
		number:     c.frames,
	}
}

// Frames returns the number of frames started.
func (c *Compositor) Frames() int {
	return c.frames
}

// ScopedFrame is a frame in progress. End must be called once rasterisation
// is complete.
type ScopedFrame struct {
	Frame
	compositor *Compositor
	number     int
}

// Raster prerolls and paints tree. It reports false when the tree paints
// nothing.
func (f *ScopedFrame) Raster(tree *LayerTree, ignoreRasterCache bool) bool {
	start := time.Now()
	tree.Preroll(&f.Frame, ignoreRasterCache)
	prerolled := time.Since(start)
	if !tree.Root.NeedsPainting() {
		flute.Logger().Debug("layer: frame empty", "frame", f.number)
		return false
	}
	tree.Paint(&f.Frame, ignoreRasterCache)
	flute.Logger().Debug("layer: frame rasterized",
		"frame", f.number,
		"bounds", tree.Root.PaintBounds(),
		"preroll", prerolled,
		"total", time.Since(start))
	return true
}

// End finishes the frame, lets the raster cache evict unused entries and
// deletes the natives collected while the frame ran.
func (f *ScopedFrame) End() {
	if s, ok := f.RasterCache.(sweeper); ok {
		s.SweepAfterFrame()
	}
	res := f.Resources
	if res == nil {
		res = gfx.Default()
	}
	if n := res.RunPending(); n > 0 {
		flute.Logger().Debug("layer: collection flushed", "frame", f.number, "tasks", n)
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// RasterCache substitutes cached rasters for pictures. A nil RasterCache
// disables caching.
type RasterCache interface {
	// Prepare is called during preroll with the picture's full transform. It
	// reports whether a raster for pic is available at that transform.
	Prepare(pic gfx.Picture, m geom.Matrix4, isComplex, willChange bool) bool

	// Draw blits the cached raster for pic onto c at c's current transform.
	// It reports false when no raster is cached, in which case the caller
	// draws the picture itself.
	Draw(pic gfx.Picture, c gfx.Canvas) bool
}

// EmbeddedViewParams is what a platform view needs to be composited like its
// native siblings.
type EmbeddedViewParams struct {
	Offset   geom.Offset
	Size     geom.Size
	Mutators MutatorsStack
}

// ViewEmbedder composites platform views. A nil ViewEmbedder means platform
// views are not supported and their layers paint nothing.
type ViewEmbedder interface {
	// PrerollCompositeEmbeddedView announces that viewID is composited this
	// frame with params.
	PrerollCompositeEmbeddedView(viewID int64, params EmbeddedViewParams)

	// OverlayCanvases returns the canvases that receive state operations
	// alongside the root canvas for the rest of the frame.
	OverlayCanvases() []gfx.Canvas

	// CompositeEmbeddedView returns the canvas for content painted above
	// viewID, or nil to keep drawing into the current leaf canvas.
	CompositeEmbeddedView(viewID int64) gfx.Canvas
}

// PrerollContext is shared by every layer during one preroll pass. Layers
// must not keep it beyond their Preroll call.
type PrerollContext struct {
	RasterCache  RasterCache
	ViewEmbedder ViewEmbedder
	Mutators     MutatorsStack

	// DevicePixelRatio scales shadow geometry. Zero means 1.
	DevicePixelRatio float64

	// Backend computes shadow bounds. Nil uses gfx.DefaultBackend.
	Backend gfx.Backend

	// generation identifies the preroll pass.
	generation uint64
}

// CullRect returns the visible rectangle in the current layer's space.
func (c *PrerollContext) CullRect() geom.Rect {
	return c.Mutators.CullRect()
}

func (c *PrerollContext) backend() gfx.Backend {
	if c.Backend != nil {
		return c.Backend
	}
	return gfx.DefaultBackend()
}

func (c *PrerollContext) dpr() float64 {
	if c.DevicePixelRatio <= 0 {
		return 1
	}
	return c.DevicePixelRatio
}

// PaintContext is shared by every layer during one paint pass. Layers must
// not keep it beyond their Paint call.
type PaintContext struct {
	// InternalNodes receives save, clip, transform and layer operations.
	InternalNodes *NWayCanvas

	// LeafNodes receives leaf drawing. Platform view layers replace it.
	LeafNodes gfx.Canvas

	RasterCache  RasterCache
	ViewEmbedder ViewEmbedder

	// Resources creates the paints layers draw with. Nil uses gfx.Default.
	Resources *gfx.Resources

	DevicePixelRatio float64

	// generation is the preroll pass whose bounds are painted.
	generation uint64
}

func (c *PaintContext) resources() *gfx.Resources {
	if c.Resources != nil {
		return c.Resources
	}
	return gfx.Default()
}

func (c *PaintContext) dpr() float64 {
	if c.DevicePixelRatio <= 0 {
		return 1
	}
	return c.DevicePixelRatio
}

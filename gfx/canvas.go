// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import "github.com/gogpu/flute/geom"

// NodeCanvas is the part of a canvas that container layers use: state
// stack, clips and transforms. It is the surface a multi-canvas fans out to
// every underlying canvas.
type NodeCanvas interface {
	// Save pushes the current matrix and clip and returns the save count
	// before the push.
	Save() int

	// SaveLayer pushes state and starts an offscreen layer that is
	// composited with p on the matching Restore. bounds may be nil.
	SaveLayer(bounds *geom.Rect, p *Paint)

	// SaveLayerWithFilter is SaveLayer with a backdrop filter applied to the
	// content already underneath the layer.
	SaveLayerWithFilter(bounds *geom.Rect, p *Paint, backdrop *ImageFilter)

	// Restore pops one save. Restoring past the initial state is ignored.
	Restore()

	// RestoreToCount pops saves until SaveCount equals count.
	RestoreToCount(count int)

	// SaveCount returns the depth of the state stack. A fresh canvas
	// reports 1.
	SaveCount() int

	Translate(dx, dy float64)
	Transform(m geom.Matrix4)

	ClipRect(r geom.Rect, op ClipOp, antiAlias bool)
	ClipRRect(rr geom.RRect, antiAlias bool)
	ClipPath(p Path, antiAlias bool)
}

// Canvas is a drawing surface. Leaf layers draw into exactly one Canvas at a
// time.
type Canvas interface {
	NodeCanvas

	// TotalMatrix returns the current transform.
	TotalMatrix() geom.Matrix4

	DrawPaint(p *Paint)
	DrawRect(r geom.Rect, p *Paint)
	DrawRRect(rr geom.RRect, p *Paint)
	DrawPath(path Path, p *Paint)
	DrawShadow(path Path, c Color, elevation float64, transparentOccluder bool, dpr float64)
	DrawPicture(pic Picture)
	DrawImage(img Image, at geom.Offset, p *Paint)
}

// Picture is an immutable recorded list of drawing commands.
type Picture interface {
	// CullRect bounds everything the picture draws, in its own space.
	CullRect() geom.Rect

	// Playback replays the commands onto c.
	Playback(c Canvas)

	// ID is unique for the life of the process.
	ID() uint64

	// OpCount is the number of recorded drawing commands.
	OpCount() int
}

// Image is a rasterized bitmap owned by a backend.
type Image interface {
	Width() int
	Height() int
}

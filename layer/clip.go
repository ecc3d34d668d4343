// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// ClipRectLayer clips its children to a rectangle.
type ClipRectLayer struct {
	ContainerLayer
	Rect         geom.Rect
	ClipBehavior gfx.ClipBehavior
}

// NewClipRectLayer creates a rectangular clip. behavior must not be
// gfx.ClipNone.
func NewClipRectLayer(r geom.Rect, behavior gfx.ClipBehavior) *ClipRectLayer {
	assertf(behavior != gfx.ClipNone, "ClipRect with ClipNone")
	l := &ClipRectLayer{Rect: r, ClipBehavior: behavior}
	l.self = l
	return l
}

// Kind implements Layer.
func (l *ClipRectLayer) Kind() Kind { return KindClipRect }

// Preroll implements Layer.
func (l *ClipRectLayer) Preroll(ctx *PrerollContext, m geom.Matrix4) {
	ctx.Mutators.PushClipRect(l.Rect)
	l.setPaintBounds(ctx, clipBounds(l.PrerollChildren(ctx, m), l.Rect))
	ctx.Mutators.Pop()
}

// Paint implements Layer.
func (l *ClipRectLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l)
	c := ctx.InternalNodes
	c.Save()
	c.ClipRect(l.Rect, gfx.ClipIntersect, l.ClipBehavior.AntiAlias())
	paintClipped(ctx, l.ClipBehavior, l.Rect, &l.ContainerLayer)
	c.Restore()
}

func (l *ClipRectLayer) describe() string {
	return l.Rect.String() + " " + l.ClipBehavior.String()
}

// ClipRRectLayer clips its children to a rounded rectangle.
type ClipRRectLayer struct {
	ContainerLayer
	RRect        geom.RRect
	ClipBehavior gfx.ClipBehavior
}

// NewClipRRectLayer creates a rounded rectangular clip. behavior must not
// be gfx.ClipNone.
func NewClipRRectLayer(rr geom.RRect, behavior gfx.ClipBehavior) *ClipRRectLayer {
	assertf(behavior != gfx.ClipNone, "ClipRRect with ClipNone")
	l := &ClipRRectLayer{RRect: rr, ClipBehavior: behavior}
	l.self = l
	return l
}

// Kind implements Layer.
func (l *ClipRRectLayer) Kind() Kind { return KindClipRRect }

// Preroll implements Layer.
func (l *ClipRRectLayer) Preroll(ctx *PrerollContext, m geom.Matrix4) {
	ctx.Mutators.PushClipRRect(l.RRect)
	l.setPaintBounds(ctx, clipBounds(l.PrerollChildren(ctx, m), l.RRect.Bounds()))
	ctx.Mutators.Pop()
}

// Paint implements Layer.
func (l *ClipRRectLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l)
	c := ctx.InternalNodes
	c.Save()
	c.ClipRRect(l.RRect, l.ClipBehavior.AntiAlias())
	paintClipped(ctx, l.ClipBehavior, l.PaintBounds(), &l.ContainerLayer)
	c.Restore()
}

func (l *ClipRRectLayer) describe() string {
	return l.RRect.Bounds().String() + " " + l.ClipBehavior.String()
}

// ClipPathLayer clips its children to a path.
type ClipPathLayer struct {
	ContainerLayer
	Path         gfx.Path
	ClipBehavior gfx.ClipBehavior
}

// NewClipPathLayer creates a path clip. behavior must not be gfx.ClipNone.
func NewClipPathLayer(p gfx.Path, behavior gfx.ClipBehavior) *ClipPathLayer {
	assertf(behavior != gfx.ClipNone, "ClipPath with ClipNone")
	l := &ClipPathLayer{Path: p, ClipBehavior: behavior}
	l.self = l
	return l
}

// Kind implements Layer.
func (l *ClipPathLayer) Kind() Kind { return KindClipPath }

// Preroll implements Layer.
func (l *ClipPathLayer) Preroll(ctx *PrerollContext, m geom.Matrix4) {
	ctx.Mutators.PushClipPath(l.Path)
	l.setPaintBounds(ctx, clipBounds(l.PrerollChildren(ctx, m), gfx.PathBounds(l.Path)))
	ctx.Mutators.Pop()
}

// Paint implements Layer.
func (l *ClipPathLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l)
	c := ctx.InternalNodes
	c.Save()
	c.ClipPath(l.Path, l.ClipBehavior.AntiAlias())
	paintClipped(ctx, l.ClipBehavior, l.PaintBounds(), &l.ContainerLayer)
	c.Restore()
}

func (l *ClipPathLayer) describe() string {
	return gfx.PathBounds(l.Path).String() + " " + l.ClipBehavior.String()
}

// clipBounds intersects child bounds with a clip, or returns empty when they
// do not overlap.
func clipBounds(children, clip geom.Rect) geom.Rect {
	if !children.Overlaps(clip) {
		return geom.Empty()
	}
	return children.Intersect(clip)
}

// paintClipped paints children after the clip was applied, isolating them
// in a save layer for ClipAntiAliasWithSaveLayer.
func paintClipped(ctx *PaintContext, behavior gfx.ClipBehavior, layerBounds geom.Rect, c *ContainerLayer) {
	withLayer := behavior == gfx.ClipAntiAliasWithSaveLayer
	if withLayer {
		ctx.InternalNodes.SaveLayer(&layerBounds, nil)
	}
	c.PaintChildren(ctx)
	if withLayer {
		ctx.InternalNodes.Restore()
	}
}

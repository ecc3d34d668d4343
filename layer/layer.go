// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"slices"

	"github.com/gogpu/flute/geom"
)

// Layer is a node of the layer tree.
//
// Paint bounds are valid only after Preroll in the current frame and are
// expressed in the parent's coordinate space. Paint may only be called after
// Preroll, and only when NeedsPainting reports true.
type Layer interface {
	Preroll(ctx *PrerollContext, m geom.Matrix4)
	Paint(ctx *PaintContext)

	// PaintBounds conservatively bounds everything Paint touches.
	PaintBounds() geom.Rect

	// NeedsPainting reports whether PaintBounds is non-empty.
	NeedsPainting() bool

	// Parent returns the container holding this layer, or nil.
	Parent() Layer

	Kind() Kind

	base() *layerBase
	describe() string
}

// Container is a layer with ordered children.
type Container interface {
	Layer
	Children() []Layer
	Add(child Layer)
}

// layerBase holds the state shared by every layer.
type layerBase struct {
	parent      Layer
	paintBounds geom.Rect
	prerolled   bool
	generation  uint64
}

func (b *layerBase) base() *layerBase { return b }

// PaintBounds implements Layer.
func (b *layerBase) PaintBounds() geom.Rect { return b.paintBounds }

// NeedsPainting implements Layer.
func (b *layerBase) NeedsPainting() bool { return !b.paintBounds.IsEmpty() }

// Parent implements Layer.
func (b *layerBase) Parent() Layer { return b.parent }

func (b *layerBase) setPaintBounds(ctx *PrerollContext, r geom.Rect) {
	b.paintBounds = r
	b.prerolled = true
	b.generation = ctx.generation
}

// checkPaint asserts that l was prerolled in the pass ctx paints.
func checkPaint(ctx *PaintContext, l Layer) {
	b := l.base()
	assertf(b.prerolled && b.generation == ctx.generation, "%v painted before preroll", l.Kind())
	assertf(!b.paintBounds.IsEmpty(), "%v painted with empty paint bounds", l.Kind())
}

// ContainerLayer groups children without an effect of its own. Every
// effect layer embeds it.
type ContainerLayer struct {
	layerBase
	self     Layer
	children []Layer
}

// NewContainerLayer creates an empty container.
func NewContainerLayer() *ContainerLayer {
	c := &ContainerLayer{}
	c.self = c
	return c
}

func (c *ContainerLayer) owner() Layer {
	if c.self != nil {
		return c.self
	}
	return c
}

// Kind implements Layer.
func (c *ContainerLayer) Kind() Kind { return KindContainer }

// Children returns the children in paint order. The slice must not be
// modified.
func (c *ContainerLayer) Children() []Layer {
	return c.children
}

// Add appends child. A child belongs to exactly one container.
func (c *ContainerLayer) Add(child Layer) {
	b := child.base()
	assertf(b.parent == nil, "%v already has a parent", child.Kind())
	b.parent = c.owner()
	c.children = append(c.children, child)
}

// remove detaches child, if present.
func (c *ContainerLayer) remove(child Layer) {
	if i := slices.Index(c.children, child); i >= 0 {
		c.children = slices.Delete(c.children, i, i+1)
		child.base().parent = nil
	}
}

// Preroll implements Layer.
func (c *ContainerLayer) Preroll(ctx *PrerollContext, m geom.Matrix4) {
	c.setPaintBounds(ctx, c.PrerollChildren(ctx, m))
}

// PrerollChildren prerolls every child with m and returns the union of
// their non-empty paint bounds, or an empty rect.
func (c *ContainerLayer) PrerollChildren(ctx *PrerollContext, m geom.Matrix4) geom.Rect {
	bounds := geom.Empty()
	for _, child := range c.children {
		child.Preroll(ctx, m)
		bounds = bounds.Union(child.PaintBounds())
	}
	return bounds
}

// Paint implements Layer.
func (c *ContainerLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, c.owner())
	c.PaintChildren(ctx)
}

// PaintChildren paints every child that needs painting, in order.
func (c *ContainerLayer) PaintChildren(ctx *PaintContext) {
	for _, child := range c.children {
		if child.NeedsPainting() {
			child.Paint(ctx)
		}
	}
}

func (c *ContainerLayer) describe() string { return "" }

// RootLayer is the root of a layer tree.
type RootLayer struct {
	ContainerLayer
}

// NewRootLayer creates an empty root.
func NewRootLayer() *RootLayer {
	r := &RootLayer{}
	r.self = r
	return r
}

// Kind implements Layer.
func (r *RootLayer) Kind() Kind { return KindRoot }

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"fmt"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// OpacityLayer composites its children with a uniform alpha.
//
// The save layer paint carries the alpha as the alpha channel of an
// otherwise black color; no other paint property is set.
type OpacityLayer struct {
	ContainerLayer
	Alpha  uint8
	Offset geom.Offset
}

// NewOpacityLayer creates an opacity layer.
func NewOpacityLayer(alpha uint8, offset geom.Offset) *OpacityLayer {
	l := &OpacityLayer{Alpha: alpha, Offset: offset}
	l.self = l
	return l
}

// Kind implements Layer.
func (l *OpacityLayer) Kind() Kind { return KindOpacity }

// Preroll implements Layer.
func (l *OpacityLayer) Preroll(ctx *PrerollContext, m geom.Matrix4) {
	childMatrix := m.Translate(l.Offset.X, l.Offset.Y)
	ctx.Mutators.PushTransform(geom.Translation(l.Offset.X, l.Offset.Y))
	ctx.Mutators.PushOpacity(l.Alpha)
	bounds := l.PrerollChildren(ctx, childMatrix)
	ctx.Mutators.Pop()
	ctx.Mutators.Pop()
	l.setPaintBounds(ctx, bounds.Shift(l.Offset))
}

// Paint implements Layer.
func (l *OpacityLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l)
	p := ctx.resources().NewPaint()
	p.SetColor(gfx.ARGB(l.Alpha, 0, 0, 0))

	c := ctx.InternalNodes
	c.Save()
	c.Translate(l.Offset.X, l.Offset.Y)
	layerBounds := l.PaintBounds().Shift(l.Offset.Neg())
	c.SaveLayer(&layerBounds, p)
	l.PaintChildren(ctx)
	// Once for the layer, once for the translate.
	c.Restore()
	c.Restore()
}

func (l *OpacityLayer) describe() string {
	return fmt.Sprintf("alpha=%d offset=(%g, %g)", l.Alpha, l.Offset.X, l.Offset.Y)
}

// TransformLayer applies a matrix to its children.
type TransformLayer struct {
	ContainerLayer
	Transform geom.Matrix4
}

// NewTransformLayer creates a transform layer.
func NewTransformLayer(m geom.Matrix4) *TransformLayer {
	l := &TransformLayer{Transform: m}
	l.self = l
	return l
}

// Kind implements Layer.
func (l *TransformLayer) Kind() Kind { return KindTransform }

// Preroll implements Layer.
func (l *TransformLayer) Preroll(ctx *PrerollContext, m geom.Matrix4) {
	ctx.Mutators.PushTransform(l.Transform)
	bounds := l.PrerollChildren(ctx, m.Multiply(l.Transform))
	ctx.Mutators.Pop()
	l.setPaintBounds(ctx, geom.TransformRect(l.Transform, bounds))
}

// Paint implements Layer.
func (l *TransformLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l.owner())
	c := ctx.InternalNodes
	c.Save()
	c.Transform(l.Transform)
	l.PaintChildren(ctx)
	c.Restore()
}

func (l *TransformLayer) describe() string {
	return l.Transform.String()
}

// OffsetLayer is a TransformLayer with a pure translation. It behaves
// exactly like one and exists so trees read better when dumped.
type OffsetLayer struct {
	TransformLayer
	Offset geom.Offset
}

// NewOffsetLayer creates an offset layer.
func NewOffsetLayer(dx, dy float64) *OffsetLayer {
	l := &OffsetLayer{Offset: geom.Offset{X: dx, Y: dy}}
	l.Transform = geom.Translation(dx, dy)
	l.self = l
	return l
}

// Kind implements Layer.
func (l *OffsetLayer) Kind() Kind { return KindOffset }

func (l *OffsetLayer) describe() string {
	return fmt.Sprintf("(%g, %g)", l.Offset.X, l.Offset.Y)
}

// ImageFilterLayer filters the composited result of its children.
//
// Paint bounds are the union of the children's bounds; filters that spread
// pixels, such as blurs, are not accounted for.
type ImageFilterLayer struct {
	ContainerLayer
	Filter *gfx.ImageFilter
}

// NewImageFilterLayer creates an image filter layer.
func NewImageFilterLayer(f *gfx.ImageFilter) *ImageFilterLayer {
	l := &ImageFilterLayer{Filter: f}
	l.self = l
	return l
}

// Kind implements Layer.
func (l *ImageFilterLayer) Kind() Kind { return KindImageFilter }

// Paint implements Layer.
func (l *ImageFilterLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l)
	p := ctx.resources().NewPaint()
	p.SetImageFilter(l.Filter)
	bounds := l.PaintBounds()
	ctx.InternalNodes.SaveLayer(&bounds, p)
	l.PaintChildren(ctx)
	ctx.InternalNodes.Restore()
}

func (l *ImageFilterLayer) describe() string { return l.Filter.String() }

// ColorFilterLayer applies a color filter to the composited result of its
// children.
type ColorFilterLayer struct {
	ContainerLayer
	Filter *gfx.ColorFilter
}

// NewColorFilterLayer creates a color filter layer.
func NewColorFilterLayer(f *gfx.ColorFilter) *ColorFilterLayer {
	l := &ColorFilterLayer{Filter: f}
	l.self = l
	return l
}

// Kind implements Layer.
func (l *ColorFilterLayer) Kind() Kind { return KindColorFilter }

// Paint implements Layer.
func (l *ColorFilterLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l)
	p := ctx.resources().NewPaint()
	p.SetColorFilter(l.Filter)
	bounds := l.PaintBounds()
	ctx.InternalNodes.SaveLayer(&bounds, p)
	l.PaintChildren(ctx)
	ctx.InternalNodes.Restore()
}

func (l *ColorFilterLayer) describe() string { return l.Filter.String() }

// BackdropFilterLayer filters what was painted underneath it before
// painting its children on top.
type BackdropFilterLayer struct {
	ContainerLayer
	Filter    *gfx.ImageFilter
	BlendMode gfx.BlendMode
}

// NewBackdropFilterLayer creates a backdrop filter layer.
func NewBackdropFilterLayer(f *gfx.ImageFilter, mode gfx.BlendMode) *BackdropFilterLayer {
	l := &BackdropFilterLayer{Filter: f, BlendMode: mode}
	l.self = l
	return l
}

// Kind implements Layer.
func (l *BackdropFilterLayer) Kind() Kind { return KindBackdropFilter }

// Preroll implements Layer. The filter samples the whole visible area, so
// the bounds grow to the cull rect.
func (l *BackdropFilterLayer) Preroll(ctx *PrerollContext, m geom.Matrix4) {
	bounds := l.PrerollChildren(ctx, m)
	l.setPaintBounds(ctx, bounds.Union(ctx.CullRect()))
}

// Paint implements Layer.
func (l *BackdropFilterLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l)
	p := ctx.resources().NewPaint()
	p.SetBlendMode(l.BlendMode)
	bounds := l.PaintBounds()
	ctx.InternalNodes.SaveLayerWithFilter(&bounds, p, l.Filter)
	l.PaintChildren(ctx)
	ctx.InternalNodes.Restore()
}

func (l *BackdropFilterLayer) describe() string {
	return l.Filter.String() + " " + l.BlendMode.String()
}

// ShaderMaskLayer masks its children with a shader drawn over maskRect.
type ShaderMaskLayer struct {
	ContainerLayer
	Shader        *gfx.Shader
	MaskRect      geom.Rect
	BlendMode     gfx.BlendMode
	FilterQuality gfx.FilterQuality
}

// NewShaderMaskLayer creates a shader mask layer.
func NewShaderMaskLayer(s *gfx.Shader, maskRect geom.Rect, mode gfx.BlendMode, q gfx.FilterQuality) *ShaderMaskLayer {
	l := &ShaderMaskLayer{Shader: s, MaskRect: maskRect, BlendMode: mode, FilterQuality: q}
	l.self = l
	return l
}

// Kind implements Layer.
func (l *ShaderMaskLayer) Kind() Kind { return KindShaderMask }

// Paint implements Layer. The mask is a leaf draw and goes to the leaf
// canvas only.
func (l *ShaderMaskLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l)
	bounds := l.PaintBounds()
	ctx.InternalNodes.SaveLayer(&bounds, nil)
	l.PaintChildren(ctx)

	p := ctx.resources().NewPaint()
	p.SetShader(l.Shader)
	p.SetBlendMode(l.BlendMode)
	p.SetFilterQuality(l.FilterQuality)

	leaf := ctx.LeafNodes
	leaf.Save()
	leaf.Translate(l.MaskRect.Left, l.MaskRect.Top)
	leaf.DrawRect(geom.LTWH(0, 0, l.MaskRect.Width(), l.MaskRect.Height()), p)
	leaf.Restore()

	ctx.InternalNodes.Restore()
}

func (l *ShaderMaskLayer) describe() string {
	return l.MaskRect.String() + " " + l.BlendMode.String()
}

// PhysicalShapeLayer fills a path with a color, casts its shadow, and clips
// its children to the path.
type PhysicalShapeLayer struct {
	ContainerLayer
	Path         gfx.Path
	Elevation    float64
	Color        gfx.Color
	ShadowColor  gfx.Color
	ClipBehavior gfx.ClipBehavior
}

// NewPhysicalShapeLayer creates a physical shape layer.
func NewPhysicalShapeLayer(p gfx.Path, elevation float64, color, shadowColor gfx.Color, behavior gfx.ClipBehavior) *PhysicalShapeLayer {
	l := &PhysicalShapeLayer{Path: p, Elevation: elevation, Color: color, ShadowColor: shadowColor, ClipBehavior: behavior}
	l.self = l
	return l
}

// Kind implements Layer.
func (l *PhysicalShapeLayer) Kind() Kind { return KindPhysicalShape }

// Preroll implements Layer.
func (l *PhysicalShapeLayer) Preroll(ctx *PrerollContext, m geom.Matrix4) {
	clips := l.ClipBehavior != gfx.ClipNone
	if clips {
		ctx.Mutators.PushClipPath(l.Path)
	}
	children := l.PrerollChildren(ctx, m)
	if clips {
		ctx.Mutators.Pop()
	}

	var bounds geom.Rect
	if l.Elevation == 0 {
		bounds = gfx.PathBounds(l.Path)
	} else {
		bounds = ctx.backend().ComputeShadowBounds(l.Path, l.Elevation, ctx.dpr(), m)
	}
	if !clips {
		bounds = bounds.Union(children)
	}
	l.setPaintBounds(ctx, bounds)
}

// Paint implements Layer.
func (l *PhysicalShapeLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l)
	c := ctx.InternalNodes
	saveCount := c.Save()

	if l.Elevation != 0 {
		ctx.LeafNodes.DrawShadow(l.Path, l.ShadowColor, l.Elevation, l.Color.Alpha() != 0xFF, ctx.dpr())
	}

	p := ctx.resources().NewPaint()
	p.SetColor(l.Color)
	if l.ClipBehavior != gfx.ClipAntiAliasWithSaveLayer {
		ctx.LeafNodes.DrawPath(l.Path, p)
	}

	switch l.ClipBehavior {
	case gfx.ClipHardEdge:
		c.ClipPath(l.Path, false)
	case gfx.ClipAntiAlias:
		c.ClipPath(l.Path, true)
	case gfx.ClipAntiAliasWithSaveLayer:
		c.ClipPath(l.Path, true)
		bounds := l.PaintBounds()
		c.SaveLayer(&bounds, nil)
		// An anti-aliased DrawPath would bleed at the clip edge.
		ctx.LeafNodes.DrawPaint(p)
	}

	l.PaintChildren(ctx)
	c.RestoreToCount(saveCount)
}

func (l *PhysicalShapeLayer) describe() string {
	return fmt.Sprintf("%v elevation=%g color=%v %v", gfx.PathBounds(l.Path), l.Elevation, l.Color, l.ClipBehavior)
}

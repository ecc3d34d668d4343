// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/gogpu/flute"
	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// layerKind says how a save entry was opened.
type layerKind uint8

const (
	// kindSave is a plain save.
	kindSave layerKind = iota
	// kindLayer is a gg layer composited by gg on restore.
	kindLayer
	// kindOffscreen renders into a separate context that is filtered and
	// composited by the canvas on restore.
	kindOffscreen
)

// saveEntry is one level of the save stack.
type saveEntry struct {
	kind   layerKind
	matrix geom.Matrix4
	parent *gg.Context
	paint  *gfx.Paint
}

// Canvas is a gfx.Canvas drawing into a gg.Context.
//
// Canvas is not safe for concurrent use.
type Canvas struct {
	root   *gg.Context
	target *gg.Context
	matrix geom.Matrix4
	stack  []saveEntry
}

var _ gfx.Canvas = (*Canvas)(nil)

// NewCanvas creates a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return NewCanvasForContext(gg.NewContext(width, height))
}

// NewCanvasForContext wraps an existing context. The context's transform is
// reset to identity.
func NewCanvasForContext(dc *gg.Context) *Canvas {
	dc.Identity()
	return &Canvas{root: dc, target: dc, matrix: geom.Identity()}
}

// Context returns the root context.
func (c *Canvas) Context() *gg.Context { return c.root }

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.root.Width() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.root.Height() }

// Clear fills the whole canvas with col, ignoring clips.
func (c *Canvas) Clear(col gfx.Color) {
	c.root.ClearWithColor(toRGBA(col))
}

// Snapshot copies the root context into an Image.
func (c *Canvas) Snapshot() *Image {
	return &Image{RGBA: toRGBAImage(c.root.Image())}
}

func toRGBAImage(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

func (c *Canvas) syncMatrix() {
	c.target.SetTransform(c.matrix.Affine())
}

// ----------------------------------------------------------------------------
// gfx.NodeCanvas
// ----------------------------------------------------------------------------

// Save implements gfx.NodeCanvas.
func (c *Canvas) Save() int {
	n := c.SaveCount()
	c.target.Push()
	c.stack = append(c.stack, saveEntry{kind: kindSave, matrix: c.matrix})
	return n
}

// SaveLayer implements gfx.NodeCanvas.
func (c *Canvas) SaveLayer(bounds *geom.Rect, p *gfx.Paint) {
	c.target.Push()
	if bounds != nil {
		c.clipRect(*bounds)
	}
	e := saveEntry{kind: kindLayer, matrix: c.matrix, paint: p}
	if needsOffscreen(p) {
		e.kind = kindOffscreen
		e.parent = c.target
		c.target = gg.NewContext(c.root.Width(), c.root.Height())
		c.syncMatrix()
		if bounds != nil {
			c.clipRect(*bounds)
		}
	} else {
		mode, opacity := gg.BlendNormal, 1.0
		if p != nil {
			mode, opacity = blendMode(p.BlendMode()), p.Color().Opacity()
		}
		c.target.PushLayer(mode, opacity)
	}
	c.stack = append(c.stack, e)
}

// SaveLayerWithFilter implements gfx.NodeCanvas. The backdrop filter is
// applied to the content under bounds before the layer opens.
func (c *Canvas) SaveLayerWithFilter(bounds *geom.Rect, p *gfx.Paint, backdrop *gfx.ImageFilter) {
	if backdrop != nil {
		filtered := filterImage(c.target.Image(), backdrop)
		c.target.Push()
		if bounds != nil {
			c.clipRect(*bounds)
		}
		c.target.Identity()
		c.target.DrawImage(gg.ImageBufFromImage(filtered), 0, 0)
		c.target.Pop()
		c.syncMatrix()
	}
	c.SaveLayer(bounds, p)
}

// needsOffscreen reports whether a layer paint carries filters gg layers
// cannot apply.
func needsOffscreen(p *gfx.Paint) bool {
	if p == nil {
		return false
	}
	d := p.Desc()
	return d.ImageFilter != nil || d.ColorFilter != nil
}

// Restore implements gfx.NodeCanvas.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	e := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]

	switch e.kind {
	case kindLayer:
		c.target.PopLayer()
	case kindOffscreen:
		content := layerImage(c.target.Image(), e.paint)
		c.target = e.parent
		c.composite(content, e.paint)
	}
	c.target.Pop()
	c.matrix = e.matrix
	c.syncMatrix()
}

// composite draws a device-space image onto the target with the opacity
// and blend mode of p.
func (c *Canvas) composite(img image.Image, p *gfx.Paint) {
	opts := gg.DrawImageOptions{
		Interpolation: gg.InterpNearest,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	}
	if p != nil {
		opts.Opacity = p.Color().Opacity()
		opts.BlendMode = blendMode(p.BlendMode())
	}
	c.target.Push()
	c.target.Identity()
	c.target.DrawImageEx(gg.ImageBufFromImage(img), opts)
	c.target.Pop()
}

// RestoreToCount implements gfx.NodeCanvas.
func (c *Canvas) RestoreToCount(count int) {
	for c.SaveCount() > max(count, 1) {
		c.Restore()
	}
}

// SaveCount implements gfx.NodeCanvas.
func (c *Canvas) SaveCount() int {
	return len(c.stack) + 1
}

// Translate implements gfx.NodeCanvas.
func (c *Canvas) Translate(dx, dy float64) {
	c.matrix = c.matrix.Translate(dx, dy)
	c.syncMatrix()
}

// Transform implements gfx.NodeCanvas.
func (c *Canvas) Transform(m geom.Matrix4) {
	c.matrix = c.matrix.Multiply(m)
	c.syncMatrix()
}

// ClipRect implements gfx.NodeCanvas. Difference clips are not supported
// by gg and are ignored.
func (c *Canvas) ClipRect(r geom.Rect, op gfx.ClipOp, _ bool) {
	if op == gfx.ClipDifference {
		flute.Logger().Debug("raster: difference clip ignored", "rect", r)
		return
	}
	c.clipRect(r)
}

func (c *Canvas) clipRect(r geom.Rect) {
	if isAxisAligned(c.matrix) {
		c.target.ClipRect(r.Left, r.Top, r.Width(), r.Height())
		return
	}
	c.clipPath(gfx.RectPath(r))
}

// ClipRRect implements gfx.NodeCanvas.
func (c *Canvas) ClipRRect(rr geom.RRect, _ bool) {
	c.clipPath(gfx.RRectPath(rr))
}

// ClipPath implements gfx.NodeCanvas.
func (c *Canvas) ClipPath(p gfx.Path, _ bool) {
	c.clipPath(p)
}

func (c *Canvas) clipPath(p gfx.Path) {
	c.target.ClearPath()
	appendPath(c.target, p)
	c.target.Clip()
}

func isAxisAligned(m geom.Matrix4) bool {
	return m[1] == 0 && m[4] == 0
}

// ----------------------------------------------------------------------------
// gfx.Canvas
// ----------------------------------------------------------------------------

// TotalMatrix implements gfx.Canvas.
func (c *Canvas) TotalMatrix() geom.Matrix4 {
	return c.matrix
}

// DrawPaint implements gfx.Canvas.
func (c *Canvas) DrawPaint(p *gfx.Paint) {
	c.target.Push()
	c.target.Identity()
	c.target.ClearPath()
	c.target.DrawRectangle(0, 0, float64(c.target.Width()), float64(c.target.Height()))
	c.target.SetFillBrush(brushOf(p))
	_ = c.target.Fill()
	c.target.Pop()
}

// DrawRect implements gfx.Canvas.
func (c *Canvas) DrawRect(r geom.Rect, p *gfx.Paint) {
	c.drawPath(gfx.RectPath(r), p)
}

// DrawRRect implements gfx.Canvas.
func (c *Canvas) DrawRRect(rr geom.RRect, p *gfx.Paint) {
	c.drawPath(gfx.RRectPath(rr), p)
}

// DrawPath implements gfx.Canvas.
func (c *Canvas) DrawPath(path gfx.Path, p *gfx.Paint) {
	c.drawPath(path, p)
}

func (c *Canvas) drawPath(path gfx.Path, p *gfx.Paint) {
	if path == nil {
		return
	}
	c.target.ClearPath()
	appendPath(c.target, path)
	brush := brushOf(p)
	if p != nil && p.Style() == gfx.StyleStroke {
		c.target.SetStrokeBrush(brush)
		c.target.SetLineWidth(max(p.StrokeWidth(), 1))
		_ = c.target.Stroke()
		return
	}
	c.target.SetFillBrush(brush)
	_ = c.target.Fill()
}

// DrawShadow implements gfx.Canvas. The occluder is filled offscreen in the
// shadow color, shifted down in device space by half the elevation, blurred
// with that sigma, and composited under the current clip.
func (c *Canvas) DrawShadow(path gfx.Path, col gfx.Color, elevation float64, transparentOccluder bool, dpr float64) {
	if path == nil || elevation <= 0 || col.Alpha() == 0 {
		return
	}
	if dpr <= 0 {
		dpr = 1
	}
	alpha := float64(col.Alpha()) * 0.5
	if transparentOccluder {
		alpha *= 0.5
	}

	sigma := gfx.ShadowOffset(elevation, dpr)
	off := gg.NewContext(c.root.Width(), c.root.Height())
	off.SetTransform(geom.Translation(0, sigma).Multiply(c.matrix).Affine())
	appendPath(off, path)
	off.SetFillBrush(gg.Solid(toRGBA(col.WithAlpha(uint8(alpha)))))
	_ = off.Fill()

	blurred := filterImage(off.Image(), gfx.NewBlurImageFilter(sigma, sigma, gfx.TileDecal))
	c.composite(blurred, nil)
}

// DrawPicture implements gfx.Canvas.
func (c *Canvas) DrawPicture(pic gfx.Picture) {
	pic.Playback(c)
}

// DrawImage implements gfx.Canvas. Images the backend cannot read are
// skipped.
func (c *Canvas) DrawImage(img gfx.Image, at geom.Offset, p *gfx.Paint) {
	src := stdImage(img)
	if src == nil {
		flute.Logger().Debug("raster: unsupported image", "type", img)
		return
	}
	opts := gg.DrawImageOptions{
		X:             at.X,
		Y:             at.Y,
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	}
	if p != nil {
		opts.Opacity = p.Color().Opacity()
		if p.FilterQuality() == gfx.FilterNone {
			opts.Interpolation = gg.InterpNearest
		}
	}
	c.target.DrawImageEx(gg.ImageBufFromImage(src), opts)
}

// appendPath adds the elements of p to the current path of dc.
func appendPath(dc *gg.Context, p gfx.Path) {
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			dc.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			dc.LineTo(e.Point.X, e.Point.Y)
		case gg.QuadTo:
			dc.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case gg.CubicTo:
			dc.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			dc.ClosePath()
		}
	}
}

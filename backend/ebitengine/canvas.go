// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitengine

import (
	"image"
	"math"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gogpu/flute"
	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(gfx.White.NRGBA())
}

// saveEntry is one level of the save stack.
type saveEntry struct {
	matrix geom.Matrix4
	clip   image.Rectangle

	// Set for save layers.
	parent *ebiten.Image
	paint  *gfx.Paint
}

// Canvas is a gfx.Canvas drawing into an ebiten image.
//
// Clips are kept as device-space rectangles. Rotated rectangles, rounded
// rectangles and paths clip to their device bounds.
//
// Canvas is not safe for concurrent use.
type Canvas struct {
	root   *ebiten.Image
	layer  *ebiten.Image
	matrix geom.Matrix4
	clip   image.Rectangle
	stack  []saveEntry
}

var _ gfx.Canvas = (*Canvas)(nil)

// NewCanvas creates a canvas on a new transparent image.
func NewCanvas(width, height int) *Canvas {
	return NewCanvasForImage(ebiten.NewImage(width, height))
}

// NewCanvasForImage wraps dst, typically the screen passed to Draw.
func NewCanvasForImage(dst *ebiten.Image) *Canvas {
	return &Canvas{root: dst, layer: dst, matrix: geom.Identity(), clip: dst.Bounds()}
}

// Target returns the root image.
func (c *Canvas) Target() *ebiten.Image { return c.root }

// Clip returns the current device clip.
func (c *Canvas) Clip() image.Rectangle { return c.clip }

// Clear fills the whole root image with col, ignoring clips.
func (c *Canvas) Clear(col gfx.Color) {
	c.root.Fill(col.NRGBA())
}

// target is the clipped region of the current layer.
func (c *Canvas) target() *ebiten.Image {
	return c.layer.SubImage(c.clip).(*ebiten.Image)
}

// ----------------------------------------------------------------------------
// gfx.NodeCanvas
// ----------------------------------------------------------------------------

// Save implements gfx.NodeCanvas.
func (c *Canvas) Save() int {
	n := c.SaveCount()
	c.stack = append(c.stack, saveEntry{matrix: c.matrix, clip: c.clip})
	return n
}

// SaveLayer implements gfx.NodeCanvas.
func (c *Canvas) SaveLayer(bounds *geom.Rect, p *gfx.Paint) {
	c.stack = append(c.stack, saveEntry{matrix: c.matrix, clip: c.clip, parent: c.layer, paint: p})
	if bounds != nil {
		c.clipRect(*bounds)
	}
	b := c.root.Bounds()
	c.layer = ebiten.NewImage(b.Dx(), b.Dy())
}

// SaveLayerWithFilter implements gfx.NodeCanvas. Only backdrop filters that
// reduce to a color matrix are applied.
func (c *Canvas) SaveLayerWithFilter(bounds *geom.Rect, p *gfx.Paint, backdrop *gfx.ImageFilter) {
	if backdrop != nil {
		c.filterBackdrop(bounds, backdrop)
	}
	c.SaveLayer(bounds, p)
}

func (c *Canvas) filterBackdrop(bounds *geom.Rect, f *gfx.ImageFilter) {
	d := f.Desc()
	if d.Kind != gfx.ImageFilterColorFilter {
		flute.Logger().Debug("ebiten: backdrop filter ignored", "filter", d.Kind)
		return
	}
	cm, ok := colorM(d.ColorFilter)
	if !ok {
		flute.Logger().Debug("ebiten: backdrop color filter ignored", "filter", d.ColorFilter)
		return
	}
	region := c.clip
	if bounds != nil {
		region = region.Intersect(deviceRect(c.matrix, *bounds))
	}
	if region.Empty() {
		return
	}
	src := ebiten.NewImage(region.Dx(), region.Dy())
	defer src.Deallocate()
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(-region.Min.X), float64(-region.Min.Y))
	src.DrawImage(c.layer.SubImage(region).(*ebiten.Image), &op)

	dst := c.layer.SubImage(region).(*ebiten.Image)
	dst.Clear()
	var cop colorm.DrawImageOptions
	cop.GeoM.Translate(float64(region.Min.X), float64(region.Min.Y))
	colorm.DrawImage(dst, src, cm, &cop)
}

// Restore implements gfx.NodeCanvas.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	e := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.matrix = e.matrix
	c.clip = e.clip
	if e.parent == nil {
		return
	}
	content := c.layer
	c.layer = e.parent
	c.composite(content, e.paint)
	content.Deallocate()
}

// composite draws a layer image onto the current target with the opacity,
// blend mode and filters of p.
func (c *Canvas) composite(img *ebiten.Image, p *gfx.Paint) {
	var (
		g       ebiten.GeoM
		opacity = 1.0
		mode    = gfx.BlendSrcOver
		filter  *gfx.ColorFilter
	)
	if p != nil {
		d := p.Desc()
		opacity = d.Color.Opacity()
		mode = d.BlendMode
		filter = d.ColorFilter
		if d.ImageFilter != nil {
			g, filter = c.imageFilter(d.ImageFilter, filter)
		}
	}
	dst := c.target()
	if filter == nil {
		var op ebiten.DrawImageOptions
		op.GeoM = g
		op.ColorScale.ScaleAlpha(float32(opacity))
		op.Blend = blend(mode)
		dst.DrawImage(img, &op)
		return
	}
	cm, ok := colorM(filter)
	if !ok {
		flute.Logger().Debug("ebiten: layer color filter ignored", "filter", filter)
	}
	cm.Scale(1, 1, 1, opacity)
	var op colorm.DrawImageOptions
	op.GeoM = g
	op.Blend = blend(mode)
	colorm.DrawImage(dst, img, cm, &op)
}

// imageFilter reduces f to a device transform and an extra color filter.
// Blurs have no GPU path here and are skipped.
func (c *Canvas) imageFilter(f *gfx.ImageFilter, cf *gfx.ColorFilter) (ebiten.GeoM, *gfx.ColorFilter) {
	var g ebiten.GeoM
	d := f.Desc()
	switch d.Kind {
	case gfx.ImageFilterMatrix:
		// The filter matrix applies in local space around the device origin
		// of the layer.
		inv, ok := c.matrix.Invert()
		if ok {
			g = geoM(c.matrix.Multiply(d.Matrix).Multiply(inv))
		}
	case gfx.ImageFilterColorFilter:
		if cf == nil {
			cf = d.ColorFilter
		} else {
			cf = gfx.ComposeColorFilters(cf, d.ColorFilter)
		}
	case gfx.ImageFilterCompose:
		outerG, outerCF := c.imageFilter(d.Outer, nil)
		innerG, innerCF := c.imageFilter(d.Inner, cf)
		innerG.Concat(outerG)
		g = innerG
		switch {
		case outerCF == nil:
			cf = innerCF
		case innerCF == nil:
			cf = outerCF
		default:
			cf = gfx.ComposeColorFilters(outerCF, innerCF)
		}
	default:
		flute.Logger().Debug("ebiten: image filter ignored", "filter", d.Kind)
	}
	return g, cf
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
}

// Transform implements gfx.NodeCanvas.
func (c *Canvas) Transform(m geom.Matrix4) {
	c.matrix = c.matrix.Multiply(m)
}

// ClipRect implements gfx.NodeCanvas. Difference clips are ignored.
func (c *Canvas) ClipRect(r geom.Rect, op gfx.ClipOp, _ bool) {
	if op == gfx.ClipDifference {
		flute.Logger().Debug("ebiten: difference clip ignored", "rect", r)
		return
	}
	c.clipRect(r)
}

func (c *Canvas) clipRect(r geom.Rect) {
	c.clip = c.clip.Intersect(deviceRect(c.matrix, r))
}

// ClipRRect implements gfx.NodeCanvas.
func (c *Canvas) ClipRRect(rr geom.RRect, _ bool) {
	c.clipRect(rr.Bounds())
}

// ClipPath implements gfx.NodeCanvas.
func (c *Canvas) ClipPath(p gfx.Path, _ bool) {
	c.clipRect(gfx.PathBounds(p))
}

// deviceRect returns the pixel rectangle covering r under m.
func deviceRect(m geom.Matrix4, r geom.Rect) image.Rectangle {
	d := geom.TransformRect(m, r)
	if d.IsEmpty() {
		return image.Rectangle{}
	}
	d = d.RoundOut()
	clamp := func(v float64) int {
		return int(max(min(v, math.MaxInt32), math.MinInt32))
	}
	return image.Rect(clamp(d.Left), clamp(d.Top), clamp(d.Right), clamp(d.Bottom))
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
	if p == nil || p.Shader() == nil {
		r := c.clip
		vector.DrawFilledRect(c.target(), float32(r.Min.X), float32(r.Min.Y),
			float32(r.Dx()), float32(r.Dy()), nrgba(paintColor(p)), false)
		return
	}
	inv, ok := c.matrix.Invert()
	if !ok {
		return
	}
	r := geom.LTRB(float64(c.clip.Min.X), float64(c.clip.Min.Y), float64(c.clip.Max.X), float64(c.clip.Max.Y))
	c.drawPath(gfx.RectPath(geom.TransformRect(inv, r)), p)
}

// DrawRect implements gfx.Canvas.
func (c *Canvas) DrawRect(r geom.Rect, p *gfx.Paint) {
	if c.matrix.IsTranslate() && (p == nil || (p.Style() == gfx.StyleFill && p.Shader() == nil)) {
		d := geom.TransformRect(c.matrix, r)
		vector.DrawFilledRect(c.target(), float32(d.Left), float32(d.Top),
			float32(d.Width()), float32(d.Height()), nrgba(paintColor(p)), p == nil || p.AntiAlias())
		return
	}
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
	vp := vectorPath(path)
	var (
		vs []ebiten.Vertex
		is []uint16
		op ebiten.DrawTrianglesOptions
	)
	if p != nil && p.Style() == gfx.StyleStroke {
		vs, is = vp.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{
			Width:      float32(max(p.StrokeWidth(), 1)),
			LineJoin:   vector.LineJoinMiter,
			MiterLimit: 10,
		})
	} else {
		vs, is = vp.AppendVerticesAndIndicesForFilling(nil, nil)
		op.FillRule = ebiten.FillRuleNonZero
	}
	c.shade(vs, p)
	op.AntiAlias = p == nil || p.AntiAlias()
	if p != nil {
		op.Blend = blend(p.BlendMode())
	}
	c.target().DrawTriangles(vs, is, whiteSubImage, &op)
}

// shade colors vertices given in local space and moves them to device
// space.
func (c *Canvas) shade(vs []ebiten.Vertex, p *gfx.Paint) {
	var sh *gfx.ShaderDesc
	if p != nil && p.Shader() != nil {
		d := p.Shader().Desc()
		sh = &d
	}
	col := paintColor(p)
	for i := range vs {
		v := &vs[i]
		x, y := float64(v.DstX), float64(v.DstY)
		if sh != nil {
			col = shaderColor(*sh, x, y)
			if p.EffectiveColorFilter() != nil {
				col = p.EffectiveColorFilter().Apply(col)
			}
		}
		dx, dy := c.matrix.TransformPoint(x, y)
		v.DstX, v.DstY = float32(dx), float32(dy)
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = premultiplied(col)
	}
}

// DrawShadow implements gfx.Canvas. The occluder is filled in the shadow
// color, offset downward by half the elevation. The GPU path does not blur.
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
	p := gfx.NewColorPaint(col.WithAlpha(uint8(alpha)))
	saved := c.matrix
	c.matrix = geom.Translation(0, gfx.ShadowOffset(elevation, dpr)).Multiply(c.matrix)
	c.drawPath(path, p)
	c.matrix = saved
}

// DrawPicture implements gfx.Canvas.
func (c *Canvas) DrawPicture(pic gfx.Picture) {
	pic.Playback(c)
}

// DrawImage implements gfx.Canvas.
func (c *Canvas) DrawImage(img gfx.Image, at geom.Offset, p *gfx.Paint) {
	src := ebitenImage(img)
	if src == nil {
		flute.Logger().Debug("ebiten: unsupported image", "type", img)
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(at.X, at.Y)
	op.GeoM.Concat(geoM(c.matrix))
	op.Filter = ebiten.FilterLinear
	if p != nil {
		op.ColorScale.ScaleAlpha(float32(p.Color().Opacity()))
		op.Blend = blend(p.BlendMode())
		if p.FilterQuality() == gfx.FilterNone {
			op.Filter = ebiten.FilterNearest
		}
	}
	c.target().DrawImage(src, &op)
}

// paintColor is the solid color of p after its color filter.
func paintColor(p *gfx.Paint) gfx.Color {
	if p == nil {
		return gfx.Black
	}
	return p.ResolvedColor()
}

// shaderColor evaluates a shader at a local point. Colors between vertices
// are interpolated by the rasterizer.
func shaderColor(d gfx.ShaderDesc, x, y float64) gfx.Color {
	var t float64
	switch d.Kind {
	case gfx.ShaderLinearGradient:
		dx, dy := d.To.X-d.From.X, d.To.Y-d.From.Y
		if l := dx*dx + dy*dy; l > 0 {
			t = ((x-d.From.X)*dx + (y-d.From.Y)*dy) / l
		}
	case gfx.ShaderRadialGradient:
		if d.Radius > 0 {
			t = math.Hypot(x-d.From.X, y-d.From.Y) / d.Radius
		}
	default:
		return d.Color
	}
	colors, stops := d.GradientStops()
	if len(colors) == 0 {
		return gfx.Transparent
	}
	switch d.Tile {
	case gfx.TileRepeated:
		t -= math.Floor(t)
	case gfx.TileMirror:
		t = math.Abs(t - 2*math.Floor(t/2))
		if t > 1 {
			t = 2 - t
		}
	case gfx.TileDecal:
		if t < 0 || t > 1 {
			return gfx.Transparent
		}
	}
	if t <= stops[0] {
		return colors[0]
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i] {
			span := stops[i] - stops[i-1]
			if span <= 0 {
				return colors[i]
			}
			return lerpColor(colors[i-1], colors[i], (t-stops[i-1])/span)
		}
	}
	return colors[len(colors)-1]
}

func lerpColor(a, b gfx.Color, t float64) gfx.Color {
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return gfx.ARGB(ch(a.Alpha(), b.Alpha()), ch(a.Red(), b.Red()), ch(a.Green(), b.Green()), ch(a.Blue(), b.Blue()))
}

// vectorPath converts a gg path to a vector path in the same space.
func vectorPath(p gfx.Path) *vector.Path {
	var vp vector.Path
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			vp.MoveTo(float32(e.Point.X), float32(e.Point.Y))
		case gg.LineTo:
			vp.LineTo(float32(e.Point.X), float32(e.Point.Y))
		case gg.QuadTo:
			vp.QuadTo(float32(e.Control.X), float32(e.Control.Y), float32(e.Point.X), float32(e.Point.Y))
		case gg.CubicTo:
			vp.CubicTo(float32(e.Control1.X), float32(e.Control1.Y),
				float32(e.Control2.X), float32(e.Control2.Y),
				float32(e.Point.X), float32(e.Point.Y))
		case gg.Close:
			vp.Close()
		}
	}
	return &vp
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gogpu/flute/managed"
)

// PaintDesc describes how a paint draws. ColorFilter is the effective
// filter, with color inversion already composed in.
type PaintDesc struct {
	Color         Color
	BlendMode     BlendMode
	Style         PaintStyle
	StrokeWidth   float64
	AntiAlias     bool
	FilterQuality FilterQuality
	InvertColors  bool

	Shader      *Shader
	ColorFilter *ColorFilter
	ImageFilter *ImageFilter
}

// DefaultPaintDesc is opaque black, source-over, anti-aliased fill.
func DefaultPaintDesc() PaintDesc {
	return PaintDesc{Color: Black, BlendMode: BlendSrcOver, AntiAlias: true}
}

// Paint is a managed paint.
//
// Changing a property swaps in a new description; a native built for the old
// description is handed to the collector rather than deleted, since a frame
// in flight may still reference it.
type Paint struct {
	res      *Resources
	n        native[PaintDesc, NativePaint]
	original *ColorFilter
}

// NewPaint returns a paint with DefaultPaintDesc.
func (r *Resources) NewPaint() *Paint {
	p := &Paint{res: r}
	p.n.obj = r.paintObject(DefaultPaintDesc())
	return p
}

// NewPaintFromDesc returns a paint for d. d.ColorFilter is taken as the
// user filter; inversion is composed on top when d.InvertColors is set.
func (r *Resources) NewPaintFromDesc(d PaintDesc) *Paint {
	p := &Paint{res: r, original: d.ColorFilter}
	p.resolveColorFilter(&d)
	p.n.obj = r.paintObject(d)
	return p
}

// NewPaint is Default().NewPaint.
func NewPaint() *Paint {
	return Default().NewPaint()
}

// NewColorPaint returns a default paint of color c.
func (r *Resources) NewColorPaint(c Color) *Paint {
	d := DefaultPaintDesc()
	d.Color = c
	p := &Paint{res: r}
	p.n.obj = r.paintObject(d)
	return p
}

// NewColorPaint is Default().NewColorPaint.
func NewColorPaint(c Color) *Paint {
	return Default().NewColorPaint(c)
}

func (r *Resources) paintObject(d PaintDesc) *managed.Object[PaintDesc, NativePaint] {
	return managed.New[PaintDesc, NativePaint](d, managed.FactoryFunc[PaintDesc, NativePaint](r.backend.NewNativePaint))
}

func (r *Resources) invertFilter() *ColorFilter {
	r.invertOnce.Do(func() {
		r.invert = r.NewMatrixColorFilter(InvertColorMatrix)
	})
	return r.invert
}

// Desc returns the current description.
func (p *Paint) Desc() PaintDesc {
	return p.n.obj.Key()
}

// Native returns the backend object for the current description.
func (p *Paint) Native() NativePaint {
	return p.n.handle(func(h NativePaint) runtime.Cleanup {
		return managed.Track(p, h, p.res.collector)
	})
}

// State reports whether the native is absent, present or deleted.
func (p *Paint) State() managed.State {
	return p.n.obj.State()
}

// Delete frees the native now. The paint stays usable.
func (p *Paint) Delete() error {
	return p.n.delete()
}

// Resources returns the resource set the paint was created from.
func (p *Paint) Resources() *Resources {
	return p.res
}

func (p *Paint) update(fn func(d *PaintDesc)) {
	d := p.Desc()
	fn(&d)
	if d == p.Desc() {
		return
	}
	if p.n.obj.State() == managed.StatePresent {
		p.n.release(p.res.collector)
	}
	p.n = native[PaintDesc, NativePaint]{obj: p.res.paintObject(d)}
}

func (p *Paint) resolveColorFilter(d *PaintDesc) {
	switch {
	case !d.InvertColors:
		d.ColorFilter = p.original
	case p.original == nil:
		d.ColorFilter = p.res.invertFilter()
	default:
		d.ColorFilter = p.res.ComposeColorFilters(p.res.invertFilter(), p.original)
	}
}

// Color returns the paint color.
func (p *Paint) Color() Color { return p.Desc().Color }

// SetColor sets the paint color.
func (p *Paint) SetColor(c Color) {
	p.update(func(d *PaintDesc) { d.Color = c })
}

// BlendMode returns the blend mode.
func (p *Paint) BlendMode() BlendMode { return p.Desc().BlendMode }

// SetBlendMode sets the blend mode.
func (p *Paint) SetBlendMode(m BlendMode) {
	p.update(func(d *PaintDesc) { d.BlendMode = m })
}

// Style returns fill or stroke.
func (p *Paint) Style() PaintStyle { return p.Desc().Style }

// SetStyle sets fill or stroke.
func (p *Paint) SetStyle(s PaintStyle) {
	p.update(func(d *PaintDesc) { d.Style = s })
}

// StrokeWidth returns the stroke width.
func (p *Paint) StrokeWidth() float64 { return p.Desc().StrokeWidth }

// SetStrokeWidth sets the stroke width.
func (p *Paint) SetStrokeWidth(w float64) {
	p.update(func(d *PaintDesc) { d.StrokeWidth = w })
}

// AntiAlias reports whether edges are anti-aliased.
func (p *Paint) AntiAlias() bool { return p.Desc().AntiAlias }

// SetAntiAlias toggles anti-aliasing.
func (p *Paint) SetAntiAlias(aa bool) {
	p.update(func(d *PaintDesc) { d.AntiAlias = aa })
}

// FilterQuality returns the image sampling quality.
func (p *Paint) FilterQuality() FilterQuality { return p.Desc().FilterQuality }

// SetFilterQuality sets the image sampling quality.
func (p *Paint) SetFilterQuality(q FilterQuality) {
	p.update(func(d *PaintDesc) { d.FilterQuality = q })
}

// Shader returns the shader, or nil.
func (p *Paint) Shader() *Shader { return p.Desc().Shader }

// SetShader sets the shader. Nil paints with Color.
func (p *Paint) SetShader(s *Shader) {
	p.update(func(d *PaintDesc) { d.Shader = s })
}

// ImageFilter returns the image filter, or nil.
func (p *Paint) ImageFilter() *ImageFilter { return p.Desc().ImageFilter }

// SetImageFilter sets the image filter.
func (p *Paint) SetImageFilter(f *ImageFilter) {
	p.update(func(d *PaintDesc) { d.ImageFilter = f })
}

// ColorFilter returns the filter last passed to SetColorFilter, without
// color inversion.
func (p *Paint) ColorFilter() *ColorFilter { return p.original }

// EffectiveColorFilter returns the filter actually applied when drawing.
func (p *Paint) EffectiveColorFilter() *ColorFilter { return p.Desc().ColorFilter }

// SetColorFilter sets the user color filter. When colors are inverted the
// inversion is composed on top of f.
func (p *Paint) SetColorFilter(f *ColorFilter) {
	p.original = f
	p.update(p.resolveColorFilter)
}

// InvertColors reports whether colors are inverted.
func (p *Paint) InvertColors() bool { return p.Desc().InvertColors }

// SetInvertColors toggles color inversion. The user color filter survives
// any number of toggles.
func (p *Paint) SetInvertColors(invert bool) {
	p.update(func(d *PaintDesc) {
		d.InvertColors = invert
		p.resolveColorFilter(d)
	})
}

// ResolvedColor is the paint color after the effective color filter.
func (p *Paint) ResolvedColor() Color {
	d := p.Desc()
	if d.ColorFilter == nil {
		return d.Color
	}
	return d.ColorFilter.Apply(d.Color)
}

// String lists the color and every property that differs from the default,
// as in paint{color=ARGB(128,0,0,0), blend=plus}.
func (p *Paint) String() string {
	if p == nil {
		return "paint{}"
	}
	d := p.Desc()
	def := DefaultPaintDesc()

	var b strings.Builder
	b.WriteString("paint{color=")
	b.WriteString(d.Color.String())
	field := func(name string, v any) {
		b.WriteString(", ")
		b.WriteString(name)
		b.WriteByte('=')
		fmt.Fprint(&b, v)
	}
	if d.BlendMode != def.BlendMode {
		field("blend", d.BlendMode)
	}
	if d.Style != def.Style {
		field("style", d.Style)
		field("strokeWidth", d.StrokeWidth)
	}
	if d.AntiAlias != def.AntiAlias {
		field("antiAlias", d.AntiAlias)
	}
	if d.FilterQuality != def.FilterQuality {
		field("filterQuality", d.FilterQuality)
	}
	if d.InvertColors {
		field("invertColors", true)
	}
	if d.Shader != nil {
		field("shader", d.Shader)
	}
	if d.ColorFilter != nil {
		field("colorFilter", d.ColorFilter)
	}
	if d.ImageFilter != nil {
		field("imageFilter", d.ImageFilter)
	}
	b.WriteByte('}')
	return b.String()
}

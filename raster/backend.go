// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster is a software graphics backend built on gg.
//
// Canvas implements gfx.Canvas on a *gg.Context. Save layers without filters
// map to gg layers; layers with color or image filters, backdrop filters and
// shadows render offscreen and are filtered before being composited. Importing
// the package registers the backend as "raster":
//
//	import _ "github.com/gogpu/flute/raster"
//
//	b := gfx.MustBackend("raster")
package raster

import (
	"sync/atomic"

	"github.com/gogpu/gg"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// Name is the registry name of the backend.
const Name = "raster"

func init() {
	gfx.Register(Name, func() gfx.Backend { return NewBackend() })
}

// Backend realises paint objects as gg brushes and filter state. It counts
// live natives so leaks show up in tests.
type Backend struct {
	live    atomic.Int64
	created atomic.Int64
}

var _ gfx.Backend = (*Backend)(nil)

// NewBackend creates a raster backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Name implements gfx.Backend.
func (b *Backend) Name() string { return Name }

// NewNativePaint implements gfx.Backend.
func (b *Backend) NewNativePaint(d gfx.PaintDesc) gfx.NativePaint {
	return &Paint{native: b.track(), desc: d, brush: paintBrush(d)}
}

// NewNativeColorFilter implements gfx.Backend.
func (b *Backend) NewNativeColorFilter(d gfx.ColorFilterDesc) gfx.NativeColorFilter {
	return &ColorFilter{native: b.track(), desc: d}
}

// NewNativeImageFilter implements gfx.Backend.
func (b *Backend) NewNativeImageFilter(d gfx.ImageFilterDesc) gfx.NativeImageFilter {
	return &ImageFilter{native: b.track(), desc: d}
}

// NewNativeShader implements gfx.Backend.
func (b *Backend) NewNativeShader(d gfx.ShaderDesc) gfx.NativeShader {
	return &Shader{native: b.track(), desc: d, brush: shaderBrush(d)}
}

// ComputeShadowBounds implements gfx.Backend.
func (b *Backend) ComputeShadowBounds(path gfx.Path, elevation, dpr float64, ctm geom.Matrix4) geom.Rect {
	return gfx.ShadowBounds(gfx.PathBounds(path), elevation, dpr, ctm)
}

// Live returns the number of natives created and not yet deleted.
func (b *Backend) Live() int {
	return int(b.live.Load())
}

// Created returns the number of natives ever created.
func (b *Backend) Created() int {
	return int(b.created.Load())
}

func (b *Backend) track() native {
	b.live.Add(1)
	b.created.Add(1)
	return native{owner: b, deleted: new(atomic.Bool)}
}

// native is the deletion state shared by every raster native.
type native struct {
	owner   *Backend
	deleted *atomic.Bool
}

// Delete implements managed.Deletable.
func (n native) Delete() error {
	if !n.deleted.CompareAndSwap(false, true) {
		return gfx.ErrAlreadyDeleted
	}
	n.owner.live.Add(-1)
	return nil
}

// IsDeleted implements managed.Deletable.
func (n native) IsDeleted() bool { return n.deleted.Load() }

// Paint is the native of a gfx.Paint.
type Paint struct {
	native
	desc  gfx.PaintDesc
	brush gg.Brush
}

// Brush returns the brush fills and strokes use.
func (p *Paint) Brush() gg.Brush { return p.brush }

// ColorFilter is the native of a gfx.ColorFilter.
type ColorFilter struct {
	native
	desc gfx.ColorFilterDesc
}

// Apply filters one color.
func (f *ColorFilter) Apply(c gfx.Color) gfx.Color { return f.desc.Apply(c) }

// ImageFilter is the native of a gfx.ImageFilter.
type ImageFilter struct {
	native
	desc gfx.ImageFilterDesc
}

// Desc returns the description the filter was built from.
func (f *ImageFilter) Desc() gfx.ImageFilterDesc { return f.desc }

// Shader is the native of a gfx.Shader.
type Shader struct {
	native
	desc  gfx.ShaderDesc
	brush gg.Brush
}

// Brush returns the gg brush for the shader.
func (s *Shader) Brush() gg.Brush { return s.brush }

// brushOf resolves the brush for p. Natives of another backend are
// bypassed and the brush is derived from the description.
func brushOf(p *gfx.Paint) gg.Brush {
	if p == nil {
		return gg.Solid(toRGBA(gfx.Black))
	}
	if n, ok := p.Native().(*Paint); ok {
		return n.brush
	}
	return paintBrush(p.Desc())
}

func paintBrush(d gfx.PaintDesc) gg.Brush {
	if d.Shader != nil {
		if n, ok := d.Shader.Native().(*Shader); ok {
			return n.brush
		}
		return shaderBrush(d.Shader.Desc())
	}
	c := d.Color
	if d.ColorFilter != nil {
		c = d.ColorFilter.Apply(c)
	}
	return gg.Solid(toRGBA(c))
}

func shaderBrush(d gfx.ShaderDesc) gg.Brush {
	colors, stops := d.GradientStops()
	switch d.Kind {
	case gfx.ShaderLinearGradient:
		g := gg.NewLinearGradientBrush(d.From.X, d.From.Y, d.To.X, d.To.Y)
		for i, c := range colors {
			g.AddColorStop(stops[i], toRGBA(c))
		}
		return g.SetExtend(extendMode(d.Tile))
	case gfx.ShaderRadialGradient:
		g := gg.NewRadialGradientBrush(d.From.X, d.From.Y, 0, d.Radius)
		for i, c := range colors {
			g.AddColorStop(stops[i], toRGBA(c))
		}
		return g.SetExtend(extendMode(d.Tile))
	default:
		return gg.Solid(toRGBA(d.Color))
	}
}

func extendMode(t gfx.TileMode) gg.ExtendMode {
	switch t {
	case gfx.TileRepeated:
		return gg.ExtendRepeat
	case gfx.TileMirror:
		return gg.ExtendReflect
	default:
		return gg.ExtendPad
	}
}

func toRGBA(c gfx.Color) gg.RGBA {
	return gg.FromColor(c.NRGBA())
}

// blendMode maps the modes gg layers support. Every other mode composites
// as source-over.
func blendMode(m gfx.BlendMode) gg.BlendMode {
	switch m {
	case gfx.BlendMultiply, gfx.BlendModulate:
		return gg.BlendMultiply
	case gfx.BlendScreen:
		return gg.BlendScreen
	case gfx.BlendOverlay:
		return gg.BlendOverlay
	default:
		return gg.BlendNormal
	}
}

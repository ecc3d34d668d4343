// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ebitengine is a GPU graphics backend built on Ebitengine.
//
// Canvas implements gfx.Canvas on an *ebiten.Image. Transforms become GeoM
// values, clips are tracked as device rectangles and applied with SubImage,
// and save layers render into offscreen images that are composited with a
// color scale on restore. Paths are triangulated with the vector package
// and drawn with DrawTriangles.
//
// The backend shares its native paint objects with the raster backend, so
// paints realised for one can be drawn by the other. Importing the package
// registers it as "ebiten":
//
//	import _ "github.com/gogpu/flute/backend/ebitengine"
//
//	b := gfx.MustBackend("ebiten")
package ebitengine

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
	"github.com/gogpu/flute/raster"
	"github.com/gogpu/flute/rastercache"
)

// Name is the registry name of the backend.
const Name = "ebiten"

func init() {
	gfx.Register(Name, func() gfx.Backend { return NewBackend() })
}

// Backend reuses the raster natives under its own name.
type Backend struct {
	*raster.Backend
}

var _ gfx.Backend = (*Backend)(nil)

// NewBackend creates an ebiten backend.
func NewBackend() *Backend {
	return &Backend{Backend: raster.NewBackend()}
}

// Name implements gfx.Backend.
func (b *Backend) Name() string { return Name }

// Image is a GPU image produced by a Canvas. It implements gfx.Image.
type Image struct {
	*ebiten.Image
}

var _ gfx.Image = (*Image)(nil)

// Width implements gfx.Image.
func (i *Image) Width() int { return i.Bounds().Dx() }

// Height implements gfx.Image.
func (i *Image) Height() int { return i.Bounds().Dy() }

// ebitenImage returns img as an ebiten image. CPU images are uploaded.
func ebitenImage(img gfx.Image) *ebiten.Image {
	switch v := img.(type) {
	case *Image:
		return v.Image
	case *raster.Image:
		return ebiten.NewImageFromImage(v.RGBA)
	case image.Image:
		return ebiten.NewImageFromImage(v)
	}
	return nil
}

// Rasterize renders pic transformed by m into a GPU image covering bounds.
// It implements rastercache.Rasterizer.
func Rasterize(pic gfx.Picture, m geom.Matrix4, bounds geom.Rect) (gfx.Image, error) {
	w, h := int(bounds.Width()), int(bounds.Height())
	if w <= 0 || h <= 0 {
		return nil, rastercache.ErrEmptyRaster
	}
	c := NewCanvas(w, h)
	c.Translate(-bounds.Left, -bounds.Top)
	c.Transform(m)
	pic.Playback(c)
	return &Image{Image: c.Target()}, nil
}

// Rasterizer renders pictures for a rastercache.Cache.
var Rasterizer rastercache.Rasterizer = rastercache.RasterizerFunc(Rasterize)

// geoM converts the 2D affine part of m.
func geoM(m geom.Matrix4) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[4])
	g.SetElement(0, 2, m[12])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[5])
	g.SetElement(1, 2, m[13])
	return g
}

// premultiplied returns the vertex color scale for c.
func premultiplied(c gfx.Color) (r, g, b, a float32) {
	a = float32(c.Alpha()) / 255
	r = float32(c.Red()) / 255 * a
	g = float32(c.Green()) / 255 * a
	b = float32(c.Blue()) / 255 * a
	return r, g, b, a
}

func nrgba(c gfx.Color) color.Color {
	return c.NRGBA()
}

// blend maps the modes the GPU blender can express. Every other mode
// composites as source-over.
func blend(m gfx.BlendMode) ebiten.Blend {
	switch m {
	case gfx.BlendClear:
		return ebiten.BlendClear
	case gfx.BlendSrc:
		return ebiten.BlendCopy
	case gfx.BlendDst:
		return ebiten.BlendDestination
	case gfx.BlendDstOver:
		return ebiten.BlendDestinationOver
	case gfx.BlendSrcIn:
		return ebiten.BlendSourceIn
	case gfx.BlendDstIn:
		return ebiten.BlendDestinationIn
	case gfx.BlendSrcOut:
		return ebiten.BlendSourceOut
	case gfx.BlendDstOut:
		return ebiten.BlendDestinationOut
	case gfx.BlendSrcATop:
		return ebiten.BlendSourceAtop
	case gfx.BlendDstATop:
		return ebiten.BlendDestinationAtop
	case gfx.BlendXor:
		return ebiten.BlendXor
	case gfx.BlendPlus:
		return ebiten.BlendLighter
	case gfx.BlendMultiply, gfx.BlendModulate:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case gfx.BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// colorM converts a color filter to a color matrix. ok is false for filters
// a matrix cannot express.
func colorM(f *gfx.ColorFilter) (cm colorm.ColorM, ok bool) {
	if f == nil {
		return cm, true
	}
	d := f.Desc()
	switch d.Kind {
	case gfx.ColorFilterMatrix:
		for row := range 4 {
			for col := range 4 {
				cm.SetElement(row, col, float64(d.Matrix[row*5+col]))
			}
			cm.SetElement(row, 4, float64(d.Matrix[row*5+4])/255)
		}
		return cm, true
	case gfx.ColorFilterCompose:
		outer, ok1 := colorM(d.Outer)
		inner, ok2 := colorM(d.Inner)
		inner.Concat(outer)
		return inner, ok1 && ok2
	default:
		return cm, false
	}
}

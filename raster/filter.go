// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// filterImage applies f to src. The result has the bounds of src.
func filterImage(src image.Image, f *gfx.ImageFilter) image.Image {
	if f == nil {
		return src
	}
	d := f.Desc()
	if n, ok := f.Native().(*ImageFilter); ok {
		d = n.desc
	}

	switch d.Kind {
	case gfx.ImageFilterBlur:
		sigma := (d.SigmaX + d.SigmaY) / 2
		if sigma <= 0 {
			return src
		}
		return imaging.Blur(src, sigma)
	case gfx.ImageFilterMatrix:
		dst := image.NewRGBA(src.Bounds())
		interpolator(d.Quality).Transform(dst, aff3(d.Matrix), src, src.Bounds(), xdraw.Over, nil)
		return dst
	case gfx.ImageFilterColorFilter:
		return filterColors(src, d.ColorFilter)
	case gfx.ImageFilterCompose:
		return filterImage(filterImage(src, d.Inner), d.Outer)
	}
	return src
}

// filterColors maps every pixel of src through cf.
func filterColors(src image.Image, cf *gfx.ColorFilter) image.Image {
	if cf == nil {
		return src
	}
	apply := cf.Apply
	if n, ok := cf.Native().(*ColorFilter); ok {
		apply = n.Apply
	}

	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetNRGBA(x, y, apply(gfx.ARGB(c.A, c.R, c.G, c.B)).NRGBA())
		}
	}
	return dst
}

// layerImage applies the filters of a save layer paint to its content.
func layerImage(src image.Image, p *gfx.Paint) image.Image {
	if p == nil {
		return src
	}
	d := p.Desc()
	return filterColors(filterImage(src, d.ImageFilter), d.ColorFilter)
}

func interpolator(q gfx.FilterQuality) xdraw.Interpolator {
	switch q {
	case gfx.FilterNone:
		return xdraw.NearestNeighbor
	case gfx.FilterLow:
		return xdraw.ApproxBiLinear
	case gfx.FilterMedium:
		return xdraw.BiLinear
	default:
		return xdraw.CatmullRom
	}
}

func aff3(m geom.Matrix4) f64.Aff3 {
	a := m.Affine()
	return f64.Aff3{a.A, a.B, a.C, a.D, a.E, a.F}
}

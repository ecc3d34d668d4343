// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"
	"image/png"
	"io"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
	"github.com/gogpu/flute/rastercache"
)

// Image is a raster produced by a Canvas. It implements gfx.Image and
// image.Image.
type Image struct {
	*image.RGBA
}

var _ gfx.Image = (*Image)(nil)

// Width implements gfx.Image.
func (i *Image) Width() int { return i.Rect.Dx() }

// Height implements gfx.Image.
func (i *Image) Height() int { return i.Rect.Dy() }

// EncodePNG writes the image as PNG.
func (i *Image) EncodePNG(w io.Writer) error {
	return png.Encode(w, i.RGBA)
}

// stdImage returns img as an image.Image, or nil when the backend cannot
// read it.
func stdImage(img gfx.Image) image.Image {
	switch v := img.(type) {
	case *Image:
		return v.RGBA
	case image.Image:
		return v
	}
	return nil
}

// Rasterize renders pic transformed by m into an image covering bounds.
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
	return c.Snapshot(), nil
}

// Rasterizer renders pictures for a rastercache.Cache.
var Rasterizer rastercache.Rasterizer = rastercache.RasterizerFunc(Rasterize)

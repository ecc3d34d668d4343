// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"fmt"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// PictureLayer draws a recorded picture at an offset.
type PictureLayer struct {
	layerBase
	Picture    gfx.Picture
	Offset     geom.Offset
	IsComplex  bool
	WillChange bool
}

// NewPictureLayer creates a picture layer.
func NewPictureLayer(pic gfx.Picture, offset geom.Offset, isComplex, willChange bool) *PictureLayer {
	return &PictureLayer{Picture: pic, Offset: offset, IsComplex: isComplex, WillChange: willChange}
}

// Kind implements Layer.
func (l *PictureLayer) Kind() Kind { return KindPicture }

// Preroll implements Layer.
func (l *PictureLayer) Preroll(ctx *PrerollContext, m geom.Matrix4) {
	if ctx.RasterCache != nil {
		ctx.RasterCache.Prepare(l.Picture, m.Translate(l.Offset.X, l.Offset.Y), l.IsComplex, l.WillChange)
	}
	l.setPaintBounds(ctx, l.Picture.CullRect().Shift(l.Offset))
}

// Paint implements Layer.
func (l *PictureLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l)
	c := ctx.LeafNodes
	c.Save()
	c.Translate(l.Offset.X, l.Offset.Y)
	if ctx.RasterCache == nil || !ctx.RasterCache.Draw(l.Picture, c) {
		c.DrawPicture(l.Picture)
	}
	c.Restore()
}

func (l *PictureLayer) describe() string {
	return fmt.Sprintf("#%d %v offset=(%g, %g)", l.Picture.ID(), l.Picture.CullRect(), l.Offset.X, l.Offset.Y)
}

// PlatformViewLayer reserves space for content composited by the platform.
//
// Painting it switches the leaf canvas of the paint context, so every leaf
// layer painted afterwards lands above the view.
type PlatformViewLayer struct {
	layerBase
	ViewID int64
	Offset geom.Offset
	Size   geom.Size
}

// NewPlatformViewLayer creates a platform view layer.
func NewPlatformViewLayer(viewID int64, offset geom.Offset, size geom.Size) *PlatformViewLayer {
	return &PlatformViewLayer{ViewID: viewID, Offset: offset, Size: size}
}

// Kind implements Layer.
func (l *PlatformViewLayer) Kind() Kind { return KindPlatformView }

// Preroll implements Layer.
func (l *PlatformViewLayer) Preroll(ctx *PrerollContext, m geom.Matrix4) {
	l.setPaintBounds(ctx, geom.FromOffsetSize(l.Offset, l.Size))
	if ctx.ViewEmbedder == nil {
		return
	}
	ctx.ViewEmbedder.PrerollCompositeEmbeddedView(l.ViewID, EmbeddedViewParams{
		Offset:   l.Offset,
		Size:     l.Size,
		Mutators: ctx.Mutators.Clone(),
	})
}

// Paint implements Layer.
func (l *PlatformViewLayer) Paint(ctx *PaintContext) {
	checkPaint(ctx, l)
	if ctx.ViewEmbedder == nil {
		return
	}
	if c := ctx.ViewEmbedder.CompositeEmbeddedView(l.ViewID); c != nil {
		ctx.LeafNodes = c
	}
}

func (l *PlatformViewLayer) describe() string {
	return fmt.Sprintf("view=%d offset=(%g, %g) size=%gx%g", l.ViewID, l.Offset.X, l.Offset.Y, l.Size.Width, l.Size.Height)
}

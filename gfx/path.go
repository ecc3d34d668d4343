// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/flute/geom"
)

// Path is the vector path type shared with the gg rasterizer.
type Path = *gg.Path

// PathBounds returns the bounding box of p. Nil and empty paths have empty
// bounds.
func PathBounds(p Path) geom.Rect {
	if p == nil || len(p.Elements()) == 0 {
		return geom.Empty()
	}
	b := p.BoundingBox()
	return geom.LTRB(b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

// RectPath returns a closed path outlining r.
func RectPath(r geom.Rect) Path {
	p := gg.NewPath()
	p.Rectangle(r.Left, r.Top, r.Width(), r.Height())
	return p
}

// RRectPath returns a closed path outlining rr. Elliptical radii are
// approximated by their larger axis.
func RRectPath(rr geom.RRect) Path {
	if rr.IsRect() {
		return RectPath(rr.Rect)
	}
	var radius float64
	for _, c := range rr.Radii {
		radius = max(radius, c.X, c.Y)
	}
	p := gg.NewPath()
	r := rr.Rect
	p.RoundedRectangle(r.Left, r.Top, r.Width(), r.Height(), radius)
	return p
}

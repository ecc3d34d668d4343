// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"fmt"
	"math"
)

// largestCoord bounds the "infinite" cull rectangle. Large enough to cover any
// realistic surface while keeping arithmetic on it finite.
const largestCoord = 1e9

// Offset is a 2D displacement or point.
type Offset struct {
	X, Y float64
}

// Add returns o + other.
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Neg returns -o.
func (o Offset) Neg() Offset {
	return Offset{X: -o.X, Y: -o.Y}
}

// IsZero reports whether both components are zero.
func (o Offset) IsZero() bool {
	return o.X == 0 && o.Y == 0
}

// IsFinite reports whether both components are finite numbers.
func (o Offset) IsFinite() bool {
	return isFinite(o.X) && isFinite(o.Y)
}

// Size is a width and height.
type Size struct {
	Width, Height float64
}

// IsEmpty reports whether the size has no area.
func (s Size) IsEmpty() bool {
	return !(s.Width > 0 && s.Height > 0)
}

// IsValid reports whether both dimensions are finite and non-negative.
func (s Size) IsValid() bool {
	return isFinite(s.Width) && isFinite(s.Height) && s.Width >= 0 && s.Height >= 0
}

// Rect is an axis-aligned rectangle given by its edges.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// LTRB creates a rectangle from its edges.
func LTRB(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// LTWH creates a rectangle from its top-left corner and size.
func LTWH(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// FromOffsetSize creates a rectangle at offset with the given size.
func FromOffsetSize(o Offset, s Size) Rect {
	return LTWH(o.X, o.Y, s.Width, s.Height)
}

// Empty returns the canonical empty rectangle.
func Empty() Rect {
	return Rect{}
}

// Largest returns the rectangle used as an unbounded cull rect.
func Largest() Rect {
	return Rect{Left: -largestCoord, Top: -largestCoord, Right: largestCoord, Bottom: largestCoord}
}

// IsEmpty reports whether the rectangle has no area. NaN edges count as empty.
func (r Rect) IsEmpty() bool {
	return !(r.Left < r.Right && r.Top < r.Bottom)
}

// IsFinite reports whether all four edges are finite.
func (r Rect) IsFinite() bool {
	return isFinite(r.Left) && isFinite(r.Top) && isFinite(r.Right) && isFinite(r.Bottom)
}

// IsLargest reports whether r covers the unbounded cull rect.
func (r Rect) IsLargest() bool {
	return r.Left <= -largestCoord && r.Top <= -largestCoord &&
		r.Right >= largestCoord && r.Bottom >= largestCoord
}

// Width returns Right - Left.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns Bottom - Top.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the rectangle dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// TopLeft returns the top-left corner.
func (r Rect) TopLeft() Offset {
	return Offset{X: r.Left, Y: r.Top}
}

// Center returns the rectangle center.
func (r Rect) Center() Offset {
	return Offset{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Shift translates the rectangle by o.
func (r Rect) Shift(o Offset) Rect {
	return Rect{Left: r.Left + o.X, Top: r.Top + o.Y, Right: r.Right + o.X, Bottom: r.Bottom + o.Y}
}

// Inflate grows every edge outward by delta. Negative delta shrinks.
func (r Rect) Inflate(delta float64) Rect {
	return Rect{Left: r.Left - delta, Top: r.Top - delta, Right: r.Right + delta, Bottom: r.Bottom + delta}
}

// Intersect returns the overlap of r and other, or Empty if they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		Left:   math.Max(r.Left, other.Left),
		Top:    math.Max(r.Top, other.Top),
		Right:  math.Min(r.Right, other.Right),
		Bottom: math.Min(r.Bottom, other.Bottom),
	}
	if out.IsEmpty() {
		return Empty()
	}
	return out
}

// Union returns the smallest rectangle containing both r and other.
// Empty operands are ignored.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rect{
		Left:   math.Min(r.Left, other.Left),
		Top:    math.Min(r.Top, other.Top),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

// Overlaps reports whether r and other share any area.
func (r Rect) Overlaps(other Rect) bool {
	return r.Left < other.Right && other.Left < r.Right &&
		r.Top < other.Bottom && other.Top < r.Bottom
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	if other.IsEmpty() {
		return true
	}
	return r.Left <= other.Left && r.Top <= other.Top &&
		r.Right >= other.Right && r.Bottom >= other.Bottom
}

// ContainsPoint reports whether (x, y) lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) ContainsPoint(x, y float64) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// RoundOut returns the smallest integer-aligned rectangle containing r.
func (r Rect) RoundOut() Rect {
	return Rect{
		Left:   math.Floor(r.Left),
		Top:    math.Floor(r.Top),
		Right:  math.Ceil(r.Right),
		Bottom: math.Ceil(r.Bottom),
	}
}

// String returns "[l, t, r, b]".
func (r Rect) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", r.Left, r.Top, r.Right, r.Bottom)
}

// Radius is an elliptical corner radius.
type Radius struct {
	X, Y float64
}

// Corner indices into RRect.Radii.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// RRect is a rectangle with elliptical corners.
type RRect struct {
	Rect  Rect
	Radii [4]Radius
}

// RRectXY returns a rounded rectangle with the same radius on every corner.
func RRectXY(r Rect, rx, ry float64) RRect {
	rad := Radius{X: rx, Y: ry}
	return RRect{Rect: r, Radii: [4]Radius{rad, rad, rad, rad}}
}

// Bounds returns the enclosing rectangle.
func (rr RRect) Bounds() Rect {
	return rr.Rect
}

// IsRect reports whether all radii are zero.
func (rr RRect) IsRect() bool {
	for _, r := range rr.Radii {
		if r.X != 0 || r.Y != 0 {
			return false
		}
	}
	return true
}

// IsFinite reports whether the rectangle and all radii are finite.
func (rr RRect) IsFinite() bool {
	if !rr.Rect.IsFinite() {
		return false
	}
	for _, r := range rr.Radii {
		if !isFinite(r.X) || !isFinite(r.Y) {
			return false
		}
	}
	return true
}

// Shift translates the rounded rectangle by o.
func (rr RRect) Shift(o Offset) RRect {
	rr.Rect = rr.Rect.Shift(o)
	return rr
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// Matrix4 is a 4x4 transformation matrix stored in column-major order:
//
//	| m[0]  m[4]  m[8]   m[12] |
//	| m[1]  m[5]  m[9]   m[13] |
//	| m[2]  m[6]  m[10]  m[14] |
//	| m[3]  m[7]  m[11]  m[15] |
//
// Points are column vectors, so x' = m[0]*x + m[4]*y + m[12] and the
// translation lives in m[12], m[13], m[14].
type Matrix4 [16]float64

// Identity returns the identity matrix.
func Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a matrix that translates by (dx, dy).
func Translation(dx, dy float64) Matrix4 {
	m := Identity()
	m[12] = dx
	m[13] = dy
	return m
}

// Scaling returns a matrix that scales by (sx, sy).
func Scaling(sx, sy float64) Matrix4 {
	m := Identity()
	m[0] = sx
	m[5] = sy
	return m
}

// RotationZ returns a matrix rotating by angle radians around the Z axis.
func RotationZ(angle float64) Matrix4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// FromAffine converts a 2D affine matrix into a Matrix4.
func FromAffine(a gg.Matrix) Matrix4 {
	m := Identity()
	m[0], m[4], m[12] = a.A, a.B, a.C
	m[1], m[5], m[13] = a.D, a.E, a.F
	return m
}

// Multiply returns m * other: other is applied first, then m.
func (m Matrix4) Multiply(other Matrix4) Matrix4 {
	var out Matrix4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Translate returns m with a translation by (dx, dy) applied before it.
func (m Matrix4) Translate(dx, dy float64) Matrix4 {
	if dx == 0 && dy == 0 {
		return m
	}
	return m.Multiply(Translation(dx, dy))
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix4) IsIdentity() bool {
	return m == Identity()
}

// IsTranslate reports whether m is a pure 2D translation (or identity).
func (m Matrix4) IsTranslate() bool {
	t := m
	t[12], t[13] = 0, 0
	return t.IsIdentity()
}

// IsFinite reports whether every element is finite.
func (m Matrix4) IsFinite() bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// TranslationOffset returns the (m[12], m[13]) translation component.
func (m Matrix4) TranslationOffset() Offset {
	return Offset{X: m[12], Y: m[13]}
}

// WithoutTranslation returns m with its 2D translation cleared.
func (m Matrix4) WithoutTranslation() Matrix4 {
	m[12], m[13] = 0, 0
	return m
}

// TransformPoint maps (x, y, 0, 1) through m, dividing by w when the matrix
// carries perspective.
func (m Matrix4) TransformPoint(x, y float64) (float64, float64) {
	tx := m[0]*x + m[4]*y + m[12]
	ty := m[1]*x + m[5]*y + m[13]
	w := m[3]*x + m[7]*y + m[15]
	if w != 1 && w != 0 {
		return tx / w, ty / w
	}
	return tx, ty
}

// Determinant returns the determinant of the 4x4 matrix.
func (m Matrix4) Determinant() float64 {
	inv := m.adjugate()
	return m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
}

// Invert returns the inverse of m and whether m was invertible.
// A singular matrix returns the identity and false.
func (m Matrix4) Invert() (Matrix4, bool) {
	inv := m.adjugate()
	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if det == 0 || !isFinite(det) {
		return Identity(), false
	}
	inv2 := 1 / det
	for i := range inv {
		inv[i] *= inv2
	}
	return inv, true
}

// adjugate returns the transposed cofactor matrix of m.
func (m Matrix4) adjugate() Matrix4 {
	var inv Matrix4
	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]
	return inv
}

// Affine returns the 2D affine part of m as a gg.Matrix. Z and perspective
// terms are dropped.
func (m Matrix4) Affine() gg.Matrix {
	return gg.Matrix{
		A: m[0], B: m[4], C: m[12],
		D: m[1], E: m[5], F: m[13],
	}
}

// String formats m row by row.
func (m Matrix4) String() string {
	return fmt.Sprintf("[%g %g %g %g; %g %g %g %g; %g %g %g %g; %g %g %g %g]",
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15])
}

// TransformRect maps r through m and returns the axis-aligned bounding box of
// the four transformed corners. Empty rectangles stay empty.
func TransformRect(m Matrix4, r Rect) Rect {
	if r.IsEmpty() {
		return Empty()
	}
	if m.IsIdentity() {
		return r
	}
	if m.IsTranslate() {
		return r.Shift(m.TranslationOffset())
	}

	xs := [4]float64{r.Left, r.Right, r.Right, r.Left}
	ys := [4]float64{r.Top, r.Top, r.Bottom, r.Bottom}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range xs {
		x, y := m.TransformPoint(xs[i], ys[i])
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return Rect{Left: minX, Top: minY, Right: maxX, Bottom: maxY}
}

// InverseTransformRect maps a device-space rectangle back through the inverse
// of m. A singular matrix yields Empty.
func InverseTransformRect(m Matrix4, r Rect) Rect {
	inv, ok := m.Invert()
	if !ok {
		return Empty()
	}
	return TransformRect(inv, r)
}

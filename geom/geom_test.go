// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"math"
	"testing"
)

// =============================================================================
// Rect Tests
// =============================================================================

func TestRectIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"zero", Rect{}, true},
		{"normal", LTRB(0, 0, 10, 10), false},
		{"zero width", LTRB(5, 0, 5, 10), true},
		{"inverted", LTRB(10, 10, 0, 0), true},
		{"nan", LTRB(math.NaN(), 0, 10, 10), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsEmpty(); got != tt.want {
				t.Errorf("%v.IsEmpty() = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := LTRB(0, 0, 100, 100)
	b := LTRB(10, 10, 200, 200)
	if got, want := a.Intersect(b), LTRB(10, 10, 100, 100); got != want {
		t.Errorf("Intersect = %v, want %v", got, want)
	}
	if got := a.Intersect(LTRB(150, 150, 160, 160)); !got.IsEmpty() {
		t.Errorf("disjoint Intersect = %v, want empty", got)
	}
}

func TestRectUnionIgnoresEmpty(t *testing.T) {
	a := LTRB(10, 10, 20, 20)
	if got := a.Union(Empty()); got != a {
		t.Errorf("Union(empty) = %v, want %v", got, a)
	}
	if got := Empty().Union(a); got != a {
		t.Errorf("empty.Union = %v, want %v", got, a)
	}
	if got, want := a.Union(LTRB(0, 15, 12, 40)), LTRB(0, 10, 20, 40); got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
}

func TestRectShiftInflate(t *testing.T) {
	r := LTWH(1, 2, 3, 4)
	if got, want := r.Shift(Offset{X: 10, Y: -2}), LTRB(11, 0, 14, 4); got != want {
		t.Errorf("Shift = %v, want %v", got, want)
	}
	if got, want := r.Inflate(1), LTRB(0, 1, 5, 7); got != want {
		t.Errorf("Inflate = %v, want %v", got, want)
	}
}

func TestLargest(t *testing.T) {
	l := Largest()
	if !l.IsLargest() {
		t.Error("Largest().IsLargest() = false")
	}
	if l.IsEmpty() || !l.IsFinite() {
		t.Error("Largest() must be finite and non-empty")
	}
	if !l.Contains(LTRB(-1e6, -1e6, 1e6, 1e6)) {
		t.Error("Largest() should contain any realistic rect")
	}
}

// =============================================================================
// Matrix4 Tests
// =============================================================================

func TestMatrixMultiplyOrder(t *testing.T) {
	// Scale then translate: point (1,1) -> (2,2) -> (12,2).
	m := Translation(10, 0).Multiply(Scaling(2, 2))
	x, y := m.TransformPoint(1, 1)
	if x != 12 || y != 2 {
		t.Errorf("TransformPoint = (%v, %v), want (12, 2)", x, y)
	}
}

func TestMatrixTranslate(t *testing.T) {
	m := Scaling(2, 2).Translate(5, 5)
	x, y := m.TransformPoint(0, 0)
	if x != 10 || y != 10 {
		t.Errorf("TransformPoint = (%v, %v), want (10, 10)", x, y)
	}
	if !Translation(3, 4).IsTranslate() {
		t.Error("Translation should be IsTranslate")
	}
	if Scaling(2, 1).IsTranslate() {
		t.Error("Scaling should not be IsTranslate")
	}
}

func TestMatrixInvert(t *testing.T) {
	m := Translation(10, 20).Multiply(RotationZ(0.7)).Multiply(Scaling(2, 3))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert reported singular matrix")
	}
	p := m.Multiply(inv)
	for i, v := range p {
		want := Identity()[i]
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("m*inv[%d] = %v, want %v", i, v, want)
		}
	}

	if _, ok := Scaling(0, 1).Invert(); ok {
		t.Error("singular matrix reported invertible")
	}
}

func TestMatrixAffineRoundTrip(t *testing.T) {
	m := Translation(3, 4).Multiply(Scaling(2, 5))
	if got := FromAffine(m.Affine()); got != m {
		t.Errorf("FromAffine(Affine()) = %v, want %v", got, m)
	}
}

// =============================================================================
// TransformRect Tests
// =============================================================================

func TestTransformRect(t *testing.T) {
	r := LTRB(0, 0, 10, 20)
	tests := []struct {
		name string
		m    Matrix4
		want Rect
	}{
		{"identity", Identity(), r},
		{"translate", Translation(5, 6), LTRB(5, 6, 15, 26)},
		{"scale", Scaling(2, 3), LTRB(0, 0, 20, 60)},
		{"negative scale", Scaling(-1, 1), LTRB(-10, 0, 0, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformRect(tt.m, r); got != tt.want {
				t.Errorf("TransformRect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformRectRotationCoversCorners(t *testing.T) {
	r := LTRB(0, 0, 10, 10)
	got := TransformRect(RotationZ(math.Pi/4), r)
	diag := 10 * math.Sqrt2
	want := LTRB(-diag/2, 0, diag/2, diag)
	const eps = 1e-9
	if math.Abs(got.Left-want.Left) > eps || math.Abs(got.Top-want.Top) > eps ||
		math.Abs(got.Right-want.Right) > eps || math.Abs(got.Bottom-want.Bottom) > eps {
		t.Errorf("rotated bounds = %v, want %v", got, want)
	}
}

func TestTransformRectEmpty(t *testing.T) {
	if got := TransformRect(Scaling(2, 2), Empty()); !got.IsEmpty() {
		t.Errorf("TransformRect(empty) = %v, want empty", got)
	}
}

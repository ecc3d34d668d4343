// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"fmt"
	"math"

	"github.com/gogpu/flute/managed"
)

// ColorFilterKind selects the variant of a ColorFilterDesc.
type ColorFilterKind uint8

// Color filter kinds.
const (
	ColorFilterBlend ColorFilterKind = iota
	ColorFilterMatrix
	ColorFilterLinearToSRGB
	ColorFilterSRGBToLinear
	ColorFilterCompose
)

// String returns the kind name.
func (k ColorFilterKind) String() string {
	switch k {
	case ColorFilterBlend:
		return "blend"
	case ColorFilterMatrix:
		return "matrix"
	case ColorFilterLinearToSRGB:
		return "linearToSRGB"
	case ColorFilterSRGBToLinear:
		return "sRGBToLinear"
	case ColorFilterCompose:
		return "compose"
	default:
		return fmt.Sprintf("ColorFilterKind(%d)", k)
	}
}

// ColorMatrix is a 4x5 row-major color transform. The fifth column is an
// offset in the 0..255 channel range.
type ColorMatrix [20]float32

// IdentityColorMatrix leaves colors unchanged.
var IdentityColorMatrix = ColorMatrix{
	1, 0, 0, 0, 0,
	0, 1, 0, 0, 0,
	0, 0, 1, 0, 0,
	0, 0, 0, 1, 0,
}

// InvertColorMatrix inverts the color channels and keeps alpha.
var InvertColorMatrix = ColorMatrix{
	-1, 0, 0, 0, 255,
	0, -1, 0, 0, 255,
	0, 0, -1, 0, 255,
	0, 0, 0, 1, 0,
}

// ColorFilterDesc describes a color filter. Only the fields of Kind are
// meaningful.
type ColorFilterDesc struct {
	Kind ColorFilterKind

	// Blend.
	Color Color
	Mode  BlendMode

	// Matrix.
	Matrix ColorMatrix

	// Compose applies Inner first, then Outer.
	Outer, Inner *ColorFilter
}

// Apply runs the filter on a single color.
func (d ColorFilterDesc) Apply(c Color) Color {
	switch d.Kind {
	case ColorFilterBlend:
		return BlendColors(d.Color, c, d.Mode)
	case ColorFilterMatrix:
		return applyColorMatrix(&d.Matrix, c)
	case ColorFilterLinearToSRGB:
		return mapRGB(c, linearToSRGB)
	case ColorFilterSRGBToLinear:
		return mapRGB(c, sRGBToLinear)
	case ColorFilterCompose:
		if d.Inner != nil {
			c = d.Inner.Apply(c)
		}
		if d.Outer != nil {
			c = d.Outer.Apply(c)
		}
		return c
	}
	return c
}

// String describes the filter.
func (d ColorFilterDesc) String() string {
	switch d.Kind {
	case ColorFilterBlend:
		return fmt.Sprintf("blend(%v, %v)", d.Color, d.Mode)
	case ColorFilterCompose:
		return fmt.Sprintf("compose(%v, %v)", d.Outer, d.Inner)
	default:
		return d.Kind.String()
	}
}

// ColorFilter is a managed color filter.
type ColorFilter struct {
	// obj is shared by every filter with an equal description. The cache
	// owns its native, so filters register no cleanup of their own.
	obj *managed.Object[ColorFilterDesc, NativeColorFilter]
}

func (r *Resources) newColorFilter(d ColorFilterDesc) *ColorFilter {
	return &ColorFilter{obj: r.colorFilters.Get(d)}
}

// NewBlendColorFilter blends c into every color with mode.
func (r *Resources) NewBlendColorFilter(c Color, mode BlendMode) *ColorFilter {
	return r.newColorFilter(ColorFilterDesc{Kind: ColorFilterBlend, Color: c, Mode: mode})
}

// NewMatrixColorFilter transforms every color by m.
func (r *Resources) NewMatrixColorFilter(m ColorMatrix) *ColorFilter {
	return r.newColorFilter(ColorFilterDesc{Kind: ColorFilterMatrix, Matrix: m})
}

// NewLinearToSRGBGamma converts linear colors to sRGB.
func (r *Resources) NewLinearToSRGBGamma() *ColorFilter {
	return r.newColorFilter(ColorFilterDesc{Kind: ColorFilterLinearToSRGB})
}

// NewSRGBToLinearGamma converts sRGB colors to linear.
func (r *Resources) NewSRGBToLinearGamma() *ColorFilter {
	return r.newColorFilter(ColorFilterDesc{Kind: ColorFilterSRGBToLinear})
}

// ComposeColorFilters applies inner, then outer. A nil operand yields the
// other one.
func (r *Resources) ComposeColorFilters(outer, inner *ColorFilter) *ColorFilter {
	if outer == nil {
		return inner
	}
	if inner == nil {
		return outer
	}
	return r.newColorFilter(ColorFilterDesc{Kind: ColorFilterCompose, Outer: outer, Inner: inner})
}

// NewBlendColorFilter is Default().NewBlendColorFilter.
func NewBlendColorFilter(c Color, mode BlendMode) *ColorFilter {
	return Default().NewBlendColorFilter(c, mode)
}

// NewMatrixColorFilter is Default().NewMatrixColorFilter.
func NewMatrixColorFilter(m ColorMatrix) *ColorFilter {
	return Default().NewMatrixColorFilter(m)
}

// ComposeColorFilters is Default().ComposeColorFilters.
func ComposeColorFilters(outer, inner *ColorFilter) *ColorFilter {
	return Default().ComposeColorFilters(outer, inner)
}

// Desc returns the description.
func (f *ColorFilter) Desc() ColorFilterDesc {
	return f.obj.Key()
}

// Native returns the backend object, creating or resurrecting it.
func (f *ColorFilter) Native() NativeColorFilter {
	return f.obj.Handle()
}

// State reports whether the native is absent, present or deleted.
func (f *ColorFilter) State() managed.State {
	return f.obj.State()
}

// Delete frees the native now. The filter stays usable.
func (f *ColorFilter) Delete() error {
	return f.obj.Delete()
}

// Apply runs the filter on a single color.
func (f *ColorFilter) Apply(c Color) Color {
	return f.Desc().Apply(c)
}

// Equal reports whether both filters have structurally equal descriptions.
func (f *ColorFilter) Equal(other *ColorFilter) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f == other {
		return true
	}
	a, b := f.Desc(), other.Desc()
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == ColorFilterCompose {
		return a.Outer.Equal(b.Outer) && a.Inner.Equal(b.Inner)
	}
	return a == b
}

// String describes the filter.
func (f *ColorFilter) String() string {
	if f == nil {
		return "nil"
	}
	return f.Desc().String()
}

func applyColorMatrix(m *ColorMatrix, c Color) Color {
	in := [4]float32{float32(c.Red()), float32(c.Green()), float32(c.Blue()), float32(c.Alpha())}
	var out [4]uint8
	for row := range 4 {
		v := m[row*5+4]
		for col := range 4 {
			v += m[row*5+col] * in[col]
		}
		out[row] = clampChannel(float64(v))
	}
	return ARGB(out[3], out[0], out[1], out[2])
}

func mapRGB(c Color, fn func(float64) float64) Color {
	ch := func(v uint8) uint8 {
		return clampChannel(fn(float64(v)/255) * 255)
	}
	return ARGB(c.Alpha(), ch(c.Red()), ch(c.Green()), ch(c.Blue()))
}

func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func sRGBToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func clampChannel(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// BlendColors composites src onto dst with mode, on non-premultiplied
// colors. Modes without a closed form here fall back to source-over.
func BlendColors(src, dst Color, mode BlendMode) Color {
	sa, da := src.Opacity(), dst.Opacity()
	switch mode {
	case BlendClear:
		return Transparent
	case BlendSrc:
		return src
	case BlendDst:
		return dst
	case BlendSrcIn:
		return src.WithAlpha(clampChannel(sa * da * 255))
	case BlendDstIn:
		return dst.WithAlpha(clampChannel(sa * da * 255))
	case BlendSrcOut:
		return src.WithAlpha(clampChannel(sa * (1 - da) * 255))
	case BlendDstOut:
		return dst.WithAlpha(clampChannel(da * (1 - sa) * 255))
	case BlendDstOver:
		return srcOver(dst, src)
	case BlendModulate, BlendMultiply:
		mul := func(a, b uint8) uint8 { return clampChannel(float64(a) * float64(b) / 255) }
		m := ARGB(src.Alpha(), mul(src.Red(), dst.Red()), mul(src.Green(), dst.Green()), mul(src.Blue(), dst.Blue()))
		if mode == BlendModulate {
			return m.WithAlpha(mul(src.Alpha(), dst.Alpha()))
		}
		return srcOver(m, dst)
	default:
		return srcOver(src, dst)
	}
}

func srcOver(src, dst Color) Color {
	sa, da := src.Opacity(), dst.Opacity()
	oa := sa + da*(1-sa)
	if oa == 0 {
		return Transparent
	}
	ch := func(s, d uint8) uint8 {
		return clampChannel((float64(s)*sa + float64(d)*da*(1-sa)) / oa)
	}
	return ARGB(clampChannel(oa*255), ch(src.Red(), dst.Red()), ch(src.Green(), dst.Green()), ch(src.Blue(), dst.Blue()))
}

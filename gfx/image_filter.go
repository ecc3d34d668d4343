// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"fmt"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/managed"
)

// ImageFilterKind selects the variant of an ImageFilterDesc.
type ImageFilterKind uint8

// Image filter kinds.
const (
	ImageFilterBlur ImageFilterKind = iota
	ImageFilterMatrix
	ImageFilterColorFilter
	ImageFilterCompose
)

// String returns the kind name.
func (k ImageFilterKind) String() string {
	switch k {
	case ImageFilterBlur:
		return "blur"
	case ImageFilterMatrix:
		return "matrix"
	case ImageFilterColorFilter:
		return "colorFilter"
	case ImageFilterCompose:
		return "compose"
	default:
		return fmt.Sprintf("ImageFilterKind(%d)", k)
	}
}

// ImageFilterDesc describes an image filter. Only the fields of Kind are
// meaningful.
type ImageFilterDesc struct {
	Kind ImageFilterKind

	// Blur.
	SigmaX, SigmaY float64
	Tile           TileMode

	// Matrix.
	Matrix  geom.Matrix4
	Quality FilterQuality

	// ColorFilter.
	ColorFilter *ColorFilter

	// Compose applies Inner first, then Outer.
	Outer, Inner *ImageFilter
}

// String describes the filter.
func (d ImageFilterDesc) String() string {
	switch d.Kind {
	case ImageFilterBlur:
		return fmt.Sprintf("blur(%g, %g, %v)", d.SigmaX, d.SigmaY, d.Tile)
	case ImageFilterMatrix:
		return fmt.Sprintf("matrix(%v, %v)", d.Matrix, d.Quality)
	case ImageFilterColorFilter:
		return fmt.Sprintf("colorFilter(%v)", d.ColorFilter)
	case ImageFilterCompose:
		return fmt.Sprintf("compose(%v, %v)", d.Outer, d.Inner)
	default:
		return d.Kind.String()
	}
}

// ImageFilter is a managed image filter.
type ImageFilter struct {
	// obj is shared by every filter with an equal description. The cache
	// owns its native, so filters register no cleanup of their own.
	obj *managed.Object[ImageFilterDesc, NativeImageFilter]
}

func (r *Resources) newImageFilter(d ImageFilterDesc) *ImageFilter {
	return &ImageFilter{obj: r.imageFilters.Get(d)}
}

// NewBlurImageFilter blurs with a Gaussian of the given standard deviations.
func (r *Resources) NewBlurImageFilter(sigmaX, sigmaY float64, tile TileMode) *ImageFilter {
	return r.newImageFilter(ImageFilterDesc{Kind: ImageFilterBlur, SigmaX: sigmaX, SigmaY: sigmaY, Tile: tile})
}

// NewMatrixImageFilter resamples through m.
func (r *Resources) NewMatrixImageFilter(m geom.Matrix4, q FilterQuality) *ImageFilter {
	return r.newImageFilter(ImageFilterDesc{Kind: ImageFilterMatrix, Matrix: m, Quality: q})
}

// NewColorFilterImageFilter applies cf to every pixel.
func (r *Resources) NewColorFilterImageFilter(cf *ColorFilter) *ImageFilter {
	return r.newImageFilter(ImageFilterDesc{Kind: ImageFilterColorFilter, ColorFilter: cf})
}

// ComposeImageFilters applies inner, then outer. A nil operand yields the
// other one.
func (r *Resources) ComposeImageFilters(outer, inner *ImageFilter) *ImageFilter {
	if outer == nil {
		return inner
	}
	if inner == nil {
		return outer
	}
	return r.newImageFilter(ImageFilterDesc{Kind: ImageFilterCompose, Outer: outer, Inner: inner})
}

// NewBlurImageFilter is Default().NewBlurImageFilter.
func NewBlurImageFilter(sigmaX, sigmaY float64, tile TileMode) *ImageFilter {
	return Default().NewBlurImageFilter(sigmaX, sigmaY, tile)
}

// NewMatrixImageFilter is Default().NewMatrixImageFilter.
func NewMatrixImageFilter(m geom.Matrix4, q FilterQuality) *ImageFilter {
	return Default().NewMatrixImageFilter(m, q)
}

// NewColorFilterImageFilter is Default().NewColorFilterImageFilter.
func NewColorFilterImageFilter(cf *ColorFilter) *ImageFilter {
	return Default().NewColorFilterImageFilter(cf)
}

// Desc returns the description.
func (f *ImageFilter) Desc() ImageFilterDesc {
	return f.obj.Key()
}

// Native returns the backend object, creating or resurrecting it.
func (f *ImageFilter) Native() NativeImageFilter {
	return f.obj.Handle()
}

// State reports whether the native is absent, present or deleted.
func (f *ImageFilter) State() managed.State {
	return f.obj.State()
}

// Delete frees the native now. The filter stays usable.
func (f *ImageFilter) Delete() error {
	return f.obj.Delete()
}

// Equal reports whether both filters have structurally equal descriptions.
func (f *ImageFilter) Equal(other *ImageFilter) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f == other {
		return true
	}
	a, b := f.Desc(), other.Desc()
	switch {
	case a.Kind != b.Kind:
		return false
	case a.Kind == ImageFilterColorFilter:
		return a.ColorFilter.Equal(b.ColorFilter)
	case a.Kind == ImageFilterCompose:
		return a.Outer.Equal(b.Outer) && a.Inner.Equal(b.Inner)
	}
	return a == b
}

// String describes the filter.
func (f *ImageFilter) String() string {
	if f == nil {
		return "nil"
	}
	return f.Desc().String()
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"runtime"
	"testing"
	"time"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/managed"
)

// =============================================================================
// Color
// =============================================================================

func TestColorChannels(t *testing.T) {
	c := ARGB(1, 2, 3, 4)
	if c.Alpha() != 1 || c.Red() != 2 || c.Green() != 3 || c.Blue() != 4 {
		t.Errorf("channels of %v = %d,%d,%d,%d", c, c.Alpha(), c.Red(), c.Green(), c.Blue())
	}
	if got := c.WithAlpha(200); got != ARGB(200, 2, 3, 4) {
		t.Errorf("WithAlpha(200) = %v", got)
	}
	if got := ColorOf(c.NRGBA()); got != c {
		t.Errorf("ColorOf(NRGBA()) = %v, want %v", got, c)
	}
	if got := c.String(); got != "ARGB(1,2,3,4)" {
		t.Errorf("String() = %q", got)
	}
}

// =============================================================================
// Apply
// =============================================================================

func TestColorFilterApply(t *testing.T) {
	r := NewResources(nil)
	red := ARGB(255, 255, 0, 0)

	tests := []struct {
		name   string
		filter *ColorFilter
		in     Color
		want   Color
	}{
		{"identity matrix", r.NewMatrixColorFilter(IdentityColorMatrix), ARGB(200, 1, 2, 3), ARGB(200, 1, 2, 3)},
		{"invert matrix", r.NewMatrixColorFilter(InvertColorMatrix), ARGB(255, 0, 100, 255), ARGB(255, 255, 155, 0)},
		{"blend src", r.NewBlendColorFilter(red, BlendSrc), White, red},
		{"blend dst", r.NewBlendColorFilter(red, BlendDst), White, White},
		{"blend srcIn", r.NewBlendColorFilter(red, BlendSrcIn), ARGB(0, 0, 0, 0), ARGB(0, 255, 0, 0)},
		{"blend srcOver opaque", r.NewBlendColorFilter(red, BlendSrcOver), White, red},
		{"blend clear", r.NewBlendColorFilter(red, BlendClear), White, Transparent},
		{"linear to sRGB keeps extremes", r.NewLinearToSRGBGamma(), ARGB(9, 0, 255, 0), ARGB(9, 0, 255, 0)},
		{
			"compose runs inner first",
			r.ComposeColorFilters(r.NewMatrixColorFilter(InvertColorMatrix), r.NewBlendColorFilter(red, BlendSrc)),
			White,
			ARGB(255, 0, 255, 255),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Apply(tt.in); got != tt.want {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestComposeColorFiltersNil(t *testing.T) {
	r := NewResources(nil)
	f := r.NewSRGBToLinearGamma()
	if got := r.ComposeColorFilters(nil, f); got != f {
		t.Errorf("ComposeColorFilters(nil, f) = %v, want f", got)
	}
	if got := r.ComposeColorFilters(f, nil); got != f {
		t.Errorf("ComposeColorFilters(f, nil) = %v, want f", got)
	}
}

// =============================================================================
// Equality and Interning
// =============================================================================

func TestColorFilterEqual(t *testing.T) {
	r := NewResources(nil)
	a := r.NewBlendColorFilter(White, BlendMultiply)
	b := r.NewBlendColorFilter(White, BlendMultiply)
	c := r.NewBlendColorFilter(Black, BlendMultiply)

	if a == b {
		t.Fatal("separate constructions returned the same wrapper")
	}
	if !a.Equal(b) {
		t.Error("structurally equal filters compare unequal")
	}
	if a.Equal(c) {
		t.Error("different colors compare equal")
	}

	ca := r.ComposeColorFilters(a, c)
	cb := r.ComposeColorFilters(b, c)
	if !ca.Equal(cb) {
		t.Error("compose of equal operands compares unequal")
	}
}

func TestColorFilterInterningSharesNative(t *testing.T) {
	r, b, _ := newTestResources(t)
	f1 := r.NewBlendColorFilter(White, BlendScreen)
	f2 := r.NewBlendColorFilter(White, BlendScreen)

	if f1.Native() != f2.Native() {
		t.Error("interned filters realised different natives")
	}
	if b.Created() != 1 {
		t.Errorf("Created() = %d, want 1", b.Created())
	}
	if got := r.ColorFilterStats(); got.Hits != 1 || got.Misses != 1 {
		t.Errorf("ColorFilterStats() = %+v, want 1 hit and 1 miss", got)
	}

	// Deleting through one wrapper is seen by the other, which resurrects.
	if err := f1.Delete(); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if f2.State() != managed.StateDeleted {
		t.Errorf("State() of sibling = %v, want Deleted", f2.State())
	}
	if n := f2.Native(); n.IsDeleted() {
		t.Error("sibling did not resurrect")
	}
}

func TestDroppedInternedFilterKeepsSharedNative(t *testing.T) {
	r, _, c := newTestResources(t)
	keepColor := r.NewBlendColorFilter(White, BlendScreen)
	keepImage := r.NewBlurImageFilter(2, 2, TileDecal)
	native := keepColor.Native()
	keepImage.Native()

	func() {
		r.NewBlendColorFilter(White, BlendScreen).Native()
		r.NewBlurImageFilter(2, 2, TileDecal).Native()
	}()
	for range 5 {
		runtime.GC()
		time.Sleep(5 * time.Millisecond)
	}

	if len(c.got) != 0 {
		t.Errorf("collected %d natives after dropping duplicates, want 0", len(c.got))
	}
	if keepColor.State() != managed.StatePresent || native.IsDeleted() {
		t.Errorf("color filter State() = %v, want Present", keepColor.State())
	}
	if keepColor.Native() != native {
		t.Error("color filter native changed after a duplicate was dropped")
	}
	if keepImage.State() != managed.StatePresent {
		t.Errorf("image filter State() = %v, want Present", keepImage.State())
	}
	runtime.KeepAlive(keepColor)
	runtime.KeepAlive(keepImage)
}

func TestImageFilterEqual(t *testing.T) {
	r := NewResources(nil)
	tests := []struct {
		name string
		a, b *ImageFilter
		want bool
	}{
		{"same blur", r.NewBlurImageFilter(2, 3, TileClamp), r.NewBlurImageFilter(2, 3, TileClamp), true},
		{"blur sigma", r.NewBlurImageFilter(2, 3, TileClamp), r.NewBlurImageFilter(3, 3, TileClamp), false},
		{"matrix", r.NewMatrixImageFilter(geom.Scaling(2, 2), FilterLow), r.NewMatrixImageFilter(geom.Scaling(2, 2), FilterLow), true},
		{
			"color filter by structure",
			r.NewColorFilterImageFilter(r.NewBlendColorFilter(White, BlendSrc)),
			r.NewColorFilterImageFilter(r.NewBlendColorFilter(White, BlendSrc)),
			true,
		},
		{"nil", nil, r.NewBlurImageFilter(1, 1, TileDecal), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Shaders
// =============================================================================

func TestGradientValidation(t *testing.T) {
	r := NewResources(nil)
	tooMany := make([]Color, MaxGradientStops+1)

	tests := []struct {
		name   string
		colors []Color
		stops  []float64
		ok     bool
	}{
		{"two colors even", []Color{Black, White}, nil, true},
		{"explicit stops", []Color{Black, White, Black}, []float64{0, 0.2, 1}, true},
		{"one color", []Color{Black}, nil, false},
		{"mismatch", []Color{Black, White}, []float64{0}, false},
		{"too many", tooMany, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := r.NewLinearGradient(geom.Offset{}, geom.Offset{X: 10}, tt.colors, tt.stops, TileClamp)
			if (err == nil) != tt.ok {
				t.Fatalf("NewLinearGradient() error = %v, want ok=%v", err, tt.ok)
			}
			if !tt.ok {
				return
			}
			colors, stops := s.Desc().GradientStops()
			if len(colors) != len(tt.colors) || stops[len(stops)-1] != 1 {
				t.Errorf("GradientStops() = %v, %v", colors, stops)
			}
		})
	}
}

// =============================================================================
// Shadow Bounds
// =============================================================================

func TestShadowBounds(t *testing.T) {
	base := geom.LTRB(10, 10, 110, 60)

	if got := ShadowBounds(base, 0, 1, geom.Identity()); got != base {
		t.Errorf("zero elevation = %v, want %v", got, base)
	}

	low := ShadowBounds(base, 2, 1, geom.Identity())
	high := ShadowBounds(base, 16, 1, geom.Identity())
	if !low.Contains(base) || !high.Contains(low) || high == low {
		t.Errorf("bounds should grow with elevation: base %v, low %v, high %v", base, low, high)
	}

	scaled := ShadowBounds(base, 16, 1, geom.Scaling(2, 2))
	if scaled.Width() >= high.Width() {
		t.Errorf("scaled ctm width %g should shrink below %g", scaled.Width(), high.Width())
	}
	if got := ShadowBounds(geom.Empty(), 8, 1, geom.Identity()); !got.IsEmpty() {
		t.Errorf("empty path bounds = %v, want empty", got)
	}
}

func TestShadowBoundsCoverBlurReach(t *testing.T) {
	base := geom.LTRB(0, 0, 40, 40)
	tests := []struct {
		name      string
		elevation float64
		dpr       float64
		ctm       geom.Matrix4
	}{
		{"identity", 24, 1, geom.Identity()},
		{"device pixel ratio", 8, 2, geom.Identity()},
		{"non-uniform scale", 12, 1, geom.Scaling(2, 1)},
		{"negative elevation", -16, 1, geom.Identity()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShadowBounds(base, tt.elevation, tt.dpr, tt.ctm)
			if want := base.Inflate(ShadowReach(tt.elevation, tt.dpr)); !got.Contains(want) {
				t.Errorf("ShadowBounds() = %v, want it to contain %v", got, want)
			}
		})
	}

	if got, want := ShadowOffset(-6, 2), 6.0; got != want {
		t.Errorf("ShadowOffset(-6, 2) = %g, want %g", got, want)
	}
	if got, want := ShadowReach(4, 1), 2.0+6+1; got != want {
		t.Errorf("ShadowReach(4, 1) = %g, want %g", got, want)
	}
}

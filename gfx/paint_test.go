// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"testing"
	"time"

	"github.com/gogpu/flute/managed"
)

// recordingCollector keeps collected natives for inspection.
type recordingCollector struct {
	got []managed.Deletable
}

func (c *recordingCollector) Collect(res managed.Deletable) {
	c.got = append(c.got, res)
}

func newTestResources(t *testing.T) (*Resources, *NullBackend, *recordingCollector) {
	t.Helper()
	b := NewNullBackend()
	c := &recordingCollector{}
	return NewResources(b, WithCollector(c)), b, c
}

// =============================================================================
// Defaults and Accessors
// =============================================================================

func TestPaintDefaults(t *testing.T) {
	r, _, _ := newTestResources(t)
	p := r.NewPaint()

	if got := p.Color(); got != Black {
		t.Errorf("Color() = %v, want %v", got, Black)
	}
	if got := p.BlendMode(); got != BlendSrcOver {
		t.Errorf("BlendMode() = %v, want %v", got, BlendSrcOver)
	}
	if !p.AntiAlias() {
		t.Error("AntiAlias() = false, want true")
	}
	if got := p.State(); got != managed.StateAbsent {
		t.Errorf("State() = %v, want %v", got, managed.StateAbsent)
	}
}

func TestPaintString(t *testing.T) {
	r, _, _ := newTestResources(t)

	tests := []struct {
		name  string
		setup func(p *Paint)
		want  string
	}{
		{"default", func(*Paint) {}, "paint{color=ARGB(255,0,0,0)}"},
		{"alpha only", func(p *Paint) { p.SetColor(ARGB(128, 0, 0, 0)) }, "paint{color=ARGB(128,0,0,0)}"},
		{"blend", func(p *Paint) { p.SetBlendMode(BlendPlus) }, "paint{color=ARGB(255,0,0,0), blend=plus}"},
		{"stroke", func(p *Paint) {
			p.SetStyle(StyleStroke)
			p.SetStrokeWidth(2)
		}, "paint{color=ARGB(255,0,0,0), style=stroke, strokeWidth=2}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := r.NewPaint()
			tt.setup(p)
			if got := p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Native Lifecycle
// =============================================================================

func TestPaintNativeLazyAndStable(t *testing.T) {
	r, b, _ := newTestResources(t)
	p := r.NewPaint()

	if b.Created() != 0 {
		t.Fatalf("Created() = %d before Native, want 0", b.Created())
	}
	n1 := p.Native()
	n2 := p.Native()
	if n1 != n2 {
		t.Error("Native() returned different natives without a change")
	}
	if b.Live() != 1 {
		t.Errorf("Live() = %d, want 1", b.Live())
	}
}

func TestPaintChangeReleasesOldNative(t *testing.T) {
	r, b, c := newTestResources(t)
	p := r.NewPaint()
	old := p.Native()

	p.SetColor(White)

	if len(c.got) != 1 || c.got[0] != managed.Deletable(old) {
		t.Fatalf("collected = %v, want [old native]", c.got)
	}
	if old.IsDeleted() {
		t.Error("old native deleted synchronously, want deferred to collector")
	}
	if p.State() != managed.StateAbsent {
		t.Errorf("State() after change = %v, want %v", p.State(), managed.StateAbsent)
	}
	if n := p.Native(); n == old {
		t.Error("Native() after change returned the stale native")
	}
	if b.Created() != 2 {
		t.Errorf("Created() = %d, want 2", b.Created())
	}
}

func TestDefaultCollectorWaitsForRunPending(t *testing.T) {
	r := NewResources(nil)
	p := r.NewPaint()
	old := p.Native()

	p.SetColor(White)
	time.Sleep(10 * time.Millisecond)
	if old.IsDeleted() {
		t.Fatal("old native deleted before RunPending")
	}
	if n := r.RunPending(); n != 1 {
		t.Errorf("RunPending() = %d, want 1", n)
	}
	if !old.IsDeleted() {
		t.Error("old native not deleted by RunPending")
	}
	if n := r.RunPending(); n != 0 {
		t.Errorf("second RunPending() = %d, want 0", n)
	}
}

func TestRunPendingWithCustomCollector(t *testing.T) {
	r, _, c := newTestResources(t)
	r.NewPaint().Native()
	if n := r.RunPending(); n != 0 {
		t.Errorf("RunPending() = %d, want 0 with a custom collector", n)
	}
	if len(c.got) != 0 {
		t.Errorf("collected = %v, want none", c.got)
	}
}

func TestPaintNoopChangeKeepsNative(t *testing.T) {
	r, _, c := newTestResources(t)
	p := r.NewPaint()
	n := p.Native()

	p.SetColor(Black)

	if len(c.got) != 0 {
		t.Errorf("collected %d natives for a no-op change, want 0", len(c.got))
	}
	if p.Native() != n {
		t.Error("native replaced by a no-op change")
	}
}

func TestPaintResurrection(t *testing.T) {
	r, b, _ := newTestResources(t)
	p := r.NewPaint()
	p.SetColor(ARGB(10, 20, 30, 40))

	first := p.Native()
	for range 3 {
		if err := p.Delete(); err != nil {
			t.Fatalf("Delete() = %v", err)
		}
		if err := p.Delete(); err != nil {
			t.Fatalf("second Delete() = %v, want nil", err)
		}
		if p.State() != managed.StateDeleted {
			t.Fatalf("State() = %v, want Deleted", p.State())
		}
		if n := p.Native(); n == first || n.IsDeleted() {
			t.Fatal("Native() did not resurrect a fresh native")
		}
		if got := p.Color(); got != ARGB(10, 20, 30, 40) {
			t.Fatalf("Color() after resurrection = %v", got)
		}
	}
	if b.Live() != 1 {
		t.Errorf("Live() = %d, want 1", b.Live())
	}
}

// =============================================================================
// Color Inversion
// =============================================================================

func TestPaintInvertColorsWithoutFilter(t *testing.T) {
	r, _, _ := newTestResources(t)
	p := r.NewPaint()
	p.SetColor(ARGB(255, 10, 20, 30))

	p.SetInvertColors(true)
	eff := p.EffectiveColorFilter()
	if eff == nil || eff.Desc().Kind != ColorFilterMatrix {
		t.Fatalf("EffectiveColorFilter() = %v, want invert matrix", eff)
	}
	if p.ColorFilter() != nil {
		t.Errorf("ColorFilter() = %v, want nil", p.ColorFilter())
	}
	if got, want := p.ResolvedColor(), ARGB(255, 245, 235, 225); got != want {
		t.Errorf("ResolvedColor() = %v, want %v", got, want)
	}

	p.SetInvertColors(false)
	if p.EffectiveColorFilter() != nil {
		t.Errorf("EffectiveColorFilter() = %v after untoggle, want nil", p.EffectiveColorFilter())
	}
}

func TestPaintInvertColorsKeepsOriginal(t *testing.T) {
	r, _, _ := newTestResources(t)
	user := r.NewBlendColorFilter(ARGB(255, 255, 0, 0), BlendSrcIn)

	p := r.NewPaint()
	p.SetColorFilter(user)

	for i := range 4 {
		p.SetInvertColors(i%2 == 0)
		if p.ColorFilter() != user {
			t.Fatalf("toggle %d: ColorFilter() = %v, want the user filter", i, p.ColorFilter())
		}
		eff := p.EffectiveColorFilter()
		if p.InvertColors() {
			d := eff.Desc()
			if d.Kind != ColorFilterCompose || d.Inner != user || d.Outer.Desc().Kind != ColorFilterMatrix {
				t.Fatalf("toggle %d: effective = %v, want compose(invert, user)", i, eff)
			}
		} else if eff != user {
			t.Fatalf("toggle %d: effective = %v, want user filter", i, eff)
		}
	}
}

func TestPaintSetColorFilterWhileInverted(t *testing.T) {
	r, _, _ := newTestResources(t)
	p := r.NewPaint()
	p.SetInvertColors(true)

	user := r.NewMatrixColorFilter(IdentityColorMatrix)
	p.SetColorFilter(user)

	d := p.EffectiveColorFilter().Desc()
	if d.Kind != ColorFilterCompose || d.Inner != user {
		t.Errorf("effective = %v, want compose(invert, user)", p.EffectiveColorFilter())
	}

	p.SetColorFilter(nil)
	if d := p.EffectiveColorFilter().Desc(); d.Kind != ColorFilterMatrix {
		t.Errorf("effective kind = %v, want bare invert matrix", d.Kind)
	}
}

func TestPaintFromDesc(t *testing.T) {
	r, _, _ := newTestResources(t)
	user := r.NewBlendColorFilter(White, BlendSrc)

	d := DefaultPaintDesc()
	d.ColorFilter = user
	d.InvertColors = true
	p := r.NewPaintFromDesc(d)

	if p.ColorFilter() != user {
		t.Errorf("ColorFilter() = %v, want user filter", p.ColorFilter())
	}
	if got := p.EffectiveColorFilter().Desc().Kind; got != ColorFilterCompose {
		t.Errorf("effective kind = %v, want compose", got)
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

func TestSceneBuilderRejectsInvalidInput(t *testing.T) {
	nan := math.NaN()
	pic := rectPicture(geom.LTWH(0, 0, 10, 10))

	tests := []struct {
		name  string
		build func(b *SceneBuilder)
		want  error
	}{
		{"nan offset", func(b *SceneBuilder) { b.PushOffset(nan, 0) }, ErrInvalidGeometry},
		{"inf matrix", func(b *SceneBuilder) { b.PushTransform(geom.Scaling(math.Inf(1), 1)) }, ErrInvalidGeometry},
		{"nan clip rect", func(b *SceneBuilder) { b.PushClipRect(geom.LTRB(0, 0, nan, 1), gfx.ClipHardEdge) }, ErrInvalidGeometry},
		{"clip none", func(b *SceneBuilder) { b.PushClipRect(geom.LTRB(0, 0, 1, 1), gfx.ClipNone) }, ErrClipNone},
		{"rrect clip none", func(b *SceneBuilder) { b.PushClipRRect(geom.RRectXY(geom.LTRB(0, 0, 1, 1), 1, 1), gfx.ClipNone) }, ErrClipNone},
		{"nil clip path", func(b *SceneBuilder) { b.PushClipPath(nil, gfx.ClipAntiAlias) }, ErrNilResource},
		{"nan opacity offset", func(b *SceneBuilder) { b.PushOpacity(1, geom.Offset{Y: nan}) }, ErrInvalidGeometry},
		{"nil color filter", func(b *SceneBuilder) { b.PushColorFilter(nil) }, ErrNilResource},
		{"nil image filter", func(b *SceneBuilder) { b.PushImageFilter(nil) }, ErrNilResource},
		{"nil backdrop", func(b *SceneBuilder) { b.PushBackdropFilter(nil, gfx.BlendSrcOver) }, ErrNilResource},
		{"nil shader", func(b *SceneBuilder) { b.PushShaderMask(nil, geom.LTRB(0, 0, 1, 1), gfx.BlendSrcOver, gfx.FilterLow) }, ErrNilResource},
		{"negative elevation", func(b *SceneBuilder) {
			b.PushPhysicalShape(gfx.RectPath(geom.LTRB(0, 0, 1, 1)), -1, gfx.White, gfx.Black, gfx.ClipNone)
		}, ErrInvalidGeometry},
		{"nil picture", func(b *SceneBuilder) { b.AddPicture(geom.Offset{}, nil, false, false) }, ErrNilResource},
		{"negative view size", func(b *SceneBuilder) { b.AddPlatformView(1, geom.Offset{}, geom.Size{Width: -1}) }, ErrInvalidGeometry},
		{"nil retained", func(b *SceneBuilder) { b.AddRetained(nil) }, ErrNilResource},
		{"bad frame size", func(b *SceneBuilder) { WithFrameSize(geom.Size{Width: nan})(b) }, ErrInvalidGeometry},
		{"bad dpr", func(b *SceneBuilder) { WithDevicePixelRatio(0)(b) }, ErrInvalidGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewSceneBuilder()
			tt.build(b)
			// Valid calls after the failure are fine but do not clear it.
			b.AddPicture(geom.Offset{}, pic, false, false)
			b.Pop()
			tree, err := b.Build()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Build() error = %v, want %v", err, tt.want)
			}
			if tree != nil {
				t.Error("Build() returned a tree with an error")
			}
		})
	}
}

func TestSceneBuilderKeepsFirstError(t *testing.T) {
	b := NewSceneBuilder()
	b.PushClipPath(nil, gfx.ClipHardEdge)
	b.PushOffset(math.NaN(), 0)
	if err := b.Err(); !errors.Is(err, ErrNilResource) {
		t.Errorf("Err() = %v, want ErrNilResource", err)
	}
	if b.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2 after rejected pushes", b.Depth())
	}
}

func TestSceneBuilderRejectedPushKeepsPopsPaired(t *testing.T) {
	b := NewSceneBuilder()
	outer := b.PushOffset(1, 1)
	if l := b.PushOpacity(1, geom.Offset{X: math.Inf(-1)}); l != nil {
		t.Fatalf("PushOpacity() = %v, want nil", l)
	}
	b.AddPicture(geom.Offset{}, rectPicture(geom.LTWH(0, 0, 1, 1)), false, false)
	b.Pop()
	b.AddPicture(geom.Offset{}, rectPicture(geom.LTWH(0, 0, 1, 1)), false, false)

	if n := len(outer.Children()); n != 1 {
		t.Errorf("outer children = %d, want 1 (the picture after Pop)", n)
	}
}

func TestSceneBuilderPopAtRoot(t *testing.T) {
	b := NewSceneBuilder()
	b.Pop()
	b.Pop()
	b.AddPicture(geom.Offset{}, rectPicture(geom.LTWH(0, 0, 1, 1)), false, false)
	tree, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if n := len(tree.Root.Children()); n != 1 {
		t.Errorf("root children = %d, want 1", n)
	}
}

func TestSceneBuilderBuildOnce(t *testing.T) {
	b := NewSceneBuilder(WithFrameSize(geom.Size{Width: 10, Height: 20}), WithDevicePixelRatio(3))
	tree, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if tree.DevicePixelRatio != 3 || tree.Bounds() != geom.LTRB(0, 0, 10, 20) {
		t.Errorf("tree = %+v", tree)
	}
	if _, err := b.Build(); !errors.Is(err, ErrBuilt) {
		t.Errorf("second Build() error = %v, want ErrBuilt", err)
	}
	b.PushOffset(1, 1)
	if !errors.Is(b.Err(), ErrBuilt) {
		t.Errorf("push after Build: Err() = %v, want ErrBuilt", b.Err())
	}
}

func TestSceneBuilderParents(t *testing.T) {
	b := NewSceneBuilder()
	clip := b.PushClipRect(geom.LTRB(0, 0, 10, 10), gfx.ClipHardEdge)
	pic := b.AddPicture(geom.Offset{}, rectPicture(geom.LTWH(0, 0, 1, 1)), false, false)
	b.Pop()
	tree, _ := b.Build()

	if pic.Parent() != Layer(clip) {
		t.Errorf("picture parent = %v, want the clip layer", pic.Parent())
	}
	if clip.Parent() != Layer(tree.Root) {
		t.Errorf("clip parent = %v, want root", clip.Parent())
	}
	if tree.Root.Parent() != nil {
		t.Error("root has a parent")
	}
}

func TestSceneBuilderAddRetained(t *testing.T) {
	first := NewSceneBuilder()
	off := first.PushOffset(4, 4)
	first.AddPicture(geom.Offset{}, rectPicture(geom.LTWH(0, 0, 5, 5)), false, false)
	first.Pop()
	old, err := first.Build()
	if err != nil {
		t.Fatal(err)
	}
	old.Preroll(&Frame{}, true)

	next := NewSceneBuilder()
	next.PushOpacity(10, geom.Offset{})
	next.AddRetained(off)
	next.Pop()
	tree, err := next.Build()
	if err != nil {
		t.Fatal(err)
	}

	if len(old.Root.Children()) != 0 {
		t.Error("retained layer still attached to the old tree")
	}
	if off.Parent() == nil || off.Parent().Kind() != KindOpacity {
		t.Errorf("retained parent = %v, want the opacity layer", off.Parent())
	}
	tree.Preroll(&Frame{}, true)
	if got := tree.Root.PaintBounds(); got != geom.LTRB(4, 4, 9, 9) {
		t.Errorf("PaintBounds() = %v, want [4, 4, 9, 9]", got)
	}
}

func TestAddChildTwicePanics(t *testing.T) {
	if !debugAssertions {
		t.Skip("assertions compiled out")
	}
	a, b := NewContainerLayer(), NewContainerLayer()
	child := NewPictureLayer(rectPicture(geom.LTWH(0, 0, 1, 1)), geom.Offset{}, false, false)
	a.Add(child)
	defer func() {
		if recover() == nil {
			t.Error("adding a parented layer did not panic")
		}
	}()
	b.Add(child)
}

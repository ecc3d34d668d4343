// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scenefile

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
	"github.com/gogpu/flute/layer"
	"github.com/gogpu/flute/rastercache"
	"github.com/gogpu/flute/recording"
)

func mustParse(t *testing.T, src string) *Scene {
	t.Helper()
	s, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func kinds(tree *layer.LayerTree) []string {
	var out []string
	for l := range layer.All(tree.Root) {
		out = append(out, l.Kind().String())
	}
	return out
}

// ============================================================================
// Parse
// ============================================================================

func TestParse_Defaults(t *testing.T) {
	s := mustParse(t, "")
	if s.Frame.Width != DefaultWidth || s.Frame.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", s.Frame.Width, s.Frame.Height, DefaultWidth, DefaultHeight)
	}
	if s.Frame.DPR != 1 {
		t.Errorf("DPR = %v, want 1", s.Frame.DPR)
	}
	if s.Frame.Backend != DefaultBackend {
		t.Errorf("Backend = %q, want %q", s.Frame.Backend, DefaultBackend)
	}
	if s.Background() != gfx.Transparent {
		t.Errorf("Background() = %v, want transparent", s.Background())
	}
	if len(s.CacheOptions()) != 0 {
		t.Errorf("CacheOptions() = %d options, want none", len(s.CacheOptions()))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown key", "[frame]\nwidht = 10\n", ErrUnknownKey},
		{"negative size", "[frame]\nwidth = -1\n", ErrBadValue},
		{"negative threshold", "[cache]\nthreshold = -2\n", ErrBadValue},
		{"bad background", "[frame]\nbackground = \"#zzz\"\n", ErrBadColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Parse([]byte("[frame\n")); err == nil {
		t.Error("Parse(malformed) = nil error")
	}
}

func TestLoad_Testdata(t *testing.T) {
	s, err := Load("testdata/card.toml")
	if err != nil {
		t.Fatal(err)
	}
	if s.Frame.Width != 160 || s.Frame.Height != 120 {
		t.Errorf("size = %dx%d, want 160x120", s.Frame.Width, s.Frame.Height)
	}
	if s.Background() != gfx.White {
		t.Errorf("Background() = %v, want white", s.Background())
	}
	if len(s.CacheOptions()) != 2 {
		t.Errorf("CacheOptions() = %d options, want 2", len(s.CacheOptions()))
	}

	tree, err := s.Build(gfx.Default())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Root", "PhysicalShape", "Picture", "Opacity", "Picture", "ClipRect", "ColorFilter", "Picture", "PlatformView"}
	if got := kinds(tree); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("kinds = %v, want %v", got, want)
	}
	if tree.FrameSize != (geom.Size{Width: 160, Height: 120}) {
		t.Errorf("FrameSize = %v", tree.FrameSize)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load("testdata/missing.toml"); err == nil {
		t.Error("Load(missing) = nil error")
	}
}

func TestCacheOptions(t *testing.T) {
	s := mustParse(t, "[cache]\nthreshold = 1\nbudget_mb = 1\n")
	c := rastercache.New(nil, s.CacheOptions()...)
	if got := c.Stats().MaxSize; got != 1<<20 {
		t.Errorf("MaxSize = %d, want %d", got, 1<<20)
	}
}

// ============================================================================
// Build
// ============================================================================

func TestBuild_Kinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"offset", "kind = \"offset\"\noffset = [1, 2]", "Offset"},
		{"transform", "kind = \"transform\"\nrotate = 90\nscale = [2, 2]", "Transform"},
		{"matrix", "kind = \"transform\"\nmatrix = [1, 0, 0, 1, 5, 5]", "Transform"},
		{"clip rect", "kind = \"clip_rect\"\nrect = [0, 0, 10, 10]", "ClipRect"},
		{"clip rrect", "kind = \"clip_rrect\"\nrect = [0, 0, 10, 10]\nradius = 2", "ClipRRect"},
		{"clip path", "kind = \"clip_path\"\npoints = [0, 0, 10, 0, 5, 5]", "ClipPath"},
		{"opacity", "kind = \"opacity\"\nalpha = 10", "Opacity"},
		{"tint", "kind = \"color_filter\"\ntint = \"red\"", "ColorFilter"},
		{"blur", "kind = \"image_filter\"\nblur = 2", "ImageFilter"},
		{"backdrop", "kind = \"backdrop_filter\"\nblur = 2\nblend = \"multiply\"", "BackdropFilter"},
		{"shader mask", "kind = \"shader_mask\"\nrect = [0, 0, 10, 10]\ncolors = [\"white\", \"black\"]", "ShaderMask"},
		{"physical shape", "kind = \"physical_shape\"\nrect = [0, 0, 10, 10]\ncolor = \"gray\"\nelevation = 2", "PhysicalShape"},
		{"platform view", "kind = \"platform_view\"\nview_id = 3\nsize = [5, 5]", "PlatformView"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustParse(t, "[[layer]]\n"+tt.src+"\n")
			tree, err := s.Build(gfx.Default())
			if err != nil {
				t.Fatal(err)
			}
			if got := kinds(tree); len(got) != 2 || got[1] != tt.want {
				t.Errorf("kinds = %v, want [Root %s]", got, tt.want)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown kind", "kind = \"sprite\"", ErrUnknownKind},
		{"short rect", "kind = \"clip_rect\"\nrect = [0, 0, 10]", ErrBadValue},
		{"alpha range", "kind = \"opacity\"\nalpha = 300", ErrBadValue},
		{"empty filter", "kind = \"image_filter\"", ErrBadValue},
		{"bad tint", "kind = \"color_filter\"\ntint = \"#12\"", ErrBadColor},
		{"unknown op", "kind = \"picture\"\n[[layer.op]]\nop = \"circle\"", ErrUnknownOp},
		{"bad style", "kind = \"picture\"\n[[layer.op]]\nop = \"rect\"\nrect = [0, 0, 1, 1]\nstyle = \"dashed\"", ErrBadValue},
		{"nan offset", "kind = \"offset\"\noffset = [nan, 0]", layer.ErrInvalidGeometry},
		{"clip none", "kind = \"clip_rect\"\nrect = [0, 0, 1, 1]\nclip = \"none\"", layer.ErrClipNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustParse(t, "[[layer]]\n"+tt.src+"\n")
			_, err := s.Build(gfx.Default())
			if !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuild_PictureCull(t *testing.T) {
	s := mustParse(t, `
[[layer]]
kind = "picture"

  [[layer.op]]
  op = "rect"
  rect = [10, 10, 20, 5]

  [[layer.op]]
  op = "rect"
  rect = [0, 20, 5, 5]
  style = "stroke"
  stroke_width = 2
`)
	tree, err := s.Build(gfx.Default())
	if err != nil {
		t.Fatal(err)
	}
	pl := tree.Root.Children()[0].(*layer.PictureLayer)
	pic := pl.Picture.(*recording.Picture)
	if got, want := pic.CullRect(), geom.LTRB(-1, 10, 30, 26); got != want {
		t.Errorf("CullRect() = %v, want %v", got, want)
	}
	if pic.OpCount() != 2 {
		t.Errorf("OpCount() = %d, want 2", pic.OpCount())
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want gfx.Color
		err  bool
	}{
		{"#ff0000", gfx.ARGB(255, 255, 0, 0), false},
		{"#80ff0000", gfx.ARGB(128, 255, 0, 0), false},
		{"#0f0", gfx.ARGB(255, 0, 255, 0), false},
		{"White", gfx.White, false},
		{"transparent", gfx.Transparent, false},
		{"navy", gfx.ARGB(255, 0, 0, 128), false},
		{"#12345", 0, true},
		{"ff0000", 0, true},
		{"#gg0000", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.err {
				t.Fatalf("ParseColor(%q) error = %v, want error %v", tt.in, err, tt.err)
			}
			if !tt.err && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	m, err := transform(&Layer{Translate: []float64{10, 0}, Scale: []float64{2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	if x, y := m.TransformPoint(1, 1); x != 12 || y != 3 {
		t.Errorf("TransformPoint(1, 1) = (%v, %v), want (12, 3)", x, y)
	}

	m, err = transform(&Layer{Matrix: []float64{1, 0, 0, 1, 4, 5}})
	if err != nil {
		t.Fatal(err)
	}
	if m != geom.Translation(4, 5) {
		t.Errorf("matrix = %v, want translation (4, 5)", m)
	}

	if _, err := transform(&Layer{Matrix: []float64{1, 2}}); !errors.Is(err, ErrBadValue) {
		t.Errorf("short matrix error = %v", err)
	}
}

func TestBlendAndClipNames(t *testing.T) {
	if got := blendMode("Multiply"); got != gfx.BlendMultiply {
		t.Errorf("blendMode(Multiply) = %v", got)
	}
	if got := blendMode("nope"); got != gfx.BlendSrcOver {
		t.Errorf("blendMode(nope) = %v", got)
	}
	if got := clipBehavior("antiAliasWithSaveLayer"); got != gfx.ClipAntiAliasWithSaveLayer {
		t.Errorf("clipBehavior = %v", got)
	}
	if got := clipBehavior(""); got != gfx.ClipHardEdge {
		t.Errorf("clipBehavior(\"\") = %v, want hardEdge", got)
	}
}

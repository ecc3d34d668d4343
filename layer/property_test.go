// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"math/rand/v2"
	"testing"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
	"github.com/gogpu/flute/recording"
)

// treeGen builds random layer trees from axis-aligned transforms so that
// rect bounds stay exact under composition.
type treeGen struct {
	rng   *rand.Rand
	nodes int

	// unscaled keeps every transform a translation. Shadow bounds depend on
	// the scale they were prerolled at.
	unscaled bool
}

func (g *treeGen) coord(n int) float64 {
	return float64(g.rng.IntN(n))
}

func (g *treeGen) rect() geom.Rect {
	l, t := g.coord(200)-50, g.coord(200)-50
	return geom.LTWH(l, t, 1+g.coord(120), 1+g.coord(120))
}

func (g *treeGen) behavior() gfx.ClipBehavior {
	return gfx.ClipBehavior(1 + g.rng.IntN(3))
}

func (g *treeGen) fill(b *SceneBuilder, depth int) {
	children := 1 + g.rng.IntN(3)
	for range children {
		g.nodes++
		if depth == 0 || g.nodes > 40 || g.rng.IntN(4) == 0 {
			b.AddPicture(geom.Offset{X: g.coord(30), Y: g.coord(30)}, rectPicture(g.rect()), false, false)
			continue
		}
		switch g.rng.IntN(9) {
		case 0:
			b.PushClipRect(g.rect(), g.behavior())
		case 1:
			b.PushClipRRect(geom.RRectXY(g.rect(), 4, 4), g.behavior())
		case 2:
			b.PushClipPath(gfx.RectPath(g.rect()), g.behavior())
		case 3:
			b.PushOpacity(uint8(g.rng.IntN(256)), geom.Offset{X: g.coord(20), Y: g.coord(20)})
		case 4:
			b.PushOffset(g.coord(40)-20, g.coord(40)-20)
		case 5:
			s := []float64{0.5, 1, 2}[g.rng.IntN(3)]
			if g.unscaled {
				s = 1
			}
			b.PushTransform(geom.Translation(g.coord(20), g.coord(20)).Multiply(geom.Scaling(s, s)))
		case 6:
			b.PushImageFilter(gfx.NewBlurImageFilter(1, 1, gfx.TileClamp))
		case 7:
			b.PushShaderMask(gfx.NewColorShader(gfx.White), g.rect(), gfx.BlendDstIn, gfx.FilterLow)
		default:
			elevation := float64(g.rng.IntN(3) * 4)
			behavior := gfx.ClipBehavior(g.rng.IntN(4))
			b.PushPhysicalShape(gfx.RectPath(g.rect()), elevation, gfx.White, gfx.Black, behavior)
		}
		g.fill(b, depth-1)
		b.Pop()
	}
}

func TestPaintStaysWithinPaintBounds(t *testing.T) {
	for seed := range uint64(200) {
		g := &treeGen{rng: rand.New(rand.NewPCG(seed, 0x5eed))}
		b := NewSceneBuilder()
		g.fill(b, 4)
		tree, err := b.Build()
		if err != nil {
			t.Fatalf("seed %d: Build() error = %v", seed, err)
		}

		rec := recording.BeginRecording(geom.Largest())
		f := &Frame{Canvas: rec}
		tree.Preroll(f, true)
		if tree.Root.NeedsPainting() {
			tree.Paint(f, true)
		}

		bounds := tree.Root.PaintBounds()
		if drawn := rec.Bounds(); !bounds.Inflate(1e-6).Contains(drawn) {
			t.Errorf("seed %d: drawn %v outside paint bounds %v\n%s", seed, drawn, bounds, Describe(tree.Root))
		}
		if got := rec.SaveCount(); got != 1 {
			t.Errorf("seed %d: SaveCount() = %d after paint, want 1", seed, got)
		}
	}
}

func TestEveryLayerStaysWithinItsBounds(t *testing.T) {
	for seed := range uint64(50) {
		g := &treeGen{rng: rand.New(rand.NewPCG(seed, 0xb0b)), unscaled: true}
		b := NewSceneBuilder()
		g.fill(b, 3)
		tree, err := b.Build()
		if err != nil {
			t.Fatal(err)
		}
		tree.Preroll(&Frame{}, true)

		// Paint each container on its own, in its parent's space.
		for l := range All(tree.Root) {
			if !l.NeedsPainting() {
				continue
			}
			rec := recording.BeginRecording(geom.Largest())
			l.Paint(&PaintContext{InternalNodes: NewNWayCanvas(rec), LeafNodes: rec, generation: tree.generation})
			if drawn := rec.Bounds(); !l.PaintBounds().Inflate(1e-6).Contains(drawn) {
				t.Errorf("seed %d: %v drew %v outside %v", seed, l.Kind(), drawn, l.PaintBounds())
			}
		}
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// NWayCanvas fans every state operation out to an ordered list of canvases:
// the root canvas and the overlay canvases of platform views. Leaf drawing is
// deliberately absent; leaf content goes to exactly one canvas.
//
// Each canvas may start at a different save count. NWayCanvas checks that
// every canvas moves by the same number of saves relative to where it
// started.
type NWayCanvas struct {
	canvases []gfx.NodeCanvas
	base     []int
}

var _ gfx.NodeCanvas = (*NWayCanvas)(nil)

// NewNWayCanvas creates a multi-canvas over canvases.
func NewNWayCanvas(canvases ...gfx.NodeCanvas) *NWayCanvas {
	n := &NWayCanvas{}
	for _, c := range canvases {
		n.AddCanvas(c)
	}
	return n
}

// AddCanvas appends c. Nil canvases are ignored.
func (n *NWayCanvas) AddCanvas(c gfx.NodeCanvas) {
	if c == nil {
		return
	}
	n.canvases = append(n.canvases, c)
	n.base = append(n.base, c.SaveCount())
}

// Canvases returns the underlying canvases in order.
func (n *NWayCanvas) Canvases() []gfx.NodeCanvas {
	return n.canvases
}

// Len returns the number of underlying canvases.
func (n *NWayCanvas) Len() int {
	return len(n.canvases)
}

// Save implements gfx.NodeCanvas. It returns the save count of the first
// canvas before the push, or 1 when there are no canvases.
func (n *NWayCanvas) Save() int {
	count := n.SaveCount()
	for _, c := range n.canvases {
		c.Save()
	}
	return count
}

// SaveLayer implements gfx.NodeCanvas.
func (n *NWayCanvas) SaveLayer(bounds *geom.Rect, p *gfx.Paint) {
	for _, c := range n.canvases {
		c.SaveLayer(bounds, p)
	}
}

// SaveLayerWithFilter implements gfx.NodeCanvas.
func (n *NWayCanvas) SaveLayerWithFilter(bounds *geom.Rect, p *gfx.Paint, backdrop *gfx.ImageFilter) {
	for _, c := range n.canvases {
		c.SaveLayerWithFilter(bounds, p, backdrop)
	}
}

// Restore implements gfx.NodeCanvas.
func (n *NWayCanvas) Restore() {
	for _, c := range n.canvases {
		c.Restore()
	}
}

// RestoreToCount implements gfx.NodeCanvas. count is interpreted against
// the first canvas; the others pop by the same depth.
func (n *NWayCanvas) RestoreToCount(count int) {
	if len(n.canvases) == 0 {
		return
	}
	depth := n.canvases[0].SaveCount() - count
	for i, c := range n.canvases {
		c.RestoreToCount(max(c.SaveCount()-depth, n.base[i]))
	}
}

// SaveCount implements gfx.NodeCanvas. It reports the first canvas and,
// with assertions on, verifies the others moved in lockstep.
func (n *NWayCanvas) SaveCount() int {
	if len(n.canvases) == 0 {
		return 1
	}
	first := n.canvases[0].SaveCount()
	if debugAssertions {
		depth := first - n.base[0]
		for i, c := range n.canvases[1:] {
			d := c.SaveCount() - n.base[i+1]
			assertf(d == depth, "canvas %d save depth %d, want %d", i+1, d, depth)
		}
	}
	return first
}

// Depth returns how many saves the first canvas is above where it was added.
func (n *NWayCanvas) Depth() int {
	if len(n.canvases) == 0 {
		return 0
	}
	return n.canvases[0].SaveCount() - n.base[0]
}

// Translate implements gfx.NodeCanvas.
func (n *NWayCanvas) Translate(dx, dy float64) {
	for _, c := range n.canvases {
		c.Translate(dx, dy)
	}
}

// Transform implements gfx.NodeCanvas.
func (n *NWayCanvas) Transform(m geom.Matrix4) {
	for _, c := range n.canvases {
		c.Transform(m)
	}
}

// ClipRect implements gfx.NodeCanvas.
func (n *NWayCanvas) ClipRect(r geom.Rect, op gfx.ClipOp, antiAlias bool) {
	for _, c := range n.canvases {
		c.ClipRect(r, op, antiAlias)
	}
}

// ClipRRect implements gfx.NodeCanvas.
func (n *NWayCanvas) ClipRRect(rr geom.RRect, antiAlias bool) {
	for _, c := range n.canvases {
		c.ClipRRect(rr, antiAlias)
	}
}

// ClipPath implements gfx.NodeCanvas.
func (n *NWayCanvas) ClipPath(p gfx.Path, antiAlias bool) {
	for _, c := range n.canvases {
		c.ClipPath(p, antiAlias)
	}
}

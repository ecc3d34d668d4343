// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package embedder

import (
	"encoding/json"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/internal/lis"
	"github.com/gogpu/flute/layer"
	"github.com/gogpu/flute/recording"
)

// Composition is the result of one submitted frame.
type Composition struct {
	FrameID uint64 `json:"frameId"`

	// Views lists the composited views bottom to top.
	Views []Placement `json:"views"`

	// Diff is the change in view order since the previous frame.
	Diff Diff `json:"diff"`
}

// JSON encodes the composition for a platform host.
func (c *Composition) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// Placement is the resolved geometry of one view. Coordinates are in device
// space.
type Placement struct {
	ViewID int64 `json:"viewId"`

	// X, Y, Width and Height bound the view after its transform.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Transform geom.Matrix4 `json:"transform"`
	Opacity   float64      `json:"opacity"`

	ClipLeft   float64 `json:"clipLeft"`
	ClipTop    float64 `json:"clipTop"`
	ClipRight  float64 `json:"clipRight"`
	ClipBottom float64 `json:"clipBottom"`
	HasClip    bool    `json:"hasClip,omitempty"`

	// Visible is false when the view is clipped away or fully transparent.
	Visible bool `json:"visible"`

	// Overlay holds the content painted above the view, or nil when the
	// view had no overlay.
	Overlay *recording.Picture `json:"-"`
}

// Bounds returns the placement rectangle.
func (p Placement) Bounds() geom.Rect {
	return geom.LTWH(p.X, p.Y, p.Width, p.Height)
}

// Clip returns the clip rectangle and whether the view is clipped.
func (p Placement) Clip() (geom.Rect, bool) {
	return geom.LTRB(p.ClipLeft, p.ClipTop, p.ClipRight, p.ClipBottom), p.HasClip
}

func place(id int64, params layer.EmbeddedViewParams) Placement {
	m := params.Mutators.Matrix()
	bounds := geom.TransformRect(m, geom.FromOffsetSize(params.Offset, params.Size))
	p := Placement{
		ViewID:    id,
		X:         bounds.Left,
		Y:         bounds.Top,
		Width:     bounds.Width(),
		Height:    bounds.Height(),
		Transform: m,
		Opacity:   params.Mutators.Opacity(),
	}

	visible := bounds
	if clip := params.Mutators.DeviceCullRect(); !clip.IsLargest() {
		p.HasClip = true
		p.ClipLeft, p.ClipTop, p.ClipRight, p.ClipBottom = clip.Left, clip.Top, clip.Right, clip.Bottom
		visible = visible.Intersect(clip)
	}
	p.Visible = !visible.IsEmpty() && p.Opacity > 0
	return p
}

// Diff describes how the view order changed between two frames.
type Diff struct {
	// Added views were not composited in the previous frame.
	Added []int64 `json:"added,omitempty"`

	// Moved views changed their position relative to the other views that
	// stayed. Views in the longest run that kept its relative order are not
	// moved.
	Moved []int64 `json:"moved,omitempty"`

	// Removed views were composited in the previous frame only.
	Removed []int64 `json:"removed,omitempty"`
}

// IsZero reports whether the order did not change.
func (d Diff) IsZero() bool {
	return len(d.Added) == 0 && len(d.Moved) == 0 && len(d.Removed) == 0
}

// diffOrder compares two bottom-to-top view orders. Added and Moved follow
// cur, Removed follows prev.
func diffOrder(prev, cur []int64) Diff {
	var d Diff
	prevPos := make(map[int64]int, len(prev))
	for i, id := range prev {
		prevPos[id] = i
	}
	inCur := make(map[int64]bool, len(cur))
	for _, id := range cur {
		inCur[id] = true
	}
	for _, id := range prev {
		if !inCur[id] {
			d.Removed = append(d.Removed, id)
		}
	}

	var kept []int64
	var positions []int
	for _, id := range cur {
		pos, ok := prevPos[id]
		if !ok {
			d.Added = append(d.Added, id)
			continue
		}
		kept = append(kept, id)
		positions = append(positions, pos)
	}

	stay := lis.Indices(positions)
	next := 0
	for i, id := range kept {
		if next < len(stay) && stay[next] == i {
			next++
			continue
		}
		d.Moved = append(d.Moved, id)
	}
	return d
}

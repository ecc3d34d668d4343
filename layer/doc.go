// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layer implements the retained layer tree and its two-pass frame
// protocol.
//
// A frame walks the tree twice. Preroll runs top-down with a
// [PrerollContext], pushing each layer's clip, transform or opacity onto a
// [MutatorsStack] and computing every layer's paint bounds bottom-up, in the
// parent's coordinate space. Paint then walks the tree again in child order,
// issuing state operations on an [NWayCanvas] (the root canvas plus any
// platform-view overlay canvases) and leaf drawing on a single current leaf
// canvas. A platform view swaps the leaf canvas for the overlay that sits
// above it, so content painted after the view lands on top of it.
//
// Trees are normally built with a [SceneBuilder], which rejects invalid
// geometry before any traversal starts:
//
//	b := layer.NewSceneBuilder()
//	b.PushClipRect(geom.LTRB(0, 0, 100, 100), gfx.ClipHardEdge)
//	b.PushOpacity(128, geom.Offset{})
//	b.AddPicture(geom.Offset{}, pic, false, false)
//	tree, err := b.Build()
//
// Contract violations such as painting before preroll or popping an empty
// mutator stack panic. Build with the flute_release tag to compile these
// checks out.
package layer

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package flute is a retained-mode compositing layer for 2D graphics.
//
// # Overview
//
// An application describes each frame as a tree of layers: clips, transforms,
// opacity, filters, recorded pictures and embedded platform views. The tree
// is built once per frame, prerolled to compute paint bounds and caching
// decisions, and then painted into a target canvas. Platform views are
// interleaved with native drawing by switching the leaf canvas during a single
// paint traversal.
//
// # Packages
//
//   - geom: rectangles, offsets and 4x4 matrices
//   - layer: the layer tree, preroll/paint protocol, mutator stack and N-way canvas
//   - gfx: the graphics backend boundary plus managed paints and filters
//   - managed: resurrectable native objects and the deferred collection queue
//   - recording: the picture recorder used to build display lists
//   - rastercache: an LRU raster cache for pictures
//   - embedder: the platform-view compositor
//   - semantics: the semantics tree with minimal-move child reconciliation
//   - intervaltree, fontfallback: code point to font lookup
//   - raster, backend/ebitengine: concrete backends
//
// The flute command (cmd/flute) renders, inspects and animates TOML scenes.
//
// # Quick Start
//
//	b := layer.NewSceneBuilder()
//	b.PushClipRect(geom.LTRB(0, 0, 100, 100), gfx.ClipHardEdge)
//	b.PushOpacity(128, geom.Offset{})
//	b.AddPicture(geom.Offset{}, pic, false, false)
//	b.Pop()
//	b.Pop()
//	tree, err := b.Build()
//	if err != nil {
//	    return err
//	}
//	frame := &layer.Frame{Canvas: canvas}
//	tree.Preroll(frame, false)
//	tree.Paint(frame, false)
//
// # Logging
//
// flute is silent by default. Call SetLogger to route diagnostics to a
// log/slog logger.
package flute

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)

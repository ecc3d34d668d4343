// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package recording records canvas operations into immutable pictures.
//
// A [Recorder] implements gfx.Canvas. Instead of rasterizing, it appends a
// typed [Command] per call, keeps the save stack and current transform like
// a real canvas would, and accumulates the device-space bounds of everything
// drawn. [Recorder.EndRecording] returns a [Picture] that can be replayed
// onto any gfx.Canvas.
//
// Commands are plain structs so tests can inspect what a layer tree painted:
//
//	rec := recording.BeginRecording(geom.LTWH(0, 0, 100, 100))
//	tree.Paint(layer.Frame{Canvas: rec}, false)
//	for _, op := range rec.EndRecording().Ops() {
//	    fmt.Println(op) // save, clipRect([0, 0, 100, 100]), ...
//	}
package recording

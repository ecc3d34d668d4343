// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gfx is the boundary between the compositor and a graphics backend.
//
// It defines the canvas surface layers draw into ([NodeCanvas] for
// save/clip/transform, [Canvas] for leaf drawing), recorded [Picture]s and
// [Image]s, and the managed value objects layers hand to a canvas: [Paint],
// [ColorFilter], [ImageFilter] and [Shader].
//
// Value objects keep an immutable description next to a lazily created
// native resource (see package managed). The native is built by a [Backend]
// the first time a canvas asks for it, may be deleted at any time, and is
// rebuilt from the description on the next use. Natives whose wrapper
// becomes unreachable are handed to the [Resources] collector, which deletes
// them on a deferred callback.
//
// Backends register themselves by name, in the style of database/sql drivers:
//
//	import _ "github.com/gogpu/flute/raster"
//
//	b := gfx.MustBackend("raster")
//	gfx.SetDefault(gfx.NewResources(b))
package gfx

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package geom provides the geometry used by the layer tree: axis-aligned
// rectangles, rounded rectangles, offsets, sizes and 4x4 transformation
// matrices.
//
// Rectangles use edge coordinates (left, top, right, bottom). A rectangle is
// empty when it has no area; empty rectangles are ignored by Union and absorb
// Intersect.
//
// TransformRect maps a rectangle through a matrix and returns the axis-aligned
// bounding box of the four transformed corners. The result conservatively
// covers rotated or skewed content; it is not a tight polygon.
package geom

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/managed"
)

// NativePaint is a backend paint object.
type NativePaint interface {
	managed.Deletable
}

// NativeColorFilter is a backend color filter object.
type NativeColorFilter interface {
	managed.Deletable
}

// NativeImageFilter is a backend image filter object.
type NativeImageFilter interface {
	managed.Deletable
}

// NativeShader is a backend shader object.
type NativeShader interface {
	managed.Deletable
}

// Backend builds native resources from descriptions.
//
// Constructors are called again with the same description after a native was
// deleted. They must return a behaviourally equivalent object each time.
type Backend interface {
	// Name identifies the backend in logs and the registry.
	Name() string

	NewNativePaint(desc PaintDesc) NativePaint
	NewNativeColorFilter(desc ColorFilterDesc) NativeColorFilter
	NewNativeImageFilter(desc ImageFilterDesc) NativeImageFilter
	NewNativeShader(desc ShaderDesc) NativeShader

	// ComputeShadowBounds returns the area touched by a shadow cast by path
	// at elevation, in the path's coordinate space, given the current
	// transform ctm.
	ComputeShadowBounds(path Path, elevation, dpr float64, ctm geom.Matrix4) geom.Rect
}

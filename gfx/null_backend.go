// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"errors"
	"sync/atomic"

	"github.com/gogpu/flute/geom"
)

// NullBackendName is the registry name of the null backend.
const NullBackendName = "null"

// ErrAlreadyDeleted is returned when a native is deleted twice.
var ErrAlreadyDeleted = errors.New("gfx: native already deleted")

// NullBackend realises every description as an inert native. It is the
// default backend, used when pictures are only recorded and never
// rasterized. It counts live natives.
type NullBackend struct {
	live    atomic.Int64
	created atomic.Int64
}

// NewNullBackend creates a null backend.
func NewNullBackend() *NullBackend {
	return &NullBackend{}
}

// Name implements Backend.
func (b *NullBackend) Name() string { return NullBackendName }

// NewNativePaint implements Backend.
func (b *NullBackend) NewNativePaint(PaintDesc) NativePaint { return b.newNative("paint") }

// NewNativeColorFilter implements Backend.
func (b *NullBackend) NewNativeColorFilter(ColorFilterDesc) NativeColorFilter {
	return b.newNative("colorFilter")
}

// NewNativeImageFilter implements Backend.
func (b *NullBackend) NewNativeImageFilter(ImageFilterDesc) NativeImageFilter {
	return b.newNative("imageFilter")
}

// NewNativeShader implements Backend.
func (b *NullBackend) NewNativeShader(ShaderDesc) NativeShader { return b.newNative("shader") }

// ComputeShadowBounds implements Backend using ShadowBounds.
func (b *NullBackend) ComputeShadowBounds(path Path, elevation, dpr float64, ctm geom.Matrix4) geom.Rect {
	return ShadowBounds(PathBounds(path), elevation, dpr, ctm)
}

// Live returns the number of natives created and not yet deleted.
func (b *NullBackend) Live() int {
	return int(b.live.Load())
}

// Created returns the number of natives ever created.
func (b *NullBackend) Created() int {
	return int(b.created.Load())
}

func (b *NullBackend) newNative(kind string) *NullNative {
	b.live.Add(1)
	b.created.Add(1)
	return &NullNative{kind: kind, owner: b}
}

// NullNative is the native type of NullBackend.
type NullNative struct {
	kind    string
	owner   *NullBackend
	deleted atomic.Bool
}

// Kind names the kind of description the native was built from.
func (n *NullNative) Kind() string { return n.kind }

// Delete implements managed.Deletable.
func (n *NullNative) Delete() error {
	if !n.deleted.CompareAndSwap(false, true) {
		return ErrAlreadyDeleted
	}
	n.owner.live.Add(-1)
	return nil
}

// IsDeleted implements managed.Deletable.
func (n *NullNative) IsDeleted() bool { return n.deleted.Load() }

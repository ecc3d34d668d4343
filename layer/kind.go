// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import "fmt"

// Kind identifies a concrete layer type.
type Kind uint8

// Layer kinds.
const (
	KindRoot Kind = iota
	KindContainer
	KindClipRect
	KindClipRRect
	KindClipPath
	KindOpacity
	KindTransform
	KindOffset
	KindImageFilter
	KindColorFilter
	KindBackdropFilter
	KindShaderMask
	KindPhysicalShape
	KindPicture
	KindPlatformView
)

var kindNames = [...]string{
	KindRoot:           "Root",
	KindContainer:      "Container",
	KindClipRect:       "ClipRect",
	KindClipRRect:      "ClipRRect",
	KindClipPath:       "ClipPath",
	KindOpacity:        "Opacity",
	KindTransform:      "Transform",
	KindOffset:         "Offset",
	KindImageFilter:    "ImageFilter",
	KindColorFilter:    "ColorFilter",
	KindBackdropFilter: "BackdropFilter",
	KindShaderMask:     "ShaderMask",
	KindPhysicalShape:  "PhysicalShape",
	KindPicture:        "Picture",
	KindPlatformView:   "PlatformView",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsContainer reports whether layers of this kind have children.
func (k Kind) IsContainer() bool {
	return k != KindPicture && k != KindPlatformView
}
